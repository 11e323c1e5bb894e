package archive

// Message type vocabulary recognized by the dispatcher. Types outside this
// vocabulary are discarded at the transport boundary without a reply.
const (
	TypeSubmission         = "no.archivesim.v1.archive-submission"
	TypeSubmissionReceived = "no.archivesim.v1.archive-submission-received"
	TypeSubmissionReceipt  = "no.archivesim.v1.archive-submission-receipt"

	TypeUpdate         = "no.archivesim.v1.archive-update"
	TypeUpdateReceived = "no.archivesim.v1.archive-update-received"
	TypeUpdateReceipt  = "no.archivesim.v1.archive-update-receipt"

	TypeSearch               = "no.archivesim.v1.search"
	TypeSearchResultMinimal  = "no.archivesim.v1.search-result-minimal"
	TypeSearchResultKeys     = "no.archivesim.v1.search-result-keys"
	TypeSearchResultExtended = "no.archivesim.v1.search-result-extended"

	TypeLookupByID   = "no.archivesim.v1.lookup-by-id"
	TypeLookupResult = "no.archivesim.v1.lookup-result"

	TypeInvalidRequest = "no.archivesim.v1.invalid-request"
)

// IsArchivingType reports whether messageType mutates archive state.
func IsArchivingType(messageType string) bool {
	return messageType == TypeSubmission || messageType == TypeUpdate
}

// IsInquiryType reports whether messageType only reads archive state.
func IsInquiryType(messageType string) bool {
	return messageType == TypeSearch || messageType == TypeLookupByID
}

// IsKnownType reports whether messageType belongs to the inbound vocabulary
// the dispatcher handles.
func IsKnownType(messageType string) bool {
	return IsArchivingType(messageType) || IsInquiryType(messageType)
}
