package archive

import (
	"encoding/xml"
	"time"
)

// InvalidRequestReply is the structured error document returned to the sender
// for any recoverable business failure.
type InvalidRequestReply struct {
	XMLName       xml.Name `xml:"urn:archivesim:archive:v1 invalidRequest"`
	ErrorID       string   `xml:"errorID"`
	CorrelationID string   `xml:"correlationID"`
	Message       string   `xml:"message"`
}

// SubmissionReceipt confirms an accepted submission. Folder-class submissions
// carry folder receipts, registration-class submissions registration receipts.
type SubmissionReceipt struct {
	XMLName              xml.Name              `xml:"urn:archivesim:archive:v1 submissionReceipt"`
	IssuedAt             time.Time             `xml:"issuedAt"`
	FolderReceipts       []FolderReceipt       `xml:"folderReceipt,omitempty"`
	RegistrationReceipts []RegistrationReceipt `xml:"registrationReceipt,omitempty"`
}

// FolderReceipt carries the generated identity assigned to an accepted folder.
// Its numbers are simulator placeholders, not authoritative archive values.
type FolderReceipt struct {
	SystemID       string    `xml:"systemID"`
	CreatedAt      time.Time `xml:"createdAt"`
	Year           int       `xml:"year"`
	SequenceNumber int       `xml:"sequenceNumber"`
}

// RegistrationReceipt carries the generated identity assigned to an accepted
// standalone registration.
type RegistrationReceipt struct {
	SystemID       string `xml:"systemID"`
	Year           int    `xml:"year"`
	SequenceNumber int    `xml:"sequenceNumber"`
	ItemNumber     int    `xml:"itemNumber"`
}

// SearchHit is one matched registration in a search result.
type SearchHit struct {
	Title        string        `xml:"title,omitempty"`
	Year         int           `xml:"year,omitempty"`
	SystemID     string        `xml:"systemID,omitempty"`
	ExternalKey  *ExternalKey  `xml:"externalKey,omitempty"`
	Registration *Registration `xml:"registration,omitempty"`
}

// SearchResult is the reply document for a search, shaped by detail level:
// minimal hits carry titles, keys hits carry identities, extended hits carry
// the full registration rows.
type SearchResult struct {
	XMLName xml.Name    `xml:"urn:archivesim:archive:v1 searchResult"`
	Detail  DetailLevel `xml:"responseDetail,attr"`
	Count   int         `xml:"count"`
	Hits    []SearchHit `xml:"hit,omitempty"`
}

// LookupResult is the reply document for a lookup-by-id hit.
type LookupResult struct {
	XMLName      xml.Name     `xml:"urn:archivesim:archive:v1 lookupResult"`
	Registration Registration `xml:"registration"`
}
