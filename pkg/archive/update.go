package archive

import "encoding/xml"

// UpdateRequest mutates previously accepted registrations in one session.
type UpdateRequest struct {
	XMLName    xml.Name          `xml:"urn:archivesim:archive:v1 update"`
	Operations []UpdateOperation `xml:"registrationUpdate"`
}

// UpdateOperation addresses one registration by key and carries the fields to
// set. Operations are applied in order; the whole request is atomic.
type UpdateOperation struct {
	SystemID    string       `xml:"systemID,omitempty"`
	ExternalKey *ExternalKey `xml:"externalKey,omitempty"`
	Title       string       `xml:"title,omitempty"`
}

// Reference returns the operation's target as a two-tier key descriptor.
func (op UpdateOperation) Reference() Reference {
	return Reference{SystemID: op.SystemID, ExternalKey: op.ExternalKey}
}
