package archive

import (
	"encoding/xml"
	"strings"
)

// DetailLevel selects how much of each hit a search result carries.
type DetailLevel string

const (
	DetailMinimal  DetailLevel = "minimal"
	DetailKeys     DetailLevel = "keys"
	DetailExtended DetailLevel = "extended"
)

// ParseDetailLevel maps a requested response-detail string to a level.
// Unspecified or unrecognized values default to minimal.
func ParseDetailLevel(raw string) DetailLevel {
	switch DetailLevel(strings.ToLower(strings.TrimSpace(raw))) {
	case DetailKeys:
		return DetailKeys
	case DetailExtended:
		return DetailExtended
	default:
		return DetailMinimal
	}
}

// ResultType returns the reply message type for results at this level.
func (l DetailLevel) ResultType() string {
	switch l {
	case DetailKeys:
		return TypeSearchResultKeys
	case DetailExtended:
		return TypeSearchResultExtended
	default:
		return TypeSearchResultMinimal
	}
}

// SearchRequest asks for a flat search across a session's registrations.
type SearchRequest struct {
	XMLName xml.Name `xml:"urn:archivesim:archive:v1 search"`
	Query   string   `xml:"query,omitempty"`
	Detail  string   `xml:"responseDetail,omitempty"`
	MaxHits int      `xml:"maxHits,omitempty"`
}

// LookupRequest asks for one registration by system id or external key.
type LookupRequest struct {
	XMLName     xml.Name     `xml:"urn:archivesim:archive:v1 lookup"`
	SystemID    string       `xml:"systemID,omitempty"`
	ExternalKey *ExternalKey `xml:"externalKey,omitempty"`
}

// Reference returns the lookup target as a two-tier key descriptor.
func (r LookupRequest) Reference() Reference {
	return Reference{SystemID: r.SystemID, ExternalKey: r.ExternalKey}
}
