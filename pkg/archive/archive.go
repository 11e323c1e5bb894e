package archive

import (
	"encoding/xml"
	"fmt"
)

// Namespace is the XML namespace of all archive documents handled by the
// simulator, on both the inbound and the reply side.
const Namespace = "urn:archivesim:archive:v1"

// ExternalKey is an alternate identity assigned by an originating subsystem,
// used to address folders and registrations that have no system id yet.
type ExternalKey struct {
	Subsystem string `xml:"subsystem"`
	Key       string `xml:"key"`
}

// IsZero reports whether the key carries no identity at all.
func (k ExternalKey) IsZero() bool {
	return k.Subsystem == "" && k.Key == ""
}

// Reference addresses one folder or registration by system id or external key.
type Reference struct {
	SystemID    string       `xml:"systemID,omitempty"`
	ExternalKey *ExternalKey `xml:"externalKey,omitempty"`
}

// IsZero reports whether the reference names neither key.
func (r Reference) IsZero() bool {
	return r.SystemID == "" && (r.ExternalKey == nil || r.ExternalKey.IsZero())
}

// String renders the reference for log lines and error messages, preferring
// the external key when both identities are present.
func (r Reference) String() string {
	if r.ExternalKey != nil && !r.ExternalKey.IsZero() {
		return fmt.Sprintf("external key %s/%s", r.ExternalKey.Subsystem, r.ExternalKey.Key)
	}
	if r.SystemID != "" {
		return fmt.Sprintf("system id %s", r.SystemID)
	}

	return "empty reference"
}

// Registration is the atomic archival record, standalone or inside a folder.
type Registration struct {
	SystemID     string       `xml:"systemID,omitempty"`
	Title        string       `xml:"title"`
	ExternalKey  *ExternalKey `xml:"externalKey,omitempty"`
	ParentFolder *Reference   `xml:"parentFolder,omitempty"`
}

// Folder groups registrations under a shared identity.
type Folder struct {
	SystemID      string         `xml:"systemID,omitempty"`
	Title         string         `xml:"title,omitempty"`
	ExternalKey   *ExternalKey   `xml:"externalKey,omitempty"`
	Registrations []Registration `xml:"registration"`
}

// Submission is the root unit accepted into a session: an ordered sequence of
// folders plus registrations attached directly to the submission.
type Submission struct {
	XMLName       xml.Name       `xml:"urn:archivesim:archive:v1 submission"`
	Folders       []Folder       `xml:"folder"`
	Registrations []Registration `xml:"registration"`
}

// IsFolderClass reports whether the submission carries at least one folder.
// The classification drives the receipt shape.
func (s *Submission) IsFolderClass() bool {
	return s != nil && len(s.Folders) > 0
}

// MatchReference reports whether a candidate identified by systemID and
// externalKey is addressed by ref. The reference's system id is consulted
// first when present; otherwise the external key must match on both subsystem
// and key. This is the precedence merge uses for parent-folder references.
func MatchReference(ref Reference, systemID string, externalKey *ExternalKey) bool {
	if ref.SystemID != "" {
		return matchSystemID(ref.SystemID, systemID)
	}

	return matchExternalKey(ref.ExternalKey, externalKey)
}

// MatchReferenceKeyFirst is like MatchReference but consults the external key
// before the system id, the precedence update and lookup operations use.
func MatchReferenceKeyFirst(ref Reference, systemID string, externalKey *ExternalKey) bool {
	if ref.ExternalKey != nil && !ref.ExternalKey.IsZero() {
		return matchExternalKey(ref.ExternalKey, externalKey)
	}

	return matchSystemID(ref.SystemID, systemID)
}

func matchSystemID(want string, candidate string) bool {
	return want != "" && candidate == want
}

func matchExternalKey(want *ExternalKey, candidate *ExternalKey) bool {
	if want == nil || want.IsZero() || candidate == nil {
		return false
	}

	return candidate.Subsystem == want.Subsystem && candidate.Key == want.Key
}

// CloneSubmission returns a deep copy safe to hand outside the owning store.
func CloneSubmission(submission *Submission) *Submission {
	if submission == nil {
		return nil
	}

	cloned := &Submission{XMLName: submission.XMLName}
	if len(submission.Folders) > 0 {
		cloned.Folders = make([]Folder, len(submission.Folders))
		for idx, folder := range submission.Folders {
			cloned.Folders[idx] = CloneFolder(folder)
		}
	}
	cloned.Registrations = cloneRegistrations(submission.Registrations)

	return cloned
}

// CloneFolder returns a deep copy of one folder and its registrations.
func CloneFolder(folder Folder) Folder {
	cloned := folder
	if folder.ExternalKey != nil {
		key := *folder.ExternalKey
		cloned.ExternalKey = &key
	}
	cloned.Registrations = cloneRegistrations(folder.Registrations)

	return cloned
}

// CloneRegistration returns a deep copy of one registration.
func CloneRegistration(registration Registration) Registration {
	cloned := registration
	if registration.ExternalKey != nil {
		key := *registration.ExternalKey
		cloned.ExternalKey = &key
	}
	if registration.ParentFolder != nil {
		parent := *registration.ParentFolder
		if registration.ParentFolder.ExternalKey != nil {
			parentKey := *registration.ParentFolder.ExternalKey
			parent.ExternalKey = &parentKey
		}
		cloned.ParentFolder = &parent
	}

	return cloned
}

func cloneRegistrations(registrations []Registration) []Registration {
	if len(registrations) == 0 {
		return nil
	}

	cloned := make([]Registration, len(registrations))
	for idx, registration := range registrations {
		cloned[idx] = CloneRegistration(registration)
	}

	return cloned
}
