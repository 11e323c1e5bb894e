package archive

import "errors"

// Sentinel errors for recoverable business failures. The dispatcher converts
// these into invalid-request replies; none are fatal to the process.
var (
	// ErrNoSessionState rejects updates without prior accepted submissions.
	ErrNoSessionState = errors.New("no prior archive state for this session")
	// ErrMissingIdentifyingKey rejects operations naming neither key.
	ErrMissingIdentifyingKey = errors.New("missing identifying key for registration")
	// ErrUnresolvedReference rejects operations whose keys match nothing.
	ErrUnresolvedReference = errors.New("unresolved registration reference")
	// ErrMissingContent rejects messages that declare no payload.
	ErrMissingContent = errors.New("missing content")
)
