package session

import (
	"fmt"

	"archivesim/pkg/archive"
)

type stagedTitle struct {
	target *archive.Registration
	title  string
}

// ApplyUpdate applies every operation of the request in order, or none of
// them. Mutations are staged while operations resolve and committed only
// after the last one succeeds, so a mid-request failure leaves the session
// untouched.
func (s *Store) ApplyUpdate(sessionID string, update *archive.UpdateRequest) error {
	if sessionID == "" || update == nil {
		return archive.ErrNoSessionState
	}
	record := s.record(sessionID, false)
	if record == nil {
		return archive.ErrNoSessionState
	}

	record.mu.Lock()
	defer record.mu.Unlock()

	staged := make([]stagedTitle, 0, len(update.Operations))
	for _, operation := range update.Operations {
		if operation.Title == "" {
			continue
		}
		ref := operation.Reference()
		if ref.IsZero() {
			return archive.ErrMissingIdentifyingKey
		}
		matches := record.findRegistrationsLocked(ref)
		if len(matches) == 0 {
			return fmt.Errorf("%w: no registration matches %s", archive.ErrUnresolvedReference, ref)
		}
		for _, match := range matches {
			staged = append(staged, stagedTitle{target: match, title: operation.Title})
		}
	}

	for _, change := range staged {
		change.target.Title = change.title
	}
	s.logger.Debug("update applied",
		"session_id", sessionID,
		"titles_set", len(staged),
	)

	return nil
}
