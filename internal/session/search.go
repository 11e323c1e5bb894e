package session

import (
	"strings"

	"archivesim/pkg/archive"
)

// Search returns clones of every registration in the session whose title
// contains query, case-insensitively, in stored order. An empty query matches
// everything. maxHits caps the result when positive.
func (s *Store) Search(sessionID string, query string, maxHits int) []archive.Registration {
	record := s.record(sessionID, false)
	if record == nil {
		return nil
	}

	record.mu.Lock()
	defer record.mu.Unlock()

	needle := strings.ToLower(query)
	var hits []archive.Registration
	appendHits := func(registrations []archive.Registration) bool {
		for _, registration := range registrations {
			if maxHits > 0 && len(hits) >= maxHits {
				return false
			}
			if needle != "" && !strings.Contains(strings.ToLower(registration.Title), needle) {
				continue
			}
			hits = append(hits, archive.CloneRegistration(registration))
		}
		return true
	}

	for _, submission := range record.submissions {
		for idx := range submission.Folders {
			if !appendHits(submission.Folders[idx].Registrations) {
				return hits
			}
		}
		if !appendHits(submission.Registrations) {
			return hits
		}
	}

	return hits
}

// Lookup returns a clone of the first registration addressed by ref.
func (s *Store) Lookup(sessionID string, ref archive.Reference) (archive.Registration, bool) {
	record := s.record(sessionID, false)
	if record == nil {
		return archive.Registration{}, false
	}

	record.mu.Lock()
	defer record.mu.Unlock()

	matches := record.findRegistrationsLocked(ref)
	if len(matches) == 0 {
		return archive.Registration{}, false
	}

	return archive.CloneRegistration(*matches[0]), true
}
