// Package session owns all archive state accumulated per session identifier:
// the ordered submissions accepted so far, the merge rules folding new
// submissions into prior folders, and the update rules mutating accepted
// registrations in place.
package session

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"archivesim/pkg/archive"
)

// Option mutates store configuration.
type Option func(*Store)

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(store *Store) {
		if logger != nil {
			store.logger = logger
		}
	}
}

// WithIDGenerator overrides the generator used for assigned system ids.
func WithIDGenerator(newID func() string) Option {
	return func(store *Store) {
		if newID != nil {
			store.newID = newID
		}
	}
}

// Store maps session identifiers to their accepted submissions. Sessions are
// created lazily and live for the process lifetime. Each session is guarded
// by its own lock; different sessions never contend.
type Store struct {
	logger *slog.Logger
	newID  func() string

	mu       sync.RWMutex
	sessions map[string]*sessionRecord
}

type sessionRecord struct {
	mu          sync.Mutex
	submissions []*archive.Submission
}

// NewStore creates an empty session record store.
func NewStore(options ...Option) *Store {
	store := &Store{
		logger:   slog.Default(),
		newID:    uuid.NewString,
		sessions: make(map[string]*sessionRecord),
	}
	for _, option := range options {
		option(store)
	}

	return store
}

// Submissions returns deep clones of the session's accepted submissions in
// acceptance order.
func (s *Store) Submissions(sessionID string) []*archive.Submission {
	record := s.record(sessionID, false)
	if record == nil {
		return nil
	}

	record.mu.Lock()
	defer record.mu.Unlock()

	cloned := make([]*archive.Submission, 0, len(record.submissions))
	for _, submission := range record.submissions {
		cloned = append(cloned, archive.CloneSubmission(submission))
	}

	return cloned
}

// Len returns the number of top-level submissions held for the session.
func (s *Store) Len(sessionID string) int {
	record := s.record(sessionID, false)
	if record == nil {
		return 0
	}

	record.mu.Lock()
	defer record.mu.Unlock()

	return len(record.submissions)
}

func (s *Store) record(sessionID string, create bool) *sessionRecord {
	if sessionID == "" {
		return nil
	}

	s.mu.RLock()
	record, exists := s.sessions[sessionID]
	s.mu.RUnlock()
	if exists || !create {
		return record
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if record, exists = s.sessions[sessionID]; exists {
		return record
	}
	record = &sessionRecord{}
	s.sessions[sessionID] = record

	return record
}

// findFolderLocked returns the first stored folder addressed by ref, scanning
// submissions in acceptance order and folders in document order.
func (r *sessionRecord) findFolderLocked(ref archive.Reference) *archive.Folder {
	for _, submission := range r.submissions {
		for idx := range submission.Folders {
			folder := &submission.Folders[idx]
			if archive.MatchReference(ref, folder.SystemID, folder.ExternalKey) {
				return folder
			}
		}
	}

	return nil
}

// findRegistrationsLocked returns every stored registration addressed by ref,
// folder registrations before a submission's standalone ones.
func (r *sessionRecord) findRegistrationsLocked(ref archive.Reference) []*archive.Registration {
	var matches []*archive.Registration
	collect := func(registrations []archive.Registration) {
		for idx := range registrations {
			registration := &registrations[idx]
			if archive.MatchReferenceKeyFirst(ref, registration.SystemID, registration.ExternalKey) {
				matches = append(matches, registration)
			}
		}
	}

	for _, submission := range r.submissions {
		for idx := range submission.Folders {
			collect(submission.Folders[idx].Registrations)
		}
		collect(submission.Registrations)
	}

	return matches
}
