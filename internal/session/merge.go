package session

import "archivesim/pkg/archive"

// MergeSubmission folds a newly accepted submission into the session's state.
//
// When the session already holds submissions, every standalone registration of
// the new submission carrying a parent-folder reference is attached to the
// first stored folder that reference addresses. A submission whose
// registrations attached nowhere is appended as a new top-level entry instead;
// one that attached anywhere is consumed entirely by the merge.
func (s *Store) MergeSubmission(sessionID string, submission *archive.Submission) {
	if sessionID == "" || submission == nil {
		return
	}

	record := s.record(sessionID, true)
	record.mu.Lock()
	defer record.mu.Unlock()

	if len(record.submissions) == 0 {
		record.submissions = append(record.submissions, submission)
		s.logger.Debug("submission opened session", "session_id", sessionID)
		return
	}

	found := false
	for idx := range submission.Registrations {
		registration := submission.Registrations[idx]
		if registration.ParentFolder == nil || registration.ParentFolder.IsZero() {
			continue
		}
		folder := record.findFolderLocked(*registration.ParentFolder)
		if folder == nil {
			continue
		}
		folder.Registrations = append(folder.Registrations, archive.CloneRegistration(registration))
		found = true
	}

	if !found {
		record.submissions = append(record.submissions, submission)
		s.logger.Debug("submission stored as new top-level entry",
			"session_id", sessionID,
			"submissions", len(record.submissions),
		)
		return
	}

	s.logger.Debug("submission merged into existing folders", "session_id", sessionID)
}
