package session

import "archivesim/pkg/archive"

// AssignMissingSystemIDs gives every folder and registration lacking a system
// id a generated one, so later update and lookup requests can address them.
// Entities that arrived with an id keep it.
func (s *Store) AssignMissingSystemIDs(submission *archive.Submission) {
	if submission == nil {
		return
	}

	for idx := range submission.Folders {
		folder := &submission.Folders[idx]
		if folder.SystemID == "" {
			folder.SystemID = s.newID()
		}
		assignRegistrationIDs(folder.Registrations, s.newID)
	}
	assignRegistrationIDs(submission.Registrations, s.newID)
}

func assignRegistrationIDs(registrations []archive.Registration, newID func() string) {
	for idx := range registrations {
		if registrations[idx].SystemID == "" {
			registrations[idx].SystemID = newID()
		}
	}
}
