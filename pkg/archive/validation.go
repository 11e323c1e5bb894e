package archive

// ValidationResult is an ordered sequence of violation groups, each an ordered
// sequence of human-readable messages. An empty result means the payload is
// valid and the decoded document is usable.
type ValidationResult [][]string

// Valid reports whether no violations were recorded.
func (r ValidationResult) Valid() bool {
	return len(r) == 0
}

// First returns the first violation group, or nil when valid.
func (r ValidationResult) First() []string {
	if len(r) == 0 {
		return nil
	}

	return r[0]
}
