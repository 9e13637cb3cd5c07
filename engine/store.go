package engine

// Store holds at most one current Table. It is replaced wholesale by a
// successful query, a projection, a filter application or a pivot — there
// is no undo, so the previous Table is gone once replaced. The session is
// single-threaded with exactly one mutation path, so no locking is needed.
type Store struct {
	current *Table
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Replace installs a new current Table, discarding the previous one.
// Callers must only Replace on success: a failed transformation leaves the
// current Table unchanged.
func (s *Store) Replace(t *Table) {
	s.current = t
}

// Current returns the current Table, or false when no query has succeeded
// yet.
func (s *Store) Current() (*Table, bool) {
	if s.current == nil {
		return nil, false
	}
	return s.current, true
}
