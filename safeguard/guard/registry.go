package guard

import "sync"

// Registry is a process-wide, append-only-until-cleared list of intercepted
// panic records.
//
// It is safe for concurrent use: appends from multiple goroutines may
// interleave ordering but never corrupt the sequence.
type Registry struct {
	mu      sync.Mutex
	records []Record
}

// Global is the default process-wide registry. It starts empty and lives for
// the process lifetime, or until explicitly cleared. Guards append to it when
// configured with WithTrackGlobally(true), unless WithRegistry points them at
// a dedicated instance (recommended for test isolation).
var Global = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Record appends one entry.
func (r *Registry) Record(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, rec)
}

// All returns a snapshot copy of the full ordered sequence. Mutating the
// returned slice, or appending to the registry afterwards, does not affect
// previously returned snapshots.
func (r *Registry) All() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Record, len(r.records))
	copy(out, r.records)

	return out
}

// Len returns the number of stored records.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.records)
}

// Clear empties the sequence.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = nil
}
