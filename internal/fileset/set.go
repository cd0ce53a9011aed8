// Package fileset holds the ordered, duplicate-free file lists the user
// curates before a sync.
package fileset

import (
	"sort"
	"sync"

	"ezsubs/internal/log"
	"ezsubs/pkg/types"

	"golang.org/x/text/language"
)

// Set is an ordered collection of files with no two entries sharing a path.
// It is safe for concurrent use; every mutation is applied under one lock so
// readers never observe a half-applied batch.
//
// The first Append that puts something into the set also sorts it
// naturally, once. Clear re-arms that behaviour.
type Set struct {
	mu sync.RWMutex

	name          string
	items         []types.FileRef
	index         map[string]struct{}
	allowed       types.ExtensionSet
	hasBeenSorted bool
	autoSort      bool
	generation    uint64
	locale        language.Tag
}

// Option configures a Set.
type Option func(*Set)

// WithAutoSort enables or disables the one-time natural sort on first fill.
// It is enabled by default.
func WithAutoSort(enabled bool) Option {
	return func(s *Set) { s.autoSort = enabled }
}

// WithLocale sets the collation locale used by NormalizeOrder.
func WithLocale(tag language.Tag) Option {
	return func(s *Set) { s.locale = tag }
}

// WithName labels the set in log lines.
func WithName(name string) Option {
	return func(s *Set) { s.name = name }
}

// New creates an empty set accepting files with the given extensions.
func New(allowed types.ExtensionSet, opts ...Option) *Set {
	s := &Set{
		index:    make(map[string]struct{}),
		allowed:  allowed,
		autoSort: true,
		locale:   language.Und,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allowed returns the extension set fixed at construction.
func (s *Set) Allowed() types.ExtensionSet {
	return s.allowed
}

// Name returns the set's label.
func (s *Set) Name() string {
	return s.name
}

// Append adds refs that are not already present, keeping their relative
// order, and returns how many were added. Refs with a disallowed extension
// are ignored.
func (s *Set) Append(refs ...types.FileRef) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(refs)
}

// AppendIfGeneration appends like Append, unless the set was cleared after
// gen was read; in that case the batch is dropped and ok is false.
func (s *Set) AppendIfGeneration(gen uint64, refs ...types.FileRef) (added int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		log.LogWithFields(log.F("set", s.name), log.F("files", len(refs))).Debug("Discarding batch collected before clear")
		return 0, false
	}
	return s.appendLocked(refs), true
}

func (s *Set) appendLocked(refs []types.FileRef) int {
	added := 0
	for _, ref := range refs {
		if ref.IsZero() || !s.allowed.Allows(ref) {
			continue
		}
		if _, dup := s.index[ref.Path()]; dup {
			continue
		}
		s.index[ref.Path()] = struct{}{}
		s.items = append(s.items, ref)
		added++
	}

	if added > 0 && !s.hasBeenSorted && s.autoSort {
		sortRefs(s.items, s.locale)
		s.hasBeenSorted = true
		log.LogWithFields(log.F("set", s.name), log.F("files", len(s.items))).Debug("Sorted on first fill")
	}
	return added
}

// NormalizeOrder sorts the set naturally by file name.
func (s *Set) NormalizeOrder() {
	s.mu.Lock()
	defer s.mu.Unlock()
	sortRefs(s.items, s.locale)
	s.hasBeenSorted = true
}

// SwapAdjacent exchanges the element at index with its neighbour above or
// below. It returns false, changing nothing, when either position is out of
// range.
func (s *Set) SwapAdjacent(index int, dir types.Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	other := index + 1
	if dir == types.Up {
		other = index - 1
	}
	if index < 0 || index >= len(s.items) || other < 0 || other >= len(s.items) {
		return false
	}
	s.items[index], s.items[other] = s.items[other], s.items[index]
	return true
}

// RemoveAt removes the elements at the given positions; the rest keep their
// relative order. Out-of-range and repeated indices are ignored. It returns
// the number of elements removed.
func (s *Set) RemoveAt(indices ...int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(s.items) {
			drop[i] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return 0
	}

	kept := s.items[:0]
	for i, ref := range s.items {
		if _, ok := drop[i]; ok {
			delete(s.index, ref.Path())
			continue
		}
		kept = append(kept, ref)
	}
	// Clear the tail so removed refs are not retained by the backing array.
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = types.FileRef{}
	}
	s.items = kept
	return len(drop)
}

// Remove drops the entry with path, if present.
func (s *Set) Remove(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(path)
	if i < 0 {
		return false
	}
	delete(s.index, path)
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// Clear empties the set and re-arms the first-fill sort. Batches collected
// before the clear are rejected by AppendIfGeneration.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.index = make(map[string]struct{})
	s.hasBeenSorted = false
	s.generation++
}

// UpdatePaths rewrites entries in place after a rename batch, as a single
// update. moves maps an old path to the file's new location. When the new
// path is already held by another entry, the old entry is dropped instead.
// It returns the number of entries rewritten.
func (s *Set) UpdatePaths(moves map[string]types.FileRef) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	moving := make([]int, 0, len(moves))
	for i, ref := range s.items {
		if next, ok := moves[ref.Path()]; ok && next.Path() != ref.Path() {
			moving = append(moving, i)
			delete(s.index, ref.Path())
		}
	}

	updated := 0
	var stale []int
	for _, i := range moving {
		next := moves[s.items[i].Path()]
		if _, taken := s.index[next.Path()]; taken {
			stale = append(stale, i)
			continue
		}
		s.index[next.Path()] = struct{}{}
		s.items[i] = next
		updated++
	}

	sort.Sort(sort.Reverse(sort.IntSlice(stale)))
	for _, i := range stale {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	return updated
}

// Items returns a snapshot of the set in order.
func (s *Set) Items() []types.FileRef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.FileRef, len(s.items))
	copy(out, s.items)
	return out
}

// Snapshot returns the items together with the current generation.
func (s *Set) Snapshot() ([]types.FileRef, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.FileRef, len(s.items))
	copy(out, s.items)
	return out, s.generation
}

// Names returns the display names (file name only) in order.
func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, len(s.items))
	for i, ref := range s.items {
		names[i] = ref.Name()
	}
	return names
}

// At returns the element at i.
func (s *Set) At(i int) (types.FileRef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.items) {
		return types.FileRef{}, false
	}
	return s.items[i], true
}

// IndexOf returns the position of path, or -1.
func (s *Set) IndexOf(path string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(path)
}

func (s *Set) indexLocked(path string) int {
	if _, ok := s.index[path]; !ok {
		return -1
	}
	for i, ref := range s.items {
		if ref.Path() == path {
			return i
		}
	}
	return -1
}

// Contains reports whether path is in the set.
func (s *Set) Contains(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[path]
	return ok
}

// Len returns the number of elements.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// HasBeenSorted reports whether the first-fill sort (or an explicit
// NormalizeOrder) has run since construction or the last Clear.
func (s *Set) HasBeenSorted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasBeenSorted
}

// Generation changes every time the set is cleared.
func (s *Set) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}
