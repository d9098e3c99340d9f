package segment

import (
	"fmt"
	"log/slog"
	"slices"
)

// DefaultFillerSize is the size of every filler segment unless configured.
const DefaultFillerSize int64 = 4096

// Model is the single source of truth for a composition. Segments live in an
// arena keyed by identity; order is a separate vector of keys.
//
// Model is not safe for concurrent use. Callers serialize access.
type Model struct {
	arena      map[Key]Segment
	order      []Key
	nextFiller int
	fillerSize int64
	chunks     int
	logger     *slog.Logger
}

// Option configures a Model.
type Option func(*Model)

// WithFillerSize sets the fixed size of filler segments.
func WithFillerSize(n int64) Option {
	return func(m *Model) {
		if n > 0 {
			m.fillerSize = n
		}
	}
}

// WithLogger sets the logger used for variant substitution warnings.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewModel creates an empty model.
func NewModel(opts ...Option) *Model {
	m := &Model{
		arena:      make(map[Key]Segment),
		nextFiller: 1,
		fillerSize: DefaultFillerSize,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FillerSize returns the fixed filler size.
func (m *Model) FillerSize() int64 { return m.fillerSize }

// Initialize replaces the model contents with ceil(totalBytes/chunkSize)
// source chunks in ascending order. The final chunk holds the remainder.
func (m *Model) Initialize(totalBytes, chunkSize int64) error {
	if totalBytes <= 0 {
		return fmt.Errorf("%w: total bytes must be positive, got %d", ErrInvalidInput, totalBytes)
	}
	if chunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidInput, chunkSize)
	}

	count := int((totalBytes + chunkSize - 1) / chunkSize)
	arena := make(map[Key]Segment, count)
	order := make([]Key, 0, count)
	remaining := totalBytes
	for i := 0; i < count; i++ {
		size := min(chunkSize, remaining)
		remaining -= size
		seg := Segment{Kind: KindSourceChunk, SourceIndex: i, Size: size}
		arena[seg.Key()] = seg
		order = append(order, seg.Key())
	}

	m.arena = arena
	m.order = order
	m.chunks = count
	return nil
}

// InsertFiller creates a filler with a fresh id at position at, clamped to
// [0, Len()].
func (m *Model) InsertFiller(variant Variant, at int) (Segment, error) {
	if _, err := ParseVariant(string(variant)); err != nil {
		return Segment{}, err
	}
	if variant == "" {
		variant = VariantRandom
	}
	if !variant.Implemented() {
		m.logger.Warn("filler variant not generated by the analysis service, substituting",
			"requested", variant,
			"effective", variant.Effective(),
		)
	}

	at = max(0, min(at, len(m.order)))

	seg := Segment{
		Kind:     KindFiller,
		FillerID: m.nextFiller,
		Variant:  variant,
		Size:     m.fillerSize,
	}
	m.nextFiller++

	m.arena[seg.Key()] = seg
	m.order = slices.Insert(slices.Clone(m.order), at, seg.Key())
	return seg, nil
}

// RemoveFiller removes the filler with the given id.
func (m *Model) RemoveFiller(fillerID int) error {
	return m.Remove(FillerKey(fillerID))
}

// Remove removes a filler by key. Source chunks cannot be removed.
func (m *Model) Remove(key Key) error {
	if key.Kind == KindSourceChunk {
		return fmt.Errorf("%w: source chunk %d cannot be removed", ErrInvalidOperation, key.ID)
	}
	idx := slices.Index(m.order, key)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	m.order = slices.Delete(slices.Clone(m.order), idx, idx+1)
	delete(m.arena, key)
	return nil
}

// Move relocates the segment at from so it lands on the given side of the
// segment currently at to. The landing index is computed after the moved
// segment is taken out, so moving forward or backward ends next to the same
// neighbour.
func (m *Model) Move(from, to int, side Side) error {
	n := len(m.order)
	if from < 0 || from >= n {
		return fmt.Errorf("%w: from %d (len %d)", ErrIndexOutOfRange, from, n)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("%w: to %d (len %d)", ErrIndexOutOfRange, to, n)
	}
	if from == to {
		return nil
	}
	m.order = relocate(m.order, from, m.order[to], side)
	return nil
}

// MoveKey moves the segment identified by key next to target.
func (m *Model) MoveKey(key, target Key, side Side) error {
	from := slices.Index(m.order, key)
	if from < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	to := slices.Index(m.order, target)
	if to < 0 {
		return fmt.Errorf("%w: target %s", ErrNotFound, target)
	}
	return m.Move(from, to, side)
}

// MoveToEnd moves the segment at from to the end of the sequence.
func (m *Model) MoveToEnd(from int) error {
	n := len(m.order)
	if from < 0 || from >= n {
		return fmt.Errorf("%w: from %d (len %d)", ErrIndexOutOfRange, from, n)
	}
	if from == n-1 {
		return nil
	}
	m.order = relocate(m.order, from, m.order[n-1], After)
	return nil
}

// relocate returns a new order with order[from] placed beside target.
func relocate(order []Key, from int, target Key, side Side) []Key {
	moved := order[from]
	next := slices.Delete(slices.Clone(order), from, from+1)
	at := slices.Index(next, target)
	if side == After {
		at++
	}
	return slices.Insert(next, at, moved)
}

// ClearFillers removes every filler, keeping source chunks in their current
// relative order.
func (m *Model) ClearFillers() {
	order := make([]Key, 0, m.chunks)
	for _, k := range m.order {
		if k.Kind == KindFiller {
			delete(m.arena, k)
			continue
		}
		order = append(order, k)
	}
	m.order = order
}

// Reset empties the model, source chunks included. Filler ids keep counting.
func (m *Model) Reset() {
	m.arena = make(map[Key]Segment)
	m.order = nil
	m.chunks = 0
}

// Len returns the number of segments.
func (m *Model) Len() int { return len(m.order) }

// Chunks returns the number of source chunks.
func (m *Model) Chunks() int { return m.chunks }

// At returns the segment at position i.
func (m *Model) At(i int) (Segment, error) {
	if i < 0 || i >= len(m.order) {
		return Segment{}, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(m.order))
	}
	return m.arena[m.order[i]], nil
}

// Get returns the segment with the given key.
func (m *Model) Get(key Key) (Segment, bool) {
	seg, ok := m.arena[key]
	return seg, ok
}

// IndexOf returns the current position of key.
func (m *Model) IndexOf(key Key) (int, bool) {
	i := slices.Index(m.order, key)
	return i, i >= 0
}

// Sequence returns a snapshot of the segments in order.
func (m *Model) Sequence() []Segment {
	seq := make([]Segment, len(m.order))
	for i, k := range m.order {
		seq[i] = m.arena[k]
	}
	return seq
}

// TotalBytes returns the size of the composed artifact.
func (m *Model) TotalBytes() int64 {
	var total int64
	for _, k := range m.order {
		total += m.arena[k].Size
	}
	return total
}

// Verify checks the structural invariants. It returns nil for a consistent
// model.
func (m *Model) Verify() error {
	if len(m.order) != len(m.arena) {
		return fmt.Errorf("order has %d keys, arena has %d segments", len(m.order), len(m.arena))
	}
	seen := make(map[Key]bool, len(m.order))
	chunks := 0
	for i, k := range m.order {
		if seen[k] {
			return fmt.Errorf("duplicate %s at position %d", k, i)
		}
		seen[k] = true
		seg, ok := m.arena[k]
		if !ok {
			return fmt.Errorf("%s at position %d missing from arena", k, i)
		}
		if seg.Size <= 0 {
			return fmt.Errorf("%s has non-positive size %d", k, seg.Size)
		}
		if k.Kind == KindSourceChunk {
			if k.ID < 0 || k.ID >= m.chunks {
				return fmt.Errorf("%s outside chunk range [0,%d)", k, m.chunks)
			}
			chunks++
		}
	}
	if chunks != m.chunks {
		return fmt.Errorf("found %d source chunks, want %d", chunks, m.chunks)
	}
	return nil
}
