// Package segment defines the ordered composition of source chunks and filler
// segments that make up a synthetic fragmented file.
package segment

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for malformed parameters (sizes, variants).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidOperation is returned for disallowed structural edits, such as
	// removing a source chunk.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrNotFound is returned when an operation references a missing segment.
	ErrNotFound = errors.New("segment not found")

	// ErrIndexOutOfRange is returned for positions outside the current sequence.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Kind distinguishes original file chunks from injected filler.
type Kind string

const (
	KindSourceChunk Kind = "source_chunk"
	KindFiller      Kind = "filler"
)

// Variant classifies the filler content requested for a filler segment.
type Variant string

const (
	// VariantRandom is random bytes. It is the only variant the Analysis
	// Service actually generates.
	VariantRandom Variant = "random"

	// VariantZeros and VariantJPEG are accepted but produced as random bytes.
	VariantZeros Variant = "zeros"
	VariantJPEG  Variant = "jpeg"
)

// Variants lists every accepted filler variant, implemented first.
var Variants = []Variant{VariantRandom, VariantZeros, VariantJPEG}

// ParseVariant validates a variant name. An empty name selects VariantRandom.
func ParseVariant(s string) (Variant, error) {
	if s == "" {
		return VariantRandom, nil
	}
	for _, v := range Variants {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: unknown filler variant %q", ErrInvalidInput, s)
}

// Implemented reports whether the service generates this variant as requested.
func (v Variant) Implemented() bool {
	return v == VariantRandom
}

// Effective returns the variant the service will actually produce.
func (v Variant) Effective() Variant {
	return VariantRandom
}

// Side selects which side of a target segment a moved or inserted segment
// lands on.
type Side int

const (
	Before Side = iota
	After
)

func (s Side) String() string {
	if s == After {
		return "after"
	}
	return "before"
}

// ParseSide accepts "before" or "after".
func ParseSide(s string) (Side, error) {
	switch s {
	case "before", "":
		return Before, nil
	case "after":
		return After, nil
	}
	return Before, fmt.Errorf("%w: side must be before or after, got %q", ErrInvalidInput, s)
}

// Key is the stable identity of a segment: the source index for chunks, the
// filler id for fillers.
type Key struct {
	Kind Kind `json:"kind"`
	ID   int  `json:"id"`
}

// ChunkKey returns the key of the source chunk with the given index.
func ChunkKey(sourceIndex int) Key { return Key{Kind: KindSourceChunk, ID: sourceIndex} }

// FillerKey returns the key of the filler with the given id.
func FillerKey(fillerID int) Key { return Key{Kind: KindFiller, ID: fillerID} }

func (k Key) String() string {
	if k.Kind == KindFiller {
		return fmt.Sprintf("filler#%d", k.ID)
	}
	return fmt.Sprintf("chunk#%d", k.ID)
}

// Segment is one positional unit of the composed structure.
type Segment struct {
	Kind Kind

	// SourceIndex is the zero-based chunk position in the original file.
	// Only meaningful for source chunks.
	SourceIndex int

	// FillerID and Variant are only meaningful for fillers.
	FillerID int
	Variant  Variant

	// Size is the byte length of the segment in the composed artifact.
	Size int64
}

// Key returns the segment's identity.
func (s Segment) Key() Key {
	if s.Kind == KindFiller {
		return FillerKey(s.FillerID)
	}
	return ChunkKey(s.SourceIndex)
}

// IsFiller reports whether the segment is injected filler.
func (s Segment) IsFiller() bool { return s.Kind == KindFiller }
