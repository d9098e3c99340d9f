// Package wire projects a segment model into the structure document the
// Analysis Service consumes.
package wire

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jackzampolin/fraglab/internal/segment"
)

//go:embed structure.schema.json
var schemaJSON []byte

// Record is one segment in wire form. Pointer fields encode as null when
// they do not apply to the record's kind.
type Record struct {
	Kind          segment.Kind `json:"kind"`
	SourceIndex   *int         `json:"sourceIndex"`
	FillerID      *int         `json:"fillerId"`
	FillerVariant *string      `json:"fillerVariant"`
	SizeBytes     int64        `json:"sizeBytes"`
}

// Structure is the ordered list of records, one per segment.
type Structure []Record

// Serialize converts a sequence snapshot into wire records in the same order.
func Serialize(seq []segment.Segment) Structure {
	out := make(Structure, 0, len(seq))
	for _, s := range seq {
		r := Record{Kind: s.Kind, SizeBytes: s.Size}
		if s.IsFiller() {
			id := s.FillerID
			variant := string(s.Variant)
			r.FillerID = &id
			r.FillerVariant = &variant
		} else {
			idx := s.SourceIndex
			r.SourceIndex = &idx
		}
		out = append(out, r)
	}
	return out
}

// FromModel serializes the model's current sequence.
func FromModel(m *segment.Model) Structure {
	return Serialize(m.Sequence())
}

// TotalBytes returns the size of the artifact the structure describes.
func (s Structure) TotalBytes() int64 {
	var n int64
	for _, r := range s {
		n += r.SizeBytes
	}
	return n
}

// Encode returns the JSON document sent to the service.
func (s Structure) Encode() ([]byte, error) {
	if s == nil {
		s = Structure{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode structure: %w", err)
	}
	return b, nil
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func structureSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("structure.schema.json", bytes.NewReader(schemaJSON)); err != nil {
			compileErr = fmt.Errorf("failed to load structure schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile("structure.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("failed to compile structure schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// Validate checks the encoded structure against the wire schema.
func (s Structure) Validate() error {
	b, err := s.Encode()
	if err != nil {
		return err
	}
	return ValidateJSON(b)
}

// ValidateJSON checks a raw structure document against the wire schema.
func ValidateJSON(raw []byte) error {
	schema, err := structureSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: structure is not valid JSON: %v", segment.ErrInvalidInput, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: structure does not match schema: %v", segment.ErrInvalidInput, err)
	}
	return nil
}
