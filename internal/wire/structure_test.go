package wire

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jackzampolin/fraglab/internal/segment"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestSerialize(t *testing.T) {
	seq := []segment.Segment{
		{Kind: segment.KindSourceChunk, SourceIndex: 0, Size: 4096},
		{Kind: segment.KindFiller, FillerID: 7, Variant: segment.VariantRandom, Size: 4096},
		{Kind: segment.KindSourceChunk, SourceIndex: 1, Size: 2048},
	}

	got := Serialize(seq)
	want := Structure{
		{Kind: segment.KindSourceChunk, SourceIndex: intPtr(0), SizeBytes: 4096},
		{Kind: segment.KindFiller, FillerID: intPtr(7), FillerVariant: strPtr("random"), SizeBytes: 4096},
		{Kind: segment.KindSourceChunk, SourceIndex: intPtr(1), SizeBytes: 2048},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected structure (-want +got):\n%s", diff)
	}
	if got.TotalBytes() != 10240 {
		t.Errorf("expected 10240 total bytes, got %d", got.TotalBytes())
	}

	raw, err := got.Encode()
	if err != nil {
		t.Fatal(err)
	}
	const wantJSON = `[` +
		`{"kind":"source_chunk","sourceIndex":0,"fillerId":null,"fillerVariant":null,"sizeBytes":4096},` +
		`{"kind":"filler","sourceIndex":null,"fillerId":7,"fillerVariant":"random","sizeBytes":4096},` +
		`{"kind":"source_chunk","sourceIndex":1,"fillerId":null,"fillerVariant":null,"sizeBytes":2048}` +
		`]`
	if string(raw) != wantJSON {
		t.Errorf("unexpected encoding:\n got %s\nwant %s", raw, wantJSON)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestFromModel_ReflectsLiveOrder(t *testing.T) {
	m := segment.NewModel()
	if err := m.Initialize(3, 1); err != nil {
		t.Fatal(err)
	}
	f, _ := m.InsertFiller(segment.VariantJPEG, 1)
	m.Move(0, 3, segment.After)

	s := FromModel(m)
	if len(s) != 4 {
		t.Fatalf("expected 4 records, got %d", len(s))
	}

	var kinds []string
	for _, r := range s {
		if r.Kind == segment.KindFiller {
			kinds = append(kinds, "F")
			if *r.FillerID != f.FillerID || *r.FillerVariant != "jpeg" {
				t.Errorf("unexpected filler record %+v", r)
			}
			continue
		}
		kinds = append(kinds, string(rune('0'+*r.SourceIndex)))
	}
	if diff := cmp.Diff([]string{"F", "1", "2", "0"}, kinds); diff != "" {
		t.Errorf("unexpected record order (-want +got):\n%s", diff)
	}
}

func TestEncode_Empty(t *testing.T) {
	raw, err := Serialize(nil).Encode()
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "[]" {
		t.Errorf("expected [], got %s", raw)
	}
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		ok   bool
	}{
		{"valid", `[{"kind":"filler","sourceIndex":null,"fillerId":1,"fillerVariant":"zeros","sizeBytes":1}]`, true},
		{"zero size", `[{"kind":"source_chunk","sourceIndex":0,"fillerId":null,"fillerVariant":null,"sizeBytes":0}]`, false},
		{"chunk with filler id", `[{"kind":"source_chunk","sourceIndex":0,"fillerId":3,"fillerVariant":null,"sizeBytes":5}]`, false},
		{"filler missing id", `[{"kind":"filler","sourceIndex":null,"fillerId":null,"fillerVariant":"random","sizeBytes":5}]`, false},
		{"unknown kind", `[{"kind":"blob","sourceIndex":null,"fillerId":null,"fillerVariant":null,"sizeBytes":5}]`, false},
		{"missing field", `[{"kind":"filler","fillerId":1,"fillerVariant":"random","sizeBytes":5}]`, false},
		{"not an array", `{"kind":"filler"}`, false},
		{"not json", `[`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON([]byte(tt.doc))
			if tt.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.ok && !errors.Is(err, segment.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRecordRoundTripsNulls(t *testing.T) {
	var s Structure
	if err := json.Unmarshal([]byte(`[{"kind":"filler","sourceIndex":null,"fillerId":2,"fillerVariant":"random","sizeBytes":9}]`), &s); err != nil {
		t.Fatal(err)
	}
	if s[0].SourceIndex != nil || s[0].FillerID == nil || *s[0].FillerID != 2 {
		t.Errorf("unexpected decoded record %+v", s[0])
	}
}
