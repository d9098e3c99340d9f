package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jackzampolin/fraglab/internal/segment"
)

func i64(v int64) *int64 { return &v }

func TestClassify(t *testing.T) {
	tests := []struct {
		in   Accuracy
		want Class
	}{
		{Percent(100), ClassHigh},
		{Percent(95), ClassHigh},
		{Percent(94.99), ClassMedium},
		{Percent(85), ClassMedium},
		{Percent(84.99), ClassLow},
		{Percent(0), ClassLow},
		{NotDetected(), ClassNotDetected},
	}
	for _, tt := range tests {
		if got := Classify(tt.in); got != tt.want {
			t.Errorf("Classify(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestAccuracy_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want Accuracy
	}{
		{`"99.50%"`, Percent(99.5)},
		{`" 85.00 % "`, Percent(85)},
		{`92`, Percent(92)},
		{`"Not Detected"`, NotDetected()},
		{`null`, NotDetected()},
		{`"garbage"`, NotDetected()},
		{`true`, NotDetected()},
	}
	for _, tt := range tests {
		var got Accuracy
		if err := json.Unmarshal([]byte(tt.raw), &got); err != nil {
			t.Errorf("Unmarshal(%s): %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.raw, got, tt.want)
		}
	}

	var c Comparison
	if err := json.Unmarshal([]byte(`{"actualFragmentNumber":1}`), &c); err != nil {
		t.Fatal(err)
	}
	if c.StartAccuracy.Detected || c.EndAccuracy.Detected {
		t.Error("missing accuracy should decode as not detected")
	}
}

// Ground truth of three contiguous fragments where the service detected the
// first two.
func sampleInputs() ([]GroundTruth, []DetectedRange, []Comparison) {
	truth := []GroundTruth{
		{Number: 1, Start: 0, End: 1000},
		{Number: 2, Start: 1000, End: 2000},
		{Number: 3, Start: 2000, End: 3000},
	}
	detected := []DetectedRange{{Start: 0, End: 995}, {Start: 1005, End: 1990}}
	comparisons := []Comparison{
		{
			ActualFragmentNumber: 1, ActualStartOffset: 0, ActualEndOffset: 1000,
			DetectedStartOffset: i64(0), DetectedEndOffset: i64(995),
			StartAccuracy: Percent(100), EndAccuracy: Percent(95),
		},
		{
			ActualFragmentNumber: 2, ActualStartOffset: 1000, ActualEndOffset: 2000,
			DetectedStartOffset: i64(1005), DetectedEndOffset: i64(1990),
			StartAccuracy: Percent(92), EndAccuracy: NotDetected(),
		},
		{
			ActualFragmentNumber: 3, ActualStartOffset: 2000, ActualEndOffset: 3000,
		},
	}
	return truth, detected, comparisons
}

func TestReconcile(t *testing.T) {
	truth, detected, comparisons := sampleInputs()
	records, unpaired := Reconcile(truth, detected, comparisons)

	type classes struct {
		Start, End Class
		Matched    bool
	}
	var got []classes
	for _, r := range records {
		got = append(got, classes{r.StartClass, r.EndClass, r.Matched})
	}
	want := []classes{
		{ClassHigh, ClassHigh, true},
		{ClassMedium, ClassNotDetected, false},
		{ClassNotDetected, ClassNotDetected, false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected classification (-want +got):\n%s", diff)
	}

	if records[0].Detected == nil || *records[0].Detected != detected[0] {
		t.Errorf("fragment 1 should pair with %v, got %v", detected[0], records[0].Detected)
	}
	if records[2].Detected != nil {
		t.Errorf("fragment 3 should have no detected range, got %v", records[2].Detected)
	}
	if len(unpaired) != 0 {
		t.Errorf("expected every detected range to be claimed, got %v", unpaired)
	}
}

func TestReconcile_ComparisonOrderAndExtras(t *testing.T) {
	truth, detected, comparisons := sampleInputs()
	reversed := []Comparison{comparisons[2], comparisons[1], comparisons[0]}
	extra := append(detected, DetectedRange{Start: 2500, End: 2600})

	records, unpaired := Reconcile(truth, extra, reversed)
	if records[0].Fragment.Number != 1 || records[0].StartClass != ClassHigh {
		t.Errorf("records should follow ground truth order, got %+v", records[0])
	}
	if diff := cmp.Diff([]DetectedRange{{Start: 2500, End: 2600}}, unpaired); diff != "" {
		t.Errorf("unexpected unpaired ranges (-want +got):\n%s", diff)
	}
}

func TestReconcileResult(t *testing.T) {
	t.Run("error result", func(t *testing.T) {
		got := ReconcileResult(PerImageResult{Filename: "a.jpg", Error: "boom"})
		if got.Error != "boom" || len(got.Records) != 0 {
			t.Errorf("unexpected reconciliation %+v", got)
		}
	})

	t.Run("decoded response", func(t *testing.T) {
		const raw = `{
			"filename": "cat.jpg",
			"totalFragments": 2,
			"totalDetectedFragments": 1,
			"matchedFragments": 1,
			"fragmentDetails": [
				{"fragmentNumber": 1, "originalStartOffset": 0, "originalEndOffset": 500, "outputStartOffset": 0, "outputEndOffset": 500},
				{"fragmentNumber": 2, "originalStartOffset": 500, "originalEndOffset": 900, "outputStartOffset": 4596, "outputEndOffset": 4996}
			],
			"detectedFragmentRanges": [{"start": 0, "end": 498}],
			"fragmentComparisons": [
				{"actualFragmentNumber": 1, "actualStartOffset": 0, "actualEndOffset": 500,
				 "detectedStartOffset": 0, "detectedEndOffset": 498,
				 "startAccuracy": "100.00%", "endAccuracy": "99.60%"},
				{"actualFragmentNumber": 2, "actualStartOffset": 4596, "actualEndOffset": 4996,
				 "detectedStartOffset": null, "detectedEndOffset": null,
				 "startAccuracy": "Not Detected", "endAccuracy": "Not Detected"}
			]
		}`
		var r PerImageResult
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			t.Fatal(err)
		}

		got := ReconcileResult(r)
		if got.Matched != 1 || got.ServiceMatched != 1 {
			t.Errorf("expected 1 matched, got %d (service %d)", got.Matched, got.ServiceMatched)
		}
		if len(got.Records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(got.Records))
		}
		if got.Records[1].Fragment.Start != 4596 || got.Records[1].Fragment.OriginalStart != 500 {
			t.Errorf("expected output and original offsets, got %+v", got.Records[1].Fragment)
		}
	})
}

func TestGroundTruthFromSequence(t *testing.T) {
	chunk := func(i int, size int64) segment.Segment {
		return segment.Segment{Kind: segment.KindSourceChunk, SourceIndex: i, Size: size}
	}
	filler := func(id int) segment.Segment {
		return segment.Segment{Kind: segment.KindFiller, FillerID: id, Variant: segment.VariantRandom, Size: 100}
	}

	tests := []struct {
		name string
		seq  []segment.Segment
		want []GroundTruth
	}{
		{
			name: "no fillers",
			seq:  []segment.Segment{chunk(0, 10), chunk(1, 10), chunk(2, 5)},
			want: []GroundTruth{{Number: 1, Start: 0, End: 25, OriginalStart: 0, OriginalEnd: 25}},
		},
		{
			name: "filler splits",
			seq:  []segment.Segment{filler(1), chunk(0, 10), filler(2), filler(3), chunk(1, 10)},
			want: []GroundTruth{
				{Number: 1, Start: 100, End: 110, OriginalStart: 0, OriginalEnd: 10},
				{Number: 2, Start: 310, End: 320, OriginalStart: 10, OriginalEnd: 20},
			},
		},
		{
			name: "reordering splits",
			seq:  []segment.Segment{chunk(1, 10), chunk(2, 4), chunk(0, 10)},
			want: []GroundTruth{
				{Number: 1, Start: 0, End: 14, OriginalStart: 10, OriginalEnd: 24},
				{Number: 2, Start: 14, End: 24, OriginalStart: 0, OriginalEnd: 10},
			},
		},
		{
			name: "only fillers",
			seq:  []segment.Segment{filler(1)},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, GroundTruthFromSequence(tt.seq)); diff != "" {
				t.Errorf("unexpected ground truth (-want +got):\n%s", diff)
			}
		})
	}
}
