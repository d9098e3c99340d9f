package stats

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jackzampolin/fraglab/internal/reconcile"
)

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalImages != 0 {
		t.Errorf("expected 0 images, got %d", s.TotalImages)
	}
	for name, m := range map[string]Mean{
		"first start": s.AvgFirstStartAccuracy,
		"first end":   s.AvgFirstEndAccuracy,
		"all start":   s.AvgAllStartAccuracy,
		"all end":     s.AvgAllEndAccuracy,
	} {
		if m.Valid {
			t.Errorf("%s: expected not applicable, got %v", name, m.Value)
		}
		if m.String() != NotApplicable {
			t.Errorf("%s: expected %q, got %q", name, NotApplicable, m.String())
		}
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	json.Unmarshal(b, &raw)
	if raw["avgAllStartAccuracy"] != NotApplicable {
		t.Errorf("expected N/A in JSON, got %v", raw["avgAllStartAccuracy"])
	}
}

func TestSummarize(t *testing.T) {
	results := []reconcile.PerImageResult{
		{
			Filename:               "a.jpg",
			TotalFragments:         3,
			TotalDetectedFragments: 2,
			MatchedFragments:       1,
			FragmentComparisons: []reconcile.Comparison{
				{ActualFragmentNumber: 1, StartAccuracy: reconcile.Percent(100), EndAccuracy: reconcile.Percent(95)},
				{ActualFragmentNumber: 2, StartAccuracy: reconcile.Percent(92), EndAccuracy: reconcile.NotDetected()},
				{ActualFragmentNumber: 3},
			},
		},
	}

	got := Summarize(results)
	want := RunSummary{
		TotalImages:            1,
		TotalFragments:         3,
		TotalDetectedFragments: 2,
		TotalMatchedFragments:  1,
		AvgFirstStartAccuracy:  Mean{Value: 100, Valid: true},
		AvgFirstEndAccuracy:    Mean{Value: 95, Valid: true},
		AvgAllStartAccuracy:    Mean{Value: 96, Valid: true},
		AvgAllEndAccuracy:      Mean{Value: 95, Valid: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected summary (-want +got):\n%s", diff)
	}
	if got.AvgAllStartAccuracy.String() != "96.00" {
		t.Errorf("expected 96.00, got %s", got.AvgAllStartAccuracy)
	}
}

func TestSummarize_FirstIsResponseOrder(t *testing.T) {
	results := []reconcile.PerImageResult{
		{
			FragmentComparisons: []reconcile.Comparison{
				{ActualFragmentNumber: 2, StartAccuracy: reconcile.Percent(50)},
				{ActualFragmentNumber: 1, StartAccuracy: reconcile.Percent(90)},
			},
		},
		{
			FragmentComparisons: []reconcile.Comparison{
				{ActualFragmentNumber: 1, StartAccuracy: reconcile.NotDetected(), EndAccuracy: reconcile.Percent(33.333)},
			},
		},
	}

	got := Summarize(results)
	if got.AvgFirstStartAccuracy != (Mean{Value: 50, Valid: true}) {
		t.Errorf("first start should only use index 0 of detected images, got %+v", got.AvgFirstStartAccuracy)
	}
	if got.AvgFirstEndAccuracy != (Mean{Value: 33.33, Valid: true}) {
		t.Errorf("expected rounding to two decimals, got %+v", got.AvgFirstEndAccuracy)
	}
	if got.AvgAllStartAccuracy != (Mean{Value: 70, Valid: true}) {
		t.Errorf("expected all-start mean 70, got %+v", got.AvgAllStartAccuracy)
	}
}

func TestSummarize_DegradedResults(t *testing.T) {
	results := []reconcile.PerImageResult{
		{Filename: "broken.jpg", Error: "Fragmentation/validation failed"},
		{Filename: "partial.jpg", TotalFragments: 2},
	}

	got := Summarize(results)
	if got.TotalImages != 2 || got.FailedImages != 1 {
		t.Errorf("expected 2 images with 1 failure, got %d / %d", got.TotalImages, got.FailedImages)
	}
	if got.TotalFragments != 2 || got.TotalDetectedFragments != 0 || got.TotalMatchedFragments != 0 {
		t.Errorf("unexpected counts %+v", got)
	}
	if got.AvgAllEndAccuracy.Valid {
		t.Error("expected all-end mean to be not applicable")
	}
}

func TestMean_JSONRoundTrip(t *testing.T) {
	for _, m := range []Mean{{}, {Value: 12.5, Valid: true}} {
		b, err := json.Marshal(m)
		if err != nil {
			t.Fatal(err)
		}
		var back Mean
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatal(err)
		}
		if back != m {
			t.Errorf("round trip of %+v gave %+v", m, back)
		}
	}
}
