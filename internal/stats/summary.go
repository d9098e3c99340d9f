// Package stats folds per-image analysis results into run-level aggregates.
package stats

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/jackzampolin/fraglab/internal/reconcile"
)

// NotApplicable is how an empty mean renders.
const NotApplicable = "N/A"

// Mean is an average accuracy rounded to two decimals. Valid is false when
// there were no detected values to average.
type Mean struct {
	Value float64
	Valid bool
}

func (m Mean) String() string {
	if !m.Valid {
		return NotApplicable
	}
	return fmt.Sprintf("%.2f", m.Value)
}

// MarshalJSON writes a number, or "N/A" for an empty series.
func (m Mean) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return json.Marshal(NotApplicable)
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON reads what MarshalJSON writes.
func (m *Mean) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = Mean{}
	if f, ok := v.(float64); ok {
		*m = Mean{Value: f, Valid: true}
	}
	return nil
}

// RunSummary aggregates one submission.
type RunSummary struct {
	TotalImages            int `json:"totalImages"`
	FailedImages           int `json:"failedImages"`
	TotalFragments         int `json:"totalFragments"`
	TotalDetectedFragments int `json:"totalDetectedFragments"`
	TotalMatchedFragments  int `json:"totalMatchedFragments"`

	AvgFirstStartAccuracy Mean `json:"avgFirstStartAccuracy"`
	AvgFirstEndAccuracy   Mean `json:"avgFirstEndAccuracy"`
	AvgAllStartAccuracy   Mean `json:"avgAllStartAccuracy"`
	AvgAllEndAccuracy     Mean `json:"avgAllEndAccuracy"`
}

// Summarize computes the run summary. Only detected accuracies are averaged.
// The first fragment of an image is the first comparison in the order the
// service returned them.
func Summarize(results []reconcile.PerImageResult) RunSummary {
	s := RunSummary{TotalImages: len(results)}

	var firstStart, firstEnd, allStart, allEnd []float64
	for _, r := range results {
		if r.Error != "" {
			s.FailedImages++
		}
		s.TotalFragments += r.TotalFragments
		s.TotalDetectedFragments += r.TotalDetectedFragments
		s.TotalMatchedFragments += r.MatchedFragments

		for i, c := range r.FragmentComparisons {
			if c.StartAccuracy.Detected {
				allStart = append(allStart, c.StartAccuracy.Value)
				if i == 0 {
					firstStart = append(firstStart, c.StartAccuracy.Value)
				}
			}
			if c.EndAccuracy.Detected {
				allEnd = append(allEnd, c.EndAccuracy.Value)
				if i == 0 {
					firstEnd = append(firstEnd, c.EndAccuracy.Value)
				}
			}
		}
	}

	s.AvgFirstStartAccuracy = mean(firstStart)
	s.AvgFirstEndAccuracy = mean(firstEnd)
	s.AvgAllStartAccuracy = mean(allStart)
	s.AvgAllEndAccuracy = mean(allEnd)
	return s
}

func mean(xs []float64) Mean {
	if len(xs) == 0 {
		return Mean{}
	}
	return Mean{Value: math.Round(stat.Mean(xs, nil)*100) / 100, Valid: true}
}
