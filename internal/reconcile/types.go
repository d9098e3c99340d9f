// Package reconcile pairs ground-truth fragments with the ranges reported by
// the Analysis Service and classifies boundary accuracy.
package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NotDetectedLabel is the service's sentinel for a boundary with no match.
const NotDetectedLabel = "Not Detected"

// Accuracy is a boundary accuracy percentage as reported by the service.
// The zero value is not detected.
type Accuracy struct {
	Value    float64
	Detected bool
}

// Percent returns a detected accuracy.
func Percent(v float64) Accuracy { return Accuracy{Value: v, Detected: true} }

// NotDetected returns the sentinel accuracy.
func NotDetected() Accuracy { return Accuracy{} }

func (a Accuracy) String() string {
	if !a.Detected {
		return NotDetectedLabel
	}
	return fmt.Sprintf("%.2f%%", a.Value)
}

// UnmarshalJSON accepts "99.50%", 99.5, "Not Detected" and null. Anything
// unreadable is treated as not detected.
func (a *Accuracy) UnmarshalJSON(b []byte) error {
	*a = Accuracy{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
		if s == "" || strings.EqualFold(s, NotDetectedLabel) {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		*a = Percent(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	*a = Percent(v)
	return nil
}

// MarshalJSON writes detected values as numbers and the sentinel as a string.
func (a Accuracy) MarshalJSON() ([]byte, error) {
	if !a.Detected {
		return json.Marshal(NotDetectedLabel)
	}
	return json.Marshal(a.Value)
}

// DetectedRange is a byte range the detector reports as one fragment.
type DetectedRange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// FragmentDetail is a ground-truth fragment as echoed by the service.
type FragmentDetail struct {
	FragmentNumber           int    `json:"fragmentNumber"`
	OriginalStartOffset      int64  `json:"originalStartOffset"`
	OriginalEndOffset        int64  `json:"originalEndOffset"`
	OutputStartOffset        *int64 `json:"outputStartOffset,omitempty"`
	OutputEndOffset          *int64 `json:"outputEndOffset,omitempty"`
	InsertionOffset          *int64 `json:"insertionOffset,omitempty"`
	InsertionLength          *int64 `json:"insertionLength,omitempty"`
	InsertionPointInOriginal *int64 `json:"insertionPointInOriginal,omitempty"`
}

// Comparison is the service's pairing of one ground-truth fragment with its
// best detected range.
type Comparison struct {
	ActualFragmentNumber  int      `json:"actualFragmentNumber"`
	ActualStartOffset     int64    `json:"actualStartOffset"`
	ActualEndOffset       int64    `json:"actualEndOffset"`
	DetectedStartOffset   *int64   `json:"detectedStartOffset"`
	DetectedEndOffset     *int64   `json:"detectedEndOffset"`
	StartOffsetDifference *int64   `json:"startOffsetDifference,omitempty"`
	EndOffsetDifference   *int64   `json:"endOffsetDifference,omitempty"`
	StartAccuracy         Accuracy `json:"startAccuracy"`
	EndAccuracy           Accuracy `json:"endAccuracy"`
}

// PerImageResult is one entry of an analysis response. Missing counts decode
// as zero.
type PerImageResult struct {
	Filename               string           `json:"filename"`
	Error                  string           `json:"error,omitempty"`
	TotalFragments         int              `json:"totalFragments"`
	TotalDetectedFragments int              `json:"totalDetectedFragments"`
	MatchedFragments       int              `json:"matchedFragments"`
	TotalInsertedBytes     int64            `json:"totalInsertedBytes,omitempty"`
	OriginalJPEGSize       int64            `json:"originalJpegSize,omitempty"`
	OutputJPEGSize         int64            `json:"outputJpegSize,omitempty"`
	DetectionRate          string           `json:"detectionRate,omitempty"`
	ValidationMessage      string           `json:"validationMessage,omitempty"`
	FragmentedImage        string           `json:"fragmentedImage,omitempty"`
	FragmentDetails        []FragmentDetail `json:"fragmentDetails,omitempty"`
	DetectedFragmentRanges []DetectedRange  `json:"detectedFragmentRanges,omitempty"`
	FragmentComparisons    []Comparison     `json:"fragmentComparisons,omitempty"`
}

// GroundTruth is one expected fragment. Start and End are offsets in the
// composed artifact, End exclusive.
type GroundTruth struct {
	Number int   `json:"number"`
	Start  int64 `json:"start"`
	End    int64 `json:"end"`

	// OriginalStart and OriginalEnd locate the fragment in the source file.
	OriginalStart int64 `json:"originalStart"`
	OriginalEnd   int64 `json:"originalEnd"`
}
