package reconcile

import (
	"slices"

	"github.com/jackzampolin/fraglab/internal/segment"
)

// Class is the display classification of one boundary.
type Class string

const (
	ClassHigh        Class = "high"
	ClassMedium      Class = "medium"
	ClassLow         Class = "low"
	ClassNotDetected Class = "not-detected"
)

// Thresholds for Classify, in percent.
const (
	HighThreshold   = 95.0
	MediumThreshold = 85.0
)

// Classify maps an accuracy to its class. The value itself is never
// recomputed.
func Classify(a Accuracy) Class {
	switch {
	case !a.Detected:
		return ClassNotDetected
	case a.Value >= HighThreshold:
		return ClassHigh
	case a.Value >= MediumThreshold:
		return ClassMedium
	default:
		return ClassLow
	}
}

// Record pairs one ground-truth fragment with at most one detected range.
type Record struct {
	Fragment      GroundTruth    `json:"fragment"`
	Detected      *DetectedRange `json:"detected"`
	StartAccuracy Accuracy       `json:"startAccuracy"`
	EndAccuracy   Accuracy       `json:"endAccuracy"`
	StartClass    Class          `json:"startClass"`
	EndClass      Class          `json:"endClass"`

	// Matched is true when neither boundary is not-detected.
	Matched bool `json:"matched"`
}

// Reconcile produces one record per ground-truth fragment. Comparisons are
// paired by actual fragment number; fragments without a comparison are not
// detected. The detected list is only used to report ranges no comparison
// claimed.
func Reconcile(truth []GroundTruth, detected []DetectedRange, comparisons []Comparison) ([]Record, []DetectedRange) {
	byNumber := make(map[int]Comparison, len(comparisons))
	for _, c := range comparisons {
		if _, dup := byNumber[c.ActualFragmentNumber]; !dup {
			byNumber[c.ActualFragmentNumber] = c
		}
	}

	claimed := make(map[DetectedRange]bool)
	records := make([]Record, 0, len(truth))
	for _, gt := range truth {
		rec := Record{Fragment: gt}
		if c, ok := byNumber[gt.Number]; ok {
			rec.StartAccuracy = c.StartAccuracy
			rec.EndAccuracy = c.EndAccuracy
			if c.DetectedStartOffset != nil && c.DetectedEndOffset != nil {
				r := DetectedRange{Start: *c.DetectedStartOffset, End: *c.DetectedEndOffset}
				rec.Detected = &r
				claimed[r] = true
			}
		}
		rec.StartClass = Classify(rec.StartAccuracy)
		rec.EndClass = Classify(rec.EndAccuracy)
		rec.Matched = rec.StartClass != ClassNotDetected && rec.EndClass != ClassNotDetected
		records = append(records, rec)
	}

	var unpaired []DetectedRange
	for _, r := range detected {
		if !claimed[r] {
			unpaired = append(unpaired, r)
		}
	}
	return records, unpaired
}

// ImageReconciliation is the reconciled view of one PerImageResult.
type ImageReconciliation struct {
	Filename string `json:"filename"`
	Error    string `json:"error,omitempty"`

	Records  []Record        `json:"records"`
	Unpaired []DetectedRange `json:"unpaired,omitempty"`

	TotalFragments         int `json:"totalFragments"`
	TotalDetectedFragments int `json:"totalDetectedFragments"`

	// ServiceMatched is the service's own matched count. Matched counts
	// records with both boundaries classified.
	ServiceMatched int `json:"serviceMatched"`
	Matched        int `json:"matched"`

	Result PerImageResult `json:"-"`
}

// ReconcileResult reconciles one service result. A result carrying an error
// yields no records.
func ReconcileResult(r PerImageResult) ImageReconciliation {
	out := ImageReconciliation{
		Filename:               r.Filename,
		Error:                  r.Error,
		TotalFragments:         r.TotalFragments,
		TotalDetectedFragments: r.TotalDetectedFragments,
		ServiceMatched:         r.MatchedFragments,
		Result:                 r,
	}
	if r.Error != "" {
		return out
	}

	out.Records, out.Unpaired = Reconcile(GroundTruthFromResult(r), r.DetectedFragmentRanges, r.FragmentComparisons)
	for _, rec := range out.Records {
		if rec.Matched {
			out.Matched++
		}
	}
	return out
}

// ReconcileAll reconciles every result in response order.
func ReconcileAll(results []PerImageResult) []ImageReconciliation {
	out := make([]ImageReconciliation, 0, len(results))
	for _, r := range results {
		out = append(out, ReconcileResult(r))
	}
	return out
}

// GroundTruthFromResult builds the expected fragments of a service result.
// Fragment details are preferred; their output offsets locate the fragment
// in the composed artifact when present. Without details the comparisons'
// actual offsets are used.
func GroundTruthFromResult(r PerImageResult) []GroundTruth {
	if len(r.FragmentDetails) > 0 {
		out := make([]GroundTruth, 0, len(r.FragmentDetails))
		for _, d := range r.FragmentDetails {
			gt := GroundTruth{
				Number:        d.FragmentNumber,
				Start:         d.OriginalStartOffset,
				End:           d.OriginalEndOffset,
				OriginalStart: d.OriginalStartOffset,
				OriginalEnd:   d.OriginalEndOffset,
			}
			if d.OutputStartOffset != nil && d.OutputEndOffset != nil {
				gt.Start = *d.OutputStartOffset
				gt.End = *d.OutputEndOffset
			}
			out = append(out, gt)
		}
		return out
	}

	out := make([]GroundTruth, 0, len(r.FragmentComparisons))
	for _, c := range r.FragmentComparisons {
		out = append(out, GroundTruth{
			Number: c.ActualFragmentNumber,
			Start:  c.ActualStartOffset,
			End:    c.ActualEndOffset,
		})
	}
	return out
}

// GroundTruthFromSequence recomputes the expected fragments of a composed
// sequence. A fragment is a maximal run of source chunks whose indices
// ascend by one; a filler or an out-of-order chunk starts a new fragment.
func GroundTruthFromSequence(seq []segment.Segment) []GroundTruth {
	originalStart := originalOffsets(seq)

	var (
		out    []GroundTruth
		offset int64
		prev   = -1
		open   bool
	)
	for _, s := range seq {
		if s.IsFiller() {
			open = false
			offset += s.Size
			continue
		}

		if open && s.SourceIndex == prev+1 {
			cur := &out[len(out)-1]
			cur.End = offset + s.Size
			cur.OriginalEnd = originalStart[s.SourceIndex] + s.Size
		} else {
			out = append(out, GroundTruth{
				Number:        len(out) + 1,
				Start:         offset,
				End:           offset + s.Size,
				OriginalStart: originalStart[s.SourceIndex],
				OriginalEnd:   originalStart[s.SourceIndex] + s.Size,
			})
			open = true
		}
		prev = s.SourceIndex
		offset += s.Size
	}
	return out
}

// originalOffsets returns each source chunk's offset in the original file.
func originalOffsets(seq []segment.Segment) map[int]int64 {
	var chunks []segment.Segment
	for _, s := range seq {
		if !s.IsFiller() {
			chunks = append(chunks, s)
		}
	}
	slices.SortFunc(chunks, func(a, b segment.Segment) int { return a.SourceIndex - b.SourceIndex })

	out := make(map[int]int64, len(chunks))
	var off int64
	for _, c := range chunks {
		out[c.SourceIndex] = off
		off += c.Size
	}
	return out
}
