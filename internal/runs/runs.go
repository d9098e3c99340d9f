// Package runs persists the reconciled outcome of each analysis submission.
package runs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/fraglab/internal/reconcile"
	"github.com/jackzampolin/fraglab/internal/stats"
	"github.com/jackzampolin/fraglab/internal/wire"
)

// ErrNotFound is returned when a run id has no saved report.
var ErrNotFound = errors.New("run not found")

// Kind names the service call that produced a run.
type Kind string

const (
	KindCustom    Kind = "analyze-custom"
	KindAnalyze   Kind = "analyze"
	KindReanalyze Kind = "reanalyze"
)

// Report is one submission with its reconciliation and summary.
type Report struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`

	// Source is the submitted file name(s).
	Source []string `json:"source,omitempty"`

	// Structure is the wire structure sent for custom runs.
	Structure wire.Structure `json:"structure,omitempty"`

	// GroundTruth is recomputed from the submitted sequence for custom runs.
	GroundTruth []reconcile.GroundTruth `json:"groundTruth,omitempty"`

	Images  []reconcile.ImageReconciliation `json:"images"`
	Results []reconcile.PerImageResult      `json:"results"`
	Summary stats.RunSummary                `json:"summary"`
}

// NewReport reconciles and summarizes results into a fresh report.
func NewReport(kind Kind, results []reconcile.PerImageResult) *Report {
	return &Report{
		ID:        uuid.NewString(),
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
		Images:    reconcile.ReconcileAll(results),
		Results:   results,
		Summary:   stats.Summarize(results),
	}
}

// Filenames returns the fragmented file names the service reported, for use
// with reanalyze.
func (r *Report) Filenames() []string {
	var out []string
	for _, res := range r.Results {
		name := res.FragmentedImage
		if name == "" {
			continue
		}
		out = append(out, filepath.Base(name))
	}
	return out
}

// Store saves reports as JSON files in one directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes a report.
func (s *Store) Save(r *Report) error {
	if _, err := uuid.Parse(r.ID); err != nil {
		return fmt.Errorf("invalid run id %q: %w", r.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create runs directory: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}

	tmp := s.path(r.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write run: %w", err)
	}
	return os.Rename(tmp, s.path(r.ID))
}

// Load reads a report by id.
func (s *Store) Load(id string) (*Report, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read run: %w", err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode run %s: %w", id, err)
	}
	return &r, nil
}

// List returns every saved report, newest first.
func (s *Store) List() ([]*Report, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	var out []*Report
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		r, err := s.Load(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b *Report) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
