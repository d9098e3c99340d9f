// Package composer holds the single authoritative editing session: the loaded
// source file, its segment model, the drag controller and the submission
// guard.
package composer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/jackzampolin/fraglab/internal/analysis"
	"github.com/jackzampolin/fraglab/internal/reconcile"
	"github.com/jackzampolin/fraglab/internal/reorder"
	"github.com/jackzampolin/fraglab/internal/runs"
	"github.com/jackzampolin/fraglab/internal/segment"
	"github.com/jackzampolin/fraglab/internal/wire"
)

// DefaultChunkSize is the nominal source chunk length.
const DefaultChunkSize int64 = 4096

var (
	// ErrSubmissionPending is returned when a service call is already in flight.
	ErrSubmissionPending = errors.New("submission already pending")

	// ErrNoSource is returned by operations that need a loaded source file.
	ErrNoSource = fmt.Errorf("%w: no source file loaded", segment.ErrInvalidOperation)
)

// Analyzer is the part of the analysis client the session uses.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.AnalyzeRequest) (*analysis.Response, error)
	AnalyzeCustom(ctx context.Context, f analysis.File, structure wire.Structure) (*analysis.Response, error)
	Reanalyze(ctx context.Context, filenames []string) (*analysis.Response, error)
	JPEGInfo(ctx context.Context, f analysis.File) (*analysis.JPEGInfo, error)
}

// Config holds session sizing.
type Config struct {
	ChunkSize      int64
	FillerSize     int64
	DefaultVariant segment.Variant
}

// Session is safe for concurrent use. All model access goes through its lock.
type Session struct {
	mu sync.Mutex

	cfg      Config
	analyzer Analyzer
	store    *runs.Store
	logger   *slog.Logger

	sourceName string
	source     []byte

	model   *segment.Model
	palette *reorder.Palette
	ctrl    *reorder.Controller

	pending bool
	latest  *runs.Report
}

// Option configures a Session.
type Option func(*Session)

// WithStore persists every report to store.
func WithStore(store *runs.Store) Option {
	return func(s *Session) { s.store = store }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an empty session.
func New(cfg Config, analyzer Analyzer, opts ...Option) *Session {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.FillerSize <= 0 {
		cfg.FillerSize = segment.DefaultFillerSize
	}
	if cfg.DefaultVariant == "" {
		cfg.DefaultVariant = segment.VariantRandom
	}

	s := &Session{
		cfg:      cfg,
		analyzer: analyzer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.model = segment.NewModel(segment.WithFillerSize(cfg.FillerSize), segment.WithLogger(s.logger))
	s.palette = reorder.NewPalette()
	s.ctrl = reorder.NewController(s.model, s.palette)
	return s
}

// Config returns the session sizing.
func (s *Session) Config() Config { return s.cfg }

// Load replaces the source file and initializes the model from it.
func (s *Session) Load(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.model.Initialize(int64(len(data)), s.cfg.ChunkSize); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	s.ctrl.Cancel()
	s.palette.Clear()
	s.sourceName = name
	s.source = slices.Clone(data)

	s.logger.Info("source loaded", "name", name, "bytes", len(data), "chunks", s.model.Chunks())
	return nil
}

// Clear drops the source file and empties the model.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctrl.Cancel()
	s.model.Reset()
	s.palette.Clear()
	s.sourceName = ""
	s.source = nil
}

// ResetStructure rebuilds the model from the loaded source, dropping fillers
// and restoring ascending chunk order.
func (s *Session) ResetStructure() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil {
		return ErrNoSource
	}
	s.ctrl.Cancel()
	s.palette.Clear()
	return s.model.Initialize(int64(len(s.source)), s.cfg.ChunkSize)
}

// InsertFiller places a new filler at index. An empty variant selects the
// configured default.
func (s *Session) InsertFiller(variant segment.Variant, index int) (segment.Segment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil {
		return segment.Segment{}, ErrNoSource
	}
	if variant == "" {
		variant = s.cfg.DefaultVariant
	}
	seg, err := s.model.InsertFiller(variant, index)
	if err != nil {
		return segment.Segment{}, err
	}
	s.palette.MarkUsed(seg.Variant, seg.FillerID)
	return seg, nil
}

// RemoveFiller removes a filler and clears its palette marker.
func (s *Session) RemoveFiller(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.model.RemoveFiller(id); err != nil {
		return err
	}
	s.palette.Release(id)
	return nil
}

// ClearFillers removes every filler.
func (s *Session) ClearFillers() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.model.ClearFillers()
	s.palette.Clear()
}

// Move relocates the segment at from next to the segment at to.
func (s *Session) Move(from, to int, side segment.Side) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.model.Move(from, to, side)
}

// Gesture runs fn with exclusive access to the drag controller and model.
// Interactive front ends drive Begin, Hover and Drop through it.
func (s *Session) Gesture(fn func(ctrl *reorder.Controller, model *segment.Model) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.ctrl, s.model)
}

// DropRequest describes one complete drag gesture.
type DropRequest struct {
	// Exactly one of Key or Variant names the dragged item.
	Key     *segment.Key     `json:"key,omitempty"`
	Variant *segment.Variant `json:"variant,omitempty"`

	// Target and Side name the drop position. A nil Target with Tail set
	// drops after the last segment; with neither set the drop is cancelled.
	Target *segment.Key `json:"target,omitempty"`
	Side   string       `json:"side,omitempty"`
	Tail   bool         `json:"tail,omitempty"`
}

// Drop runs a whole gesture in one step.
func (s *Session) Drop(req DropRequest) (reorder.Result, error) {
	side, err := segment.ParseSide(req.Side)
	if err != nil {
		return reorder.Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var src reorder.Source
	switch {
	case req.Key != nil && req.Variant == nil:
		seg, ok := s.model.Get(*req.Key)
		if !ok {
			return reorder.Result{}, fmt.Errorf("%w: %s", segment.ErrNotFound, *req.Key)
		}
		src = reorder.FromSegment(seg)
	case req.Variant != nil && req.Key == nil:
		src, err = s.palette.Source(*req.Variant, s.model.FillerSize())
		if err != nil {
			return reorder.Result{}, err
		}
	default:
		return reorder.Result{}, fmt.Errorf("%w: drop needs exactly one of key or variant", segment.ErrInvalidInput)
	}

	s.ctrl.Cancel()
	if err := s.ctrl.Begin(src); err != nil {
		return reorder.Result{}, err
	}
	switch {
	case req.Target != nil:
		s.ctrl.Hover(*req.Target, side)
	case req.Tail:
		s.ctrl.HoverTail()
	}
	return s.ctrl.Drop()
}

// View is a read-only projection of the session.
type View struct {
	Source      string                  `json:"source,omitempty"`
	SourceBytes int64                   `json:"sourceBytes"`
	ChunkSize   int64                   `json:"chunkSize"`
	FillerSize  int64                   `json:"fillerSize"`
	TotalBytes  int64                   `json:"totalBytes"`
	Pending     bool                    `json:"pending"`
	Sequence    []segment.Segment       `json:"-"`
	Structure   wire.Structure          `json:"structure"`
	GroundTruth []reconcile.GroundTruth `json:"groundTruth"`
	Palette     []reorder.PaletteEntry  `json:"palette"`
	LatestRun   string                  `json:"latestRun,omitempty"`
}

// View snapshots the session. The returned value shares nothing with it.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.model.Sequence()
	v := View{
		Source:      s.sourceName,
		SourceBytes: int64(len(s.source)),
		ChunkSize:   s.cfg.ChunkSize,
		FillerSize:  s.model.FillerSize(),
		TotalBytes:  s.model.TotalBytes(),
		Pending:     s.pending,
		Sequence:    seq,
		Structure:   wire.Serialize(seq),
		GroundTruth: reconcile.GroundTruthFromSequence(seq),
		Palette:     s.palette.Entries(),
	}
	if s.latest != nil {
		v.LatestRun = s.latest.ID
	}
	return v
}

// Pending reports whether a service call is in flight.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Latest returns the most recent report, if any.
func (s *Session) Latest() *runs.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// acquire marks a service call in flight. The returned release must be
// deferred by the caller.
func (s *Session) acquire() (func(), error) {
	if s.pending {
		return nil, ErrSubmissionPending
	}
	s.pending = true
	return func() {
		s.mu.Lock()
		s.pending = false
		s.mu.Unlock()
	}, nil
}

// Submit serializes the live model, sends it to the Analysis Service and
// returns the reconciled report. Only one call may be in flight.
func (s *Session) Submit(ctx context.Context) (*runs.Report, error) {
	s.mu.Lock()
	if s.source == nil {
		s.mu.Unlock()
		return nil, ErrNoSource
	}
	structure := wire.FromModel(s.model)
	if err := structure.Validate(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	truth := reconcile.GroundTruthFromSequence(s.model.Sequence())
	file := analysis.File{Name: s.sourceName, Data: s.source}
	release, err := s.acquire()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	defer release()

	s.logger.Info("submitting structure", "source", file.Name, "segments", len(structure), "bytes", structure.TotalBytes())
	resp, err := s.analyzer.AnalyzeCustom(ctx, file, structure)
	if err != nil {
		s.logger.Error("submission failed", "source", file.Name, "error", err)
		return nil, err
	}

	report := runs.NewReport(runs.KindCustom, resp.Results)
	report.Source = []string{file.Name}
	report.Structure = structure
	report.GroundTruth = truth
	return s.finish(report), nil
}

// Analyze sends files for batch fragmentation and detection.
func (s *Session) Analyze(ctx context.Context, req analysis.AnalyzeRequest) (*runs.Report, error) {
	s.mu.Lock()
	release, err := s.acquire()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	defer release()

	resp, err := s.analyzer.Analyze(ctx, req)
	if err != nil {
		s.logger.Error("analysis failed", "files", len(req.Files), "error", err)
		return nil, err
	}

	report := runs.NewReport(runs.KindAnalyze, resp.Results)
	for _, f := range req.Files {
		report.Source = append(report.Source, f.Name)
	}
	return s.finish(report), nil
}

// Reanalyze reruns detection on fragmented files. With no filenames the
// files of the latest report are used.
func (s *Session) Reanalyze(ctx context.Context, filenames []string) (*runs.Report, error) {
	s.mu.Lock()
	if len(filenames) == 0 && s.latest != nil {
		filenames = s.latest.Filenames()
	}
	if len(filenames) == 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: no filenames to reanalyze", segment.ErrInvalidInput)
	}
	release, err := s.acquire()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	defer release()

	resp, err := s.analyzer.Reanalyze(ctx, filenames)
	if err != nil {
		s.logger.Error("reanalysis failed", "files", len(filenames), "error", err)
		return nil, err
	}

	report := runs.NewReport(runs.KindReanalyze, resp.Results)
	report.Source = filenames
	return s.finish(report), nil
}

// JPEGInfo asks the service about the loaded source file.
func (s *Session) JPEGInfo(ctx context.Context) (*analysis.JPEGInfo, error) {
	s.mu.Lock()
	if s.source == nil {
		s.mu.Unlock()
		return nil, ErrNoSource
	}
	file := analysis.File{Name: s.sourceName, Data: s.source}
	s.mu.Unlock()

	return s.analyzer.JPEGInfo(ctx, file)
}

func (s *Session) finish(report *runs.Report) *runs.Report {
	if s.store != nil {
		if err := s.store.Save(report); err != nil {
			s.logger.Warn("failed to save run", "id", report.ID, "error", err)
		}
	}

	s.mu.Lock()
	s.latest = report
	s.mu.Unlock()

	s.logger.Info("run complete",
		"id", report.ID,
		"kind", report.Kind,
		"images", report.Summary.TotalImages,
		"matched", report.Summary.TotalMatchedFragments,
	)
	return report
}
