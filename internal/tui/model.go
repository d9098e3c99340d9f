// Package tui is the interactive composer: a terminal strip of segments that
// can be reordered with the mouse or keyboard, a filler palette and a results
// panel for the latest analysis run.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jackzampolin/fraglab/internal/analysis"
	"github.com/jackzampolin/fraglab/internal/composer"
	"github.com/jackzampolin/fraglab/internal/reorder"
	"github.com/jackzampolin/fraglab/internal/runs"
	"github.com/jackzampolin/fraglab/internal/segment"
)

// stripTop is the first screen row of the strip, below the two header lines
// and a blank line.
const stripTop = 3

// footerLines is the number of rows below the results panel.
const footerLines = 2

type submitDoneMsg struct {
	report *runs.Report
	err    error
}

type jpegInfoMsg struct {
	info *analysis.JPEGInfo
	err  error
}

// drag mirrors the controller state for rendering.
type drag struct {
	source     reorder.Source
	target     reorder.Target
	hasTarget  bool
	preview    int
	hasPreview bool
}

// Model is the bubbletea model of the composer.
type Model struct {
	ctx     context.Context
	session *composer.Session
	styles  Styles

	variants []segment.Variant
	variant  segment.Variant

	width, height int
	selected      int
	drag          *drag
	submitting    bool

	report  *runs.Report
	info    *analysis.JPEGInfo
	status  string
	err     error
	results viewport.Model
}

// New creates a composer over session. ctx bounds service calls.
func New(ctx context.Context, session *composer.Session) Model {
	m := Model{
		ctx:      ctx,
		session:  session,
		styles:   DefaultStyles(),
		variants: segment.Variants,
		variant:  session.Config().DefaultVariant,
		width:    80,
		height:   24,
		results:  viewport.New(80, 8),
		report:   session.Latest(),
	}
	if m.variant == "" {
		m.variant = segment.VariantRandom
	}
	m.refreshResults()
	return m
}

// Run starts the composer full screen with mouse support.
func Run(ctx context.Context, session *composer.Session) error {
	p := tea.NewProgram(
		New(ctx, session),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) layout() layout {
	return newLayout(m.width, stripTop, len(m.session.View().Sequence), m.variants)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeResults()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case submitDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.setErr(msg.err)
			return m, nil
		}
		m.report = msg.report
		m.err = nil
		m.status = fmt.Sprintf("run %s: %d/%d fragments matched", shortID(msg.report.ID),
			msg.report.Summary.TotalMatchedFragments, msg.report.Summary.TotalFragments)
		m.refreshResults()
		return m, nil

	case jpegInfoMsg:
		if msg.err != nil {
			m.setErr(msg.err)
			return m, nil
		}
		m.info = msg.info
		m.err = nil
		m.status = fmt.Sprintf("entropy data %d..%d, safe filler from block %d",
			msg.info.EntropyStart, msg.info.EntropyEnd, msg.info.SafeNoiseStartBlock)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.session.View().Sequence)
	m.err = nil

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.cancelDrag()
		m.status = "drag cancelled"
	case "left", "h":
		if m.selected > 0 {
			m.selected--
		}
	case "right", "l":
		if m.selected < n-1 {
			m.selected++
		}
	case "[":
		if m.selected > 0 {
			m.apply(m.session.Move(m.selected, m.selected-1, segment.Before))
			if m.err == nil {
				m.selected--
			}
		}
	case "]":
		if m.selected < n-1 {
			m.apply(m.session.Move(m.selected, m.selected+1, segment.After))
			if m.err == nil {
				m.selected++
			}
		}
	case "f":
		at := m.selected + 1
		if n == 0 {
			at = 0
		}
		seg, err := m.session.InsertFiller(m.variant, at)
		m.apply(err)
		if err == nil {
			m.selected = at
			m.status = fmt.Sprintf("inserted %s filler %d", seg.Variant, seg.FillerID)
		}
	case "x", "delete":
		m.removeSelected()
	case "c":
		m.session.ClearFillers()
		m.status = "fillers cleared"
	case "r":
		m.drag = nil
		m.apply(m.session.ResetStructure())
		if m.err == nil {
			m.status = "structure reset"
		}
	case "1", "2", "3":
		i := int(msg.String()[0] - '1')
		if i < len(m.variants) {
			m.variant = m.variants[i]
			m.status = fmt.Sprintf("default filler: %s", m.variant)
		}
	case "s":
		return m.submit()
	case "i":
		m.status = "asking for entropy region..."
		return m, jpegInfoCmd(m.ctx, m.session)
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}

	m.clampSelection()
	return m, nil
}

func (m *Model) removeSelected() {
	seg, ok := m.selectedSegment()
	if !ok {
		return
	}
	if !seg.IsFiller() {
		m.status = "only fillers can be removed"
		return
	}
	m.apply(m.session.RemoveFiller(seg.FillerID))
	if m.err == nil {
		m.status = fmt.Sprintf("removed filler %d", seg.FillerID)
	}
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.submitting || m.session.Pending() {
		m.status = "submission already pending"
		return m, nil
	}
	if m.session.View().Source == "" {
		m.setErr(composer.ErrNoSource)
		return m, nil
	}
	m.submitting = true
	m.status = "submitting..."
	return m, submitCmd(m.ctx, m.session)
}

func submitCmd(ctx context.Context, s *composer.Session) tea.Cmd {
	return func() tea.Msg {
		report, err := s.Submit(ctx)
		return submitDoneMsg{report: report, err: err}
	}
}

func jpegInfoCmd(ctx context.Context, s *composer.Session) tea.Cmd {
	return func() tea.Msg {
		info, err := s.JPEGInfo(ctx)
		return jpegInfoMsg{info: info, err: err}
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.press(msg.X, msg.Y)
	case msg.Action == tea.MouseActionMotion:
		m.motion(msg.X, msg.Y)
	case msg.Action == tea.MouseActionRelease:
		m.release()
	}
	return m, nil
}

// press starts a gesture on a strip segment or palette entry.
func (m *Model) press(x, y int) {
	h := m.layout().at(x, y)
	if h.kind != hitSegment && h.kind != hitPalette {
		return
	}

	var src reorder.Source
	err := m.session.Gesture(func(ctrl *reorder.Controller, model *segment.Model) error {
		ctrl.Cancel()
		switch h.kind {
		case hitSegment:
			seg, err := model.At(h.index)
			if err != nil {
				return err
			}
			src = reorder.FromSegment(seg)
		case hitPalette:
			src = reorder.FromPalette(h.variant, model.FillerSize())
		}
		return ctrl.Begin(src)
	})
	if err != nil {
		m.setErr(err)
		return
	}
	if h.kind == hitSegment {
		m.selected = h.index
	}
	m.drag = &drag{source: src}
	m.err = nil
}

// motion updates the hovered target of an active gesture.
func (m *Model) motion(x, y int) {
	if m.drag == nil {
		return
	}
	h := m.layout().at(x, y)

	d := *m.drag
	_ = m.session.Gesture(func(ctrl *reorder.Controller, model *segment.Model) error {
		switch h.kind {
		case hitSegment:
			seg, err := model.At(h.index)
			if err != nil {
				ctrl.Leave()
				break
			}
			side := reorder.SideFromGeometry(float64(x)+0.5, float64(h.left), float64(h.width))
			ctrl.Hover(seg.Key(), side)
		case hitTail:
			ctrl.HoverTail()
		default:
			ctrl.Leave()
		}
		d.target, d.hasTarget = ctrl.Target()
		d.preview, d.hasPreview = ctrl.Preview()
		return nil
	})
	m.drag = &d
}

// release completes the gesture where the cursor last hovered.
func (m *Model) release() {
	if m.drag == nil {
		return
	}
	m.drag = nil

	var res reorder.Result
	err := m.session.Gesture(func(ctrl *reorder.Controller, model *segment.Model) error {
		var err error
		res, err = ctrl.Drop()
		return err
	})
	if err != nil {
		m.setErr(err)
		return
	}
	if !res.Applied {
		return
	}
	m.selected = res.Index
	if res.Inserted != nil {
		m.status = fmt.Sprintf("inserted %s filler %d", res.Inserted.Variant, res.Inserted.FillerID)
	} else {
		m.status = fmt.Sprintf("moved to %d", res.Index)
	}
	m.clampSelection()
}

func (m *Model) cancelDrag() {
	m.drag = nil
	_ = m.session.Gesture(func(ctrl *reorder.Controller, _ *segment.Model) error {
		ctrl.Cancel()
		return nil
	})
}

func (m *Model) selectedSegment() (segment.Segment, bool) {
	seq := m.session.View().Sequence
	if m.selected < 0 || m.selected >= len(seq) {
		return segment.Segment{}, false
	}
	return seq[m.selected], true
}

func (m *Model) clampSelection() {
	n := len(m.session.View().Sequence)
	m.selected = min(max(m.selected, 0), max(n-1, 0))
}

func (m *Model) apply(err error) {
	if err != nil {
		m.setErr(err)
	}
}

func (m *Model) setErr(err error) {
	m.err = err
	m.status = ""
}

func (m *Model) resizeResults() {
	used := stripTop + m.layout().stripRows() + 4 + footerLines
	m.results.Width = m.width
	m.results.Height = max(m.height-used, 3)
	m.refreshResults()
}

func (m *Model) refreshResults() {
	m.results.SetContent(renderReport(m.styles, m.report))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
