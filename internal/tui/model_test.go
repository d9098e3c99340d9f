package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/jackzampolin/fraglab/internal/analysis"
	"github.com/jackzampolin/fraglab/internal/composer"
	"github.com/jackzampolin/fraglab/internal/reconcile"
	"github.com/jackzampolin/fraglab/internal/segment"
	"github.com/jackzampolin/fraglab/internal/wire"
)

type stubAnalyzer struct {
	structure wire.Structure
	err       error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, req analysis.AnalyzeRequest) (*analysis.Response, error) {
	return &analysis.Response{Success: true}, s.err
}

func (s *stubAnalyzer) AnalyzeCustom(ctx context.Context, f analysis.File, structure wire.Structure) (*analysis.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.structure = structure
	return &analysis.Response{Success: true, Results: []reconcile.PerImageResult{{
		Filename:         f.Name,
		TotalFragments:   1,
		MatchedFragments: 1,
		FragmentComparisons: []reconcile.Comparison{{
			ActualFragmentNumber: 1,
			StartAccuracy:        reconcile.Percent(100),
			EndAccuracy:          reconcile.Percent(90),
		}},
	}}}, nil
}

func (s *stubAnalyzer) Reanalyze(ctx context.Context, filenames []string) (*analysis.Response, error) {
	return &analysis.Response{Success: true}, s.err
}

func (s *stubAnalyzer) JPEGInfo(ctx context.Context, f analysis.File) (*analysis.JPEGInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &analysis.JPEGInfo{Success: true, EntropyStart: 2, EntropyEnd: int64(len(f.Data)), SafeNoiseStartBlock: 1}, nil
}

// newTestModel returns a composer over four 4-byte chunks on an 80x24 screen.
func newTestModel(t *testing.T, a *stubAnalyzer) (Model, *composer.Session) {
	t.Helper()
	s := composer.New(composer.Config{ChunkSize: 4, FillerSize: 2}, a)
	if err := s.Load("cat.jpg", make([]byte, 16)); err != nil {
		t.Fatal(err)
	}
	m := New(context.Background(), s)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, s
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func keys(s *composer.Session) []segment.Key {
	var out []segment.Key
	for _, seg := range s.View().Sequence {
		out = append(out, seg.Key())
	}
	return out
}

func chunks(idx ...int) []segment.Key {
	out := make([]segment.Key, len(idx))
	for i, n := range idx {
		out[i] = segment.ChunkKey(n)
	}
	return out
}

func TestLayout(t *testing.T) {
	l := newLayout(4*cellWidth, stripTop, 6, segment.Variants)

	if l.perRow != 4 || l.stripRows() != 2 {
		t.Fatalf("expected 4 per row over 2 rows, got %d over %d", l.perRow, l.stripRows())
	}
	if l.paletteTop != stripTop+4 {
		t.Errorf("expected palette at row %d, got %d", stripTop+4, l.paletteTop)
	}

	tests := []struct {
		name string
		x, y int
		want hit
	}{
		{"first cell", 1, stripTop, hit{kind: hitSegment, index: 0, left: 0, width: cellWidth}},
		{"wrapped cell", cellWidth + 2, stripTop + 1, hit{kind: hitSegment, index: 5, left: cellWidth, width: cellWidth}},
		{"after last segment", 3 * cellWidth, stripTop + 1, hit{kind: hitTail}},
		{"above strip", 0, stripTop - 1, hit{}},
		{"palette", paletteWidth + 1, l.paletteTop, hit{kind: hitPalette, index: 1, left: paletteWidth, width: paletteWidth, variant: segment.Variants[1]}},
		{"past palette", 5 * paletteWidth, l.paletteTop, hit{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.at(tt.x, tt.y)
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(hit{})); diff != "" {
				t.Errorf("at(%d, %d) mismatch (-want +got):\n%s", tt.x, tt.y, diff)
			}
		})
	}

	empty := newLayout(80, stripTop, 0, segment.Variants)
	if h := empty.at(0, stripTop); h.kind != hitTail {
		t.Errorf("expected an empty strip to accept tail drops, got %+v", h)
	}
}

func TestKeyboardEditing(t *testing.T) {
	m, s := newTestModel(t, &stubAnalyzer{})

	m = update(t, m, key("]"))
	if diff := cmp.Diff(chunks(1, 0, 2, 3), keys(s)); diff != "" {
		t.Errorf("move right mismatch (-want +got):\n%s", diff)
	}
	if m.selected != 1 {
		t.Errorf("expected selection to follow the moved chunk, got %d", m.selected)
	}

	m = update(t, m, key("f"))
	seq := s.View().Sequence
	if len(seq) != 5 || !seq[2].IsFiller() || seq[2].Variant != segment.VariantRandom {
		t.Fatalf("expected a random filler at index 2, got %+v", seq)
	}
	if m.selected != 2 {
		t.Errorf("expected the new filler selected, got %d", m.selected)
	}

	m = update(t, m, key("left"))
	m = update(t, m, key("x"))
	if m.status != "only fillers can be removed" {
		t.Errorf("unexpected status %q", m.status)
	}

	m = update(t, m, key("right"))
	m = update(t, m, key("x"))
	if got := len(s.View().Sequence); got != 4 {
		t.Errorf("expected the filler removed, got %d segments", got)
	}

	m = update(t, m, key("2"))
	m = update(t, m, key("f"))
	if seq := s.View().Sequence; !seq[m.selected].IsFiller() || seq[m.selected].Variant != segment.Variants[1] {
		t.Errorf("expected a %s filler, got %+v", segment.Variants[1], seq[m.selected])
	}

	m = update(t, m, key("r"))
	if diff := cmp.Diff(chunks(0, 1, 2, 3), keys(s)); diff != "" {
		t.Errorf("reset mismatch (-want +got):\n%s", diff)
	}
	if m.selected > 3 {
		t.Errorf("expected selection clamped after reset, got %d", m.selected)
	}
}

func TestMouseDrag(t *testing.T) {
	m, s := newTestModel(t, &stubAnalyzer{})

	// drag chunk 0 onto the right half of chunk 3
	m = update(t, m, mouse(tea.MouseActionPress, 1, stripTop))
	if m.drag == nil {
		t.Fatal("expected a drag after pressing a segment")
	}
	m = update(t, m, mouse(tea.MouseActionMotion, 3*cellWidth+5, stripTop))
	if !m.drag.hasTarget || m.drag.target.Key != segment.ChunkKey(3) || m.drag.target.Side != segment.After {
		t.Fatalf("unexpected target %+v", m.drag.target)
	}
	if !strings.Contains(m.View(), "▐") {
		t.Error("expected an after-side drop indicator")
	}
	m = update(t, m, mouse(tea.MouseActionRelease, 3*cellWidth+5, stripTop))
	if diff := cmp.Diff(chunks(1, 2, 3, 0), keys(s)); diff != "" {
		t.Errorf("drag mismatch (-want +got):\n%s", diff)
	}
	if m.drag != nil || m.selected != 3 {
		t.Errorf("expected gesture finished with chunk selected at 3, got drag=%v selected=%d", m.drag, m.selected)
	}

	// drag a palette filler before the first segment
	paletteTop := m.layout().paletteTop
	m = update(t, m, mouse(tea.MouseActionPress, 1, paletteTop))
	m = update(t, m, mouse(tea.MouseActionMotion, 1, stripTop))
	m = update(t, m, mouse(tea.MouseActionRelease, 1, stripTop))
	seq := s.View().Sequence
	if len(seq) != 5 || !seq[0].IsFiller() || seq[0].Variant != segment.Variants[0] {
		t.Fatalf("expected a palette filler at index 0, got %+v", seq)
	}
	if !strings.Contains(m.status, "inserted") {
		t.Errorf("unexpected status %q", m.status)
	}

	// drag to the tail
	m = update(t, m, mouse(tea.MouseActionPress, 1, stripTop))
	m = update(t, m, mouse(tea.MouseActionMotion, 6*cellWidth, stripTop))
	if !m.drag.target.Tail {
		t.Fatalf("expected tail target, got %+v", m.drag.target)
	}
	m = update(t, m, mouse(tea.MouseActionRelease, 6*cellWidth, stripTop))
	if seq := s.View().Sequence; !seq[len(seq)-1].IsFiller() {
		t.Errorf("expected filler moved to the end, got %+v", seq)
	}
}

func TestMouseDrag_Cancel(t *testing.T) {
	m, s := newTestModel(t, &stubAnalyzer{})

	m = update(t, m, mouse(tea.MouseActionPress, 1, stripTop))
	m = update(t, m, mouse(tea.MouseActionMotion, 2*cellWidth+5, stripTop))
	m = update(t, m, key("esc"))
	m = update(t, m, mouse(tea.MouseActionRelease, 2*cellWidth+5, stripTop))

	if diff := cmp.Diff(chunks(0, 1, 2, 3), keys(s)); diff != "" {
		t.Errorf("expected no change after cancel (-want +got):\n%s", diff)
	}

	// leaving the strip before release is a no-op drop
	m = update(t, m, mouse(tea.MouseActionPress, 1, stripTop))
	m = update(t, m, mouse(tea.MouseActionMotion, 2*cellWidth+5, stripTop))
	m = update(t, m, mouse(tea.MouseActionMotion, 1, 0))
	_ = update(t, m, mouse(tea.MouseActionRelease, 1, 0))
	if diff := cmp.Diff(chunks(0, 1, 2, 3), keys(s)); diff != "" {
		t.Errorf("expected no change after leaving (-want +got):\n%s", diff)
	}
}

func TestSubmit(t *testing.T) {
	a := &stubAnalyzer{}
	m, _ := newTestModel(t, a)

	next, cmd := m.Update(key("s"))
	m = next.(Model)
	if cmd == nil || !m.submitting {
		t.Fatal("expected a submit command")
	}

	// a second submit while the first is pending does nothing
	if _, again := m.Update(key("s")); again != nil {
		t.Error("expected no command while submitting")
	}

	m = update(t, m, cmd())
	if m.submitting || m.report == nil {
		t.Fatalf("expected a report, got submitting=%v report=%v", m.submitting, m.report)
	}
	if len(a.structure) == 0 {
		t.Error("expected the structure sent to the service")
	}
	if !strings.Contains(m.status, "1/1 fragments matched") {
		t.Errorf("unexpected status %q", m.status)
	}
	if out := m.results.View(); !strings.Contains(out, "cat.jpg") {
		t.Errorf("expected results panel to list the image, got %q", out)
	}
}

func TestSubmit_Errors(t *testing.T) {
	a := &stubAnalyzer{err: analysis.ErrServiceUnavailable}
	m, _ := newTestModel(t, a)

	next, cmd := m.Update(key("s"))
	m = update(t, next.(Model), cmd())
	if !errors.Is(m.err, analysis.ErrServiceUnavailable) || m.submitting {
		t.Errorf("expected service unavailable, got %v", m.err)
	}

	s := composer.New(composer.Config{ChunkSize: 4}, a)
	empty := New(context.Background(), s)
	next, cmd = empty.Update(key("s"))
	if cmd != nil || !errors.Is(next.(Model).err, composer.ErrNoSource) {
		t.Errorf("expected ErrNoSource without a command, got %v", next.(Model).err)
	}
}

func TestJPEGInfo(t *testing.T) {
	m, _ := newTestModel(t, &stubAnalyzer{})

	_, cmd := m.Update(key("i"))
	if cmd == nil {
		t.Fatal("expected a jpeg-info command")
	}
	m = update(t, m, cmd())
	if m.info == nil || m.info.EntropyEnd != 16 {
		t.Fatalf("unexpected info %+v", m.info)
	}
	if !strings.Contains(m.status, "entropy data 2..16") {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestView(t *testing.T) {
	m, _ := newTestModel(t, &stubAnalyzer{})
	out := m.View()
	for _, want := range []string{"fraglab", "cat.jpg", "4 segments", "palette", "no analysis yet"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}
