package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jackzampolin/fraglab/internal/reconcile"
	"github.com/jackzampolin/fraglab/internal/segment"
)

var (
	colorChunk    = lipgloss.Color("#2196F3")
	colorRandom   = lipgloss.Color("#FF8A65")
	colorZeros    = lipgloss.Color("#90A4AE")
	colorJPEG     = lipgloss.Color("#BA68C8")
	colorHigh     = lipgloss.Color("#8BC34A")
	colorMedium   = lipgloss.Color("#FFC107")
	colorLow      = lipgloss.Color("#E53935")
	colorMuted    = lipgloss.Color("#78909C")
	colorSelected = lipgloss.Color("#FFFFFF")
)

// Styles holds the rendering styles of the composer.
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
	Chunk    lipgloss.Style
	Fillers  map[segment.Variant]lipgloss.Style
	Selected lipgloss.Style
	Dragged  lipgloss.Style
	Classes  map[reconcile.Class]lipgloss.Style
}

// DefaultStyles returns the default composer styles.
func DefaultStyles() Styles {
	cell := lipgloss.NewStyle().Foreground(lipgloss.Color("#101F38"))
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(colorHigh),
		Header: lipgloss.NewStyle().Bold(true),
		Muted:  lipgloss.NewStyle().Foreground(colorMuted),
		Error:  lipgloss.NewStyle().Foreground(colorLow).Bold(true),
		Help:   lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
		Chunk:  cell.Background(colorChunk),
		Fillers: map[segment.Variant]lipgloss.Style{
			segment.VariantRandom: cell.Background(colorRandom),
			segment.VariantZeros:  cell.Background(colorZeros),
			segment.VariantJPEG:   cell.Background(colorJPEG),
		},
		Selected: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorSelected),
		Dragged:  lipgloss.NewStyle().Faint(true),
		Classes: map[reconcile.Class]lipgloss.Style{
			reconcile.ClassHigh:        lipgloss.NewStyle().Foreground(colorHigh),
			reconcile.ClassMedium:      lipgloss.NewStyle().Foreground(colorMedium),
			reconcile.ClassLow:         lipgloss.NewStyle().Foreground(colorLow),
			reconcile.ClassNotDetected: lipgloss.NewStyle().Foreground(colorMuted),
		},
	}
}

// filler returns the style of a filler variant.
func (s Styles) filler(v segment.Variant) lipgloss.Style {
	if st, ok := s.Fillers[v]; ok {
		return st
	}
	return s.Fillers[segment.VariantRandom]
}

// class returns the style of a boundary class.
func (s Styles) class(c reconcile.Class) lipgloss.Style {
	if st, ok := s.Classes[c]; ok {
		return st
	}
	return s.Muted
}
