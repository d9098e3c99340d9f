package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jackzampolin/fraglab/internal/composer"
	"github.com/jackzampolin/fraglab/internal/reorder"
	"github.com/jackzampolin/fraglab/internal/segment"
)

const helpText = "drag to reorder · ←/→ select · [ ] move · f add filler · x remove · c clear fillers · r reset · 1-3 variant · s submit · i jpeg info · q quit"

// View renders the composer.
func (m Model) View() string {
	v := m.session.View()
	l := m.layout()

	var b strings.Builder
	b.WriteString(m.header(v))
	b.WriteString("\n\n")
	b.WriteString(m.strip(v.Sequence, l))
	b.WriteString("\n\n")
	b.WriteString(m.palette())
	b.WriteString("\n\n")
	b.WriteString(m.results.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(helpText))
	return b.String()
}

func (m Model) header(v composer.View) string {
	title := m.styles.Title.Render("fraglab")
	if v.Source == "" {
		return title + "  " + m.styles.Muted.Render("no source loaded") + "\n"
	}
	fillers := 0
	for _, seg := range v.Sequence {
		if seg.IsFiller() {
			fillers++
		}
	}
	info := fmt.Sprintf("%s  %d bytes  %d segments (%d fillers)  chunk %d  filler %d",
		v.Source, v.TotalBytes, len(v.Sequence), fillers, v.ChunkSize, v.FillerSize)
	return title + "  " + m.styles.Header.Render(info) + "\n" +
		m.styles.Muted.Render(fmt.Sprintf("default filler: %s", m.variant))
}

// strip renders one row per layout row. Each cell is cellWidth wide and the
// drop position shows as a bar on the hovered side.
func (m Model) strip(seq []segment.Segment, l layout) string {
	if len(seq) == 0 {
		cell := m.styles.Muted.Render(padCell("·"))
		if m.drag != nil && m.drag.hasTarget && m.drag.target.Tail {
			cell = m.styles.Selected.Render(padCell("▌"))
		}
		return cell
	}

	rows := make([]string, l.stripRows())
	for i, seg := range seq {
		_, y := l.cell(i)
		row := y - l.stripTop
		rows[row] += m.segmentCell(i, seg)
	}
	if m.drag != nil && m.drag.hasTarget && m.drag.target.Tail {
		rows[len(rows)-1] += m.styles.Selected.Render("▌")
	}
	return strings.Join(rows, "\n")
}

func (m Model) segmentCell(i int, seg segment.Segment) string {
	var label string
	st := m.styles.Chunk
	if seg.IsFiller() {
		label = fmt.Sprintf("%c%d", variantMark(seg.Variant), seg.FillerID)
		st = m.styles.filler(seg.Variant)
	} else {
		label = fmt.Sprintf("%d", seg.SourceIndex)
	}

	text := padCell(label)
	if m.drag != nil && m.drag.hasTarget && !m.drag.target.Tail && m.drag.target.Key == seg.Key() {
		r := []rune(text)
		if m.drag.target.Side == segment.Before {
			r[0] = '▌'
		} else {
			r[len(r)-1] = '▐'
		}
		text = string(r)
	}

	switch {
	case m.drag != nil && m.drag.source.Origin == reorder.OriginModel && m.drag.source.Key == seg.Key():
		st = m.styles.Dragged.Inherit(st)
	case i == m.selected:
		st = m.styles.Selected.Inherit(st)
	}
	return st.Render(text)
}

func (m Model) palette() string {
	parts := []string{m.styles.Muted.Render("palette (drag onto the strip):")}
	var cells []string
	for _, v := range m.variants {
		label := string(v)
		if v == m.variant {
			label = "*" + label
		}
		st := m.styles.filler(v)
		if m.drag != nil && m.drag.source.Origin == reorder.OriginPalette && m.drag.source.Variant == v {
			st = m.styles.Dragged.Inherit(st)
		}
		cells = append(cells, st.Width(paletteWidth).Render(truncate(label, paletteWidth)))
	}
	parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	return strings.Join(parts, "\n")
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render("error: " + m.err.Error())
	}
	status := m.status
	if m.drag != nil && m.drag.hasPreview {
		status = fmt.Sprintf("drop at position %d", m.drag.preview)
	}
	if m.submitting {
		status = "waiting for analysis service..."
	}
	return m.styles.Muted.Render(status)
}

func variantMark(v segment.Variant) rune {
	switch v {
	case segment.VariantZeros:
		return 'Z'
	case segment.VariantJPEG:
		return 'J'
	default:
		return 'R'
	}
}

// padCell centers s in a cell with a one column gap on each side.
func padCell(s string) string {
	s = truncate(s, cellWidth-2)
	left := (cellWidth - len([]rune(s))) / 2
	right := cellWidth - len([]rune(s)) - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
