package tui

import (
	"github.com/jackzampolin/fraglab/internal/segment"
)

const (
	// cellWidth is the rendered width of one strip segment.
	cellWidth = 6
	// paletteWidth is the rendered width of one palette entry.
	paletteWidth = 10
)

// hitKind names what lies under the cursor.
type hitKind int

const (
	hitNone hitKind = iota
	hitSegment
	hitTail
	hitPalette
)

// hit is the result of a layout lookup.
type hit struct {
	kind    hitKind
	index   int // segment index for hitSegment, palette index for hitPalette
	left    int // left edge of the cell
	width   int
	variant segment.Variant
}

// layout places the strip and palette on screen. The strip wraps across rows
// of perRow cells starting at stripTop; the palette sits on its own row.
type layout struct {
	stripTop   int
	perRow     int
	segments   int
	paletteTop int
	variants   []segment.Variant
}

func newLayout(width, stripTop, segments int, variants []segment.Variant) layout {
	perRow := max(width/cellWidth, 1)
	l := layout{
		stripTop: stripTop,
		perRow:   perRow,
		segments: segments,
		variants: variants,
	}
	// one blank line and the palette label separate strip and palette
	l.paletteTop = stripTop + l.stripRows() + 2
	return l
}

// stripRows is the number of rows the strip occupies. An empty strip still
// takes one row so it can receive tail drops.
func (l layout) stripRows() int {
	if l.segments == 0 {
		return 1
	}
	return (l.segments + l.perRow - 1) / l.perRow
}

// cell returns the screen position of segment i.
func (l layout) cell(i int) (x, y int) {
	return (i % l.perRow) * cellWidth, l.stripTop + i/l.perRow
}

// at resolves a screen position.
func (l layout) at(x, y int) hit {
	if x < 0 || y < 0 {
		return hit{}
	}
	if y == l.paletteTop {
		i := x / paletteWidth
		if i < len(l.variants) {
			return hit{kind: hitPalette, index: i, left: i * paletteWidth, width: paletteWidth, variant: l.variants[i]}
		}
		return hit{}
	}

	row := y - l.stripTop
	if row < 0 || row >= l.stripRows() {
		return hit{}
	}
	col := x / cellWidth
	if col >= l.perRow {
		return hit{}
	}
	i := row*l.perRow + col
	if i >= l.segments {
		if row == l.stripRows()-1 {
			return hit{kind: hitTail}
		}
		return hit{}
	}
	return hit{kind: hitSegment, index: i, left: col * cellWidth, width: cellWidth}
}
