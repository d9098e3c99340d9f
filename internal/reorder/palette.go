package reorder

import (
	"fmt"
	"slices"

	"github.com/jackzampolin/fraglab/internal/segment"
)

// PaletteEntry is one draggable filler variant and the fillers placed from it.
type PaletteEntry struct {
	Variant     segment.Variant `json:"variant"`
	Implemented bool            `json:"implemented"`
	Used        []int           `json:"used,omitempty"`
}

// Palette lists the filler variants available for dragging into the model.
type Palette struct {
	entries []PaletteEntry
}

// NewPalette creates a palette with one entry per variant. With no variants
// every known variant is listed.
func NewPalette(variants ...segment.Variant) *Palette {
	if len(variants) == 0 {
		variants = segment.Variants
	}
	p := &Palette{}
	for _, v := range variants {
		p.entries = append(p.entries, PaletteEntry{Variant: v, Implemented: v.Implemented()})
	}
	return p
}

// Entries returns a copy of the palette entries.
func (p *Palette) Entries() []PaletteEntry {
	out := make([]PaletteEntry, len(p.entries))
	for i, e := range p.entries {
		e.Used = slices.Clone(e.Used)
		out[i] = e
	}
	return out
}

// Source returns the drag source for the given variant.
func (p *Palette) Source(variant segment.Variant, size int64) (Source, error) {
	if p.index(variant) < 0 {
		return Source{}, fmt.Errorf("%w: variant %q not in palette", segment.ErrInvalidInput, variant)
	}
	return FromPalette(variant, size), nil
}

// MarkUsed records that fillerID was placed from the variant's entry.
func (p *Palette) MarkUsed(variant segment.Variant, fillerID int) {
	i := p.index(variant)
	if i < 0 || slices.Contains(p.entries[i].Used, fillerID) {
		return
	}
	p.entries[i].Used = append(p.entries[i].Used, fillerID)
}

// Release clears the used marker for fillerID. It reports whether a marker
// was found.
func (p *Palette) Release(fillerID int) bool {
	for i := range p.entries {
		if j := slices.Index(p.entries[i].Used, fillerID); j >= 0 {
			p.entries[i].Used = slices.Delete(p.entries[i].Used, j, j+1)
			return true
		}
	}
	return false
}

// UsedBy returns the filler ids placed from the variant's entry.
func (p *Palette) UsedBy(variant segment.Variant) []int {
	i := p.index(variant)
	if i < 0 {
		return nil
	}
	return slices.Clone(p.entries[i].Used)
}

// Clear drops every used marker.
func (p *Palette) Clear() {
	for i := range p.entries {
		p.entries[i].Used = nil
	}
}

func (p *Palette) index(variant segment.Variant) int {
	return slices.IndexFunc(p.entries, func(e PaletteEntry) bool { return e.Variant == variant })
}
