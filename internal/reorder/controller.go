// Package reorder turns drag gestures into segment model mutations.
//
// A gesture is Begin, any number of Hover calls, then Drop or Cancel. Each
// gesture applies at most one model operation.
package reorder

import (
	"errors"
	"fmt"

	"github.com/jackzampolin/fraglab/internal/segment"
)

var (
	// ErrGestureActive is returned by Begin while another gesture is in progress.
	ErrGestureActive = errors.New("drag gesture already active")

	// ErrNoGesture is returned by Drop when nothing is being dragged.
	ErrNoGesture = errors.New("no drag gesture active")
)

// Origin is where a dragged item came from.
type Origin int

const (
	// OriginModel is an existing segment being reordered.
	OriginModel Origin = iota
	// OriginPalette is a not-yet-placed item from the palette.
	OriginPalette
)

func (o Origin) String() string {
	if o == OriginPalette {
		return "palette"
	}
	return "model"
}

// Source identifies the dragged item. It is captured once at Begin.
type Source struct {
	Origin  Origin
	Kind    segment.Kind
	Key     segment.Key     // set for OriginModel
	Variant segment.Variant // set for palette fillers
	Size    int64
}

// FromSegment builds a Source for dragging a placed segment.
func FromSegment(seg segment.Segment) Source {
	return Source{
		Origin:  OriginModel,
		Kind:    seg.Kind,
		Key:     seg.Key(),
		Variant: seg.Variant,
		Size:    seg.Size,
	}
}

// FromPalette builds a Source for dragging a new filler of the given variant.
func FromPalette(variant segment.Variant, size int64) Source {
	return Source{
		Origin:  OriginPalette,
		Kind:    segment.KindFiller,
		Variant: variant,
		Size:    size,
	}
}

// Target is the last hovered drop position.
type Target struct {
	Key  segment.Key
	Side segment.Side

	// Tail targets the drop zone after the last segment. Key is ignored.
	Tail bool
}

// Result describes what a Drop did.
type Result struct {
	// Applied is false for no-op drops (onto itself, or with no target).
	Applied bool

	// Inserted is the new filler for palette drops.
	Inserted *segment.Segment

	// Index is the final position of the dropped segment.
	Index int
}

// Controller tracks one drag gesture against a model.
type Controller struct {
	model   *segment.Model
	palette *Palette

	active bool
	source Source
	target *Target
}

// NewController creates a controller bound to model. palette may be nil.
func NewController(model *segment.Model, palette *Palette) *Controller {
	return &Controller{model: model, palette: palette}
}

// Begin starts a gesture.
func (c *Controller) Begin(src Source) error {
	if c.active {
		return ErrGestureActive
	}
	if src.Origin == OriginModel {
		if _, ok := c.model.Get(src.Key); !ok {
			return fmt.Errorf("%w: %s", segment.ErrNotFound, src.Key)
		}
	}
	c.active = true
	c.source = src
	c.target = nil
	return nil
}

// Active reports whether a gesture is in progress.
func (c *Controller) Active() bool { return c.active }

// Source returns the dragged item of the active gesture.
func (c *Controller) Source() (Source, bool) {
	return c.source, c.active
}

// Target returns the last hovered target.
func (c *Controller) Target() (Target, bool) {
	if c.target == nil {
		return Target{}, false
	}
	return *c.target, true
}

// Hover records the target under the cursor. It reports whether the target
// or side changed since the last call.
func (c *Controller) Hover(key segment.Key, side segment.Side) bool {
	return c.setTarget(Target{Key: key, Side: side})
}

// HoverTail targets the end of the sequence.
func (c *Controller) HoverTail() bool {
	return c.setTarget(Target{Tail: true, Side: segment.After})
}

// Leave clears the hover target, for example when the cursor exits the strip.
func (c *Controller) Leave() {
	c.target = nil
}

func (c *Controller) setTarget(t Target) bool {
	if !c.active {
		return false
	}
	if c.target != nil && *c.target == t {
		return false
	}
	c.target = &t
	return true
}

// Preview returns the index the dragged item would occupy if dropped now.
func (c *Controller) Preview() (int, bool) {
	if !c.active || c.target == nil {
		return 0, false
	}
	n := c.model.Len()

	if c.source.Origin == OriginPalette {
		if c.source.Kind != segment.KindFiller {
			return 0, false
		}
		at, ok := c.insertionIndex()
		return at, ok
	}

	from, ok := c.model.IndexOf(c.source.Key)
	if !ok {
		return 0, false
	}
	if c.target.Tail {
		return n - 1, true
	}
	if c.target.Key == c.source.Key {
		return from, true
	}
	to, ok := c.model.IndexOf(c.target.Key)
	if !ok {
		return 0, false
	}
	if from < to {
		to--
	}
	if c.target.Side == segment.After {
		to++
	}
	return to, true
}

func (c *Controller) insertionIndex() (int, bool) {
	if c.target.Tail {
		return c.model.Len(), true
	}
	at, ok := c.model.IndexOf(c.target.Key)
	if !ok {
		return 0, false
	}
	if c.target.Side == segment.After {
		at++
	}
	return at, true
}

// Cancel abandons the gesture without touching the model.
func (c *Controller) Cancel() {
	c.active = false
	c.source = Source{}
	c.target = nil
}

// Drop ends the gesture and applies its single model operation. The gesture
// is cleared whether or not the operation succeeds.
func (c *Controller) Drop() (Result, error) {
	if !c.active {
		return Result{}, ErrNoGesture
	}
	src, tgt := c.source, c.target
	c.Cancel()

	if tgt == nil {
		return Result{}, nil
	}

	switch src.Origin {
	case OriginPalette:
		return c.dropFromPalette(src, *tgt)
	default:
		return c.dropFromModel(src, *tgt)
	}
}

func (c *Controller) dropFromModel(src Source, tgt Target) (Result, error) {
	from, ok := c.model.IndexOf(src.Key)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", segment.ErrNotFound, src.Key)
	}

	if tgt.Tail {
		if err := c.model.MoveToEnd(from); err != nil {
			return Result{}, err
		}
		return Result{Applied: from != c.model.Len()-1, Index: c.model.Len() - 1}, nil
	}

	if tgt.Key == src.Key {
		return Result{Index: from}, nil
	}
	if err := c.model.MoveKey(src.Key, tgt.Key, tgt.Side); err != nil {
		return Result{}, err
	}
	idx, _ := c.model.IndexOf(src.Key)
	return Result{Applied: idx != from, Index: idx}, nil
}

func (c *Controller) dropFromPalette(src Source, tgt Target) (Result, error) {
	if src.Kind != segment.KindFiller {
		return Result{}, fmt.Errorf("%w: source chunks are only placed by initialize", segment.ErrInvalidOperation)
	}

	c.target = &tgt
	at, ok := c.insertionIndex()
	c.target = nil
	if !ok {
		return Result{}, fmt.Errorf("%w: drop target %s", segment.ErrNotFound, tgt.Key)
	}

	seg, err := c.model.InsertFiller(src.Variant, at)
	if err != nil {
		return Result{}, err
	}
	if c.palette != nil {
		c.palette.MarkUsed(src.Variant, seg.FillerID)
	}
	return Result{Applied: true, Inserted: &seg, Index: at}, nil
}

// SideFromGeometry maps a cursor position over a target to a side: the left
// half of the target is Before, the right half After.
func SideFromGeometry(cursorX, left, width float64) segment.Side {
	if cursorX < left+width/2 {
		return segment.Before
	}
	return segment.After
}
