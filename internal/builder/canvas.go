package builder

import "github.com/Nixie-Tech-LLC/fancard/internal/model"

// State is the drag state of the canvas engine.
type State int

const (
	StateIdle State = iota
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Point is a pointer location in canvas pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ElementSource gives the engine read access to the current element order.
type ElementSource interface {
	Elements() []model.Element
}

// UpdateFunc is the engine's only way to change an element.
type UpdateFunc func(elementID string, update model.ElementUpdate)

// InputBinder attaches and detaches the global pointer-move/up listeners
// for the duration of a drag.
type InputBinder interface {
	BindDrag()
	UnbindDrag()
}

type noopBinder struct{}

func (noopBinder) BindDrag()   {}
func (noopBinder) UnbindDrag() {}

// Engine turns pointer input into position updates and tracks the single
// selected element. It is not safe for concurrent use; callers drive it from
// one event loop.
type Engine struct {
	source   ElementSource
	onUpdate UpdateFunc
	binder   InputBinder

	state    State
	selected string
	dragID   string
	offset   Point
}

func NewEngine(source ElementSource, onUpdate UpdateFunc, binder InputBinder) *Engine {
	if binder == nil {
		binder = noopBinder{}
	}
	return &Engine{source: source, onUpdate: onUpdate, binder: binder}
}

func (e *Engine) State() State     { return e.state }
func (e *Engine) Selected() string { return e.selected }
func (e *Engine) Dragging() string { return e.dragID }
func (e *Engine) Offset() Point    { return e.offset }
func (e *Engine) ClearSelection()  { e.selected = "" }
func (e *Engine) Select(id string) { e.selected = id }

// HitTest returns the topmost element containing p. Later elements are on
// top, so the search runs from the end.
func HitTest(elems []model.Element, p Point) (model.Element, bool) {
	for i := len(elems) - 1; i >= 0; i-- {
		if elems[i].Contains(p.X, p.Y) {
			return elems[i], true
		}
	}
	return model.Element{}, false
}

// PointerDown selects the topmost element under p and starts a drag, or
// clears the selection when p is over empty canvas.
func (e *Engine) PointerDown(p Point) {
	el, ok := HitTest(e.source.Elements(), p)
	if !ok {
		e.selected = ""
		return
	}
	e.selected = el.ID
	e.dragID = el.ID
	e.offset = Point{X: p.X - el.Position.X, Y: p.Y - el.Position.Y}
	if e.state != StateDragging {
		e.state = StateDragging
		e.binder.BindDrag()
	}
}

// PointerMove moves the dragged element so it keeps its grab offset.
// Coordinates are clamped at zero; there is no upper bound.
func (e *Engine) PointerMove(p Point) {
	if e.state != StateDragging {
		return
	}
	pos := model.Position{
		X: max(0, p.X-e.offset.X),
		Y: max(0, p.Y-e.offset.Y),
	}
	e.onUpdate(e.dragID, model.ElementUpdate{Position: &pos})
}

// PointerUp ends the drag. The selection is kept.
func (e *Engine) PointerUp() {
	if e.state != StateDragging {
		return
	}
	e.state = StateIdle
	e.dragID = ""
	e.offset = Point{}
	e.binder.UnbindDrag()
}

// Click updates selection only.
func (e *Engine) Click(p Point) {
	if el, ok := HitTest(e.source.Elements(), p); ok {
		e.selected = el.ID
		return
	}
	e.selected = ""
}

// Forget drops any reference to a removed element.
func (e *Engine) Forget(id string) {
	if e.selected == id {
		e.selected = ""
	}
	if e.dragID == id {
		e.PointerUp()
	}
}
