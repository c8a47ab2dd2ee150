package editor

import "math"

// GestureState is the pointer interaction currently applied to the overlay.
type GestureState int

const (
	Idle GestureState = iota
	Dragging
	Resizing
)

func (s GestureState) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Point is a pointer location in surface units (pixels, terminal cells).
type Point struct {
	X float64
	Y float64
}

// Rect is a measured box in the same units as Point.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Measurable reports whether the box can be used as a reference surface.
func (r Rect) Measurable() bool {
	return r.W > 0 && r.H > 0 && finite(r.X) && finite(r.Y) && finite(r.W) && finite(r.H)
}

// Contains reports whether p lies inside the box, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Percent maps p onto the box as percentages of its extent. The result is
// not clamped.
func (r Rect) Percent(p Point) Position {
	return Position{
		X: (p.X - r.X) * 100 / r.W,
		Y: (p.Y - r.Y) * 100 / r.H,
	}
}

// Surface reports the current bounds of the reference surface. ok is false
// while the surface is not laid out.
type Surface interface {
	Bounds() (r Rect, ok bool)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func() (Rect, bool)

func (f SurfaceFunc) Bounds() (Rect, bool) { return f() }

// StaticSurface always reports the same box.
type StaticSurface Rect

func (s StaticSurface) Bounds() (Rect, bool) {
	r := Rect(s)
	return r, r.Measurable()
}

// Hit identifies which part of the overlay a pointer landed on.
type Hit int

const (
	HitNone Hit = iota
	HitBody
	HitHandle
)

// HitTest resolves p against the overlay projected onto surface. The resize
// handle is a handle-sized square in the bottom-right corner and wins over the
// body when both match.
func HitTest(o Overlay, surface Rect, p Point, handle float64) Hit {
	if !o.Visible() || !surface.Measurable() {
		return HitNone
	}
	box := o.PixelRect(surface)
	if handle > 0 {
		h := Rect{X: box.X + box.W - handle, Y: box.Y + box.H - handle, W: handle, H: handle}
		if h.Contains(p) {
			return HitHandle
		}
	}
	if box.Contains(p) {
		return HitBody
	}
	return HitNone
}

// OverlayGesture owns the overlay geometry and the pointer state machine that
// edits it. Every move recomputes geometry from the pointer position and the
// values captured at pointer-down, so repeated or dropped move events cannot
// accumulate drift.
type OverlayGesture struct {
	overlay Overlay
	state   GestureState

	// HandleSize is the hit size of the resize handle in surface units.
	HandleSize float64
	// PreserveGrabOffset keeps the point under the pointer fixed while
	// dragging instead of snapping the overlay centre to the pointer.
	PreserveGrabOffset bool

	grab       Position
	start      Point
	baseWidth  float64
	baseHeight float64
}

// NewOverlayGesture starts idle with the given overlay.
func NewOverlayGesture(o Overlay) *OverlayGesture {
	return &OverlayGesture{overlay: o.Clamp(), HandleSize: 1}
}

func (g *OverlayGesture) Overlay() Overlay    { return g.overlay }
func (g *OverlayGesture) State() GestureState { return g.state }
func (g *OverlayGesture) Dragging() bool      { return g.state == Dragging }
func (g *OverlayGesture) Resizing() bool      { return g.state == Resizing }

// SetOverlay replaces the overlay wholesale.
func (g *OverlayGesture) SetOverlay(o Overlay) {
	g.overlay = o.Clamp()
}

// PointerDown hit-tests p and, from Idle only, enters Dragging or Resizing.
// It returns the hit so callers can decide whether the event was consumed.
func (g *OverlayGesture) PointerDown(p Point, surface Surface) Hit {
	if g.state != Idle || surface == nil {
		return HitNone
	}
	rect, ok := surface.Bounds()
	if !ok || !rect.Measurable() {
		return HitNone
	}
	hit := HitTest(g.overlay, rect, p, g.HandleSize)
	g.begin(hit, p, rect)
	return hit
}

// Begin starts a gesture for a hit resolved by the caller. It reports whether
// the state machine left Idle.
func (g *OverlayGesture) Begin(hit Hit, p Point, surface Surface) bool {
	if g.state != Idle || surface == nil {
		return false
	}
	rect, ok := surface.Bounds()
	if !ok || !rect.Measurable() {
		return false
	}
	g.begin(hit, p, rect)
	return g.state != Idle
}

func (g *OverlayGesture) begin(hit Hit, p Point, rect Rect) {
	switch hit {
	case HitHandle:
		g.state = Resizing
		g.start = p
		g.baseWidth = g.overlay.Width
		g.baseHeight = g.overlay.Height
	case HitBody:
		g.state = Dragging
		pct := rect.Percent(p)
		g.grab = Position{X: pct.X - g.overlay.X, Y: pct.Y - g.overlay.Y}
	}
}

// Reset ends any gesture and restores the default overlay.
func (g *OverlayGesture) Reset() {
	g.PointerUp()
	g.overlay = DefaultOverlay()
}

// PointerMove re-measures the surface and recomputes geometry for the active
// gesture. It reports whether the overlay changed. An unmeasurable surface
// skips the event and leaves the gesture active.
func (g *OverlayGesture) PointerMove(p Point, surface Surface) bool {
	if g.state == Idle || surface == nil {
		return false
	}
	rect, ok := surface.Bounds()
	if !ok || !rect.Measurable() || !finite(p.X) || !finite(p.Y) {
		return false
	}

	before := g.overlay
	switch g.state {
	case Dragging:
		pct := rect.Percent(p)
		if g.PreserveGrabOffset {
			pct.X -= g.grab.X
			pct.Y -= g.grab.Y
		}
		g.overlay.X = ClampPosition(pct.X)
		g.overlay.Y = ClampPosition(pct.Y)
	case Resizing:
		g.overlay.Width = ClampExtent(g.baseWidth + (p.X-g.start.X)*100/rect.W)
		g.overlay.Height = ClampExtent(g.baseHeight + (p.Y-g.start.Y)*100/rect.H)
	}
	return g.overlay != before
}

// PointerUp ends any gesture. It is safe to call from a global release
// handler regardless of where the pointer is.
func (g *OverlayGesture) PointerUp() {
	g.state = Idle
	g.grab = Position{}
	g.start = Point{}
	g.baseWidth, g.baseHeight = 0, 0
}

// GrabOffset returns the pointer offset from the overlay centre captured when
// the current drag began, in percent.
func (g *OverlayGesture) GrabOffset() Position {
	return g.grab
}

// Nudge moves the overlay by a percent delta, for keyboard control.
func (g *OverlayGesture) Nudge(dx, dy float64) {
	if math.IsNaN(dx) || math.IsNaN(dy) {
		return
	}
	g.overlay.X = ClampPosition(g.overlay.X + dx)
	g.overlay.Y = ClampPosition(g.overlay.Y + dy)
}

// Grow changes the overlay extent by a percent delta, for keyboard control.
func (g *OverlayGesture) Grow(dw, dh float64) {
	if math.IsNaN(dw) || math.IsNaN(dh) {
		return
	}
	g.overlay.Width = ClampExtent(g.overlay.Width + dw)
	g.overlay.Height = ClampExtent(g.overlay.Height + dh)
}
