package editor

import "math"

// Overlay geometry limits, all in percent of the reference surface.
const (
	MinOverlayExtent  = 5.0
	MaxOverlayExtent  = 100.0
	MinOverlayOpacity = 0.1
	MaxOverlayOpacity = 1.0
)

// Overlay is the single image composited over the preview. X and Y locate the
// image centre; Width and Height are its extent. Each axis is clamped on its
// own, so a large overlay near an edge may hang past the surface.
type Overlay struct {
	Src       string  `json:"src"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Border    bool    `json:"border"`
	Opacity   float64 `json:"opacity"`
	Animation bool    `json:"animation"`
}

// DefaultOverlay is the value the overlay is seeded and reset to.
func DefaultOverlay() Overlay {
	return Overlay{X: 50, Y: 50, Width: 30, Height: 30, Opacity: 1}
}

// ClampPosition limits a centre coordinate to [0,100].
func ClampPosition(v float64) float64 {
	return clampOr(v, 0, 100, 50)
}

// ClampExtent limits a width or height to [5,100].
func ClampExtent(v float64) float64 {
	return clampOr(v, MinOverlayExtent, MaxOverlayExtent, 30)
}

// ClampOpacity limits opacity to [0.1,1].
func ClampOpacity(v float64) float64 {
	return clampOr(v, MinOverlayOpacity, MaxOverlayOpacity, 1)
}

// Clamp returns the overlay with every numeric field inside its range.
// Clamp(Clamp(o)) == Clamp(o).
func (o Overlay) Clamp() Overlay {
	o.X = ClampPosition(o.X)
	o.Y = ClampPosition(o.Y)
	o.Width = ClampExtent(o.Width)
	o.Height = ClampExtent(o.Height)
	o.Opacity = ClampOpacity(o.Opacity)
	return o
}

// WithImage swaps the image source and keeps the current geometry and style.
func (o Overlay) WithImage(src string) Overlay {
	o.Src = src
	return o
}

// Visible reports whether there is an image to paint.
func (o Overlay) Visible() bool {
	return o.Src != ""
}

// Box returns the overlay rectangle in percent: left, top, right, bottom.
func (o Overlay) Box() (left, top, right, bottom float64) {
	return o.X - o.Width/2, o.Y - o.Height/2, o.X + o.Width/2, o.Y + o.Height/2
}

// PixelRect projects the overlay onto a measured surface.
func (o Overlay) PixelRect(surface Rect) Rect {
	left, top, _, _ := o.Box()
	return Rect{
		X: surface.X + left/100*surface.W,
		Y: surface.Y + top/100*surface.H,
		W: o.Width / 100 * surface.W,
		H: o.Height / 100 * surface.H,
	}
}

// StyleUpdate carries the non-geometric overlay controls. Nil fields are left
// unchanged.
type StyleUpdate struct {
	Border    *bool
	Opacity   *float64
	Animation *bool
}

func (o Overlay) WithStyle(u StyleUpdate) Overlay {
	if u.Border != nil {
		o.Border = *u.Border
	}
	if u.Opacity != nil && !math.IsNaN(*u.Opacity) {
		o.Opacity = ClampOpacity(*u.Opacity)
	}
	if u.Animation != nil {
		o.Animation = *u.Animation
	}
	return o
}
