package editor

import (
	"math"
	"time"
)

// Clock defaults.
const (
	DefaultClockDuration = 10.0
	DefaultClockStep     = 0.1
	DefaultClockPeriod   = 100 * time.Millisecond
)

// ClockOptions configures a Clock. Zero values take the defaults above.
type ClockOptions struct {
	Duration float64
	Step     float64
	Period   time.Duration
	// NoLoop stops the clock at the end instead of wrapping to zero.
	NoLoop bool
}

// Clock is the playback position driven by a fixed-period tick.
type Clock struct {
	duration float64
	step     float64
	period   time.Duration
	loop     bool
	playing  bool
	position float64
}

// NewClock returns a playing clock at zero.
func NewClock(opts ClockOptions) *Clock {
	c := &Clock{
		duration: DefaultClockDuration,
		step:     DefaultClockStep,
		period:   DefaultClockPeriod,
		loop:     !opts.NoLoop,
		playing:  true,
	}
	if opts.Duration > 0 && finite(opts.Duration) {
		c.duration = opts.Duration
	}
	if opts.Step > 0 && finite(opts.Step) {
		c.step = opts.Step
	}
	if opts.Period > 0 {
		c.period = opts.Period
	}
	return c
}

// Tick advances the position by one step. Once the position has reached the
// duration the next tick wraps to zero, or pauses at the end when looping is
// off. It reports whether the position changed.
func (c *Clock) Tick() bool {
	if !c.playing {
		return false
	}
	if c.position >= c.duration {
		if !c.loop {
			c.position = c.duration
			c.playing = false
			return false
		}
		c.position = 0
		return true
	}
	next := roundMicro(c.position + c.step)
	if next >= c.duration {
		next = c.duration
		if !c.loop {
			c.playing = false
		}
	}
	c.position = next
	return true
}

// Seek jumps to t, clamped to [0, duration]. NaN is ignored.
func (c *Clock) Seek(t float64) bool {
	if math.IsNaN(t) {
		return false
	}
	c.position = math.Max(0, math.Min(c.duration, t))
	return true
}

// SetDuration replaces the media duration and pulls the position back inside it.
func (c *Clock) SetDuration(d float64) bool {
	if !(d > 0) || !finite(d) {
		return false
	}
	c.duration = d
	if c.position > d {
		c.position = d
	}
	return true
}

func (c *Clock) Play()  { c.playing = true }
func (c *Clock) Pause() { c.playing = false }

// Toggle flips between playing and paused and returns the new state.
func (c *Clock) Toggle() bool {
	c.playing = !c.playing
	return c.playing
}

func (c *Clock) Position() float64     { return c.position }
func (c *Clock) Duration() float64     { return c.duration }
func (c *Clock) Step() float64         { return c.step }
func (c *Clock) Period() time.Duration { return c.period }
func (c *Clock) Playing() bool         { return c.playing }
func (c *Clock) Loop() bool            { return c.loop }

func roundMicro(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
