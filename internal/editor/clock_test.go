package editor

import (
	"math"
	"testing"
	"time"
)

func TestClockLoops(t *testing.T) {
	c := NewClock(ClockOptions{})
	if c.Duration() != 10 || c.Step() != 0.1 || c.Period() != 100*time.Millisecond {
		t.Fatalf("defaults = %v %v %v", c.Duration(), c.Step(), c.Period())
	}
	for i := 0; i < 100; i++ {
		c.Tick()
	}
	if c.Position() != 10 {
		t.Fatalf("position after 100 ticks = %v, want 10", c.Position())
	}
	if !c.Tick() || c.Position() != 0 {
		t.Fatalf("expected wrap to 0, got %v", c.Position())
	}
	c.Tick()
	if c.Position() != 0.1 {
		t.Fatalf("position = %v, want 0.1", c.Position())
	}
}

func TestClockLoopLandsOnDuration(t *testing.T) {
	c := NewClock(ClockOptions{Duration: 7.33})
	wrapped := false
	for i := 0; i < 200; i++ {
		c.Tick()
		if c.Position() > c.Duration() {
			t.Fatalf("tick %d: position %v past duration %v", i, c.Position(), c.Duration())
		}
		if i == 73 {
			if c.Position() != 7.33 {
				t.Fatalf("tick %d: position = %v, want 7.33", i, c.Position())
			}
		}
		if i == 74 {
			wrapped = c.Position() == 0
		}
	}
	if !wrapped {
		t.Fatal("expected wrap to 0 on the tick after reaching the end")
	}
}

func TestClockStopsWithoutLoop(t *testing.T) {
	c := NewClock(ClockOptions{Duration: 1, Step: 0.4, NoLoop: true})
	c.Tick()
	c.Tick()
	if c.Position() != 0.8 {
		t.Fatalf("position = %v, want 0.8", c.Position())
	}
	c.Tick()
	if c.Position() != 1 || c.Playing() {
		t.Fatalf("expected stop at 1, got %v playing=%v", c.Position(), c.Playing())
	}
	if c.Tick() {
		t.Fatal("paused clock advanced")
	}
}

func TestClockSeek(t *testing.T) {
	c := NewClock(ClockOptions{})
	tests := []struct {
		to, want float64
	}{
		{4.25, 4.25},
		{-5, 0},
		{50, 10},
		{math.NaN(), 10},
	}
	for _, tc := range tests {
		c.Seek(tc.to)
		if c.Position() != tc.want {
			t.Errorf("Seek(%v) -> %v, want %v", tc.to, c.Position(), tc.want)
		}
	}
}

func TestClockPauseAndDuration(t *testing.T) {
	c := NewClock(ClockOptions{})
	c.Seek(8)
	c.Pause()
	if c.Tick() {
		t.Fatal("paused clock ticked")
	}
	if c.Toggle() != true || !c.Playing() {
		t.Fatal("Toggle should resume playback")
	}
	if c.SetDuration(0) || c.SetDuration(math.NaN()) {
		t.Fatal("invalid durations accepted")
	}
	if !c.SetDuration(5) || c.Position() != 5 {
		t.Fatalf("position = %v after shrinking duration, want 5", c.Position())
	}
}
