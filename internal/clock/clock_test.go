package clock

import "testing"

func TestFakeClockAdvance(t *testing.T) {
	c := NewFakeClock(10, 100)
	c.Advance(5)
	if c.MonotonicSeconds() != 15 {
		t.Errorf("MonotonicSeconds() = %v, want 15", c.MonotonicSeconds())
	}
	if c.WallSeconds() != 105 {
		t.Errorf("WallSeconds() = %v, want 105", c.WallSeconds())
	}
}

func TestFakeClockAdvanceNegativeClamped(t *testing.T) {
	c := NewFakeClock(10, 10)
	c.Advance(-5)
	if c.MonotonicSeconds() != 10 {
		t.Errorf("MonotonicSeconds() = %v, want unchanged at 10", c.MonotonicSeconds())
	}
}

func TestSystemClockMonotonicNonDecreasing(t *testing.T) {
	c := NewSystemClock()
	a := c.MonotonicSeconds()
	b := c.MonotonicSeconds()
	if b < a {
		t.Errorf("MonotonicSeconds went backwards: %v then %v", a, b)
	}
}
