package liveness

import (
	"testing"
	"time"
)

func TestDebouncer_ArmsAfterRequiredFramesAndDwell(t *testing.T) {
	d := NewDebouncer(3, time.Second)

	if d.Observe(true, 400*time.Millisecond) {
		t.Fatal("armed after 1 frame")
	}
	if d.Observe(true, 800*time.Millisecond) {
		t.Fatal("armed after 2 frames")
	}
	if !d.Observe(true, 1200*time.Millisecond) {
		t.Fatal("not armed after 3 frames past dwell")
	}
}

func TestDebouncer_FrameCountAloneCannotSkipDwell(t *testing.T) {
	d := NewDebouncer(2, time.Second)

	// A burst of qualifying frames inside the dwell window must not arm.
	for i := 0; i < 10; i++ {
		if d.Observe(true, 100*time.Millisecond) {
			t.Fatalf("armed on burst frame %d before dwell elapsed", i+1)
		}
	}
	if !d.Observe(true, time.Second) {
		t.Fatal("not armed once dwell elapsed")
	}
}

func TestDebouncer_DwellAloneCannotSkipFrames(t *testing.T) {
	d := NewDebouncer(3, time.Second)

	if d.Observe(true, 5*time.Second) {
		t.Fatal("armed with a single frame, dwell notwithstanding")
	}
	if d.Observe(true, 5*time.Second) {
		t.Fatal("armed with two frames, three required")
	}
	if !d.Observe(true, 5*time.Second) {
		t.Fatal("not armed on third frame")
	}
}

func TestDebouncer_DisqualifyingFrameResetsCounter(t *testing.T) {
	d := NewDebouncer(3, 0)

	d.Observe(true, time.Second)
	d.Observe(true, time.Second)
	d.Observe(false, time.Second)

	if d.Count() != 0 {
		t.Fatalf("count = %d after disqualifying frame, want 0", d.Count())
	}

	// Total qualifying frames across the lapse reach the requirement,
	// but the run restarted, so two more are not enough.
	d.Observe(true, time.Second)
	if d.Observe(true, time.Second) {
		t.Fatal("armed with an interrupted run")
	}
	if !d.Observe(true, time.Second) {
		t.Fatal("not armed after a fresh uninterrupted run")
	}
}

func TestDebouncer_Reset(t *testing.T) {
	d := NewDebouncer(2, 0)
	d.Observe(true, time.Second)
	d.Reset()
	if d.Count() != 0 {
		t.Fatalf("count = %d after Reset, want 0", d.Count())
	}
}
