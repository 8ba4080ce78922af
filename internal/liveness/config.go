package liveness

import (
	"fmt"
	"time"
)

// Config holds the challenge parameters for a single session. It is
// supplied at session creation and never changes afterwards.
type Config struct {
	// RequiredFrames is the number of consecutive qualifying frames
	// needed before a phase transition may be committed.
	RequiredFrames int

	// PhaseDuration is the minimum dwell time a phase must remain
	// active before a transition may be committed, regardless of how
	// many qualifying frames arrived.
	PhaseDuration time.Duration

	// StraightThreshold is the yaw tolerance in degrees for the
	// centered pose.
	StraightThreshold float64

	// TurnThreshold is the yaw in degrees beyond which a head turn
	// counts as turned left or right.
	TurnThreshold float64

	// ErrorTimeout is the window inside which rejections are grouped
	// as consecutive.
	ErrorTimeout time.Duration

	// MaxConsecutiveErrors is the number of grouped rejections that
	// forces a full reset back to the initial state.
	MaxConsecutiveErrors int

	// CircleSize is the diameter in pixels of the face guide overlay.
	// Passed through to clients, unused by the state machine.
	CircleSize int
}

// DefaultConfig returns the challenge parameters used when the caller
// supplies no overrides.
func DefaultConfig() Config {
	return Config{
		RequiredFrames:       3,
		PhaseDuration:        1500 * time.Millisecond,
		StraightThreshold:    10,
		TurnThreshold:        25,
		ErrorTimeout:         2 * time.Second,
		MaxConsecutiveErrors: 5,
		CircleSize:           250,
	}
}

// Validate checks that the configuration can drive a session.
func (c Config) Validate() error {
	if c.RequiredFrames < 1 {
		return fmt.Errorf("required frames must be >= 1, got %d", c.RequiredFrames)
	}
	if c.PhaseDuration < 0 {
		return fmt.Errorf("phase duration must not be negative, got %s", c.PhaseDuration)
	}
	if c.StraightThreshold <= 0 {
		return fmt.Errorf("straight threshold must be positive, got %g", c.StraightThreshold)
	}
	if c.TurnThreshold < c.StraightThreshold {
		return fmt.Errorf("turn threshold (%g) must not be below straight threshold (%g)",
			c.TurnThreshold, c.StraightThreshold)
	}
	if c.ErrorTimeout <= 0 {
		return fmt.Errorf("error timeout must be positive, got %s", c.ErrorTimeout)
	}
	if c.MaxConsecutiveErrors < 1 {
		return fmt.Errorf("max consecutive errors must be >= 1, got %d", c.MaxConsecutiveErrors)
	}
	return nil
}
