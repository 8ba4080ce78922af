package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationResult is the audit record of one finished liveness
// attempt, written once the session completes or is abandoned.
type VerificationResult struct {
	ID           uuid.UUID `json:"id"`
	SessionID    uuid.UUID `json:"session_id"`
	Success      bool      `json:"success"`
	FinalState   string    `json:"final_state"`
	Transitions  int       `json:"transitions"`
	ForcedResets int       `json:"forced_resets"`
	ErrorMessage string    `json:"error_message,omitempty"`
	// CaptureRef points at the frame the host captured on completion.
	// Populated by the external capture step, not by this service.
	CaptureRef string        `json:"capture_ref,omitempty"`
	Duration   time.Duration `json:"-"`
	DurationMs int64         `json:"duration_ms"`
	CreatedAt  time.Time     `json:"created_at"`
}

// SessionSnapshot is the externally visible view of a live session.
type SessionSnapshot struct {
	ID         uuid.UUID `json:"id"`
	State      string    `json:"state"`
	Progress   float64   `json:"progress"`
	Message    string    `json:"message,omitempty"`
	CircleSize int       `json:"circle_size"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// IsExpired checks if the session has passed its idle deadline.
func (s *SessionSnapshot) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
