package liveness

import (
	"fmt"
	"time"
)

// Transition is emitted every time the visible session state changes,
// never on frames that commit nothing.
type Transition struct {
	From     State     `json:"from"`
	To       State     `json:"to"`
	Progress float64   `json:"progress"`
	Message  string    `json:"message,omitempty"`
	At       time.Time `json:"at"`
}

// Observer receives committed transitions synchronously, in order.
type Observer interface {
	OnTransition(t Transition)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Transition)

func (f ObserverFunc) OnTransition(t Transition) { f(t) }

// Session is the state machine for one liveness verification attempt.
// It consumes per-frame face observations and decides, with debouncing
// and failure recovery, whether the subject completed the challenge.
//
// A Session is not safe for concurrent use. The caller must guarantee
// at most one in-flight frame; the service layer does this with a busy
// flag that drops frames arriving while a previous one is still being
// classified.
type Session struct {
	cfg        Config
	phase      State
	errored    bool
	debounce   *Debouncer
	recovery   recovery
	phaseStart time.Time
	observer   Observer
}

// NewSession creates a session in the initial state. now anchors the
// dwell clock of the first phase.
func NewSession(cfg Config, now time.Time) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("liveness config: %w", err)
	}
	return &Session{
		cfg:      cfg,
		phase:    StateInitial,
		debounce: NewDebouncer(cfg.RequiredFrames, cfg.PhaseDuration),
		recovery: recovery{
			window: cfg.ErrorTimeout,
			limit:  cfg.MaxConsecutiveErrors,
		},
		phaseStart: now,
	}, nil
}

// SetObserver registers the transition observer. Must be called before
// the first frame is fed.
func (s *Session) SetObserver(o Observer) {
	s.observer = o
}

// Config returns the immutable challenge parameters.
func (s *Session) Config() Config {
	return s.cfg
}

// State returns the visible state: the transient error state while the
// last frames were unusable, the challenge phase otherwise.
func (s *Session) State() State {
	if s.errored {
		return StateError
	}
	return s.phase
}

// Phase returns the underlying challenge phase, which never becomes
// StateError.
func (s *Session) Phase() State {
	return s.phase
}

// Progress returns the completion fraction in [0,1]. It is a function
// of the phase alone; the transient error state keeps the progress of
// the phase it interrupted.
func (s *Session) Progress() float64 {
	return progressOf(s.phase)
}

// Completed reports whether the challenge finished.
func (s *Session) Completed() bool {
	return s.phase.Terminal()
}

// FrameCount returns the consecutive qualifying frame count of the
// active phase.
func (s *Session) FrameCount() int {
	return s.debounce.Count()
}

// Observe processes the detector output for one frame at the given
// time and returns the committed transition, or nil when the frame
// changed nothing visible. Once the session is complete, observations
// are ignored entirely.
func (s *Session) Observe(now time.Time, faces []FaceObservation) *Transition {
	if s.phase.Terminal() {
		return nil
	}

	face, reason := Filter(faces)
	if reason != RejectNone {
		return s.reject(now, reason)
	}

	pose := ClassifyPose(face.Yaw, s.cfg.StraightThreshold, s.cfg.TurnThreshold)
	return s.advance(now, pose)
}

// Fail records a failed detector call for one frame. It routes through
// the same recovery path as frame rejections.
func (s *Session) Fail(now time.Time) *Transition {
	if s.phase.Terminal() {
		return nil
	}
	return s.reject(now, RejectDetectorFailure)
}

func (s *Session) advance(now time.Time, pose Pose) *Transition {
	from := s.State()

	target, ok := targetPose(s.phase)
	if !ok {
		return nil
	}

	qualified := pose == target
	if qualified {
		// A valid qualifying frame clears the transient error state.
		s.errored = false
	}

	if s.debounce.Observe(qualified, now.Sub(s.phaseStart)) {
		s.phase = nextState(s.phase)
		s.phaseStart = now
		s.debounce.Reset()
	}

	if to := s.State(); to != from {
		return s.emit(from, to, Instruction(to), now)
	}
	return nil
}

func (s *Session) reject(now time.Time, reason RejectionReason) *Transition {
	from := s.State()

	// A disqualifying frame never carries partial progress forward.
	s.debounce.Reset()

	if s.recovery.observe(now) {
		return s.forceReset(from, now)
	}

	s.errored = true
	if to := s.State(); to != from {
		return s.emit(from, to, reason.Message(), now)
	}
	return nil
}

// forceReset returns the session to the initial state with every
// counter zeroed. This is a recovery action, not a terminal failure:
// the session keeps trying unless the host abandons it.
func (s *Session) forceReset(from State, now time.Time) *Transition {
	s.phase = StateInitial
	s.errored = false
	s.debounce.Reset()
	s.recovery.reset()
	s.phaseStart = now
	return s.emit(from, StateInitial, "Let's start over. "+Instruction(StateInitial), now)
}

func (s *Session) emit(from, to State, message string, now time.Time) *Transition {
	t := Transition{
		From:     from,
		To:       to,
		Progress: s.Progress(),
		Message:  message,
		At:       now,
	}
	if s.observer != nil {
		s.observer.OnTransition(t)
	}
	return &t
}
