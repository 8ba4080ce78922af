package liveness

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

func at(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

func framesWithYaw(yaw float64) []FaceObservation {
	f := goodFace()
	f.Yaw = floatPtr(yaw)
	return []FaceObservation{f}
}

func centered() []FaceObservation    { return framesWithYaw(0) }
func turnedLeft() []FaceObservation  { return framesWithYaw(40) }
func turnedRight() []FaceObservation { return framesWithYaw(-40) }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RequiredFrames = 2
	cfg.PhaseDuration = 1000 * time.Millisecond
	cfg.ErrorTimeout = 1000 * time.Millisecond
	cfg.MaxConsecutiveErrors = 3
	return cfg
}

func newTestSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	s, err := NewSession(cfg, t0)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

// drive feeds a phase's target pose until the session advances, then
// returns the commit transition.
func drive(t *testing.T, s *Session, faces []FaceObservation, startMs int) *Transition {
	t.Helper()
	for i := 0; i < 20; i++ {
		if tr := s.Observe(at(startMs+i*600), faces); tr != nil {
			return tr
		}
	}
	t.Fatalf("session did not advance from %s", s.State())
	return nil
}

func TestNewSession_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero required frames", func(c *Config) { c.RequiredFrames = 0 }},
		{"negative phase duration", func(c *Config) { c.PhaseDuration = -time.Second }},
		{"zero straight threshold", func(c *Config) { c.StraightThreshold = 0 }},
		{"turn below straight", func(c *Config) { c.TurnThreshold = 5 }},
		{"zero error timeout", func(c *Config) { c.ErrorTimeout = 0 }},
		{"zero error budget", func(c *Config) { c.MaxConsecutiveErrors = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := NewSession(cfg, t0); err == nil {
				t.Error("NewSession accepted invalid config")
			}
		})
	}
}

func TestSession_DebouncedFirstTransition(t *testing.T) {
	// Spec example: requiredFrames=2, phaseDuration=1000ms. Frames at
	// t=0 (no dwell yet), t=600, t=1100 → transition fires at t=1100.
	s := newTestSession(t, testConfig())

	if tr := s.Observe(at(0), centered()); tr != nil {
		t.Fatalf("advanced at t=0: %+v", tr)
	}
	if tr := s.Observe(at(600), centered()); tr != nil {
		t.Fatalf("advanced at t=600 before dwell: %+v", tr)
	}

	tr := s.Observe(at(1100), centered())
	if tr == nil {
		t.Fatal("no transition at t=1100")
	}
	if tr.From != StateInitial || tr.To != StateLookingStraight {
		t.Errorf("transition %s → %s, want initial → looking_straight", tr.From, tr.To)
	}
	if tr.Progress != 0.2 {
		t.Errorf("progress = %v, want 0.2", tr.Progress)
	}
	if tr.Message == "" {
		t.Error("commit transition carries no instruction message")
	}
}

func TestSession_OneFrameShortNeverAdvances(t *testing.T) {
	cfg := testConfig()
	cfg.RequiredFrames = 3
	s := newTestSession(t, cfg)

	// requiredFrames-1 qualifying frames, then an off-pose frame,
	// repeated well past the dwell time.
	ms := 0
	for i := 0; i < 5; i++ {
		for j := 0; j < cfg.RequiredFrames-1; j++ {
			if tr := s.Observe(at(ms), centered()); tr != nil {
				t.Fatalf("advanced with %d consecutive frames: %+v", j+1, tr)
			}
			ms += 600
		}
		s.Observe(at(ms), turnedLeft())
		ms += 600
	}
	if s.State() != StateInitial {
		t.Errorf("state = %s, want initial", s.State())
	}
}

func TestSession_DisqualifyingFrameResetsCounter(t *testing.T) {
	cfg := testConfig()
	cfg.RequiredFrames = 2
	cfg.PhaseDuration = 0
	s := newTestSession(t, cfg)

	s.Observe(at(0), centered())
	s.Observe(at(100), turnedLeft()) // lapse
	if s.FrameCount() != 0 {
		t.Fatalf("frame count = %d after lapse, want 0", s.FrameCount())
	}
	// One more centered frame: total centered count is now 2, but the
	// run restarted, so no transition yet.
	if tr := s.Observe(at(200), centered()); tr != nil {
		t.Fatalf("advanced across a disqualifying frame: %+v", tr)
	}
	if tr := s.Observe(at(300), centered()); tr == nil {
		t.Fatal("no transition after a fresh uninterrupted run")
	}
}

func TestSession_NoPhaseSkipping(t *testing.T) {
	cfg := testConfig()
	cfg.PhaseDuration = 0
	s := newTestSession(t, cfg)

	drive(t, s, centered(), 0)
	if s.State() != StateLookingStraight {
		t.Fatalf("state = %s, want looking_straight", s.State())
	}

	// Only turned_left advances looking_straight; a turned_right run of
	// any length must not.
	for i := 0; i < 30; i++ {
		if tr := s.Observe(at(20000+i*600), turnedRight()); tr != nil {
			t.Fatalf("turned_right advanced looking_straight: %+v", tr)
		}
	}
	if s.State() != StateLookingStraight {
		t.Errorf("state = %s, want looking_straight", s.State())
	}
}

func TestSession_FullChallenge(t *testing.T) {
	cfg := testConfig()
	s := newTestSession(t, cfg)

	var emitted []Transition
	s.SetObserver(ObserverFunc(func(tr Transition) {
		emitted = append(emitted, tr)
	}))

	steps := []struct {
		faces []FaceObservation
		to    State
		prog  float64
	}{
		{centered(), StateLookingStraight, 0.2},
		{turnedLeft(), StateLookingLeft, 0.4},
		{turnedRight(), StateLookingRight, 0.6},
		{centered(), StateLookingStraightAgain, 0.8},
		{centered(), StateComplete, 1.0},
	}

	ms := 0
	for _, step := range steps {
		tr := drive(t, s, step.faces, ms)
		if tr.To != step.to {
			t.Fatalf("advanced to %s, want %s", tr.To, step.to)
		}
		if tr.Progress != step.prog {
			t.Errorf("progress at %s = %v, want %v", tr.To, tr.Progress, step.prog)
		}
		ms += 20000
	}

	if !s.Completed() {
		t.Error("session not completed after full sequence")
	}
	if len(emitted) != len(steps) {
		t.Errorf("observer saw %d transitions, want %d", len(emitted), len(steps))
	}
	for i, tr := range emitted {
		if tr.To != steps[i].to {
			t.Errorf("observer transition %d → %s, want %s", i, tr.To, steps[i].to)
		}
	}
}

func TestSession_TerminalImmutability(t *testing.T) {
	cfg := testConfig()
	s := newTestSession(t, cfg)

	ms := 0
	for _, faces := range [][]FaceObservation{
		centered(), turnedLeft(), turnedRight(), centered(), centered(),
	} {
		drive(t, s, faces, ms)
		ms += 20000
	}
	if s.State() != StateComplete {
		t.Fatalf("state = %s, want complete", s.State())
	}

	// Any further observation, of any content, mutates nothing.
	inputs := [][]FaceObservation{
		nil, centered(), turnedLeft(), {goodFace(), goodFace()},
	}
	for _, faces := range inputs {
		if tr := s.Observe(at(ms), faces); tr != nil {
			t.Errorf("complete session emitted transition: %+v", tr)
		}
		ms += 600
	}
	if tr := s.Fail(at(ms)); tr != nil {
		t.Errorf("complete session reacted to detector failure: %+v", tr)
	}
	if s.State() != StateComplete || s.Progress() != 1.0 {
		t.Errorf("terminal state drifted: %s (%v)", s.State(), s.Progress())
	}
}

func TestSession_ErrorGroupingForcesReset(t *testing.T) {
	// Spec example: 3 multiple_faces rejections at t=0,400,800 with
	// errorTimeout=1000ms, maxConsecutiveErrors=3 → reset after t=800.
	s := newTestSession(t, testConfig())
	twoFaces := []FaceObservation{goodFace(), goodFace()}

	tr := s.Observe(at(0), twoFaces)
	if tr == nil || tr.To != StateError {
		t.Fatalf("first rejection: transition = %+v, want → error", tr)
	}
	if tr := s.Observe(at(400), twoFaces); tr != nil {
		t.Fatalf("second rejection emitted: %+v", tr)
	}

	tr = s.Observe(at(800), twoFaces)
	if tr == nil || tr.To != StateInitial {
		t.Fatalf("third rejection: transition = %+v, want forced reset to initial", tr)
	}
	if s.State() != StateInitial {
		t.Errorf("state = %s, want initial", s.State())
	}
	if s.FrameCount() != 0 {
		t.Errorf("frame count = %d after reset, want 0", s.FrameCount())
	}

	// The error counter was zeroed: two more rejections stay transient.
	s.Observe(at(1200), nil)
	if tr := s.Observe(at(1600), nil); tr != nil && tr.To == StateInitial {
		t.Error("error counter carried across forced reset")
	}
	if s.State() != StateError {
		t.Errorf("state = %s, want transient error", s.State())
	}
}

func TestSession_ErrorRegrouping(t *testing.T) {
	// Rejections separated by more than errorTimeout restart the count.
	s := newTestSession(t, testConfig())

	s.Observe(at(0), nil)
	s.Observe(at(400), nil)
	// Gap of 1500ms > errorTimeout: counter restarts at 1.
	s.Observe(at(1900), nil)
	if tr := s.Observe(at(2300), nil); tr != nil && tr.To == StateInitial {
		t.Fatalf("forced reset despite regrouping gap: %+v", tr)
	}
	if s.State() != StateError {
		t.Errorf("state = %s, want transient error", s.State())
	}

	// Fourth-in-window rejection after the restart reaches the limit.
	tr := s.Observe(at(2700), nil)
	if tr == nil || tr.To != StateInitial {
		t.Errorf("transition = %+v, want forced reset", tr)
	}
}

func TestSession_TransientErrorClearedByQualifyingFrame(t *testing.T) {
	cfg := testConfig()
	cfg.PhaseDuration = 0
	s := newTestSession(t, cfg)

	s.Observe(at(0), nil)
	if s.State() != StateError {
		t.Fatalf("state = %s, want error", s.State())
	}
	if s.Progress() != 0 {
		t.Errorf("error progress = %v, want the interrupted phase's 0", s.Progress())
	}

	tr := s.Observe(at(5000), centered())
	if tr == nil || tr.From != StateError {
		t.Fatalf("transition = %+v, want exit from error", tr)
	}
	if s.State() == StateError {
		t.Error("qualifying frame did not clear the error state")
	}
}

func TestSession_NonQualifyingValidFrameKeepsErrorState(t *testing.T) {
	// A valid face in the wrong pose is not "qualifying": the error
	// overlay stays until the subject matches the active phase's pose.
	s := newTestSession(t, testConfig())

	s.Observe(at(0), nil)
	if tr := s.Observe(at(400), turnedLeft()); tr != nil {
		t.Fatalf("unexpected transition: %+v", tr)
	}
	if s.State() != StateError {
		t.Errorf("state = %s, want error", s.State())
	}
}

func TestSession_DetectorFailureRoutesThroughRecovery(t *testing.T) {
	s := newTestSession(t, testConfig())

	s.Fail(at(0))
	s.Fail(at(400))
	tr := s.Fail(at(800))
	if tr == nil || tr.To != StateInitial {
		t.Errorf("transition = %+v, want forced reset after 3 detector failures", tr)
	}
}

func TestSession_RejectionResetsFrameCounter(t *testing.T) {
	cfg := testConfig()
	cfg.MaxConsecutiveErrors = 10
	s := newTestSession(t, cfg)

	s.Observe(at(0), centered())
	if s.FrameCount() != 1 {
		t.Fatalf("frame count = %d, want 1", s.FrameCount())
	}
	s.Observe(at(400), nil)
	if s.FrameCount() != 0 {
		t.Errorf("frame count = %d after rejection, want 0", s.FrameCount())
	}
}

func TestSession_DwellClockSurvivesLapses(t *testing.T) {
	// Only the frame counter resets on a lapse; the dwell clock keeps
	// running, so recovery right after the dwell window can still
	// commit without waiting another full phaseDuration.
	cfg := testConfig()
	cfg.RequiredFrames = 2
	s := newTestSession(t, cfg)

	s.Observe(at(0), centered())
	s.Observe(at(500), turnedLeft()) // brief lapse
	s.Observe(at(1100), centered())
	tr := s.Observe(at(1200), centered())
	if tr == nil || tr.To != StateLookingStraight {
		t.Errorf("transition = %+v, want commit at t=1200 without dwell restart", tr)
	}
}

func TestProgress_IsPureFunctionOfState(t *testing.T) {
	want := map[State]float64{
		StateInitial:              0.0,
		StateLookingStraight:      0.2,
		StateLookingLeft:          0.4,
		StateLookingRight:         0.6,
		StateLookingStraightAgain: 0.8,
		StateComplete:             1.0,
	}
	for state, p := range want {
		if got := progressOf(state); got != p {
			t.Errorf("progressOf(%s) = %v, want %v", state, got, p)
		}
	}
}

func TestTransitionTable_IsTotal(t *testing.T) {
	// Every non-terminal phase has exactly one target pose and one
	// successor; the terminal phase has neither.
	phases := []State{
		StateInitial, StateLookingStraight, StateLookingLeft,
		StateLookingRight, StateLookingStraightAgain,
	}
	seen := map[State]bool{}
	for _, phase := range phases {
		pose, ok := targetPose(phase)
		if !ok || pose == "" {
			t.Errorf("no target pose for %s", phase)
		}
		next := nextState(phase)
		if next == phase {
			t.Errorf("no successor for %s", phase)
		}
		if seen[next] {
			t.Errorf("successor %s reached twice", next)
		}
		seen[next] = true
	}
	if _, ok := targetPose(StateComplete); ok {
		t.Error("terminal state has a target pose")
	}
}
