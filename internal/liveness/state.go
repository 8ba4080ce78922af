package liveness

// State is the phase of the liveness challenge. Sessions progress
// through the ordered sequence initial → looking_straight →
// looking_left → looking_right → looking_straight_again → complete.
// StateError overlays any non-terminal phase and StateInitial is also
// reachable from anywhere via forced reset; no other edges exist.
type State string

const (
	StateInitial              State = "initial"
	StateLookingStraight      State = "looking_straight"
	StateLookingLeft          State = "looking_left"
	StateLookingRight         State = "looking_right"
	StateLookingStraightAgain State = "looking_straight_again"
	StateComplete             State = "complete"
	StateError                State = "error"
)

// Terminal reports whether no further observations can mutate the
// session.
func (s State) Terminal() bool {
	return s == StateComplete
}

// targetPose returns the pose that must be held, debounced, to advance
// out of a phase. ok is false for the terminal state.
func targetPose(s State) (pose Pose, ok bool) {
	switch s {
	case StateInitial:
		return PoseCentered, true
	case StateLookingStraight:
		return PoseTurnedLeft, true
	case StateLookingLeft:
		return PoseTurnedRight, true
	case StateLookingRight:
		return PoseCentered, true
	case StateLookingStraightAgain:
		return PoseCentered, true
	default:
		return "", false
	}
}

// nextState returns the successor phase in the challenge sequence.
func nextState(s State) State {
	switch s {
	case StateInitial:
		return StateLookingStraight
	case StateLookingStraight:
		return StateLookingLeft
	case StateLookingLeft:
		return StateLookingRight
	case StateLookingRight:
		return StateLookingStraightAgain
	case StateLookingStraightAgain:
		return StateComplete
	default:
		return s
	}
}

// progressOf is the challenge completion fraction. It depends on the
// phase alone, never on frame counters.
func progressOf(s State) float64 {
	switch s {
	case StateInitial:
		return 0.0
	case StateLookingStraight:
		return 0.2
	case StateLookingLeft:
		return 0.4
	case StateLookingRight:
		return 0.6
	case StateLookingStraightAgain:
		return 0.8
	case StateComplete:
		return 1.0
	default:
		return 0.0
	}
}

// Instruction returns the on-screen prompt for the maneuver that
// completes a phase.
func Instruction(s State) string {
	switch s {
	case StateInitial:
		return "Look straight at the camera"
	case StateLookingStraight:
		return "Slowly turn your head to the left"
	case StateLookingLeft:
		return "Slowly turn your head to the right"
	case StateLookingRight:
		return "Look straight at the camera again"
	case StateLookingStraightAgain:
		return "Hold still, almost done"
	case StateComplete:
		return "Verification complete"
	default:
		return ""
	}
}
