package liveness

import "math"

// Pose is the semantic head orientation derived from yaw.
type Pose string

const (
	PoseCentered      Pose = "centered"
	PoseTurnedLeft    Pose = "turned_left"
	PoseTurnedRight   Pose = "turned_right"
	PoseIndeterminate Pose = "indeterminate"
)

// ClassifyPose maps a yaw angle into a pose category. Yaw between the
// straight and turn thresholds is an ambiguous zone that never
// qualifies a phase. A nil yaw (detector could not resolve the angle)
// is always indeterminate. Positive yaw means turned left.
func ClassifyPose(yaw *float64, straightThreshold, turnThreshold float64) Pose {
	if yaw == nil {
		return PoseIndeterminate
	}
	switch {
	case math.Abs(*yaw) < straightThreshold:
		return PoseCentered
	case *yaw > turnThreshold:
		return PoseTurnedLeft
	case *yaw < -turnThreshold:
		return PoseTurnedRight
	default:
		return PoseIndeterminate
	}
}
