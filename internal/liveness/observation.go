package liveness

// FaceObservation is one detector result for a single camera frame.
// Angle and tracking fields are pointers because the detector may fail
// to resolve them; 0 is a valid centered measurement and must never
// stand in for "unknown".
type FaceObservation struct {
	// Yaw is the left/right head rotation in degrees. Positive yaw
	// means the subject turned left (mirror view).
	Yaw *float64

	// Roll is the head tilt in degrees.
	Roll *float64

	// Width and Height are the bounding box dimensions in pixels.
	Width  float64
	Height float64

	// TrackingID identifies the same face across frames.
	TrackingID *string

	// LeftEyeOpen and RightEyeOpen are open probabilities in [0,1].
	LeftEyeOpen  *float64
	RightEyeOpen *float64
}

// ValidFace is an observation that passed the validity filter. Roll and
// tracking id are guaranteed present; yaw may still be unresolved and
// then classifies as indeterminate.
type ValidFace struct {
	Yaw        *float64
	Roll       float64
	TrackingID string
}
