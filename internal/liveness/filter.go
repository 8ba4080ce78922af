package liveness

import "math"

// RejectionReason explains why a frame could not be used.
type RejectionReason string

const (
	// RejectNone means the frame produced a usable face.
	RejectNone RejectionReason = ""
	// RejectNoFace means the detector found no face in the frame.
	RejectNoFace RejectionReason = "no_face"
	// RejectMultipleFaces means more than one face was present. A
	// second face is treated as a tamper signal, never averaged away.
	RejectMultipleFaces RejectionReason = "multiple_faces"
	// RejectInvalidGeometry means the face was too small or tilted
	// beyond the roll bound.
	RejectInvalidGeometry RejectionReason = "invalid_geometry"
	// RejectUntracked means the detector could not assign a stable
	// tracking id to the face.
	RejectUntracked RejectionReason = "untracked"
	// RejectDetectorFailure means the detector call itself failed.
	RejectDetectorFailure RejectionReason = "detector_failure"
)

// Message returns a human-readable hint for the subject.
func (r RejectionReason) Message() string {
	switch r {
	case RejectNoFace:
		return "No face detected, position your face inside the circle"
	case RejectMultipleFaces:
		return "Multiple faces detected, make sure you are alone in the frame"
	case RejectInvalidGeometry:
		return "Move closer and keep your head level"
	case RejectUntracked:
		return "Hold still, we lost track of your face"
	case RejectDetectorFailure:
		return "Could not analyze the frame, please try again"
	default:
		return ""
	}
}

const (
	// minFaceSizePx is the minimum bounding box edge for a usable face.
	minFaceSizePx = 100.0
	// maxRollDegrees is the tilt bound beyond which geometry is invalid.
	maxRollDegrees = 30.0
)

// Filter reduces the detector output for one frame to either a single
// usable face or a rejection reason. Rules are applied in order: face
// count, bounding box size, roll bound, tracking id. Pure function, no
// side effects.
func Filter(faces []FaceObservation) (*ValidFace, RejectionReason) {
	if len(faces) == 0 {
		return nil, RejectNoFace
	}
	if len(faces) > 1 {
		return nil, RejectMultipleFaces
	}

	face := faces[0]
	if face.Width < minFaceSizePx || face.Height < minFaceSizePx {
		return nil, RejectInvalidGeometry
	}
	if face.Roll == nil || math.Abs(*face.Roll) > maxRollDegrees {
		return nil, RejectInvalidGeometry
	}
	if face.TrackingID == nil || *face.TrackingID == "" {
		return nil, RejectUntracked
	}

	return &ValidFace{
		Yaw:        face.Yaw,
		Roll:       *face.Roll,
		TrackingID: *face.TrackingID,
	}, RejectNone
}
