package mock

import (
	"context"

	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/domain"
	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/liveness"
)

const minImageBytes = 1000

// Detector implements detector.Detector for tests and development. The
// reported pose is driven by the first byte of the frame so a client
// can walk through a whole challenge without a camera:
//
//	'L' → turned left, 'R' → turned right, 'U' → yaw unresolved,
//	'M' → two faces, 'N' → no face, anything else → centered.
type Detector struct{}

// New creates a new mock detector.
func New() *Detector {
	return &Detector{}
}

func (d *Detector) Name() string { return "mock" }

// DetectFaces returns a deterministic observation derived from the
// frame's first byte.
func (d *Detector) DetectFaces(ctx context.Context, image []byte) ([]liveness.FaceObservation, error) {
	if len(image) < minImageBytes {
		return nil, domain.ErrInvalidImage
	}

	switch image[0] {
	case 'N':
		return nil, nil
	case 'M':
		return []liveness.FaceObservation{d.face(0), d.face(0)}, nil
	case 'U':
		f := d.face(0)
		f.Yaw = nil
		return []liveness.FaceObservation{f}, nil
	case 'L':
		return []liveness.FaceObservation{d.face(40)}, nil
	case 'R':
		return []liveness.FaceObservation{d.face(-40)}, nil
	default:
		return []liveness.FaceObservation{d.face(0)}, nil
	}
}

// Close releases nothing (no-op for mock)
func (d *Detector) Close() error {
	return nil
}

func (d *Detector) face(yaw float64) liveness.FaceObservation {
	roll := 1.5
	tracking := "mock-face-1"
	eyeOpen := 0.98
	return liveness.FaceObservation{
		Yaw:          &yaw,
		Roll:         &roll,
		Width:        320,
		Height:       320,
		TrackingID:   &tracking,
		LeftEyeOpen:  &eyeOpen,
		RightEyeOpen: &eyeOpen,
	}
}
