package detector

import (
	"context"

	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/liveness"
)

// Detector is the capability object a liveness session observes faces
// through. It is acquired when the service starts and released with
// Close when it shuts down; it is never a process-wide singleton.
type Detector interface {
	// DetectFaces analyzes one camera frame and returns zero or more
	// face observations. Fields the underlying model failed to resolve
	// are left nil, never defaulted.
	DetectFaces(ctx context.Context, image []byte) ([]liveness.FaceObservation, error)

	// Name identifies the provider for logs and audit records.
	Name() string

	// Close releases the detector's resources.
	Close() error
}
