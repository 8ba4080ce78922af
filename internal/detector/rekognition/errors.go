package rekognition

import (
	"errors"
	"fmt"

	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/domain"
)

var (
	// ErrInvalidCredentials indicates that AWS credentials are invalid or missing
	ErrInvalidCredentials = errors.New("invalid or missing AWS credentials")

	// ErrInvalidImage indicates that the frame could not be processed by
	// Rekognition. It unwraps to domain.ErrInvalidImage so callers treat it
	// as a client error rather than a detector failure.
	ErrInvalidImage = fmt.Errorf("%w: rejected by rekognition", domain.ErrInvalidImage)

	// ErrThrottled indicates that the Rekognition API throttled the request
	ErrThrottled = errors.New("rekognition request throttled")
)
