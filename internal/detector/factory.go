package detector

import (
	"context"
	"fmt"

	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/config"
	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/detector/mock"
	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/detector/rekognition"
)

// Compile-time interface checks for the bundled providers
var (
	_ Detector = (*mock.Detector)(nil)
	_ Detector = (*rekognition.Provider)(nil)
)

// ProviderType defines supported face detector provider types
type ProviderType string

const (
	// ProviderTypeMock is the deterministic in-process detector (dev/test)
	ProviderTypeMock ProviderType = "mock"
	// ProviderTypeRekognition is the AWS Rekognition detector (cloud, for prod)
	ProviderTypeRekognition ProviderType = "rekognition"
)

// New creates a Detector instance based on configuration.
//
// Environment variables:
//   - DETECTOR_PROVIDER: "mock" or "rekognition" (default: "mock")
//   - AWS_REGION: AWS region for Rekognition (default: "us-east-1")
//   - AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY: via the AWS SDK credential chain
func New(ctx context.Context, cfg *config.Config) (Detector, error) {
	providerType := ProviderType(cfg.DetectorProvider)

	switch providerType {
	case ProviderTypeRekognition:
		return rekognition.NewProvider(ctx, rekognition.Config{
			Region:        cfg.AWSRegion,
			MaxImageBytes: cfg.MaxImageBytes,
		})

	case ProviderTypeMock, "":
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown detector provider: %s (supported: %s, %s)",
			cfg.DetectorProvider, ProviderTypeMock, ProviderTypeRekognition)
	}
}
