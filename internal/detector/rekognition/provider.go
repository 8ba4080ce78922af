package rekognition

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strconv"

	_ "image/jpeg"
	_ "image/png"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"

	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/audit"
	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/liveness"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minImageSize is the minimum image size for valid processing
	minImageSize = 100

	errCodeAccessDenied     = "AccessDeniedException"
	errCodeInvalidImage     = "InvalidImageFormatException"
	errCodeImageTooLarge    = "ImageTooLargeException"
	errCodeThrottling       = "ThrottlingException"
	errCodeProvisionedLimit = "ProvisionedThroughputExceededException"
)

// Provider implements detector.Detector using the AWS Rekognition
// DetectFaces API. Pose angles come from the face details; the face
// index within a frame stands in for a tracking id, since DetectFaces
// does not track identity across calls.
type Provider struct {
	api         DetectFacesAPI
	cfg         Config
	auditLogger audit.Logger
}

// ProviderOption defines optional configuration for Provider
type ProviderOption func(*Provider)

// WithAuditLogger sets the audit logger for the provider
func WithAuditLogger(logger audit.Logger) ProviderOption {
	return func(p *Provider) {
		p.auditLogger = logger
	}
}

// WithAPI overrides the Rekognition API client, used in tests.
func WithAPI(api DetectFacesAPI) ProviderOption {
	return func(p *Provider) {
		p.api = api
	}
}

// NewProvider creates a Rekognition-backed detector.
func NewProvider(ctx context.Context, cfg Config, opts ...ProviderOption) (*Provider, error) {
	if cfg.MaxImageBytes <= 0 || cfg.MaxImageBytes > maxImageSize {
		cfg.MaxImageBytes = maxImageSize
	}

	p := &Provider{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}

	if p.api == nil {
		api, err := NewClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create rekognition client: %w", err)
		}
		p.api = api
	}

	return p, nil
}

func (p *Provider) Name() string { return "rekognition" }

// validateImage checks if image data is valid for Rekognition processing
func (p *Provider) validateImage(img []byte) error {
	if len(img) == 0 {
		return ErrInvalidImage
	}
	if len(img) < minImageSize {
		return fmt.Errorf("%w: image too small (%d bytes, minimum %d)", ErrInvalidImage, len(img), minImageSize)
	}
	if len(img) > p.cfg.MaxImageBytes {
		return fmt.Errorf("%w: image too large (%d bytes, maximum %d)", ErrInvalidImage, len(img), p.cfg.MaxImageBytes)
	}
	return nil
}

// DetectFaces analyzes one frame with the Rekognition DetectFaces API
// and maps the face details to liveness observations. An empty slice
// for a face-free frame is not an error.
func (p *Provider) DetectFaces(ctx context.Context, img []byte) ([]liveness.FaceObservation, error) {
	if err := p.validateImage(img); err != nil {
		p.logAudit(ctx, false, err, map[string]string{
			"image_size": strconv.Itoa(len(img)),
		})
		return nil, err
	}

	// Rekognition bounding boxes are ratios of the frame; the filter
	// works in pixels, so the frame dimensions are needed up front.
	frameW, frameH, err := frameDimensions(img)
	if err != nil {
		p.logAudit(ctx, false, err, map[string]string{
			"image_size": strconv.Itoa(len(img)),
		})
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	input := &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: img,
		},
		Attributes: []types.Attribute{types.AttributeAll},
	}

	output, err := p.api.DetectFaces(ctx, input)
	if err != nil {
		mapped := mapAPIError(err)
		p.logAudit(ctx, false, mapped, map[string]string{
			"image_size": strconv.Itoa(len(img)),
		})
		return nil, fmt.Errorf("detect faces: %w", mapped)
	}

	faces := make([]liveness.FaceObservation, 0, len(output.FaceDetails))
	for i, detail := range output.FaceDetails {
		faces = append(faces, toObservation(detail, i, frameW, frameH))
	}

	p.logAudit(ctx, true, nil, map[string]string{
		"faces_count": strconv.Itoa(len(faces)),
		"image_size":  strconv.Itoa(len(img)),
	})

	return faces, nil
}

// Close releases nothing; the underlying HTTP client is shared.
func (p *Provider) Close() error {
	return nil
}

// toObservation maps one Rekognition face detail to an observation.
// Absent SDK fields stay nil rather than defaulting to zero.
func toObservation(detail types.FaceDetail, index, frameW, frameH int) liveness.FaceObservation {
	obs := liveness.FaceObservation{}

	if detail.Pose != nil {
		if detail.Pose.Yaw != nil {
			yaw := float64(*detail.Pose.Yaw)
			obs.Yaw = &yaw
		}
		if detail.Pose.Roll != nil {
			roll := float64(*detail.Pose.Roll)
			obs.Roll = &roll
		}
	}

	if detail.BoundingBox != nil {
		if detail.BoundingBox.Width != nil {
			obs.Width = float64(*detail.BoundingBox.Width) * float64(frameW)
		}
		if detail.BoundingBox.Height != nil {
			obs.Height = float64(*detail.BoundingBox.Height) * float64(frameH)
		}
	}

	if detail.EyesOpen != nil && detail.EyesOpen.Confidence != nil {
		// Confidence scores the boolean verdict, so closed eyes invert it
		// into an open probability.
		prob := float64(*detail.EyesOpen.Confidence) / 100
		if !detail.EyesOpen.Value {
			prob = 1 - prob
		}
		obs.LeftEyeOpen = &prob
		obs.RightEyeOpen = &prob
	}

	tracking := "rekognition-face-" + strconv.Itoa(index)
	obs.TrackingID = &tracking

	return obs
}

// frameDimensions decodes only the image header.
func frameDimensions(img []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image dimensions: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// mapAPIError converts AWS API errors into provider sentinels.
func mapAPIError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case errCodeAccessDenied:
			return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		case errCodeInvalidImage, errCodeImageTooLarge:
			return fmt.Errorf("%w: %v", ErrInvalidImage, err)
		case errCodeThrottling, errCodeProvisionedLimit:
			return fmt.Errorf("%w: %v", ErrThrottled, err)
		}
	}
	return err
}

// logAudit logs an audit event if an audit logger is configured
// Audit failure does not affect the operation (fire-and-forget)
func (p *Provider) logAudit(ctx context.Context, success bool, err error, metadata map[string]string) {
	if p.auditLogger == nil {
		return
	}

	event := audit.Event{
		EventType: audit.EventFrameProcessed,
		Provider:  "rekognition",
		Success:   success,
		Metadata:  metadata,
	}
	if err != nil {
		event.Error = err.Error()
	}

	_ = p.auditLogger.Log(ctx, event)
}
