package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/domain"
	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/service"
)

const (
	maxImageSize = 10 * 1024 * 1024 // 10MB
)

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// LivenessService interface for the service
type LivenessService interface {
	Create(ctx context.Context, overrides service.ChallengeOverrides) (*domain.SessionSnapshot, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.SessionSnapshot, error)
	ProcessFrame(ctx context.Context, id uuid.UUID, image []byte) (*service.FrameResult, error)
	Abandon(ctx context.Context, id uuid.UUID) error
	GetResult(ctx context.Context, sessionID uuid.UUID) (*domain.VerificationResult, error)
}

// LivenessHandler handles liveness session requests
type LivenessHandler struct {
	service LivenessService
	logger  *slog.Logger
}

// NewLivenessHandler creates a new LivenessHandler instance
func NewLivenessHandler(service LivenessService, logger *slog.Logger) *LivenessHandler {
	return &LivenessHandler{
		service: service,
		logger:  logger,
	}
}

// CreateSessionRequest carries optional challenge overrides. Durations
// are milliseconds; omitted fields use the server defaults.
type CreateSessionRequest struct {
	RequiredFrames       *int     `json:"required_frames"`
	PhaseDurationMs      *int     `json:"phase_duration_ms"`
	StraightThreshold    *float64 `json:"straight_threshold"`
	TurnThreshold        *float64 `json:"turn_threshold"`
	ErrorTimeoutMs       *int     `json:"error_timeout_ms"`
	MaxConsecutiveErrors *int     `json:"max_consecutive_errors"`
	CircleSize           *int     `json:"circle_size"`
}

func (r *CreateSessionRequest) overrides() service.ChallengeOverrides {
	o := service.ChallengeOverrides{
		RequiredFrames:       r.RequiredFrames,
		StraightThreshold:    r.StraightThreshold,
		TurnThreshold:        r.TurnThreshold,
		MaxConsecutiveErrors: r.MaxConsecutiveErrors,
		CircleSize:           r.CircleSize,
	}
	if r.PhaseDurationMs != nil {
		d := time.Duration(*r.PhaseDurationMs) * time.Millisecond
		o.PhaseDuration = &d
	}
	if r.ErrorTimeoutMs != nil {
		d := time.Duration(*r.ErrorTimeoutMs) * time.Millisecond
		o.ErrorTimeout = &d
	}
	return o
}

// SessionResponse response for session snapshot endpoints
type SessionResponse struct {
	SessionID  string  `json:"session_id"`
	State      string  `json:"state"`
	Progress   float64 `json:"progress"`
	Message    string  `json:"message,omitempty"`
	CircleSize int     `json:"circle_size"`
	CreatedAt  string  `json:"created_at"`
	ExpiresAt  string  `json:"expires_at"`
}

func toSessionResponse(s *domain.SessionSnapshot) SessionResponse {
	return SessionResponse{
		SessionID:  s.ID.String(),
		State:      s.State,
		Progress:   s.Progress,
		Message:    s.Message,
		CircleSize: s.CircleSize,
		CreatedAt:  s.CreatedAt.UTC().Format(time.RFC3339),
		ExpiresAt:  s.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

// Create POST /v1/liveness/sessions - start a new liveness session
func (h *LivenessHandler) Create(c *fiber.Ctx) error {
	var req CreateSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return domain.ErrBadRequest.WithError(err)
		}
	}

	snapshot, err := h.service.Create(c.Context(), req.overrides())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toSessionResponse(snapshot))
}

// Get GET /v1/liveness/sessions/:id - current session state
func (h *LivenessHandler) Get(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	snapshot, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(toSessionResponse(snapshot))
}

// ProcessFrame POST /v1/liveness/sessions/:id/frames - feed one camera frame
func (h *LivenessHandler) ProcessFrame(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("process frame: %w", err)
	}

	result, err := h.service.ProcessFrame(c.Context(), id, imageBytes)
	if err != nil {
		return err
	}

	status := fiber.StatusOK
	if result.Dropped {
		// The frame was discarded because a previous one is still in
		// flight. The client should just keep streaming.
		status = fiber.StatusAccepted
	}

	return c.Status(status).JSON(result)
}

// Abandon DELETE /v1/liveness/sessions/:id - give up on a session
func (h *LivenessHandler) Abandon(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	if err := h.service.Abandon(c.Context(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetResult GET /v1/liveness/sessions/:id/result - persisted outcome
func (h *LivenessHandler) GetResult(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	result, err := h.service.GetResult(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func parseSessionID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, domain.ErrValidationFailed.WithError(fmt.Errorf("invalid session id: %w", err))
	}
	return id, nil
}

// extractAndValidateImage extracts and validates the frame from the form
func extractAndValidateImage(c *fiber.Ctx) ([]byte, error) {
	// 1. Extract file
	file, err := c.FormFile("frame")
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}

	// 2. Validate size
	if file.Size > maxImageSize {
		return nil, domain.ErrInvalidImage.WithError(nil)
	}

	if file.Size == 0 {
		return nil, domain.ErrInvalidImage.WithError(nil)
	}

	// 3. Validate Content-Type
	contentType := file.Header.Get("Content-Type")
	if !validImageTypes[contentType] {
		return nil, domain.ErrInvalidImage.WithError(nil)
	}

	// 4. Read image bytes
	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	return imageBytes, nil
}
