package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// CreateSessionRequest represents the optional challenge overrides
type CreateSessionRequest struct {
	RequiredFrames       int     `json:"required_frames" example:"3"`
	PhaseDurationMs      int     `json:"phase_duration_ms" example:"1500"`
	StraightThreshold    float64 `json:"straight_threshold" example:"10"`
	TurnThreshold        float64 `json:"turn_threshold" example:"25"`
	ErrorTimeoutMs       int     `json:"error_timeout_ms" example:"2000"`
	MaxConsecutiveErrors int     `json:"max_consecutive_errors" example:"5"`
	CircleSize           int     `json:"circle_size" example:"250"`
}

// SessionResponse represents a liveness session snapshot
type SessionResponse struct {
	SessionID  string  `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	State      string  `json:"state" example:"initial"`
	Progress   float64 `json:"progress" example:"0.2"`
	Message    string  `json:"message" example:"Look straight at the camera"`
	CircleSize int     `json:"circle_size" example:"250"`
	CreatedAt  string  `json:"created_at" example:"2025-06-01T12:00:00Z"`
	ExpiresAt  string  `json:"expires_at" example:"2025-06-01T12:05:00Z"`
}

// TransitionData represents one committed state transition
type TransitionData struct {
	From     string  `json:"from" example:"initial"`
	To       string  `json:"to" example:"looking_straight"`
	Progress float64 `json:"progress" example:"0.2"`
	Message  string  `json:"message" example:"Slowly turn your head to the left"`
	At       string  `json:"at" example:"2025-06-01T12:00:01Z"`
}

// FrameResponse represents the outcome of one processed frame
type FrameResponse struct {
	SessionID  string          `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	State      string          `json:"state" example:"looking_straight"`
	Progress   float64         `json:"progress" example:"0.2"`
	Message    string          `json:"message" example:"Slowly turn your head to the left"`
	Completed  bool            `json:"completed" example:"false"`
	Dropped    bool            `json:"dropped" example:"false"`
	Transition *TransitionData `json:"transition,omitempty"`
}

// VerificationResultResponse represents the persisted session outcome
type VerificationResultResponse struct {
	ID           string `json:"id" example:"0d9f6a0e-41a1-4bb0-97c7-5c8a27cbbf11"`
	SessionID    string `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Success      bool   `json:"success" example:"true"`
	FinalState   string `json:"final_state" example:"complete"`
	Transitions  int    `json:"transitions" example:"5"`
	ForcedResets int    `json:"forced_resets" example:"0"`
	ErrorMessage string `json:"error_message,omitempty" example:""`
	DurationMs   int64  `json:"duration_ms" example:"9200"`
	CreatedAt    string `json:"created_at" example:"2025-06-01T12:00:09Z"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// EmptyResponse represents no content response (204)
type EmptyResponse struct{}

// NewSwagger builds the OpenAPI document for the liveness API
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Liveness Detection API",
		Version:     "v1.0.0",
		Description: "Active liveness verification: timed head-pose challenges validated frame by frame",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /v1/liveness/sessions - Create Session
		endpoint.New(
			endpoint.POST,
			"/liveness/sessions",
			endpoint.WithTags("Liveness"),
			endpoint.WithSummary("Start a liveness session"),
			endpoint.WithDescription("Creates a new liveness challenge session. The body may override the default challenge parameters; omitted fields use server defaults."),
			endpoint.WithBody(CreateSessionRequest{}),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SessionResponse{}, "201", "Session created"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "INVALID_CHALLENGE_CONFIG", Message: "Challenge configuration is invalid"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/liveness/sessions/:id - Get Session
		endpoint.New(
			endpoint.GET,
			"/liveness/sessions/{id}",
			endpoint.WithTags("Liveness"),
			endpoint.WithSummary("Get session state"),
			endpoint.WithDescription("Returns the current state, progress and user instruction of a session"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Session identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SessionResponse{}, "200", "Session snapshot"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "SESSION_NOT_FOUND", Message: "Liveness session not found or expired"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/liveness/sessions/:id/frames - Process Frame
		endpoint.New(
			endpoint.POST,
			"/liveness/sessions/{id}/frames",
			endpoint.WithTags("Liveness"),
			endpoint.WithSummary("Feed a camera frame"),
			endpoint.WithDescription("Runs one frame through face detection and the challenge state machine. Frames arriving while a previous frame is still processing are dropped and answered with 202."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Session identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(FrameResponse{}, "200", "Frame processed"),
				response.New(FrameResponse{}, "202", "Frame dropped, keep streaming"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "SESSION_NOT_FOUND", Message: "Liveness session not found or expired"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "SESSION_COMPLETE", Message: "Session already completed"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Invalid image format or corrupted file"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// DELETE /v1/liveness/sessions/:id - Abandon Session
		endpoint.New(
			endpoint.DELETE,
			"/liveness/sessions/{id}",
			endpoint.WithTags("Liveness"),
			endpoint.WithSummary("Abandon a session"),
			endpoint.WithDescription("Removes the session and records an abandoned verification result"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Session identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Session abandoned"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "SESSION_NOT_FOUND", Message: "Liveness session not found or expired"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/liveness/sessions/:id/result - Get Result
		endpoint.New(
			endpoint.GET,
			"/liveness/sessions/{id}/result",
			endpoint.WithTags("Liveness"),
			endpoint.WithSummary("Get the persisted verification result"),
			endpoint.WithDescription("Returns the stored outcome of a completed or abandoned session"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Session identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(VerificationResultResponse{}, "200", "Verification result"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NOT_FOUND", Message: "Resource not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
