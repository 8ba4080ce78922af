package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/audit"
	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/detector"
	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/domain"
	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/liveness"
	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/webhook"
	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/ws"
)

type ResultRepositoryInterface interface {
	Create(ctx context.Context, result *domain.VerificationResult) error
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*domain.VerificationResult, error)
}

// EventBroadcaster pushes session events to connected websocket clients.
type EventBroadcaster interface {
	BroadcastToSession(sessionID uuid.UUID, eventType ws.EventType, data interface{})
}

// ChallengeOverrides carries optional per-session challenge parameters.
// Nil fields fall back to the configured defaults.
type ChallengeOverrides struct {
	RequiredFrames       *int           `json:"required_frames,omitempty"`
	PhaseDuration        *time.Duration `json:"phase_duration,omitempty"`
	StraightThreshold    *float64       `json:"straight_threshold,omitempty"`
	TurnThreshold        *float64       `json:"turn_threshold,omitempty"`
	ErrorTimeout         *time.Duration `json:"error_timeout,omitempty"`
	MaxConsecutiveErrors *int           `json:"max_consecutive_errors,omitempty"`
	CircleSize           *int           `json:"circle_size,omitempty"`
}

// FrameResult is the per-frame answer returned to the client.
type FrameResult struct {
	SessionID  uuid.UUID            `json:"session_id"`
	State      string               `json:"state"`
	Progress   float64              `json:"progress"`
	Message    string               `json:"message,omitempty"`
	Completed  bool                 `json:"completed"`
	Dropped    bool                 `json:"dropped"`
	Transition *liveness.Transition `json:"transition,omitempty"`
}

type sessionEntry struct {
	mu   sync.Mutex
	core *liveness.Session
	// busy guards against overlapping frames: a frame arriving while
	// the previous one is still being classified is dropped, never
	// queued. The newest camera frame is always the one worth keeping,
	// and a stale backlog would corrupt the dwell timing.
	busy         atomic.Bool
	createdAt    time.Time
	lastSeen     time.Time
	lastMessage  string
	transitions  int
	forcedResets int
	persisted    bool
}

// LivenessService owns the in-memory registry of live sessions and
// orchestrates detector calls, the per-session state machine, event
// fanout and result persistence.
type LivenessService struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionEntry

	repo     ResultRepositoryInterface
	detector detector.Detector
	hub      EventBroadcaster
	webhooks *webhook.Worker
	auditLog audit.Logger
	logger   *slog.Logger

	defaults liveness.Config
	ttl      time.Duration
	now      func() time.Time
}

func NewLivenessService(
	repo ResultRepositoryInterface,
	det detector.Detector,
	hub EventBroadcaster,
	webhooks *webhook.Worker,
	auditLog audit.Logger,
	logger *slog.Logger,
	defaults liveness.Config,
	ttl time.Duration,
) *LivenessService {
	return &LivenessService{
		sessions: make(map[uuid.UUID]*sessionEntry),
		repo:     repo,
		detector: det,
		hub:      hub,
		webhooks: webhooks,
		auditLog: auditLog,
		logger:   logger,
		defaults: defaults,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a new session and returns its initial snapshot.
func (s *LivenessService) Create(ctx context.Context, overrides ChallengeOverrides) (*domain.SessionSnapshot, error) {
	cfg := s.mergeConfig(overrides)

	now := s.now()
	core, err := liveness.NewSession(cfg, now)
	if err != nil {
		return nil, domain.ErrInvalidChallengeConfig.WithError(err)
	}

	id := uuid.New()
	entry := &sessionEntry{
		core:        core,
		createdAt:   now,
		lastSeen:    now,
		lastMessage: liveness.Instruction(liveness.StateInitial),
	}

	s.mu.Lock()
	s.sessions[id] = entry
	s.mu.Unlock()

	_ = s.auditLog.Log(ctx, audit.Event{
		SessionID: id,
		EventType: audit.EventSessionCreated,
		State:     string(liveness.StateInitial),
		Provider:  s.detector.Name(),
		Success:   true,
	})

	s.logger.Info("liveness session created",
		"session_id", id,
		"required_frames", cfg.RequiredFrames,
		"phase_duration", cfg.PhaseDuration,
	)

	return s.snapshot(id, entry), nil
}

// Get returns the current snapshot of a session.
func (s *LivenessService) Get(ctx context.Context, id uuid.UUID) (*domain.SessionSnapshot, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return s.snapshot(id, entry), nil
}

// ProcessFrame runs one camera frame through the detector and the
// session state machine. Frames arriving while a previous frame is
// still in flight are dropped and reported as such, not queued.
func (s *LivenessService) ProcessFrame(ctx context.Context, id uuid.UUID, image []byte) (*FrameResult, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	done := entry.core.Completed()
	entry.mu.Unlock()
	if done {
		return nil, domain.ErrSessionComplete
	}

	if !entry.busy.CompareAndSwap(false, true) {
		_ = s.auditLog.Log(ctx, audit.Event{
			SessionID: id,
			EventType: audit.EventFrameDropped,
			Provider:  s.detector.Name(),
		})
		result := s.frameResult(id, entry, nil)
		result.Dropped = true
		return result, nil
	}
	defer entry.busy.Store(false)

	faces, detectErr := s.detector.DetectFaces(ctx, image)
	if detectErr != nil && errors.Is(detectErr, domain.ErrInvalidImage) {
		return nil, detectErr
	}

	now := s.now()

	entry.mu.Lock()
	entry.lastSeen = now

	var tr *liveness.Transition
	if detectErr != nil {
		s.logger.Warn("detector call failed", "session_id", id, "error", detectErr)
		tr = entry.core.Fail(now)
	} else {
		tr = entry.core.Observe(now, faces)
	}

	if tr != nil {
		entry.transitions++
		entry.lastMessage = tr.Message
		if tr.To == liveness.StateInitial {
			entry.forcedResets++
		}
	}
	completed := entry.core.Completed()
	entry.mu.Unlock()

	_ = s.auditLog.Log(ctx, audit.Event{
		SessionID: id,
		EventType: audit.EventFrameProcessed,
		State:     string(entry.core.State()),
		Provider:  s.detector.Name(),
		Success:   detectErr == nil,
	})

	if tr != nil {
		s.publishTransition(ctx, id, entry, *tr)
	}

	if completed {
		s.finishSession(ctx, id, entry)
	}

	return s.frameResult(id, entry, tr), nil
}

// Abandon removes a session before completion and records an abandoned
// result. Abandoning a completed session just removes it.
func (s *LivenessService) Abandon(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	entry, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return domain.ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.persisted {
		return nil
	}
	entry.persisted = true

	result := &domain.VerificationResult{
		SessionID:    id,
		Success:      false,
		FinalState:   string(entry.core.State()),
		Transitions:  entry.transitions,
		ForcedResets: entry.forcedResets,
		ErrorMessage: "session abandoned",
		Duration:     s.now().Sub(entry.createdAt),
	}
	if err := s.repo.Create(ctx, result); err != nil {
		s.logger.Error("failed to persist abandoned session", "session_id", id, "error", err)
	}

	_ = s.auditLog.Log(ctx, audit.Event{
		SessionID: id,
		EventType: audit.EventSessionAbandoned,
		State:     string(entry.core.State()),
		Provider:  s.detector.Name(),
	})

	s.webhooks.Enqueue(webhook.EventPayload{
		Type:      webhook.EventSessionAbandoned,
		Data:      result,
		SessionID: id,
		Timestamp: s.now(),
	})

	return nil
}

// GetResult returns the persisted verification result for a session.
func (s *LivenessService) GetResult(ctx context.Context, sessionID uuid.UUID) (*domain.VerificationResult, error) {
	return s.repo.GetBySessionID(ctx, sessionID)
}

// RunSweeper expires idle sessions until the context is cancelled.
func (s *LivenessService) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *LivenessService) sweep(ctx context.Context) {
	now := s.now()

	s.mu.Lock()
	var expired []uuid.UUID
	for id, entry := range s.sessions {
		entry.mu.Lock()
		idle := now.Sub(entry.lastSeen) > s.ttl
		entry.mu.Unlock()
		if idle {
			expired = append(expired, id)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, id := range expired {
		s.logger.Info("liveness session expired", "session_id", id)
		_ = s.auditLog.Log(ctx, audit.Event{
			SessionID: id,
			EventType: audit.EventSessionAbandoned,
			Provider:  s.detector.Name(),
			Error:     "session expired",
		})
	}
}

// ActiveSessions returns the number of sessions in the registry.
func (s *LivenessService) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *LivenessService) lookup(id uuid.UUID) (*sessionEntry, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return entry, nil
}

func (s *LivenessService) mergeConfig(o ChallengeOverrides) liveness.Config {
	cfg := s.defaults
	if o.RequiredFrames != nil {
		cfg.RequiredFrames = *o.RequiredFrames
	}
	if o.PhaseDuration != nil {
		cfg.PhaseDuration = *o.PhaseDuration
	}
	if o.StraightThreshold != nil {
		cfg.StraightThreshold = *o.StraightThreshold
	}
	if o.TurnThreshold != nil {
		cfg.TurnThreshold = *o.TurnThreshold
	}
	if o.ErrorTimeout != nil {
		cfg.ErrorTimeout = *o.ErrorTimeout
	}
	if o.MaxConsecutiveErrors != nil {
		cfg.MaxConsecutiveErrors = *o.MaxConsecutiveErrors
	}
	if o.CircleSize != nil {
		cfg.CircleSize = *o.CircleSize
	}
	return cfg
}

func (s *LivenessService) snapshot(id uuid.UUID, entry *sessionEntry) *domain.SessionSnapshot {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	return &domain.SessionSnapshot{
		ID:         id,
		State:      string(entry.core.State()),
		Progress:   entry.core.Progress(),
		Message:    entry.lastMessage,
		CircleSize: entry.core.Config().CircleSize,
		CreatedAt:  entry.createdAt,
		ExpiresAt:  entry.lastSeen.Add(s.ttl),
	}
}

func (s *LivenessService) frameResult(id uuid.UUID, entry *sessionEntry, tr *liveness.Transition) *FrameResult {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	return &FrameResult{
		SessionID:  id,
		State:      string(entry.core.State()),
		Progress:   entry.core.Progress(),
		Message:    entry.lastMessage,
		Completed:  entry.core.Completed(),
		Transition: tr,
	}
}

func (s *LivenessService) publishTransition(ctx context.Context, id uuid.UUID, entry *sessionEntry, tr liveness.Transition) {
	eventType := ws.EventTransition
	auditType := audit.EventTransition

	switch tr.To {
	case liveness.StateComplete:
		eventType = ws.EventSessionCompleted
	case liveness.StateInitial:
		eventType = ws.EventSessionReset
		auditType = audit.EventForcedReset
	case liveness.StateError:
		eventType = ws.EventFrameRejected
	}

	s.hub.BroadcastToSession(id, eventType, tr)

	_ = s.auditLog.Log(ctx, audit.Event{
		SessionID: id,
		EventType: auditType,
		State:     string(tr.To),
		Provider:  s.detector.Name(),
		Success:   tr.To != liveness.StateError,
		Metadata: map[string]string{
			"from":     string(tr.From),
			"to":       string(tr.To),
			"progress": fmt.Sprintf("%.1f", tr.Progress),
		},
	})

	if tr.To == liveness.StateInitial {
		s.webhooks.Enqueue(webhook.EventPayload{
			Type:      webhook.EventSessionReset,
			Data:      tr,
			SessionID: id,
			Timestamp: tr.At,
		})
	}
}

func (s *LivenessService) finishSession(ctx context.Context, id uuid.UUID, entry *sessionEntry) {
	entry.mu.Lock()
	if entry.persisted {
		entry.mu.Unlock()
		return
	}
	entry.persisted = true

	result := &domain.VerificationResult{
		SessionID:    id,
		Success:      true,
		FinalState:   string(liveness.StateComplete),
		Transitions:  entry.transitions,
		ForcedResets: entry.forcedResets,
		Duration:     s.now().Sub(entry.createdAt),
	}
	entry.mu.Unlock()

	if err := s.repo.Create(ctx, result); err != nil {
		s.logger.Error("failed to persist verification result", "session_id", id, "error", err)
	}

	_ = s.auditLog.Log(ctx, audit.Event{
		SessionID: id,
		EventType: audit.EventSessionCompleted,
		State:     string(liveness.StateComplete),
		Provider:  s.detector.Name(),
		Success:   true,
	})

	s.webhooks.Enqueue(webhook.EventPayload{
		Type:      webhook.EventSessionCompleted,
		Data:      result,
		SessionID: id,
		Timestamp: s.now(),
	})

	s.logger.Info("liveness session completed",
		"session_id", id,
		"transitions", result.Transitions,
		"forced_resets", result.ForcedResets,
		"duration_ms", result.Duration.Milliseconds(),
	)
}
