package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/domain"
)

type ResultRepository struct {
	pool PgxPool
}

func NewResultRepository(pool PgxPool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

func (r *ResultRepository) Create(ctx context.Context, result *domain.VerificationResult) error {
	query := `
		INSERT INTO verification_results (id, session_id, success, final_state, transitions, forced_resets, error_message, capture_ref, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at
	`

	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	if result.DurationMs == 0 && result.Duration > 0 {
		result.DurationMs = result.Duration.Milliseconds()
	}

	err := r.pool.QueryRow(ctx, query,
		result.ID,
		result.SessionID,
		result.Success,
		result.FinalState,
		result.Transitions,
		result.ForcedResets,
		result.ErrorMessage,
		result.CaptureRef,
		result.DurationMs,
	).Scan(&result.CreatedAt)

	if err != nil {
		return fmt.Errorf("create verification result: %w", err)
	}

	return nil
}

func (r *ResultRepository) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*domain.VerificationResult, error) {
	query := `
		SELECT id, session_id, success, final_state, transitions, forced_resets, error_message, capture_ref, duration_ms, created_at
		FROM verification_results
		WHERE session_id = $1
	`

	var result domain.VerificationResult
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&result.ID,
		&result.SessionID,
		&result.Success,
		&result.FinalState,
		&result.Transitions,
		&result.ForcedResets,
		&result.ErrorMessage,
		&result.CaptureRef,
		&result.DurationMs,
		&result.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get verification result: %w", err)
	}

	return &result, nil
}

func (r *ResultRepository) ListRecent(ctx context.Context, limit int) ([]domain.VerificationResult, error) {
	query := `
		SELECT id, session_id, success, final_state, transitions, forced_resets, error_message, capture_ref, duration_ms, created_at
		FROM verification_results
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list verification results: %w", err)
	}
	defer rows.Close()

	var results []domain.VerificationResult
	for rows.Next() {
		var result domain.VerificationResult
		if err := rows.Scan(
			&result.ID,
			&result.SessionID,
			&result.Success,
			&result.FinalState,
			&result.Transitions,
			&result.ForcedResets,
			&result.ErrorMessage,
			&result.CaptureRef,
			&result.DurationMs,
			&result.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan verification result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verification results: %w", err)
	}

	return results, nil
}
