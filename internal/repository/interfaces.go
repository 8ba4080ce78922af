package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AniketGharat/liveness-detection-sdk-sub000/internal/domain"
)

// PgxPool is the subset of pgxpool.Pool the repositories use. pgxmock
// implements it for tests.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ResultRepositoryInterface defines operations for verification result data access
type ResultRepositoryInterface interface {
	Create(ctx context.Context, result *domain.VerificationResult) error
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*domain.VerificationResult, error)
	ListRecent(ctx context.Context, limit int) ([]domain.VerificationResult, error)
}
