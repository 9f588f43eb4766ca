package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// ViewRepository remembers when a visitor last had a view recorded for a
// blog. It only backs a UX heuristic; the backend stays the authority on
// view counts.
type ViewRepository interface {
	LastViewed(ctx context.Context, visitorID string, blogID int64) (time.Time, bool, error)
	MarkViewed(ctx context.Context, visitorID string, blogID int64, at time.Time) error
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type Repository struct {
	View ViewRepository
}

// NewRepository falls back to the in-memory store when db is nil.
func NewRepository(db *sqlx.DB) *Repository {
	if db == nil {
		return &Repository{View: NewMemoryViewRepository()}
	}
	return &Repository{View: NewViewRepository(db)}
}
