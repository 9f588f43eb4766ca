package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

type ViewRepositoryImpl struct {
	DB *sqlx.DB
}

func NewViewRepository(db *sqlx.DB) *ViewRepositoryImpl {
	return &ViewRepositoryImpl{DB: db}
}

func (r *ViewRepositoryImpl) LastViewed(ctx context.Context, visitorID string, blogID int64) (time.Time, bool, error) {
	query := r.DB.Rebind(`SELECT viewed_at FROM blog_views WHERE visitor_id = ? AND blog_id = ?`)

	var viewedAt time.Time
	err := r.DB.GetContext(ctx, &viewedAt, query, visitorID, blogID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("error reading last view of blog %d: %w", blogID, err)
	}

	return viewedAt, true, nil
}

func (r *ViewRepositoryImpl) MarkViewed(ctx context.Context, visitorID string, blogID int64, at time.Time) error {
	query := r.DB.Rebind(`
		INSERT INTO blog_views (visitor_id, blog_id, viewed_at)
		VALUES (?, ?, ?)
		ON CONFLICT (visitor_id, blog_id) DO UPDATE SET viewed_at = excluded.viewed_at
	`)

	_, err := r.DB.ExecContext(ctx, query, visitorID, blogID, at.UTC())
	if err != nil {
		return fmt.Errorf("error saving view of blog %d: %w", blogID, err)
	}

	return nil
}

func (r *ViewRepositoryImpl) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := r.DB.Rebind(`DELETE FROM blog_views WHERE viewed_at < ?`)

	result, err := r.DB.ExecContext(ctx, query, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("error purging old views: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error checking purged rows: %w", err)
	}

	return rowsAffected, nil
}

func (r *ViewRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64

	err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM blog_views`)
	if err != nil {
		return 0, fmt.Errorf("error counting views: %w", err)
	}

	return count, nil
}

type viewKey struct {
	visitorID string
	blogID    int64
}

type MemoryViewRepository struct {
	mu    sync.Mutex
	views map[viewKey]time.Time
}

func NewMemoryViewRepository() *MemoryViewRepository {
	return &MemoryViewRepository{views: make(map[viewKey]time.Time)}
}

func (r *MemoryViewRepository) LastViewed(_ context.Context, visitorID string, blogID int64) (time.Time, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	at, ok := r.views[viewKey{visitorID, blogID}]
	return at, ok, nil
}

func (r *MemoryViewRepository) MarkViewed(_ context.Context, visitorID string, blogID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.views[viewKey{visitorID, blogID}] = at
	return nil
}

func (r *MemoryViewRepository) PurgeBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for k, at := range r.views {
		if at.Before(cutoff) {
			delete(r.views, k)
			n++
		}
	}
	return n, nil
}

func (r *MemoryViewRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return int64(len(r.views)), nil
}
