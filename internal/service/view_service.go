package service

import (
	"context"
	"log"
	"time"

	"blogfront/internal/repository"
)

// ViewService records blog views at most once per visitor per cooldown.
// This is a courtesy to the backend, not a guarantee: a visitor who drops
// the cookie is counted again.
type ViewService interface {
	Record(ctx context.Context, visitorID string, blogID int64) bool
	Purge(ctx context.Context) (int64, error)
	Tracked(ctx context.Context) (int64, error)
}

type viewService struct {
	api      ViewAPI
	repo     repository.ViewRepository
	cooldown time.Duration
	now      func() time.Time
}

func NewViewService(api ViewAPI, repo repository.ViewRepository, cooldown time.Duration) ViewService {
	if cooldown <= 0 {
		cooldown = time.Hour
	}
	return &viewService{api: api, repo: repo, cooldown: cooldown, now: time.Now}
}

// Record reports whether the backend accepted a view.
func (s *viewService) Record(ctx context.Context, visitorID string, blogID int64) bool {
	now := s.now()

	if visitorID != "" {
		last, ok, err := s.repo.LastViewed(ctx, visitorID, blogID)
		if err != nil {
			log.Printf("views: %v", err)
		} else if ok && now.Sub(last) < s.cooldown {
			return false
		}
	}

	// Best effort; a lost view is not worth surfacing. It is not remembered
	// either, so the next visit tries again.
	if err := s.api.RecordView(ctx, blogID); err != nil {
		return false
	}

	if visitorID != "" {
		if err := s.repo.MarkViewed(ctx, visitorID, blogID, now); err != nil {
			log.Printf("views: %v", err)
		}
	}
	return true
}

// Purge drops timestamps that can no longer suppress a view.
func (s *viewService) Purge(ctx context.Context) (int64, error) {
	return s.repo.PurgeBefore(ctx, s.now().Add(-s.cooldown))
}

// Tracked is the number of visitor/blog pairs currently remembered.
func (s *viewService) Tracked(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
