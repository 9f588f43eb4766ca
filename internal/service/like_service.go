package service

import (
	"context"
	"log"

	"blogfront/internal/session"
)

type LikeStatus struct {
	Liked bool
	Count int64
}

type LikeService interface {
	Toggle(ctx context.Context, sess *session.Session, blogID int64) (bool, error)
	Status(ctx context.Context, sess *session.Session, blogID int64) LikeStatus
}

type likeService struct {
	api LikeAPI
}

func NewLikeService(api LikeAPI) LikeService {
	return &likeService{api: api}
}

func (s *likeService) Toggle(ctx context.Context, sess *session.Session, blogID int64) (bool, error) {
	const op = "likes.toggle"

	if err := requireAuth(sess, op, "Please login to like blogs"); err != nil {
		return false, err
	}

	liked, err := s.api.ToggleLike(ctx, blogID)
	if err != nil {
		return false, failed(op, err, "Failed to update like")
	}
	return liked, nil
}

// Status degrades to zero values when the counters are unavailable; the page
// still renders.
func (s *likeService) Status(ctx context.Context, sess *session.Session, blogID int64) LikeStatus {
	var st LikeStatus

	count, err := s.api.LikeCount(ctx, blogID)
	if err != nil {
		log.Printf("likes.count: %v", err)
	}
	st.Count = count

	if sess.IsAuthenticated() {
		liked, err := s.api.IsLiked(ctx, blogID)
		if err != nil {
			log.Printf("likes.status: %v", err)
		}
		st.Liked = liked
	}
	return st
}
