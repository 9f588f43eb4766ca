package service

import (
	"context"
	"log"
	"strings"

	"blogfront/internal/apperr"
	"blogfront/internal/comments"
	"blogfront/internal/models"
	"blogfront/internal/session"
)

type CommentService interface {
	Section(blogID int64, onCount func(total int)) *CommentSection
}

type commentService struct {
	api CommentAPI
}

func NewCommentService(api CommentAPI) CommentService {
	return &commentService{api: api}
}

func (s *commentService) Section(blogID int64, onCount func(total int)) *CommentSection {
	return NewCommentSection(s.api, blogID, onCount)
}

// CommentSection owns the comment tree of one blog. Every mutation is
// followed by a full reload; the tree is never patched locally.
type CommentSection struct {
	api       CommentAPI
	blogID    int64
	tree      []*models.Comment
	loaded    bool
	order     comments.SortOrder
	collapsed bool
	onCount   func(total int)
}

func NewCommentSection(api CommentAPI, blogID int64, onCount func(total int)) *CommentSection {
	return &CommentSection{
		api:     api,
		blogID:  blogID,
		tree:    []*models.Comment{},
		order:   comments.Newest,
		onCount: onCount,
	}
}

func (s *CommentSection) BlogID() int64 { return s.blogID }

// Load replaces the tree with the server's. A response that arrives after
// ctx is done is dropped and the current tree kept.
func (s *CommentSection) Load(ctx context.Context) error {
	list, err := s.api.Comments(ctx, s.blogID)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return failed("comments.load", err, "Failed to load comments")
	}

	if list == nil {
		list = []*models.Comment{}
	}
	s.tree = list
	s.loaded = true

	if s.onCount != nil {
		s.onCount(comments.TotalCount(list))
	}
	return nil
}

// Add posts a top-level comment, or a reply when parentID is set.
func (s *CommentSection) Add(ctx context.Context, sess *session.Session, content string, parentID *int64) error {
	const op = "comments.add"

	if err := requireAuth(sess, op, "Please login to comment"); err != nil {
		return err
	}
	if res := comments.Validate(content); !res.Valid {
		return apperr.New(apperr.Validation, op, res.Error)
	}

	if parentID != nil {
		if err := s.ensureLoaded(ctx); err != nil {
			return err
		}
		depth := comments.Depth(s.tree, *parentID)
		if depth < 0 {
			return apperr.New(apperr.NotFound, op, "Comment not found")
		}
		if !comments.CanReply(depth) {
			return apperr.New(apperr.Validation, op, "Maximum reply depth reached")
		}
	}

	_, err := s.api.AddComment(ctx, models.CreateCommentRequest{
		BlogID:   s.blogID,
		Content:  strings.TrimSpace(content),
		ParentID: parentID,
	})
	if err != nil {
		if parentID != nil {
			return failed(op, err, "Failed to add reply")
		}
		return failed(op, err, "Failed to add comment")
	}

	return s.Load(ctx)
}

func (s *CommentSection) Update(ctx context.Context, sess *session.Session, commentID int64, content string) error {
	const op = "comments.update"

	c, err := s.modifiable(ctx, sess, op, commentID, "You can only edit your own comments")
	if err != nil {
		return err
	}
	if res := comments.Validate(content); !res.Valid {
		return apperr.New(apperr.Validation, op, res.Error)
	}

	if _, err := s.api.UpdateComment(ctx, s.blogID, c.ID, strings.TrimSpace(content)); err != nil {
		return failed(op, err, "Failed to update comment")
	}

	return s.Load(ctx)
}

func (s *CommentSection) Delete(ctx context.Context, sess *session.Session, commentID int64) error {
	const op = "comments.delete"

	c, err := s.modifiable(ctx, sess, op, commentID, "You can only delete your own comments")
	if err != nil {
		return err
	}

	if err := s.api.DeleteComment(ctx, s.blogID, c.ID); err != nil {
		return failed(op, err, "Failed to delete comment")
	}

	return s.Load(ctx)
}

func (s *CommentSection) modifiable(ctx context.Context, sess *session.Session, op string, commentID int64, denied string) (*models.Comment, error) {
	if err := requireAuth(sess, op, "Please login to continue"); err != nil {
		return nil, err
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	c, ok := comments.FindByID(s.tree, commentID)
	if !ok {
		return nil, apperr.New(apperr.NotFound, op, "Comment not found")
	}
	if !comments.CanModify(c, sess.User, sess.IsAdmin()) {
		log.Printf("%s: %s may not modify comment %d", op, sess.User.Username, commentID)
		return nil, apperr.New(apperr.Auth, op, denied)
	}
	return c, nil
}

func (s *CommentSection) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.Load(ctx)
}

func (s *CommentSection) Tree() []*models.Comment { return s.tree }

func (s *CommentSection) Loaded() bool { return s.loaded }

func (s *CommentSection) TotalCount() int { return comments.TotalCount(s.tree) }

func (s *CommentSection) Order() comments.SortOrder { return s.order }

func (s *CommentSection) SetOrder(order comments.SortOrder) {
	if order != comments.Oldest {
		order = comments.Newest
	}
	s.order = order
}

// Sorted returns the top-level comments in the selected order. Replies keep
// the order the server sent.
func (s *CommentSection) Sorted() []*models.Comment {
	return comments.Sort(s.tree, s.order)
}

func (s *CommentSection) Collapsed() bool { return s.collapsed }

func (s *CommentSection) SetCollapsed(collapsed bool) { s.collapsed = collapsed }

func (s *CommentSection) ToggleCollapsed() { s.collapsed = !s.collapsed }

func (s *CommentSection) Stats() comments.Stats {
	return comments.ComputeStats(s.tree)
}
