package client

import (
	"context"
	"net/http"
	"strings"

	"blogfront/internal/models"
)

type EngagementAPI struct {
	c *Client
}

func (a *EngagementAPI) Like(ctx context.Context, blogID int64) error {
	return a.c.do(ctx, request{op: "likes.like", method: http.MethodPost, path: idPath("/engagement/blogs/%d/likes", blogID)}, nil)
}

func (a *EngagementAPI) Unlike(ctx context.Context, blogID int64) error {
	return a.c.do(ctx, request{op: "likes.unlike", method: http.MethodDelete, path: idPath("/engagement/blogs/%d/likes", blogID)}, nil)
}

// ToggleLike returns the liked state after the toggle.
func (a *EngagementAPI) ToggleLike(ctx context.Context, blogID int64) (bool, error) {
	var liked bool
	err := a.c.do(ctx, request{op: "likes.toggle", method: http.MethodPost, path: idPath("/engagement/blogs/%d/likes/toggle", blogID)}, &liked)
	return liked, err
}

func (a *EngagementAPI) IsLiked(ctx context.Context, blogID int64) (bool, error) {
	var liked bool
	err := a.c.do(ctx, request{op: "likes.status", method: http.MethodGet, path: idPath("/engagement/blogs/%d/likes/status", blogID)}, &liked)
	return liked, err
}

func (a *EngagementAPI) LikeCount(ctx context.Context, blogID int64) (int64, error) {
	var n int64
	err := a.c.do(ctx, request{op: "likes.count", method: http.MethodGet, path: idPath("/engagement/public/blogs/%d/likes/count", blogID)}, &n)
	return n, err
}

func (a *EngagementAPI) RecordView(ctx context.Context, blogID int64) error {
	return a.c.do(ctx, request{op: "views.record", method: http.MethodPost, path: idPath("/engagement/public/blogs/%d/views", blogID)}, nil)
}

func (a *EngagementAPI) ViewCount(ctx context.Context, blogID int64) (int64, error) {
	var n int64
	err := a.c.do(ctx, request{op: "views.count", method: http.MethodGet, path: idPath("/engagement/public/blogs/%d/views/count", blogID)}, &n)
	return n, err
}

// Comments returns the nested tree, top-level comments first.
func (a *EngagementAPI) Comments(ctx context.Context, blogID int64) ([]*models.Comment, error) {
	var tree []*models.Comment
	err := a.c.do(ctx, request{op: "comments.list", method: http.MethodGet, path: idPath("/engagement/public/blogs/%d/comments", blogID)}, &tree)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

func (a *EngagementAPI) CommentCount(ctx context.Context, blogID int64) (int64, error) {
	var n int64
	err := a.c.do(ctx, request{op: "comments.count", method: http.MethodGet, path: idPath("/engagement/public/blogs/%d/comments/count", blogID)}, &n)
	return n, err
}

func (a *EngagementAPI) AddComment(ctx context.Context, req models.CreateCommentRequest) (*models.Comment, error) {
	req.Content = strings.TrimSpace(req.Content)

	var created models.Comment
	err := a.c.do(ctx, request{
		op:     "comments.add",
		method: http.MethodPost,
		path:   idPath("/engagement/blogs/%d/comments", req.BlogID),
		body:   req,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *EngagementAPI) UpdateComment(ctx context.Context, blogID, commentID int64, content string) (*models.Comment, error) {
	var updated models.Comment
	err := a.c.do(ctx, request{
		op:     "comments.update",
		method: http.MethodPut,
		path:   idPath("/engagement/blogs/%d/comments/%d", blogID, commentID),
		body:   models.UpdateCommentRequest{Content: strings.TrimSpace(content)},
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (a *EngagementAPI) DeleteComment(ctx context.Context, blogID, commentID int64) error {
	return a.c.do(ctx, request{
		op:     "comments.delete",
		method: http.MethodDelete,
		path:   idPath("/engagement/blogs/%d/comments/%d", blogID, commentID),
	}, nil)
}
