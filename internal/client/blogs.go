package client

import (
	"context"
	"net/http"

	"blogfront/internal/models"
)

type BlogPage = models.Page[models.Blog]

type BlogAPI struct {
	c *Client
}

func (a *BlogAPI) list(ctx context.Context, op, path string, p models.PageRequest) (*BlogPage, error) {
	var page BlogPage
	err := a.c.do(ctx, request{
		op:      op,
		method:  http.MethodGet,
		path:    path,
		query:   pageQuery(p, true),
		timeout: a.c.cfg.ListTimeout,
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (a *BlogAPI) search(ctx context.Context, op, path, keyword string, p models.PageRequest) (*BlogPage, error) {
	q := pageQuery(p, false)
	q.Set("keyword", keyword)

	var page BlogPage
	err := a.c.do(ctx, request{
		op:      op,
		method:  http.MethodGet,
		path:    path,
		query:   q,
		timeout: a.c.cfg.ListTimeout,
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (a *BlogAPI) get(ctx context.Context, op, path string) (*models.Blog, error) {
	var blog models.Blog
	if err := a.c.do(ctx, request{op: op, method: http.MethodGet, path: path}, &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (a *BlogAPI) ListPublished(ctx context.Context, p models.PageRequest) (*BlogPage, error) {
	return a.list(ctx, "blogs.listPublished", "/blogs/public", p)
}

func (a *BlogAPI) GetPublished(ctx context.Context, id int64) (*models.Blog, error) {
	return a.get(ctx, "blogs.getPublished", idPath("/blogs/public/%d", id))
}

func (a *BlogAPI) SearchPublished(ctx context.Context, keyword string, p models.PageRequest) (*BlogPage, error) {
	return a.search(ctx, "blogs.searchPublished", "/blogs/public/search", keyword, p)
}

func (a *BlogAPI) List(ctx context.Context, p models.PageRequest) (*BlogPage, error) {
	return a.list(ctx, "blogs.list", "/blogs", p)
}

func (a *BlogAPI) Get(ctx context.Context, id int64) (*models.Blog, error) {
	return a.get(ctx, "blogs.get", idPath("/blogs/%d", id))
}

func (a *BlogAPI) ListByAuthor(ctx context.Context, authorID int64, p models.PageRequest) (*BlogPage, error) {
	var page BlogPage
	err := a.c.do(ctx, request{
		op:     "blogs.listByAuthor",
		method: http.MethodGet,
		path:   idPath("/blogs/author/%d", authorID),
		query:  pageQuery(p, false),
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (a *BlogAPI) Search(ctx context.Context, keyword string, p models.PageRequest) (*BlogPage, error) {
	return a.search(ctx, "blogs.search", "/blogs/search", keyword, p)
}

// Create and Update get the long upload timeout since embedded images make
// the body large.
func (a *BlogAPI) Create(ctx context.Context, in models.BlogInput) (*models.Blog, error) {
	var blog models.Blog
	err := a.c.do(ctx, request{
		op:      "blogs.create",
		method:  http.MethodPost,
		path:    "/blogs",
		body:    in,
		timeout: a.c.cfg.UploadTimeout,
	}, &blog)
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

func (a *BlogAPI) Update(ctx context.Context, id int64, in models.BlogInput) (*models.Blog, error) {
	var blog models.Blog
	err := a.c.do(ctx, request{
		op:      "blogs.update",
		method:  http.MethodPut,
		path:    idPath("/blogs/%d", id),
		body:    in,
		timeout: a.c.cfg.UploadTimeout,
	}, &blog)
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

func (a *BlogAPI) Delete(ctx context.Context, id int64) error {
	return a.c.do(ctx, request{op: "blogs.delete", method: http.MethodDelete, path: idPath("/blogs/%d", id)}, nil)
}
