package test

import (
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"blogfront/internal/apperr"
	"blogfront/internal/models"
	"blogfront/internal/service"
)

func ts(ago time.Duration) models.Timestamp {
	return models.NewTimestamp(now.Add(-ago))
}

func niceBlog() *models.Blog {
	return &models.Blog{
		ID:             42,
		Title:          "Nice post",
		Content:        "Para one\n\nPara two",
		AuthorID:       1,
		AuthorUsername: "alice",
		IsPublished:    true,
		CreatedAt:      ts(48 * time.Hour),
	}
}

// bob's comment with alice's reply underneath.
func thread() []*models.Comment {
	parent := int64(1)
	return []*models.Comment{{
		ID: 1, BlogID: 42, Username: "bob", Content: "Great read @alice",
		CreatedAt: ts(time.Hour), UpdatedAt: ts(time.Hour),
		Replies: []*models.Comment{{
			ID: 2, BlogID: 42, ParentID: &parent, Username: "alice", Content: "Thanks!",
			CreatedAt: ts(30 * time.Minute), UpdatedAt: ts(30 * time.Minute),
		}},
	}}
}

func (f *fixture) expectBlogPage() {
	f.blogs.On("Get", mock.Anything, mock.Anything, int64(42)).Return(niceBlog(), nil)
	f.likes.On("Status", mock.Anything, mock.Anything, int64(42)).Return(service.LikeStatus{Count: 5})
	f.comments.On("Comments", mock.Anything, int64(42)).Return(thread(), nil)
}

func TestBlogDetail(t *testing.T) {
	f := newFixture(t)
	f.expectBlogPage()
	f.views.On("Record", mock.Anything, "", int64(42)).Return(true)

	rec := f.do(get("/blogs/42"), alice())

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "<h1>Nice post</h1>")
	assert.Contains(t, body, "<p>Para two</p>")
	assert.Contains(t, body, "Comments (2)")
	assert.Contains(t, body, "2 comments", "comment count follows the loaded tree")
	assert.Contains(t, body, `<span class="mention">@alice</span>`)
	assert.Contains(t, body, "Thanks!")
	assert.Contains(t, body, `href="/edit-blog/42"`, "author may edit")
	assert.Contains(t, body, "1h ago")
	assert.Regexp(t, `<span class="avatar avatar-[0-9]">B</span>`, body)
	assert.NotContains(t, body, "avatar avatar avatar")
	f.views.AssertExpectations(t)
}

func TestBlogDetail_UIStateFromQuery(t *testing.T) {
	f := newFixture(t)
	f.expectBlogPage()
	f.views.On("Record", mock.Anything, mock.Anything, mock.Anything).Return(false)

	rec := f.do(get("/blogs/42?reply=1&collapsed=1"), alice())

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, `name="parent_id" value="1"`)
	assert.Contains(t, body, "Show 1 reply")
	assert.NotContains(t, body, "Thanks!", "collapsed replies are not rendered")
}

func TestBlogDetail_NotFound(t *testing.T) {
	f := newFixture(t)
	f.blogs.On("Get", mock.Anything, mock.Anything, int64(7)).
		Return(nil, apperr.Wrap(apperr.NotFound, "blogs.get", errors.New("404"), "Failed to load blog"))

	rec := f.do(get("/blogs/7"), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Blog not found or you don&#39;t have permission to view it.")
	f.views.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}

func TestBlogDetail_CommentsUnavailable(t *testing.T) {
	f := newFixture(t)
	f.blogs.On("Get", mock.Anything, mock.Anything, int64(42)).Return(niceBlog(), nil)
	f.likes.On("Status", mock.Anything, mock.Anything, int64(42)).Return(service.LikeStatus{})
	f.views.On("Record", mock.Anything, mock.Anything, mock.Anything).Return(true)
	f.comments.On("Comments", mock.Anything, int64(42)).Return(nil, errors.New("timeout"))

	rec := f.do(get("/blogs/42"), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to load comments")
	assert.Contains(t, rec.Body.String(), "Nice post")
}

func TestAddComment(t *testing.T) {
	f := newFixture(t)
	f.comments.On("AddComment", mock.Anything, models.CreateCommentRequest{BlogID: 42, Content: "Nice post"}).
		Return(&models.Comment{ID: 5}, nil)
	f.comments.On("Comments", mock.Anything, int64(42)).Return(thread(), nil)

	rec := f.do(postForm("/blogs/42/comments?sort=oldest", url.Values{"content": {"  Nice post  "}}), alice())

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/blogs/42?sort=oldest#comments", rec.Header().Get("Location"))
	f.comments.AssertExpectations(t)
}

func TestAddComment_InvalidKeepsDraft(t *testing.T) {
	f := newFixture(t)
	f.expectBlogPage()

	rec := f.do(postForm("/blogs/42/comments", url.Values{"content": {"x"}}), alice())

	body := rec.Body.String()
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body, "Comment is too short (min 2 characters)")
	assert.Contains(t, body, ">x</textarea>")
	f.comments.AssertNotCalled(t, "AddComment", mock.Anything, mock.Anything)
	f.views.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddComment_Reply(t *testing.T) {
	f := newFixture(t)
	f.comments.On("Comments", mock.Anything, int64(42)).Return(thread(), nil)
	f.comments.On("AddComment", mock.Anything, mock.MatchedBy(func(req models.CreateCommentRequest) bool {
		return req.BlogID == 42 && req.Content == "Agreed" && req.ParentID != nil && *req.ParentID == 1
	})).Return(&models.Comment{ID: 6}, nil)

	rec := f.do(postForm("/blogs/42/comments?reply=1", url.Values{"content": {"Agreed"}, "parent_id": {"1"}}), alice())

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/blogs/42#comment-1", rec.Header().Get("Location"))
	f.comments.AssertExpectations(t)
}

func TestAddComment_RemoteFailureReopensReply(t *testing.T) {
	f := newFixture(t)
	f.expectBlogPage()
	f.comments.On("AddComment", mock.Anything, mock.Anything).Return(nil, errors.New("503"))

	rec := f.do(postForm("/blogs/42/comments", url.Values{"content": {"Agreed"}, "parent_id": {"1"}}), alice())

	body := rec.Body.String()
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, body, "Failed to add reply")
	assert.Contains(t, body, ">Agreed</textarea>")
	assert.Contains(t, body, `name="parent_id" value="1"`)
}

func TestAddComment_AnonymousGoesToLogin(t *testing.T) {
	f := newFixture(t)

	rec := f.do(postForm("/blogs/42/comments", url.Values{"content": {"hello"}}), nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Fblogs%2F42", rec.Header().Get("Location"))
}

func TestEditComment(t *testing.T) {
	f := newFixture(t)
	f.comments.On("Comments", mock.Anything, int64(42)).Return(thread(), nil)
	f.comments.On("UpdateComment", mock.Anything, int64(42), int64(2), "Thanks a lot!").Return(&models.Comment{ID: 2}, nil)

	rec := f.do(postForm("/blogs/42/comments/2/edit?edit=2&collapsed=9", url.Values{"content": {"Thanks a lot!"}}), alice())

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/blogs/42?collapsed=9#comment-2", rec.Header().Get("Location"))
	f.comments.AssertExpectations(t)
}

func TestEditComment_NotAuthor(t *testing.T) {
	f := newFixture(t)
	f.expectBlogPage()

	rec := f.do(postForm("/blogs/42/comments/1/edit", url.Values{"content": {"hijacked"}}), alice())

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "You can only edit your own comments")
	f.comments.AssertNotCalled(t, "UpdateComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteComment_Admin(t *testing.T) {
	f := newFixture(t)
	f.comments.On("Comments", mock.Anything, int64(42)).Return(thread(), nil)
	f.comments.On("DeleteComment", mock.Anything, int64(42), int64(1)).Return(nil)

	rec := f.do(postForm("/blogs/42/comments/1/delete", nil), admin())

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/blogs/42#comments", rec.Header().Get("Location"))
	f.comments.AssertExpectations(t)
}

func TestToggleLike(t *testing.T) {
	f := newFixture(t)
	f.likes.On("Toggle", mock.Anything, mock.Anything, int64(42)).Return(true, nil)

	rec := f.do(postForm("/blogs/42/like", nil), alice())

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/blogs/42", rec.Header().Get("Location"))

	rec = f.do(postForm("/blogs/42/like", nil), nil)
	assert.Equal(t, "/login?next=%2Fblogs%2F42", rec.Header().Get("Location"))
	f.likes.AssertNumberOfCalls(t, "Toggle", 1)
}

func TestDeleteBlog(t *testing.T) {
	f := newFixture(t)
	f.blogs.On("Delete", mock.Anything, mock.Anything, int64(42)).Return(nil)

	rec := f.do(postForm("/blogs/42/delete", nil), alice())
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/blogs", rec.Header().Get("Location"))

	rec = f.do(postForm("/blogs/42/delete", url.Values{"back": {"/admin?tab=blogs"}}), admin())
	assert.Equal(t, "/admin?tab=blogs", rec.Header().Get("Location"))

	rec = f.do(postForm("/blogs/42/delete", nil), nil)
	assert.Equal(t, "/login?next=%2Fblogs%2F42%2Fdelete", rec.Header().Get("Location"))
}

func TestDeleteBlog_Failure(t *testing.T) {
	f := newFixture(t)
	f.blogs.On("Delete", mock.Anything, mock.Anything, int64(42)).
		Return(apperr.New(apperr.Auth, "blogs.delete", "You can only change your own blogs"))

	rec := f.do(postForm("/blogs/42/delete", nil), alice())

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/blogs/42", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "flash=You+can+only+change+your+own+blogs")
}
