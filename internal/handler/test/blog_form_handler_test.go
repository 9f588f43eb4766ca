package test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blogfront/internal/apperr"
	"blogfront/internal/models"
)

type upload struct {
	name string
	data []byte
}

func multipartPost(t *testing.T, target string, fields url.Values, files ...upload) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, values := range fields {
		for _, v := range values {
			require.NoError(t, mw.WriteField(key, v))
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile("images", f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNewBlogPage(t *testing.T) {
	f := newFixture(t)

	rec := f.do(get("/create-blog"), alice())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/create-blog"`)
	assert.Contains(t, rec.Body.String(), "up to 1.0 MiB")

	rec = f.do(get("/create-blog"), nil)
	assert.Equal(t, "/login?next=%2Fcreate-blog", rec.Header().Get("Location"))
}

func TestCreateBlog(t *testing.T) {
	f := newFixture(t)
	want := models.BlogInput{Title: "Hello", Content: "Body", Summary: "Short", ImageURLs: []string{"https://cdn.example.com/a.jpg"}}
	f.blogs.On("Create", mock.Anything, mock.Anything, want).Return(&models.Blog{ID: 50}, nil)

	form := url.Values{
		"title":     {"Hello"},
		"summary":   {"Short"},
		"content":   {"Body"},
		"imageUrls": {"https://cdn.example.com/a.jpg"},
		"action":    {"save"},
	}
	rec := f.do(postForm("/create-blog", form), alice())

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/blogs", rec.Header().Get("Location"))
	f.blogs.AssertExpectations(t)
}

func TestCreateBlog_ValidationKeepsInput(t *testing.T) {
	f := newFixture(t)
	f.blogs.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperr.New(apperr.Validation, "blogs.create", "Title is required"))

	rec := f.do(postForm("/create-blog", url.Values{"content": {"Kept body"}, "action": {"save"}}), alice())

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Title is required")
	assert.Contains(t, rec.Body.String(), "Kept body")
}

func TestBlogForm_AddAndRemoveURL(t *testing.T) {
	f := newFixture(t)

	form := url.Values{
		"title":     {"Hello"},
		"imageUrls": {"https://cdn.example.com/a.jpg"},
		"image_url": {"  https://cdn.example.com/b.png "},
		"action":    {"add_url"},
	}
	rec := f.do(postForm("/create-blog", form), alice())

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, `name="imageUrls" value="https://cdn.example.com/a.jpg"`)
	assert.Contains(t, body, `name="imageUrls" value="https://cdn.example.com/b.png"`)
	assert.Contains(t, body, `value="Hello"`)

	form.Set("image_url", "HTTPS://CDN.EXAMPLE.COM/A.JPG")
	rec = f.do(postForm("/create-blog", form), alice())
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "This image URL has already been added")

	form.Set("image_url", "ftp://example.com/x.png")
	rec = f.do(postForm("/create-blog", form), alice())
	assert.Contains(t, rec.Body.String(), "Please enter a valid URL")
	assert.Contains(t, rec.Body.String(), `value="ftp://example.com/x.png"`)

	remove := url.Values{
		"imageUrls": {"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.png"},
		"action":    {"remove_0"},
	}
	rec = f.do(postForm("/create-blog", remove), alice())
	assert.NotContains(t, rec.Body.String(), "a.jpg")
	assert.Contains(t, rec.Body.String(), "b.png")
	f.blogs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestBlogForm_Upload(t *testing.T) {
	f := newFixture(t)

	req := multipartPost(t, "/create-blog", url.Values{"title": {"Pics"}, "action": {"upload"}},
		upload{name: "dot.png", data: tinyPNG(t)},
		upload{name: "notes.txt", data: []byte("just some text, not a picture")},
	)
	rec := f.do(req, alice())

	body := rec.Body.String()
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body, `name="imageUrls" value="data:image/png;base64,`)
	assert.Contains(t, body, `src="data:image/png;base64,`)
	assert.Contains(t, body, "notes.txt is not an image file")
}

func TestBlogForm_UploadErrorsBlockSave(t *testing.T) {
	f := newFixture(t)

	req := multipartPost(t, "/create-blog", url.Values{"title": {"T"}, "content": {"C"}, "action": {"save"}},
		upload{name: "notes.txt", data: []byte("plain text")},
	)
	rec := f.do(req, alice())

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	f.blogs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestEditBlog(t *testing.T) {
	f := newFixture(t)
	f.blogs.On("Get", mock.Anything, mock.Anything, int64(42)).Return(niceBlog(), nil)

	rec := f.do(get("/edit-blog/42"), alice())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/edit-blog/42"`)
	assert.Contains(t, rec.Body.String(), `value="Nice post"`)

	bob := alice()
	bob.User.ID, bob.User.Username = 2, "bob"
	rec = f.do(get("/edit-blog/42"), bob)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEditBlog_MissingGoesToList(t *testing.T) {
	f := newFixture(t)
	f.blogs.On("Get", mock.Anything, mock.Anything, int64(99)).Return(nil, errors.New("404"))

	rec := f.do(get("/edit-blog/99"), alice())

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/blogs", rec.Header().Get("Location"))
}

func TestUpdateBlog(t *testing.T) {
	f := newFixture(t)
	f.blogs.On("Update", mock.Anything, mock.Anything, int64(42), mock.MatchedBy(func(in models.BlogInput) bool {
		return in.Title == "Nicer post" && len(in.ImageURLs) == 0
	})).Return(&models.Blog{ID: 42}, nil)

	rec := f.do(postForm("/edit-blog/42", url.Values{"title": {"Nicer post"}, "content": {"Body"}}), alice())

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	f.blogs.AssertExpectations(t)
}
