package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"blogfront/internal/apperr"
	"blogfront/internal/models"
	"blogfront/internal/service"
	"blogfront/internal/session"
)

const (
	maxFormMemory       = 32 << 20
	defaultMaxImageSize = 2 << 20
)

type blogForm struct {
	Editing   bool
	ID        int64
	Action    string
	Title     string
	Summary   string
	Content   string
	ImageURLs []string
	ImageURL  string
	Errors    []string
	MaxSize   string
}

func (h *Handlers) newBlogForm() blogForm {
	return blogForm{
		Action:  "/create-blog",
		MaxSize: humanize.IBytes(uint64(h.maxImageSize())),
	}
}

func (h *Handlers) NewBlog(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "blog_form", h.newBlogForm())
}

func (h *Handlers) EditBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}

	sess := session.FromContext(r.Context())
	blog, err := h.BlogService.Get(r.Context(), sess, id)
	if err != nil {
		redirect(w, r, "/blogs", apperr.Message(err))
		return
	}
	if !service.CanEdit(blog, sess) {
		h.fail(w, r, apperr.New(apperr.Auth, "blogs.edit", "You can only change your own blogs"))
		return
	}

	form := h.newBlogForm()
	form.Editing = true
	form.ID = id
	form.Action = fmt.Sprintf("/edit-blog/%d", id)
	form.Title = blog.Title
	form.Summary = blog.Summary
	form.Content = blog.Content
	form.ImageURLs = blog.ImageURLs

	h.render(w, r, http.StatusOK, "blog_form", form)
}

func (h *Handlers) CreateBlog(w http.ResponseWriter, r *http.Request) {
	h.submitBlog(w, r, 0)
}

func (h *Handlers) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}
	h.submitBlog(w, r, id)
}

// submitBlog handles every button of the editor. Picked files are ingested
// on any submit; only "save" sends the blog.
func (h *Handlers) submitBlog(w http.ResponseWriter, r *http.Request, id int64) {
	ctx := r.Context()
	sess := session.FromContext(ctx)

	if err := r.ParseMultipartForm(maxFormMemory); err != nil && err != http.ErrNotMultipart {
		h.fail(w, r, apperr.Wrap(apperr.Validation, "blogs.form", err, "Invalid form submission"))
		return
	}

	form := h.newBlogForm()
	if id > 0 {
		form.Editing = true
		form.ID = id
		form.Action = fmt.Sprintf("/edit-blog/%d", id)
	}
	form.Title = r.FormValue("title")
	form.Summary = r.FormValue("summary")
	form.Content = r.FormValue("content")
	form.ImageURLs = r.Form["imageUrls"]

	uploads, err := h.readUploads(r)
	if err != nil {
		form.Errors = append(form.Errors, apperr.Message(err))
	}
	if len(uploads) > 0 {
		res := h.ImageService.Ingest(ctx, uploads, form.ImageURLs)
		form.ImageURLs = res.URLs
		for _, e := range res.Errors {
			form.Errors = append(form.Errors, apperr.Message(e))
		}
	}

	action := r.FormValue("action")
	switch {
	case action == "add_url":
		urls, err := h.ImageService.AddURL(r.FormValue("image_url"), form.ImageURLs)
		if err != nil {
			form.ImageURL = r.FormValue("image_url")
			form.Errors = append(form.Errors, apperr.Message(err))
		}
		form.ImageURLs = urls
		h.render(w, r, statusForForm(form), "blog_form", form)
		return

	case strings.HasPrefix(action, "remove_"):
		if i, err := strconv.Atoi(strings.TrimPrefix(action, "remove_")); err == nil {
			form.ImageURLs = h.ImageService.RemoveAt(form.ImageURLs, i)
		}
		h.render(w, r, statusForForm(form), "blog_form", form)
		return

	case action == "upload":
		h.render(w, r, statusForForm(form), "blog_form", form)
		return
	}

	if len(form.Errors) > 0 {
		h.render(w, r, http.StatusUnprocessableEntity, "blog_form", form)
		return
	}

	in := models.BlogInput{
		Title:     form.Title,
		Content:   form.Content,
		Summary:   form.Summary,
		ImageURLs: form.ImageURLs,
	}
	if id > 0 {
		_, err = h.BlogService.Update(ctx, sess, id, in)
	} else {
		_, err = h.BlogService.Create(ctx, sess, in)
	}
	if err != nil {
		form.Errors = append(form.Errors, apperr.Message(err))
		h.render(w, r, statusFor(err), "blog_form", form)
		return
	}

	redirect(w, r, "/blogs", "Blog saved")
}

func statusForForm(form blogForm) int {
	if len(form.Errors) > 0 {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

// readUploads reads at most one byte past the size limit of each file, which
// is enough for the size check to reject it.
func (h *Handlers) readUploads(r *http.Request) ([]service.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	var uploads []service.Upload
	for _, fh := range r.MultipartForm.File["images"] {
		data, err := readPart(fh, h.maxImageSize()+1)
		if err != nil {
			return uploads, apperr.Wrap(apperr.Validation, "blogs.form", err, "Failed to read "+fh.Filename)
		}
		if len(data) == 0 {
			continue
		}
		uploads = append(uploads, service.Upload{Name: fh.Filename, Data: data})
	}
	return uploads, nil
}

func (h *Handlers) maxImageSize() int64 {
	if h.Cfg == nil || h.Cfg.Images.MaxFileSize <= 0 {
		return defaultMaxImageSize
	}
	return h.Cfg.Images.MaxFileSize
}

func readPart(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(io.LimitReader(f, limit))
}
