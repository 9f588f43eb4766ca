package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"blogfront/internal/apperr"
	"blogfront/internal/client"
	"blogfront/internal/middleware"
	"blogfront/internal/models"
	"blogfront/internal/service"
	"blogfront/internal/session"
	"blogfront/internal/view"
)

const (
	homePageSize  = 6
	blogsPageSize = 9
)

type sortOption struct {
	Value string
	Label string
}

var blogSortOptions = []sortOption{
	{"createdAt,desc", "Newest first"},
	{"createdAt,asc", "Oldest first"},
	{"title,asc", "Title A-Z"},
	{"title,desc", "Title Z-A"},
	{"viewCount,desc", "Most viewed"},
}

type homePage struct {
	Blogs []models.Blog
	Error string
}

type blogsPage struct {
	Page        *client.BlogPage
	Search      string
	Sort        string
	SortOptions []sortOption
	PrevURL     string
	NextURL     string
	Error       string
}

type blogPage struct {
	Blog         *models.Blog
	Likes        service.LikeStatus
	CanEdit      bool
	Thread       *view.Thread
	CommentError string
}

func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	data := homePage{}

	page, err := h.BlogService.Published(r.Context(), models.PageRequest{Page: 0, Size: homePageSize})
	if err != nil {
		data.Error = apperr.Message(err)
	} else {
		data.Blogs = page.Content
	}

	h.render(w, r, http.StatusOK, "home", data)
}

func (h *Handlers) Blogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pageNum, _ := strconv.Atoi(q.Get("page"))
	if pageNum < 0 {
		pageNum = 0
	}
	sortBy, sortDir, sortValue := parseBlogSort(q.Get("sort"))
	search := strings.TrimSpace(q.Get("search"))

	data := blogsPage{Search: search, Sort: sortValue, SortOptions: blogSortOptions}

	req := models.PageRequest{Page: pageNum, Size: blogsPageSize, SortBy: sortBy, SortDir: sortDir}
	page, err := h.BlogService.Search(r.Context(), search, req)
	if err != nil {
		data.Error = apperr.Message(err)
		h.render(w, r, http.StatusOK, "blogs", data)
		return
	}

	data.Page = page
	if pageNum > 0 {
		data.PrevURL = blogsURL(search, sortValue, pageNum-1)
	}
	if pageNum+1 < page.TotalPages {
		data.NextURL = blogsURL(search, sortValue, pageNum+1)
	}

	h.render(w, r, http.StatusOK, "blogs", data)
}

func parseBlogSort(raw string) (by, dir, value string) {
	for _, opt := range blogSortOptions {
		if opt.Value == raw {
			by, dir, _ = strings.Cut(raw, ",")
			return by, dir, raw
		}
	}
	return "createdAt", "desc", blogSortOptions[0].Value
}

func blogsURL(search, sort string, page int) string {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if sort != blogSortOptions[0].Value {
		q.Set("sort", sort)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return "/blogs"
	}
	return "/blogs?" + q.Encode()
}

func blogPath(id int64) string {
	return fmt.Sprintf("/blogs/%d", id)
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *Handlers) BlogDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}

	h.showBlog(w, r, http.StatusOK, id, view.ParseUIState(r.URL.Query()), true)
}

// showBlog renders the detail page with ui applied to its comment section.
// Comment failures are shown inside the section; only a missing blog fails
// the page. A view is recorded only for a plain visit.
func (h *Handlers) showBlog(w http.ResponseWriter, r *http.Request, status int, id int64, ui view.UIState, visit bool) {
	ctx := r.Context()
	sess := session.FromContext(ctx)

	blog, err := h.BlogService.Get(ctx, sess, id)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			err = apperr.Wrap(apperr.NotFound, "blogs.get", err, "Blog not found or you don't have permission to view it.")
		}
		h.fail(w, r, err)
		return
	}

	if visit {
		h.ViewService.Record(ctx, middleware.VisitorFromContext(ctx), id)
	}

	data := blogPage{
		Blog:    blog,
		Likes:   h.LikeService.Status(ctx, sess, id),
		CanEdit: service.CanEdit(blog, sess),
	}

	section := h.CommentService.Section(id, func(total int) {
		blog.CommentCount = int64(total)
	})
	if err := section.Load(ctx); err != nil {
		data.CommentError = apperr.Message(err)
	}
	data.Thread = view.BuildThread(blogPath(id), section.Tree(), sess, ui, h.now())

	h.render(w, r, status, "blog", data)
}

func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}

	sess := session.FromContext(r.Context())
	if !sess.IsAuthenticated() {
		toLogin(w, r, blogPath(id))
		return
	}

	if _, err := h.LikeService.Toggle(r.Context(), sess, id); err != nil {
		redirect(w, r, blogPath(id), apperr.Message(err))
		return
	}
	redirect(w, r, blogPath(id), "")
}

func (h *Handlers) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}

	back := r.PostFormValue("back")
	if back == "" {
		back = blogPath(id)
	}

	if err := h.BlogService.Delete(r.Context(), session.FromContext(r.Context()), id); err != nil {
		redirect(w, r, safeNext(back), apperr.Message(err))
		return
	}

	target := "/blogs"
	if strings.HasPrefix(back, "/admin") {
		target = back
	}
	redirect(w, r, safeNext(target), "Blog deleted")
}
