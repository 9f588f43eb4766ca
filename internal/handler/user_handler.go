package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"blogfront/internal/apperr"
	"blogfront/internal/client"
	"blogfront/internal/models"
	"blogfront/internal/session"
)

const adminPageSize = 10

type adminPage struct {
	Tab      string
	Users    []models.User
	Blogs    *client.BlogPage
	Page     int
	Pages    int
	PrevURL  string
	NextURL  string
	Editing  *models.User
	NewAdmin models.RegisterRequest
	Error    string
	Self     int64
}

// Admin shows the users tab, or the blogs tab with ?tab=blogs. Users are
// paged locally since the backend returns them all at once.
func (h *Handlers) Admin(w http.ResponseWriter, r *http.Request) {
	h.renderAdmin(w, r, http.StatusOK, r.URL.Query(), "")
}

func (h *Handlers) renderAdmin(w http.ResponseWriter, r *http.Request, status int, q url.Values, message string) {
	ctx := r.Context()
	sess := session.FromContext(ctx)

	page := adminPage{Tab: q.Get("tab"), Error: message, Self: sess.User.ID}
	if page.Tab != "blogs" {
		page.Tab = "users"
	}
	page.Page, _ = strconv.Atoi(q.Get("page"))
	if page.Page < 0 {
		page.Page = 0
	}

	if page.Tab == "blogs" {
		blogs, err := h.BlogService.All(ctx, sess, models.PageRequest{Page: page.Page, Size: adminPageSize})
		if err != nil {
			page.Error = apperr.Message(err)
		} else {
			page.Blogs = blogs
			page.Pages = max(1, blogs.TotalPages)
		}
	} else {
		users, err := h.UserService.List(ctx, sess)
		if err != nil {
			page.Error = apperr.Message(err)
		}
		page.Pages = max(1, (len(users)+adminPageSize-1)/adminPageSize)
		page.Page = min(page.Page, page.Pages-1)
		start := page.Page * adminPageSize
		page.Users = users[start:min(start+adminPageSize, len(users))]

		if id, err := strconv.ParseInt(q.Get("edit"), 10, 64); err == nil {
			for i := range users {
				if users[i].ID == id {
					page.Editing = &users[i]
				}
			}
		}
	}

	if page.Page > 0 {
		page.PrevURL = adminURL(page.Tab, page.Page-1)
	}
	if page.Page+1 < page.Pages {
		page.NextURL = adminURL(page.Tab, page.Page+1)
	}

	h.render(w, r, status, "admin", page)
}

func adminURL(tab string, page int) string {
	q := url.Values{}
	if tab == "blogs" {
		q.Set("tab", tab)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return "/admin"
	}
	return "/admin?" + q.Encode()
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}

	req := models.UserUpdate{
		Email:     strings.TrimSpace(r.PostFormValue("email")),
		FirstName: strings.TrimSpace(r.PostFormValue("firstName")),
		LastName:  strings.TrimSpace(r.PostFormValue("lastName")),
		Role:      r.PostFormValue("role"),
	}

	if err := h.UserService.UpdateUser(r.Context(), session.FromContext(r.Context()), id, req); err != nil {
		q := url.Values{"edit": {strconv.FormatInt(id, 10)}}
		message := apperr.Message(err)
		if !apperr.Is(err, apperr.Validation) {
			message = "Failed to update user. Please try again."
		}
		h.renderAdmin(w, r, statusFor(err), q, message)
		return
	}

	redirect(w, r, "/admin", "User updated")
}

func (h *Handlers) SetUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}

	if err := h.UserService.SetRole(r.Context(), session.FromContext(r.Context()), id, r.PostFormValue("role")); err != nil {
		redirect(w, r, "/admin", apperr.Message(err))
		return
	}
	redirect(w, r, "/admin", "Role updated")
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}

	if err := h.UserService.DeleteUser(r.Context(), session.FromContext(r.Context()), id); err != nil {
		message := apperr.Message(err)
		if !apperr.Is(err, apperr.Validation) {
			message = "Failed to delete user. Please try again."
		}
		redirect(w, r, "/admin", message)
		return
	}
	redirect(w, r, "/admin", "User deleted")
}

func (h *Handlers) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	req := registerRequest(r)

	if err := h.Validate.Struct(req); err != nil {
		h.renderAdmin(w, r, http.StatusUnprocessableEntity, url.Values{}, validationMessage(err))
		return
	}

	user, err := h.Sessions.RegisterAdmin(r.Context(), session.FromContext(r.Context()), req)
	if err != nil {
		h.renderAdmin(w, r, statusFor(err), url.Values{}, "Failed to create admin. Please try again.")
		return
	}

	name := req.Username
	if user != nil && user.Username != "" {
		name = user.Username
	}
	redirect(w, r, "/admin", fmt.Sprintf("Admin %s created", name))
}
