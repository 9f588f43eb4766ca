package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"blogfront/internal/apperr"
	"blogfront/internal/client"
	"blogfront/internal/models"
	"blogfront/internal/session"
)

type loginPage struct {
	Username string
	Next     string
	Error    string
}

type registerPage struct {
	Form  models.RegisterRequest
	Error string
}

type profilePage struct {
	User  *models.User
	Form  models.ProfileUpdate
	Blogs *client.BlogPage
	Error string
}

func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if session.FromContext(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "login", loginPage{Next: r.URL.Query().Get("next")})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	req := models.LoginRequest{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	page := loginPage{Username: req.Username, Next: r.PostFormValue("next")}

	if err := h.Validate.Struct(req); err != nil {
		page.Error = validationMessage(err)
		h.render(w, r, http.StatusUnprocessableEntity, "login", page)
		return
	}

	store := session.NewCookieStore(w, r, h.Cfg.Session.CookieName, h.Cfg.Session.CookieSecure)
	if _, err := h.Sessions.Login(r.Context(), store, req); err != nil {
		page.Error = apperr.Message(err)
		status := statusFor(err)
		if apperr.Is(err, apperr.Auth) {
			status = http.StatusUnauthorized
		}
		h.render(w, r, status, "login", page)
		return
	}

	http.Redirect(w, r, safeNext(page.Next), http.StatusSeeOther)
}

func (h *Handlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", registerPage{})
}

// Register creates the account and sends the user to log in; it does not
// sign them in.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	req := registerRequest(r)
	page := registerPage{Form: req}
	page.Form.Password = ""

	if err := h.checkRegistration(req, r.PostFormValue("confirmPassword")); err != nil {
		page.Error = err.Error()
		h.render(w, r, http.StatusUnprocessableEntity, "register", page)
		return
	}

	if _, err := h.Sessions.Register(r.Context(), req); err != nil {
		page.Error = apperr.Message(err)
		h.render(w, r, statusFor(err), "register", page)
		return
	}

	redirect(w, r, "/login", "Registration successful. Please log in.")
}

func registerRequest(r *http.Request) models.RegisterRequest {
	return models.RegisterRequest{
		Username:  strings.TrimSpace(r.PostFormValue("username")),
		Email:     strings.TrimSpace(r.PostFormValue("email")),
		Password:  r.PostFormValue("password"),
		FirstName: strings.TrimSpace(r.PostFormValue("firstName")),
		LastName:  strings.TrimSpace(r.PostFormValue("lastName")),
	}
}

func (h *Handlers) checkRegistration(req models.RegisterRequest, confirm string) error {
	if err := h.Validate.Struct(req); err != nil {
		return errors.New(validationMessage(err))
	}
	if req.Password != confirm {
		return errors.New("Passwords do not match")
	}
	return nil
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	store := session.NewCookieStore(w, r, h.Cfg.Session.CookieName, h.Cfg.Session.CookieSecure)
	_ = h.Sessions.Logout(store, session.FromContext(r.Context()))

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	h.renderProfile(w, r, http.StatusOK, sess, profileForm(sess.User), "")
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	req := models.ProfileUpdate{
		Email:     strings.TrimSpace(r.PostFormValue("email")),
		FirstName: strings.TrimSpace(r.PostFormValue("firstName")),
		LastName:  strings.TrimSpace(r.PostFormValue("lastName")),
	}
	if err := h.Validate.Struct(req); err != nil {
		h.renderProfile(w, r, http.StatusUnprocessableEntity, sess, req, validationMessage(err))
		return
	}

	if err := h.Sessions.UpdateProfile(r.Context(), sess, req); err != nil {
		h.renderProfile(w, r, statusFor(err), sess, req, "Failed to update profile")
		return
	}

	redirect(w, r, "/profile", "Profile updated")
}

func (h *Handlers) renderProfile(w http.ResponseWriter, r *http.Request, status int, sess *session.Session, form models.ProfileUpdate, message string) {
	page := profilePage{User: sess.User, Form: form, Error: message}

	blogs, err := h.BlogService.ByAuthor(r.Context(), sess.User.ID, models.PageRequest{Page: 0, Size: 10})
	if err == nil {
		page.Blogs = blogs
	}

	h.render(w, r, status, "profile", page)
}

func profileForm(u *models.User) models.ProfileUpdate {
	if u == nil {
		return models.ProfileUpdate{}
	}
	return models.ProfileUpdate{Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
}

// validationMessage describes the first failed field of a form.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid input"
	}

	fe := verrs[0]
	field := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Please enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	}
	return field + " is invalid"
}

func fieldLabel(name string) string {
	switch name {
	case "FirstName":
		return "First name"
	case "LastName":
		return "Last name"
	}
	return name
}
