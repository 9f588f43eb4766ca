package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"blogfront/internal/apperr"
	"blogfront/internal/session"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// statusFor maps an error kind to the status of the page that reports it.
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.Validation:
		return http.StatusUnprocessableEntity
	case apperr.Auth:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

type errorPage struct {
	Status  int
	Title   string
	Message string
}

// fail renders err as a page. Anonymous users hitting an auth error are sent
// to the login page instead.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.Is(err, apperr.Auth) && !session.FromContext(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
		return
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	h.render(w, r, status, "error", errorPage{
		Status:  status,
		Title:   http.StatusText(status),
		Message: apperr.Message(err),
	})
}

// NotFound sends unknown paths home.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) Forbidden(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, apperr.New(apperr.Auth, "", "Admin access required"))
}
