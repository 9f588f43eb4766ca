package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"blogfront/internal/middleware"
	"blogfront/internal/models"
)

// Routes maps every page and form target. Session and visitor middleware
// must wrap the returned router.
func (h *Handlers) Routes() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(h.NotFound)

	signedIn := middleware.RequireAuth("/login")
	admin := func(f http.HandlerFunc) http.Handler {
		return middleware.Chain(f, signedIn, middleware.RoleMiddleware(http.HandlerFunc(h.Forbidden), models.RoleAdmin))
	}

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	r.HandleFunc("/", h.Home).Methods(http.MethodGet)
	r.HandleFunc("/blogs", h.Blogs).Methods(http.MethodGet)
	r.HandleFunc("/blogs/{id:[0-9]+}", h.BlogDetail).Methods(http.MethodGet)
	r.HandleFunc("/blogs/{id:[0-9]+}/like", h.ToggleLike).Methods(http.MethodPost)
	r.HandleFunc("/blogs/{id:[0-9]+}/comments", h.AddComment).Methods(http.MethodPost)
	r.HandleFunc("/blogs/{id:[0-9]+}/comments/{cid:[0-9]+}/edit", h.EditComment).Methods(http.MethodPost)
	r.HandleFunc("/blogs/{id:[0-9]+}/comments/{cid:[0-9]+}/delete", h.DeleteComment).Methods(http.MethodPost)
	r.Handle("/blogs/{id:[0-9]+}/delete", signedIn(http.HandlerFunc(h.DeleteBlog))).Methods(http.MethodPost)

	r.HandleFunc("/login", h.LoginPage).Methods(http.MethodGet)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/register", h.RegisterPage).Methods(http.MethodGet)
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/logout", h.Logout).Methods(http.MethodPost)

	r.Handle("/profile", signedIn(http.HandlerFunc(h.Profile))).Methods(http.MethodGet)
	r.Handle("/profile", signedIn(http.HandlerFunc(h.UpdateProfile))).Methods(http.MethodPost)
	r.Handle("/create-blog", signedIn(http.HandlerFunc(h.NewBlog))).Methods(http.MethodGet)
	r.Handle("/create-blog", signedIn(http.HandlerFunc(h.CreateBlog))).Methods(http.MethodPost)
	r.Handle("/edit-blog/{id:[0-9]+}", signedIn(http.HandlerFunc(h.EditBlog))).Methods(http.MethodGet)
	r.Handle("/edit-blog/{id:[0-9]+}", signedIn(http.HandlerFunc(h.UpdateBlog))).Methods(http.MethodPost)

	r.Handle("/admin", admin(h.Admin)).Methods(http.MethodGet)
	r.Handle("/admin/users", admin(h.CreateAdmin)).Methods(http.MethodPost)
	r.Handle("/admin/users/{id:[0-9]+}", admin(h.UpdateUser)).Methods(http.MethodPost)
	r.Handle("/admin/users/{id:[0-9]+}/role", admin(h.SetUserRole)).Methods(http.MethodPost)
	r.Handle("/admin/users/{id:[0-9]+}/delete", admin(h.DeleteUser)).Methods(http.MethodPost)

	return r
}
