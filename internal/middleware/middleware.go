package middleware

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"blogfront/internal/config"
	"blogfront/internal/session"
)

type Middleware func(http.Handler) http.Handler

// Initializer resolves the session of a request from its token store.
type Initializer interface {
	Init(ctx context.Context, store session.TokenStore) (*session.Session, error)
}

// SessionMiddleware loads the signed-in user once per request and puts the
// session in the context, where the API client picks up the token.
func SessionMiddleware(sessions Initializer, cfg config.Session) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := session.NewCookieStore(w, r, cfg.CookieName, cfg.CookieSecure)

			s, err := sessions.Init(r.Context(), store)
			if err != nil {
				log.Printf("session: %v", err)
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
		})
	}
}

type visitorKey struct{}

const visitorCookieTTL = 365 * 24 * time.Hour

// VisitorMiddleware tags every browser with a random id used to throttle
// view recording.
func VisitorMiddleware(cfg config.Session) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(cfg.VisitorName); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					id = c.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.VisitorName,
					Value:    id,
					Path:     "/",
					Expires:  time.Now().Add(visitorCookieTTL),
					HttpOnly: true,
					Secure:   cfg.CookieSecure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), visitorKey{}, id)))
		})
	}
}

func VisitorFromContext(ctx context.Context) string {
	id, _ := ctx.Value(visitorKey{}).(string)
	return id
}

// RequireAuth sends anonymous visitors to the login page and back afterwards.
func RequireAuth(loginPath string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !session.FromContext(r.Context()).IsAuthenticated() {
				http.Redirect(w, r, loginPath+"?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RoleMiddleware lets through only users holding one of allowedRoles;
// everyone else gets denied.
func RoleMiddleware(denied http.Handler, allowedRoles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := session.FromContext(r.Context())
			if !s.IsAuthenticated() {
				denied.ServeHTTP(w, r)
				return
			}

			allowed := false
			for _, role := range allowedRoles {
				if s.User.Role == role {
					allowed = true
					break
				}
			}

			if !allowed {
				denied.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func SecureHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data: http: https:; form-action 'self'; object-src 'none'; frame-ancestors 'none'")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		log.Printf("[%s] %s %s %d %s", chimw.GetReqID(r.Context()), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

// Chain wraps h so that the first middleware runs outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
