package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"blogfront/internal/comments"
	"blogfront/internal/models"
	"blogfront/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home", "blogs", "blog", "blog_form", "login", "register", "profile", "admin", "error"}

var templateFuncs = template.FuncMap{
	"comma":      humanize.Comma,
	"date":       formatDate,
	"ago":        formatAgo,
	"imgsrc":     imageSource,
	"truncate":   comments.Truncate,
	"initial":    comments.Initial,
	"paragraphs": paragraphs,
	"add":        func(a, b int) int { return a + b },
	"sub":        func(a, b int) int { return a - b },
}

func formatDate(t models.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func formatAgo(t models.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t.Time)
}

// paragraphs splits text on blank lines.
func paragraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// imageSource lets embedded image data URLs through the template URL filter,
// which would otherwise replace them. Anything else goes through as a plain
// string and is filtered as usual.
func imageSource(src string) any {
	if strings.HasPrefix(src, "data:image/") && !strings.ContainsAny(src, "\"'<> ") {
		return template.URL(src)
	}
	return src
}

func mustParsePages() map[string]*template.Template {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		pages[name] = template.Must(template.New(name).Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
	return pages
}

// layoutData is what every page sees: its own data under Data plus the
// signed-in user and a one-shot flash message.
type layoutData struct {
	Session *session.Session
	Flash   string
	Path    string
	Year    int
	Data    any
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	tmpl, ok := h.pages[name]
	if !ok {
		log.Printf("render: unknown page %q", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	ld := layoutData{
		Session: session.FromContext(r.Context()),
		Flash:   popFlash(w, r),
		Path:    r.URL.Path,
		Year:    h.now().Year(),
		Data:    data,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", ld); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *Handlers) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

const flashCookie = "flash"

func setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})

	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}

// redirect sends the browser to target with an optional flash message.
func redirect(w http.ResponseWriter, r *http.Request, target, flash string) {
	if flash != "" {
		setFlash(w, flash)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func toLogin(w http.ResponseWriter, r *http.Request, next string) {
	http.Redirect(w, r, "/login?next="+url.QueryEscape(next), http.StatusSeeOther)
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
