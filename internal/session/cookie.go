package session

import (
	"net/http"
	"time"
)

const tokenCookieTTL = 7 * 24 * time.Hour

// CookieStore keeps the token in an HTTP-only cookie of the current exchange.
type CookieStore struct {
	W      http.ResponseWriter
	R      *http.Request
	Name   string
	Secure bool
}

func NewCookieStore(w http.ResponseWriter, r *http.Request, name string, secure bool) *CookieStore {
	return &CookieStore{W: w, R: r, Name: name, Secure: secure}
}

func (c *CookieStore) Load() (string, error) {
	cookie, err := c.R.Cookie(c.Name)
	if err != nil {
		if err == http.ErrNoCookie {
			return "", nil
		}
		return "", err
	}
	return cookie.Value, nil
}

func (c *CookieStore) Save(token string) error {
	http.SetCookie(c.W, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(tokenCookieTTL),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (c *CookieStore) Clear() error {
	http.SetCookie(c.W, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
