package session

import (
	"net/http"
	"time"
)

// CookieName is the session cookie in secure contexts. The __Host- prefix
// requires Secure, Path=/ and no Domain attribute, which pins the cookie to
// this origin.
const CookieName = "__Host-session"

// DevCookieName is used when Secure is off: browsers reject the __Host-
// prefix on insecure cookies, so plain-HTTP setups need an unprefixed name.
const DevCookieName = "session"

// CookieOptions controls the attributes of issued session cookies.
type CookieOptions struct {
	Secure   bool
	SameSite http.SameSite
}

// Name returns the cookie name the options permit.
func (o CookieOptions) Name() string {
	if o.Secure {
		return CookieName
	}
	return DevCookieName
}

// SetCookie issues the session cookie to the client.
func SetCookie(w http.ResponseWriter, id string, expiresAt time.Time, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     opts.Name(),
		Value:    id,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// ClearCookie removes the session cookie from the client.
func ClearCookie(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     opts.Name(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// FromRequest extracts the session ID from the request cookie, or "" when
// absent. Both cookie names are accepted so a deployment can move between
// secure and insecure configurations without orphaning sessions.
func FromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	if c, err := r.Cookie(DevCookieName); err == nil {
		return c.Value
	}
	return ""
}
