package handler

import (
	"net/http"

	"github.com/dtroode/vidtube-server/internal/model"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

func (o Options) tokenCookie(name, value string) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   o.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if o.CookieSecure {
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

func (o Options) setTokenCookies(w http.ResponseWriter, pair model.TokenPair) {
	http.SetCookie(w, o.tokenCookie(AccessTokenCookie, pair.AccessToken))
	http.SetCookie(w, o.tokenCookie(RefreshTokenCookie, pair.RefreshToken))
}

func (o Options) clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		c := o.tokenCookie(name, "")
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}
