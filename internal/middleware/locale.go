package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/alsafar-partners/legal-web/internal/i18n"
)

const (
	ctxKeyLang     ctxKey = "lang"
	langCookie            = "hl"
	langQueryParam        = "hl"
)

// Locale resolves the request language: ?hl= query, then session, then the hl cookie, then
// Accept-Language, then the bundle fallback. An explicit ?hl= is persisted to session and cookie.
func Locale(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := resolveLocale(w, r, bundle)
			ctx := context.WithValue(r.Context(), ctxKeyLang, lang)
			ctx = context.WithValue(ctx, ctxKeyLocaleFB, bundle.Fallback())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveLocale(w http.ResponseWriter, r *http.Request, bundle *i18n.Bundle) string {
	sess := GetSession(r)
	if q := normalizeLang(r.URL.Query().Get(langQueryParam)); q != "" && bundle.IsSupported(q) {
		if sess.Locale != q {
			sess.Locale = q
			sess.MarkDirty()
		}
		SetLangCookie(w, r, q)
		return q
	}
	if sess.Locale != "" && bundle.IsSupported(sess.Locale) {
		return sess.Locale
	}
	if c, err := r.Cookie(langCookie); err == nil {
		if l := normalizeLang(c.Value); bundle.IsSupported(l) {
			return l
		}
	}
	return bundle.Resolve(r.Header.Get("Accept-Language"))
}

// SetLangCookie remembers the language for visitors whose session cookie is dropped.
func SetLangCookie(w http.ResponseWriter, r *http.Request, lang string) {
	http.SetCookie(w, &http.Cookie{
		Name:     langCookie,
		Value:    lang,
		Path:     "/",
		Secure:   GetSession(r).secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
	})
}

// Lang returns the resolved language for the request, or the bundle fallback.
func Lang(r *http.Request) string {
	if v, ok := r.Context().Value(ctxKeyLang).(string); ok && v != "" {
		return v
	}
	if fb, ok := r.Context().Value(ctxKeyLocaleFB).(string); ok && fb != "" {
		return fb
	}
	return "en"
}

func normalizeLang(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexAny(raw, "-_"); i > 0 {
		raw = raw[:i]
	}
	return raw
}

// VaryLocale sets Vary header for Accept-Language on dynamic responses
func VaryLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// append to existing Vary if any
		w.Header().Add("Vary", "Accept-Language")
		next.ServeHTTP(w, r)
	})
}
