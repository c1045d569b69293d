package middleware

import (
	"context"
	"net/http"

	"github.com/alsafar-partners/legal-web/internal/uistate"
)

// UI builds the visitor's interface state from the resolved language and the session flash.
// Must run after Session and Locale.
func UI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSession(r)
		store := uistate.New(uistate.Language(Lang(r)))
		if sess.Subscription.Status != "" {
			store.SetSubscription(uistate.ParseStatus(sess.Subscription.Status), sess.Subscription.Message)
		}
		ctx := context.WithValue(r.Context(), ctxKeyUI, store)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UIState returns the request's interface store. Outside the UI middleware it is a fresh
// English store.
func UIState(r *http.Request) *uistate.Store {
	if s, ok := r.Context().Value(ctxKeyUI).(*uistate.Store); ok && s != nil {
		return s
	}
	return uistate.New(uistate.English)
}

// SaveUI writes the persistent parts of the interface state back to the session so the next
// request sees them. Call it before the response is written.
func SaveUI(r *http.Request) {
	state := UIState(r).Snapshot()
	sess := GetSession(r)
	if sess.Locale != string(state.Lang) {
		sess.Locale = string(state.Lang)
		sess.MarkDirty()
	}
	flash := SessionFlash{}
	if state.Subscription.Status != uistate.StatusIdle {
		flash = SessionFlash{Status: string(state.Subscription.Status), Message: state.Subscription.Message}
	}
	if flash != sess.Subscription {
		sess.Subscription = flash
		sess.MarkDirty()
	}
}
