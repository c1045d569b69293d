package middleware

import (
	"net/http"
)

// HTMX marks requests coming from htmx so handlers can answer with fragments. Boosted
// navigations still get full pages. Responses vary on HX-Request for shared caches.
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "HX-Request")
		is := r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-Boosted") != "true"
		ctx := WithHTMX(r.Context(), is)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
