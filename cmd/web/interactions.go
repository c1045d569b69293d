package main

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/alsafar-partners/legal-web/internal/handlers"
	mw "github.com/alsafar-partners/legal-web/internal/middleware"
	"github.com/alsafar-partners/legal-web/internal/observability"
	"github.com/alsafar-partners/legal-web/internal/subscribers"
	"github.com/alsafar-partners/legal-web/internal/uistate"
)

func (a *app) handleSearch(w http.ResponseWriter, r *http.Request) {
	ui := mw.UIState(r)
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	ui.SetSearchQuery(q)
	results := a.search.Search(r.Context(), q)
	state := ui.SetSearchResults(results)

	lang := string(state.Lang)
	layout := a.layout(r, state, a.catalog(r), a.bundle.T(lang, "search.results"), "")
	layout.SEO.Robots = "noindex"
	a.page(w, r, "search", http.StatusOK, handlers.SearchData{Layout: layout, Query: q, Results: results})
}

// handleSearchPanel serves the header quick preview. Without htmx it redirects to the full
// results page.
func (a *app) handleSearchPanel(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, "/search?q="+url.QueryEscape(q), http.StatusSeeOther)
		return
	}
	ui := mw.UIState(r)
	ui.OpenSearch()
	ui.SetSearchQuery(q)
	state := ui.SetSearchResults(a.search.Search(r.Context(), q))
	a.views.fragment(w, r, "search-panel", a.layout(r, state, nil, "", ""))
}

func (a *app) handleSearchClose(w http.ResponseWriter, r *http.Request) {
	state := mw.UIState(r).CloseSearch()
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, backTo(r), http.StatusSeeOther)
		return
	}
	a.views.fragment(w, r, "search-panel", a.layout(r, state, nil, "", ""))
}

func (a *app) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	ui := mw.UIState(r)
	sess := mw.GetSession(r)
	logger := observability.FromContext(r.Context())

	ui.SetSubscription(uistate.StatusLoading, "")
	outcome, err := a.subs.Subscribe(r.Context(), r.PostFormValue("email"), sess.Submitted)
	var state uistate.State
	if err != nil {
		state = ui.SetSubscription(uistate.StatusError, subscribers.MessageKey(err))
	} else {
		sess.RememberSubmitted(outcome.Email)
		state = ui.SetSubscription(uistate.StatusSuccess, subscribers.MessageKey(nil))
		if outcome.Persisted {
			logger.Warn("subscription recorded locally", zap.Error(outcome.Cause))
		}
	}

	if mw.IsHTMX(r.Context()) {
		layout := a.layout(r, state, nil, "", "")
		ui.ResetSubscription()
		mw.SaveUI(r)
		a.views.fragment(w, r, "subscribe-form", layout)
		return
	}
	// Plain form post: keep the status for the next page render.
	mw.SaveUI(r)
	http.Redirect(w, r, backTo(r)+"#subscribe", http.StatusSeeOther)
}

func (a *app) handleLangToggle(w http.ResponseWriter, r *http.Request) {
	state := mw.UIState(r).ToggleLanguage()
	a.switchLanguage(w, r, state.Lang)
}

func (a *app) handleLangSet(w http.ResponseWriter, r *http.Request) {
	code := strings.ToLower(chi.URLParam(r, "code"))
	if !a.bundle.IsSupported(code) {
		a.handleNotFound(w, r)
		return
	}
	state := mw.UIState(r).SetLanguage(uistate.ParseLanguage(code))
	a.switchLanguage(w, r, state.Lang)
}

func (a *app) switchLanguage(w http.ResponseWriter, r *http.Request, lang uistate.Language) {
	mw.SaveUI(r)
	mw.SetLangCookie(w, r, string(lang))
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

// backTo returns the same-site page the request came from, or "/".
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	if !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return "/"
	}
	if strings.HasPrefix(ref.Path, "/lang/") {
		return "/"
	}
	out := ref.Path
	if q := ref.Query(); len(q) > 0 {
		q.Del("hl")
		if enc := q.Encode(); enc != "" {
			out += "?" + enc
		}
	}
	return out
}
