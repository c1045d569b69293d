package main

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alsafar-partners/legal-web/internal/cms"
	"github.com/alsafar-partners/legal-web/internal/handlers"
	mw "github.com/alsafar-partners/legal-web/internal/middleware"
	"github.com/alsafar-partners/legal-web/internal/nav"
	"github.com/alsafar-partners/legal-web/internal/observability"
	"github.com/alsafar-partners/legal-web/internal/seo"
	"github.com/alsafar-partners/legal-web/internal/uistate"
)

var ogLocales = map[uistate.Language]string{
	uistate.English: "en_US",
	uistate.Arabic:  "ar_AR",
}

// layout fills the fields every page shares from the visitor state. The footer menu lists
// catalog, which fragments leave nil.
func (a *app) layout(r *http.Request, state uistate.State, catalog []cms.Service, title, description string) handlers.Layout {
	lang := string(state.Lang)
	siteName := a.bundle.T(lang, "site.name")

	l := handlers.NewLayout(r.URL.Path, title, siteName, state)
	l.CSRFToken = mw.CSRFToken(r)
	l.Analytics = a.analytics
	l.FooterServices = handlers.ServiceLinks(catalog)

	fullTitle := siteName
	if title != "" && title != siteName {
		fullTitle = title + " | " + siteName
	}
	l.SEO = seo.PageMeta(a.cfg.Site.BaseURL, r.URL.Path, fullTitle, description, "", ogLocales[state.Lang], a.bundle.Supported())
	l.SEO.OG.SiteName = siteName
	if state.SearchOpen {
		l.Panel = handlers.BuildPanel(state.SearchQuery, state.SearchResults)
	}
	return l
}

// catalog resolves the services catalog for pages that do not otherwise need it.
func (a *app) catalog(r *http.Request) []cms.Service {
	return a.resolver.Services(r.Context()).Items
}

// page renders a full page. The subscription status has been captured in the layout, so it is
// cleared here: a flash shows exactly once.
func (a *app) page(w http.ResponseWriter, r *http.Request, name string, status int, data any) {
	mw.UIState(r).ResetSubscription()
	mw.SaveUI(r)
	a.views.render(w, r, name, status, data)
}

func (a *app) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state := mw.UIState(r).Snapshot()
	lang := string(state.Lang)

	var (
		hero         cms.Resolution[cms.HeroSlide]
		services     cms.Resolution[cms.Service]
		team         cms.Resolution[cms.TeamMember]
		testimonials cms.Resolution[cms.Testimonial]
	)
	// Resolutions never fail; the group only joins the four fetches.
	var g errgroup.Group
	g.Go(func() error { hero = a.resolver.Hero(ctx, lang); return nil })
	g.Go(func() error { services = a.resolver.Services(ctx); return nil })
	g.Go(func() error { team = a.resolver.Team(ctx); return nil })
	g.Go(func() error { testimonials = a.resolver.Testimonials(ctx); return nil })
	_ = g.Wait()

	layout := a.layout(r, state, services.Items, a.bundle.T(lang, "site.tagline"), a.bundle.T(lang, "hero.description1"))
	base := a.cfg.Site.BaseURL
	layout.SEO.JSONLD = append(layout.SEO.JSONLD,
		seo.JSON(seo.LegalService(a.cfg.Site.Name, base, "", a.bundle.T(lang, "site.tagline"))),
		seo.JSON(seo.WebSite(a.cfg.Site.Name, base, base+"/search?q=")),
	)
	data := handlers.BuildHomeData(layout, hero.Items, services.Items, team.Items, testimonials.Items)
	a.page(w, r, "home", http.StatusOK, data)
}

func (a *app) handleServices(w http.ResponseWriter, r *http.Request) {
	state := mw.UIState(r).Snapshot()
	lang := string(state.Lang)
	catalog := a.resolver.Services(r.Context())

	layout := a.layout(r, state, catalog.Items, a.bundle.T(lang, "services.title"), a.bundle.T(lang, "site.tagline"))
	a.page(w, r, "services", http.StatusOK, handlers.ServicesData{Layout: layout, Services: catalog.Items})
}

func (a *app) handleService(w http.ResponseWriter, r *http.Request) {
	state := mw.UIState(r).Snapshot()
	slug := chi.URLParam(r, "slug")

	// One resolution serves both the lookup and the related list.
	catalog := a.resolver.Services(r.Context())
	svc, ok := cms.FindService(catalog.Items, slug)
	if !ok {
		a.handleNotFound(w, r)
		return
	}

	layout := a.layout(r, state, catalog.Items, svc.Title, "")
	data := handlers.BuildServiceData(layout, svc, catalog.Items)
	data.SEO.Description = data.Summary
	data.SEO.OG.Description = data.Summary
	data.SEO.OG.Type = "article"
	data.SEO.JSONLD = append(data.SEO.JSONLD,
		seo.JSON(seo.Service(svc.Title, data.Summary, data.SEO.Canonical, a.cfg.Site.Name)),
		seo.JSON(seo.BreadcrumbList(a.breadcrumbItems(string(state.Lang), data.Breadcrumbs))),
	)
	a.page(w, r, "service", http.StatusOK, data)
}

// handleSitemap lists the static pages and every service in the resolved catalog.
func (a *app) handleSitemap(w http.ResponseWriter, r *http.Request) {
	paths := []string{"/", "/services"}
	for _, svc := range a.catalog(r) {
		if svc.Slug != "" {
			paths = append(paths, "/services/"+svc.Slug)
		}
	}
	body, err := seo.Sitemap(a.cfg.Site.BaseURL, paths)
	if err != nil {
		observability.FromContext(r.Context()).Error("render sitemap", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}

func (a *app) breadcrumbItems(lang string, crumbs []nav.Crumb) []seo.BreadcrumbItem {
	items := make([]seo.BreadcrumbItem, 0, len(crumbs))
	for _, c := range crumbs {
		name := c.Label
		if c.LabelKey != "" {
			name = a.bundle.T(lang, c.LabelKey)
		}
		items = append(items, seo.BreadcrumbItem{Name: name, Item: a.cfg.Site.BaseURL + c.Href})
	}
	return items
}

func (a *app) handleNotFound(w http.ResponseWriter, r *http.Request) {
	state := mw.UIState(r).Snapshot()
	lang := string(state.Lang)
	key := "error.notFound"
	if strings.HasPrefix(r.URL.Path, "/services/") {
		key = "services.notFound"
	}
	layout := a.layout(r, state, a.catalog(r), a.bundle.T(lang, key), "")
	layout.SEO.Robots = "noindex"
	a.page(w, r, "notfound", http.StatusNotFound, handlers.PageData{Layout: layout, Message: a.bundle.T(lang, key)})
}
