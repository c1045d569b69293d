package main

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/alsafar-partners/legal-web/internal/cms"
	"github.com/alsafar-partners/legal-web/internal/config"
	"github.com/alsafar-partners/legal-web/internal/handlers"
	"github.com/alsafar-partners/legal-web/internal/i18n"
	mw "github.com/alsafar-partners/legal-web/internal/middleware"
	"github.com/alsafar-partners/legal-web/internal/search"
	"github.com/alsafar-partners/legal-web/internal/subscribers"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets
var embeddedAssets embed.FS

type appOptions struct {
	// templatesDir replaces the embedded templates when set.
	templatesDir string
	// fetcher replaces the HTTP CMS client (tests).
	fetcher cms.Fetcher
}

// app wires the content resolver, search and subscription services to the HTTP surface.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	bundle    *i18n.Bundle
	resolver  *cms.Resolver
	search    *search.Service
	subs      *subscribers.Service
	store     *subscribers.Store
	views     *views
	assets    fs.FS
	registry  *prometheus.Registry
	analytics handlers.Analytics
}

func newApp(cfg config.Config, logger *zap.Logger, opts appOptions) (*app, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	bundle, err := loadBundle(cfg.Content)
	if err != nil {
		return nil, fmt.Errorf("load i18n: %w", err)
	}

	tmplFS, err := templateSource(opts.templatesDir)
	if err != nil {
		return nil, err
	}
	v, err := newViews(tmplFS, bundle, cfg.Server.Dev)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	assets, err := assetSource(cfg.Content.AssetsDir)
	if err != nil {
		return nil, err
	}

	store, err := subscribers.OpenStore(cfg.Subscribers.Path)
	if err != nil {
		return nil, fmt.Errorf("open subscriber store: %w", err)
	}

	client := cms.NewClient(cfg.CMS.BaseURL,
		cms.WithTimeout(cfg.CMS.Timeout),
		cms.WithAttempts(cfg.CMS.Attempts),
		cms.WithLogger(logger.Named("cms")),
	)
	fetcher := opts.fetcher
	if fetcher == nil {
		fetcher = client
	}

	registry := prometheus.NewRegistry()
	metrics := cms.NewMetrics()
	registry.MustRegister(
		metrics,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	resolver := cms.NewResolver(fetcher, bundle,
		cms.WithResolverLogger(logger.Named("content")),
		cms.WithMetrics(metrics),
		cms.WithCacheTTL(cfg.CMS.CacheTTL),
	)

	var remoteSearch search.Remote
	if r, ok := fetcher.(search.Remote); ok {
		remoteSearch = r
	}
	var remoteSubs subscribers.Remote
	if r, ok := fetcher.(subscribers.Remote); ok {
		remoteSubs = r
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		bundle:    bundle,
		resolver:  resolver,
		search:    search.NewService(remoteSearch, resolver, logger.Named("search")),
		subs:      subscribers.NewService(remoteSubs, store, logger.Named("subscribers")),
		store:     store,
		views:     v,
		assets:    assets,
		registry:  registry,
		analytics: handlers.AnalyticsFrom(cfg.Analytics),
	}, nil
}

// Close releases the subscriber store.
func (a *app) Close() error { return a.store.Close() }

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP. Ensure only trusted proxies
	// can set these headers in production environments.
	r.Use(chimw.RealIP)
	r.Use(mw.Logger(a.logger.Named("http")))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry}))
	r.Handle("/assets/*", mw.AssetsWithCache(a.assets, "/assets"))
	r.Get("/sitemap.xml", a.handleSitemap)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))
		if a.cfg.Server.RequestTimeout > 0 {
			r.Use(chimw.Timeout(a.cfg.Server.RequestTimeout))
		}
		r.Use(mw.HTMX)
		r.Use(mw.Session(mw.SessionOptions{
			Key:    a.cfg.Server.SessionKey,
			Secure: a.cfg.Server.Secure(),
			Logger: a.logger,
		}))
		r.Use(mw.Locale(a.bundle))
		r.Use(mw.UI)
		r.Use(mw.CSRF)
		r.Use(mw.VaryLocale)

		r.Get("/", a.handleHome)
		r.Get("/services", a.handleServices)
		r.Get("/services/{slug}", a.handleService)
		r.Get("/search", a.handleSearch)
		r.Get("/search/panel", a.handleSearchPanel)
		r.Post("/search/close", a.handleSearchClose)
		r.Post("/subscribe", a.handleSubscribe)
		r.Get("/lang/toggle", a.handleLangToggle)
		r.Get("/lang/{code}", a.handleLangSet)
		r.NotFound(a.handleNotFound)
	})
	return r
}

func loadBundle(cfg config.ContentConfig) (*i18n.Bundle, error) {
	if cfg.LocalesDir == "" {
		return i18n.Default(cfg.DefaultLang)
	}
	return i18n.Load(os.DirFS(cfg.LocalesDir), cfg.DefaultLang, []string{"en", "ar"})
}

func templateSource(dir string) (fs.FS, error) {
	if dir != "" {
		return os.DirFS(dir), nil
	}
	return fs.Sub(embeddedTemplates, "templates")
}

// assetSource serves dir/assets when it exists on disk and the embedded copy otherwise.
func assetSource(dir string) (fs.FS, error) {
	if dir != "" {
		if info, err := os.Stat(dir + "/assets"); err == nil && info.IsDir() {
			return os.DirFS(dir + "/assets"), nil
		}
	}
	return fs.Sub(embeddedAssets, "assets")
}
