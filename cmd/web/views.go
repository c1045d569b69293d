package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alsafar-partners/legal-web/internal/i18n"
	"github.com/alsafar-partners/legal-web/internal/observability"
)

// Shared templates (layout, partials) are named _*.tmpl; every other file is a page that
// defines "content" on top of them.
const sharedPattern = "_*.tmpl"

type templateSet struct {
	root  *template.Template
	pages map[string]*template.Template
}

// views renders pages and htmx fragments. In dev mode templates are reparsed on each request.
type views struct {
	fsys   fs.FS
	bundle *i18n.Bundle
	dev    bool
	cache  *templateSet
}

func newViews(fsys fs.FS, bundle *i18n.Bundle, dev bool) (*views, error) {
	v := &views{fsys: fsys, bundle: bundle, dev: dev}
	set, err := v.parse()
	if err != nil {
		return nil, err
	}
	v.cache = set
	return v, nil
}

func (v *views) parse() (*templateSet, error) {
	root, err := template.New("_root").Funcs(v.funcs()).ParseFS(v.fsys, sharedPattern)
	if err != nil {
		return nil, err
	}
	files, err := fs.Glob(v.fsys, "*.tmpl")
	if err != nil {
		return nil, err
	}
	set := &templateSet{root: root, pages: map[string]*template.Template{}}
	for _, f := range files {
		if strings.HasPrefix(f, "_") {
			continue
		}
		page, err := root.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := page.ParseFS(v.fsys, f); err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		set.pages[strings.TrimSuffix(path.Base(f), ".tmpl")] = page
	}
	if len(set.pages) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}
	return set, nil
}

func (v *views) current() (*templateSet, error) {
	if v.dev {
		return v.parse()
	}
	return v.cache, nil
}

func (v *views) funcs() template.FuncMap {
	return template.FuncMap{
		"t": v.bundle.T,
		"tf": func(lang, key string, args ...any) string {
			return fmt.Sprintf(v.bundle.T(lang, key), args...)
		},
		"jsonld": func(s string) template.JS { return template.JS(s) },
		"href":   safeHref,
		"inc":    func(i int) int { return i + 1 },
		"year":   func() int { return time.Now().Year() },
	}
}

// render executes the base layout of page with the given status.
func (v *views) render(w http.ResponseWriter, r *http.Request, page string, status int, data any) {
	set, err := v.current()
	if err != nil {
		v.fail(w, r, "template parse error", err)
		return
	}
	t, ok := set.pages[page]
	if !ok {
		v.fail(w, r, "unknown page", fmt.Errorf("page %q", page))
		return
	}
	v.write(w, r, t, "base", status, data)
}

// fragment executes one shared template, for htmx swaps.
func (v *views) fragment(w http.ResponseWriter, r *http.Request, name string, data any) {
	set, err := v.current()
	if err != nil {
		v.fail(w, r, "template parse error", err)
		return
	}
	v.write(w, r, set.root, name, http.StatusOK, data)
}

func (v *views) write(w http.ResponseWriter, r *http.Request, t *template.Template, name string, status int, data any) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		v.fail(w, r, "template exec error", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (v *views) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	observability.FromContext(r.Context()).Error(msg, zap.Error(err))
	http.Error(w, msg, http.StatusInternalServerError)
}

// safeHref lets CMS-provided social links through html/template when they use a scheme we
// render (http, https, mailto, tel) or are site-relative.
func safeHref(raw string) template.URL {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	for _, p := range []string{"https://", "http://", "mailto:", "tel:"} {
		if strings.HasPrefix(lower, p) {
			return template.URL(raw)
		}
	}
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return template.URL(raw)
	}
	return template.URL("#")
}
