// Package handlers builds the template view models for each page.
package handlers

import (
	"github.com/alsafar-partners/legal-web/internal/nav"
	"github.com/alsafar-partners/legal-web/internal/search"
	"github.com/alsafar-partners/legal-web/internal/seo"
	"github.com/alsafar-partners/legal-web/internal/uistate"
)

// Layout carries the fields every page shares with the base template.
type Layout struct {
	Title     string
	SiteName  string
	Lang      string
	Dir       string
	SEO       seo.Meta
	Analytics Analytics
	CSRFToken string

	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb

	UI uistate.State
	// Panel is the search quick preview; nil when the panel is closed.
	Panel *PanelData
	// FooterServices lists every service slug for the footer menu.
	FooterServices []ServiceLink
}

// ServiceLink is a title/href pair for service menus.
type ServiceLink struct {
	Title string
	Href  string
}

// PageData is a generic view model for simple pages using the shared layout.
type PageData struct {
	Layout
	Message string
}

// NewLayout fills the layout from the visitor state.
func NewLayout(path, title, siteName string, state uistate.State) Layout {
	return Layout{
		Title:       title,
		SiteName:    siteName,
		Lang:        string(state.Lang),
		Dir:         string(state.Dir),
		Path:        path,
		Nav:         nav.Build(path),
		Breadcrumbs: nav.Breadcrumbs(path, ""),
		UI:          state,
	}
}

// PanelData is the view model of the search quick preview.
type PanelData struct {
	Query   string
	Preview search.Preview
	Empty   bool
	// ViewAll links to the full results page.
	ViewAll string
}
