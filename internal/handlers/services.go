package handlers

import (
	"html/template"

	"github.com/alsafar-partners/legal-web/internal/cms"
	"github.com/alsafar-partners/legal-web/internal/nav"
)

// excerptLimit bounds meta descriptions derived from service bodies.
const excerptLimit = 160

// ServiceData is the view model for a service detail page.
type ServiceData struct {
	Layout
	Service cms.Service
	Body    template.HTML
	Summary string
	Related []cms.Service
}

// BuildServiceData renders svc's body (or the generic sentence when it has none) and picks
// the other services of catalog as related links.
func BuildServiceData(layout Layout, svc cms.Service, catalog []cms.Service) ServiceData {
	content := svc.Content
	if content == "" {
		content = cms.GenericServiceContent(svc.Title)
	}
	body := cms.RenderContent(content)
	summary := svc.Description
	if summary == "" {
		summary = cms.Excerpt(string(body), excerptLimit)
	}
	layout.Breadcrumbs = nav.Breadcrumbs(layout.Path, svc.Title)

	related := make([]cms.Service, 0, len(catalog))
	for _, s := range catalog {
		if s.Slug != svc.Slug {
			related = append(related, s)
		}
	}
	return ServiceData{Layout: layout, Service: svc, Body: body, Summary: summary, Related: related}
}

// ServicesData is the view model of the services index.
type ServicesData struct {
	Layout
	Services []cms.Service
}

// ServiceLinks maps a catalog to footer menu links.
func ServiceLinks(catalog []cms.Service) []ServiceLink {
	out := make([]ServiceLink, 0, len(catalog))
	for _, s := range catalog {
		out = append(out, ServiceLink{Title: s.Title, Href: "/services/" + s.Slug})
	}
	return out
}
