// Package seo holds page metadata and schema.org payloads.
package seo

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
	Locale      string
}

type Twitter struct {
	Card  string
	Image string
}

// Alternate is an hreflang link to the same page in another language.
type Alternate struct {
	Href     string
	Hreflang string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          OpenGraph
	Twitter     Twitter
	Alternates  []Alternate
	JSONLD      []string
}

// PageMeta fills the common fields for a page at pagePath on baseURL. Alternates carry one
// ?hl= link per language plus x-default.
func PageMeta(baseURL, pagePath, title, description, image, ogLocale string, langs []string) Meta {
	canonical := baseURL + pagePath
	m := Meta{
		Title:       title,
		Description: description,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:       title,
			Description: description,
			Image:       image,
			Type:        "website",
			URL:         canonical,
			Locale:      ogLocale,
		},
		Twitter: Twitter{Card: "summary_large_image", Image: image},
	}
	for _, l := range langs {
		m.Alternates = append(m.Alternates, Alternate{Href: canonical + "?hl=" + l, Hreflang: l})
	}
	if len(langs) > 0 {
		m.Alternates = append(m.Alternates, Alternate{Href: canonical, Hreflang: "x-default"})
	}
	return m
}
