package seo

import "encoding/xml"

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// Sitemap renders a sitemaps.org urlset for paths on baseURL. Duplicate paths are listed once.
func Sitemap(baseURL string, paths []string) ([]byte, error) {
	set := sitemapURLSet{XMLNS: sitemapNS}
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		set.URLs = append(set.URLs, sitemapURL{Loc: baseURL + p})
	}
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
