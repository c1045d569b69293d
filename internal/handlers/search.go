package handlers

import (
	"net/url"

	"github.com/alsafar-partners/legal-web/internal/search"
)

// SearchData is the view model of the full results page.
type SearchData struct {
	Layout
	Query   string
	Results search.Results
}

// BuildPanel truncates results for the quick preview.
func BuildPanel(query string, results search.Results) *PanelData {
	return &PanelData{
		Query:   query,
		Preview: results.Preview(search.PreviewLimit),
		Empty:   results.Empty(),
		ViewAll: "/search?q=" + url.QueryEscape(query),
	}
}
