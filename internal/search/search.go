// Package search finds team members and services matching a free-text query.
package search

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/alsafar-partners/legal-web/internal/cms"
)

// PreviewLimit is how many hits per group the quick preview panel shows.
const PreviewLimit = 3

// Results holds matches in source order. Both slices are non-nil.
type Results struct {
	Team     []cms.TeamMember
	Services []cms.Service
}

// Empty reports whether nothing matched.
func (r Results) Empty() bool { return len(r.Team) == 0 && len(r.Services) == 0 }

// Total counts every hit.
func (r Results) Total() int { return len(r.Team) + len(r.Services) }

// Preview is a truncated view of Results for the search panel.
type Preview struct {
	Team         []cms.TeamMember
	Services     []cms.Service
	MoreTeam     int
	MoreServices int
}

// Preview keeps the first limit hits of each group and counts the rest.
func (r Results) Preview(limit int) Preview {
	if limit < 0 {
		limit = 0
	}
	p := Preview{Team: r.Team, Services: r.Services}
	if len(p.Team) > limit {
		p.MoreTeam = len(p.Team) - limit
		p.Team = p.Team[:limit]
	}
	if len(p.Services) > limit {
		p.MoreServices = len(p.Services) - limit
		p.Services = p.Services[:limit]
	}
	return p
}

func emptyResults() Results {
	return Results{Team: []cms.TeamMember{}, Services: []cms.Service{}}
}

// Local matches query case-insensitively as a substring of a member's name or position, or a
// service's title. A blank query matches nothing.
func Local(query string, team []cms.TeamMember, services []cms.Service) Results {
	out := emptyResults()
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return out
	}
	for _, m := range team {
		if contains(m.Name, needle) || contains(m.Position, needle) {
			out.Team = append(out.Team, m)
		}
	}
	for _, s := range services {
		if contains(s.Title, needle) {
			out.Services = append(out.Services, s)
		}
	}
	return out
}

func contains(field, needle string) bool {
	return field != "" && strings.Contains(strings.ToLower(field), needle)
}

// Remote is the CMS-side search endpoint.
type Remote interface {
	Search(ctx context.Context, query string) (*cms.Envelope, error)
}

// Catalog supplies the team and services lists searched locally.
type Catalog interface {
	Team(ctx context.Context) cms.Resolution[cms.TeamMember]
	Services(ctx context.Context) cms.Resolution[cms.Service]
}

// Service asks the CMS search endpoint first and falls back to searching the resolved catalog.
type Service struct {
	remote  Remote
	catalog Catalog
	logger  *zap.Logger
}

// NewService constructs a Service. remote may be nil to always search locally.
func NewService(remote Remote, catalog Catalog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{remote: remote, catalog: catalog, logger: logger}
}

// Search never fails: every remote failure degrades to a local search.
func (s *Service) Search(ctx context.Context, query string) Results {
	query = strings.TrimSpace(query)
	if query == "" {
		return emptyResults()
	}
	if s.remote != nil {
		env, err := s.remote.Search(ctx, query)
		if env != nil {
			hits, decodeErr := cms.DecodeSearchHits(env)
			if decodeErr == nil {
				return Results{Team: hits.Team, Services: hits.Services}
			}
			err = decodeErr
		}
		s.logger.Debug("remote search unavailable, searching locally", zap.String("query", query), zap.Error(err))
	}
	if s.catalog == nil {
		return Local(query, cms.FallbackTeamMembers(), cms.FallbackServices())
	}
	team := s.catalog.Team(ctx)
	services := s.catalog.Services(ctx)
	return Local(query, team.Items, services.Items)
}
