package cms

import (
	"context"
	"fmt"
	"strings"
)

// Services resolves the legal services catalog.
func (r *Resolver) Services(ctx context.Context) Resolution[Service] {
	return resolve(ctx, r, ResourceServices, buildService, FallbackServices)
}

// Service looks slug up in the resolved catalog. The match is exact; a miss returns ErrNotFound.
func (r *Resolver) Service(ctx context.Context, slug string) (Service, error) {
	res := r.Services(ctx)
	svc, ok := FindService(res.Items, slug)
	if !ok {
		return Service{}, fmt.Errorf("service %q: %w", slug, ErrNotFound)
	}
	return svc, nil
}

// FindService returns the service in catalog whose slug equals slug.
func FindService(catalog []Service, slug string) (Service, bool) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Service{}, false
	}
	for _, svc := range catalog {
		if svc.Slug == slug {
			return svc, true
		}
	}
	return Service{}, false
}

// GenericServiceContent is the body shown for a service with no content of its own.
func GenericServiceContent(title string) string {
	return fmt.Sprintf("Professional %s services and consultation.", strings.ToLower(strings.TrimSpace(title)))
}

func buildService(el element[serviceFields]) Service {
	return Service{
		ID:          el.ID,
		Title:       orDefault(el.Fields.Title, ""),
		Slug:        orDefault(el.Fields.Slug, ""),
		Description: orDefault(el.Fields.Description, ""),
		Content:     strings.TrimSpace(el.Fields.Content),
	}
}
