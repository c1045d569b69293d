package cms_test

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/alsafar-partners/legal-web/internal/cms"
)

type stubFetcher struct {
	mu       sync.Mutex
	payloads map[cms.Resource]string
	err      error
	calls    atomic.Int32
}

func (s *stubFetcher) Fetch(_ context.Context, resource cms.Resource) (*cms.Envelope, error) {
	s.calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	body, ok := s.payloads[resource]
	if !ok {
		return nil, &cms.StatusError{Resource: resource, StatusCode: 404}
	}
	var env cms.Envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return nil, &cms.DecodeError{Resource: resource, Err: err}
	}
	return &env, nil
}

func (s *stubFetcher) set(resource cms.Resource, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.payloads == nil {
		s.payloads = map[cms.Resource]string{}
	}
	s.payloads[resource] = body
}

type stubStrings map[string]map[string]string

func (s stubStrings) T(lang, key string) string {
	if v, ok := s[lang][key]; ok {
		return v
	}
	return key
}

var testStrings = stubStrings{
	"en": {"hero.title1": "Professional Legal Excellence", "hero.description1": "Leading legal consultation services", "hero.title2": "Expert Legal Consultation"},
	"ar": {"hero.title1": "التميز القانوني المهني", "hero.title2": "استشارات قانونية متخصصة"},
}

func TestResolverFailureServesFallback(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	r := cms.NewResolver(&stubFetcher{err: boom}, testStrings)

	team := r.Team(context.Background())
	require.Equal(t, cms.SourceFailed, team.Source)
	require.ErrorIs(t, team.Cause, boom)
	require.True(t, team.Fallback())
	require.Equal(t, cms.FallbackTeamMembers(), team.Items)

	services := r.Services(context.Background())
	require.Equal(t, cms.SourceFailed, services.Source)
	require.Len(t, services.Items, 8)
}

func TestResolverEmptyDataServesFallback(t *testing.T) {
	t.Parallel()

	f := &stubFetcher{}
	f.set(cms.ResourceTestimonials, `{"data":[]}`)
	r := cms.NewResolver(f, testStrings)

	res := r.Testimonials(context.Background())
	require.Equal(t, cms.SourceEmpty, res.Source)
	require.NoError(t, res.Cause)
	require.Equal(t, cms.FallbackTestimonials(), res.Items)

	// Empty and failed produce the same items at the presentation boundary.
	failed := cms.NewResolver(&stubFetcher{err: errors.New("down")}, testStrings).Testimonials(context.Background())
	require.Equal(t, failed.Items, res.Items)
}

func TestResolverNilFetcherBehavesUnconfigured(t *testing.T) {
	t.Parallel()

	res := cms.NewResolver(nil, nil).Services(context.Background())
	require.Equal(t, cms.SourceFailed, res.Source)
	require.ErrorIs(t, res.Cause, cms.ErrNotConfigured)
	require.Equal(t, slugs(cms.FallbackServices()), slugs(res.Items))
}

func TestResolverNestedAndFlatDecodeAlike(t *testing.T) {
	t.Parallel()

	nested := &stubFetcher{}
	nested.set(cms.ResourceTeamMembers, `{"data":[{"id":4,"attributes":{"name":"Layla Noor","position":"Partner","imageUrl":"https://cdn.example.com/layla.jpg","socials":{"email":"mailto:layla@example.com"}}}]}`)
	flat := &stubFetcher{}
	flat.set(cms.ResourceTeamMembers, `{"data":[{"id":4,"name":"Layla Noor","position":"Partner","imageUrl":"https://cdn.example.com/layla.jpg","socials":{"email":"mailto:layla@example.com"}}]}`)

	a := cms.NewResolver(nested, nil).Team(context.Background())
	b := cms.NewResolver(flat, nil).Team(context.Background())
	require.Equal(t, cms.SourceRemote, a.Source)
	require.Equal(t, cms.SourceRemote, b.Source)
	require.Equal(t, a.Items, b.Items)
	require.Equal(t, cms.TeamMember{
		ID:       4,
		Name:     "Layla Noor",
		Position: "Partner",
		Image:    "https://cdn.example.com/layla.jpg",
		Socials:  cms.Socials{Email: "mailto:layla@example.com"},
	}, a.Items[0])
}

type resolvedView struct {
	source   cms.Source
	cause    error
	items    any
	fallback any
}

func localizedHero(lang string) []cms.HeroSlide {
	slides := cms.FallbackHeroSlides()
	for i := range slides {
		id := strconv.Itoa(slides[i].ID)
		slides[i].Title = testStrings.T(lang, "hero.title"+id)
		slides[i].Description = testStrings.T(lang, "hero.description"+id)
	}
	return slides
}

func TestResolverContentTypesShareFallbackRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		resource cms.Resource
		nested   string
		flat     string
		resolve  func(*cms.Resolver) resolvedView
	}{
		{
			name:     "hero",
			resource: cms.ResourceHeroSlides,
			nested:   `{"data":[{"id":5,"attributes":{"backgroundImageUrl":"https://cdn.example.com/bg.jpg","profileImageUrl":"https://cdn.example.com/p.jpg"}}]}`,
			flat:     `{"data":[{"id":5,"backgroundImageUrl":"https://cdn.example.com/bg.jpg","profileImageUrl":"https://cdn.example.com/p.jpg"}]}`,
			resolve: func(r *cms.Resolver) resolvedView {
				res := r.Hero(context.Background(), "en")
				return resolvedView{res.Source, res.Cause, res.Items, localizedHero("en")}
			},
		},
		{
			name:     "team",
			resource: cms.ResourceTeamMembers,
			nested:   `{"data":[{"id":4,"attributes":{"name":"Layla Noor","position":"Partner","socials":{"phone":"tel:+971"}}}]}`,
			flat:     `{"data":[{"id":4,"name":"Layla Noor","position":"Partner","socials":{"phone":"tel:+971"}}]}`,
			resolve: func(r *cms.Resolver) resolvedView {
				res := r.Team(context.Background())
				return resolvedView{res.Source, res.Cause, res.Items, cms.FallbackTeamMembers()}
			},
		},
		{
			name:     "services",
			resource: cms.ResourceServices,
			nested:   `{"data":[{"id":1,"attributes":{"title":"Arbitration","slug":"arbitration","description":"Disputes","content":"Body"}}]}`,
			flat:     `{"data":[{"id":1,"title":"Arbitration","slug":"arbitration","description":"Disputes","content":"Body"}]}`,
			resolve: func(r *cms.Resolver) resolvedView {
				res := r.Services(context.Background())
				return resolvedView{res.Source, res.Cause, res.Items, cms.FallbackServices()}
			},
		},
		{
			name:     "testimonials",
			resource: cms.ResourceTestimonials,
			nested:   `{"data":[{"id":3,"attributes":{"text":"Great","author":"Ali","position":"CFO","company":"Acme","imageUrl":"https://cdn.example.com/ali.jpg"}}]}`,
			flat:     `{"data":[{"id":3,"text":"Great","author":"Ali","position":"CFO","company":"Acme","imageUrl":"https://cdn.example.com/ali.jpg"}]}`,
			resolve: func(r *cms.Resolver) resolvedView {
				res := r.Testimonials(context.Background())
				return resolvedView{res.Source, res.Cause, res.Items, cms.FallbackTestimonials()}
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			empty := &stubFetcher{}
			empty.set(tc.resource, `{"data":[]}`)
			got := tc.resolve(cms.NewResolver(empty, testStrings))
			require.Equal(t, cms.SourceEmpty, got.source)
			require.NoError(t, got.cause)
			require.Equal(t, got.fallback, got.items)

			boom := errors.New("upstream down")
			got = tc.resolve(cms.NewResolver(&stubFetcher{err: boom}, testStrings))
			require.Equal(t, cms.SourceFailed, got.source)
			require.ErrorIs(t, got.cause, boom)
			require.Equal(t, got.fallback, got.items)

			nested := &stubFetcher{}
			nested.set(tc.resource, tc.nested)
			flat := &stubFetcher{}
			flat.set(tc.resource, tc.flat)
			a := tc.resolve(cms.NewResolver(nested, testStrings))
			b := tc.resolve(cms.NewResolver(flat, testStrings))
			require.Equal(t, cms.SourceRemote, a.source)
			require.Equal(t, cms.SourceRemote, b.source)
			require.Equal(t, a.items, b.items)
			require.NotEqual(t, a.fallback, a.items)
		})
	}
}

func TestResolverNestedFieldsTakePrecedence(t *testing.T) {
	t.Parallel()

	f := &stubFetcher{}
	f.set(cms.ResourceServices, `{"data":[{"id":"12","title":"Flat Title","slug":"flat","description":"only flat","attributes":{"title":"Nested Title","slug":"nested"}}]}`)

	res := cms.NewResolver(f, nil).Services(context.Background())
	require.Equal(t, cms.SourceRemote, res.Source)
	require.Equal(t, []cms.Service{{ID: 12, Title: "Nested Title", Slug: "nested", Description: "only flat"}}, res.Items)
}

func TestResolverAppliesDefaults(t *testing.T) {
	t.Parallel()

	f := &stubFetcher{}
	f.set(cms.ResourceHeroSlides, `{"data":[{"attributes":{}},{"attributes":{"backgroundVideoUrl":"/videos/a.mp4","backgroundImageUrl":"/img/ignored.jpg"}},{"id":9}]}`)
	f.set(cms.ResourceTestimonials, `{"data":[{"id":3,"text":"Great","author":"Ali"}]}`)

	r := cms.NewResolver(f, testStrings)
	hero := r.Hero(context.Background(), "en")
	require.Equal(t, cms.SourceRemote, hero.Source)
	require.Len(t, hero.Items, 3)

	fallback := cms.FallbackHeroSlides()
	first := hero.Items[0]
	require.Equal(t, 1, first.ID)
	kind, ref := first.Background()
	require.Equal(t, cms.BackgroundImage, kind)
	require.Contains(t, ref, "photo-1449824913935-59a10b8d2000")
	require.Equal(t, fallback[0].ProfileImage, first.ProfileImage)

	second := hero.Items[1]
	require.Equal(t, 2, second.ID)
	kind, ref = second.Background()
	require.Equal(t, cms.BackgroundVideo, kind)
	require.Equal(t, "/videos/a.mp4", ref)
	require.Empty(t, second.BackgroundImage)
	require.Equal(t, fallback[1].ProfileImage, second.ProfileImage)

	require.Equal(t, 9, hero.Items[2].ID)
	require.Equal(t, fallback[2].BackgroundImage, hero.Items[2].BackgroundImage)

	testimonials := r.Testimonials(context.Background())
	require.Equal(t, cms.FallbackTestimonials()[0].Image, testimonials.Items[0].Image)
	require.Equal(t, 3, testimonials.Items[0].ID)
}

func TestResolverHeroStringsFollowLanguage(t *testing.T) {
	t.Parallel()

	r := cms.NewResolver(nil, testStrings, cms.WithCacheTTL(time.Minute))

	en := r.Hero(context.Background(), "en")
	require.Equal(t, "Professional Legal Excellence", en.Items[0].Title)
	require.Equal(t, "Leading legal consultation services", en.Items[0].Description)
	require.Equal(t, "/videos/office.mp4", en.Items[0].BackgroundVideo)

	ar := r.Hero(context.Background(), "ar")
	require.Equal(t, "التميز القانوني المهني", ar.Items[0].Title)
	require.Equal(t, "استشارات قانونية متخصصة", ar.Items[1].Title)

	// Keys without a translation come back as the key itself.
	require.Equal(t, "hero.title3", ar.Items[2].Title)
}

func TestResolverDecodeFailureServesFallback(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"object instead of array": `{"data":{"id":1}}`,
		"element not an object":   `{"data":[1,2]}`,
		"both schemas broken":     `{"data":[{"attributes":{"name":7},"name":8}]}`,
		"null element":            `{"data":[null]}`,
		"null among valid":        `{"data":[{"id":2,"name":"Rana Aziz"},null]}`,
	}
	for name, body := range cases {
		name, body := name, body
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			f := &stubFetcher{}
			f.set(cms.ResourceTeamMembers, body)

			res := cms.NewResolver(f, nil).Team(context.Background())
			require.Equal(t, cms.SourceFailed, res.Source)
			var de *cms.DecodeError
			require.ErrorAs(t, res.Cause, &de)
			require.Equal(t, cms.FallbackTeamMembers(), res.Items)
		})
	}
}

func TestResolverOneBrokenSchemaStillDecodes(t *testing.T) {
	t.Parallel()

	f := &stubFetcher{}
	f.set(cms.ResourceTeamMembers, `{"data":[{"attributes":{"name":"Omar Idris"},"name":42}]}`)

	res := cms.NewResolver(f, nil).Team(context.Background())
	require.Equal(t, cms.SourceRemote, res.Source)
	require.Equal(t, "Omar Idris", res.Items[0].Name)
}

func TestResolverIsDeterministic(t *testing.T) {
	t.Parallel()

	f := &stubFetcher{}
	f.set(cms.ResourceServices, `{"data":[{"id":1,"attributes":{"title":"Arbitration","slug":"arbitration"}},{"id":2,"title":"Tax","slug":"tax"}]}`)
	r := cms.NewResolver(f, nil)

	first := r.Services(context.Background())
	second := r.Services(context.Background())
	require.Equal(t, first, second)
	require.Equal(t, int32(2), f.calls.Load())
}

func TestResolverCallersCannotMutateCatalog(t *testing.T) {
	t.Parallel()

	r := cms.NewResolver(nil, nil)
	res := r.Team(context.Background())
	res.Items[0].Name = "changed"

	again := r.Team(context.Background())
	require.Equal(t, "Ahmed Al-Rashid", again.Items[0].Name)
	require.Equal(t, "Ahmed Al-Rashid", cms.FallbackTeamMembers()[0].Name)
}

func TestResolverServiceLookup(t *testing.T) {
	t.Parallel()

	r := cms.NewResolver(nil, nil)

	svc, err := r.Service(context.Background(), "legal-consultation")
	require.NoError(t, err)
	require.Equal(t, "Legal Consultation Services", svc.Title)
	require.Contains(t, svc.Content, "Family issues such as divorce, alimony, and custody")

	_, err = r.Service(context.Background(), "not-a-real-slug")
	require.ErrorIs(t, err, cms.ErrNotFound)

	_, err = r.Service(context.Background(), "Legal-Consultation")
	require.ErrorIs(t, err, cms.ErrNotFound)
}

func TestResolverServiceLookupUsesRemoteCatalog(t *testing.T) {
	t.Parallel()

	f := &stubFetcher{}
	f.set(cms.ResourceServices, `{"data":[{"id":1,"attributes":{"title":"Arbitration","slug":"arbitration"}}]}`)
	r := cms.NewResolver(f, nil)

	svc, err := r.Service(context.Background(), "arbitration")
	require.NoError(t, err)
	require.Equal(t, "Arbitration", svc.Title)

	_, err = r.Service(context.Background(), "contracts")
	require.ErrorIs(t, err, cms.ErrNotFound)
}

func TestResolverCacheCoalescesAndSkipsFailures(t *testing.T) {
	t.Parallel()

	f := &stubFetcher{}
	f.set(cms.ResourceServices, `{"data":[{"id":1,"title":"Arbitration","slug":"arbitration"}]}`)
	r := cms.NewResolver(f, nil, cms.WithCacheTTL(time.Minute))

	sources := make([]cms.Source, 8)
	var wg sync.WaitGroup
	for i := range sources {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			sources[i] = r.Services(context.Background()).Source
		}()
	}
	wg.Wait()
	for _, src := range sources {
		require.Equal(t, cms.SourceRemote, src)
	}
	require.Equal(t, int32(1), f.calls.Load())

	// Failures are not cached.
	r.Team(context.Background())
	r.Team(context.Background())
	require.Equal(t, int32(3), f.calls.Load())
}

func TestResolverCountsOutcomes(t *testing.T) {
	t.Parallel()

	f := &stubFetcher{}
	f.set(cms.ResourceServices, `{"data":[]}`)
	metrics := cms.NewMetrics()
	r := cms.NewResolver(f, nil, cms.WithMetrics(metrics))

	r.Services(context.Background())
	r.Team(context.Background())
	r.Team(context.Background())

	require.Equal(t, 2, testutil.CollectAndCount(metrics, "legalweb_content_resolutions_total"))
}

func TestSourceString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "remote", cms.SourceRemote.String())
	require.Equal(t, "empty", cms.SourceEmpty.String())
	require.Equal(t, "failed", cms.SourceFailed.String())
}

func slugs(services []cms.Service) []string {
	out := make([]string, 0, len(services))
	for _, s := range services {
		out = append(out, s.Slug)
	}
	return out
}
