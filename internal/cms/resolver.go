package cms

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.uber.org/zap"
)

// Source tags where a Resolution's items came from.
type Source int

const (
	// SourceRemote means the items were decoded from a CMS response.
	SourceRemote Source = iota
	// SourceEmpty means the CMS answered with no items; Items holds the fallback dataset.
	SourceEmpty
	// SourceFailed means the CMS could not be used; Items holds the fallback dataset and Cause says why.
	SourceFailed
)

func (s Source) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourceEmpty:
		return "empty"
	case SourceFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of resolving one content type. Items is never mixed: it holds
// either every remote item or the whole fallback dataset.
type Resolution[T any] struct {
	Items  []T
	Source Source
	Cause  error
}

// Fallback reports whether Items came from the static catalog.
func (r Resolution[T]) Fallback() bool { return r.Source != SourceRemote }

// Translator looks up a localized string. Unknown keys come back unchanged.
type Translator interface {
	T(lang, key string) string
}

var errAbsent = errors.New("cms: no content returned")

// Resolver turns CMS collections into canonical content, falling back to the static catalog on
// any failure or empty answer. It never returns an error for collection content.
type Resolver struct {
	fetcher Fetcher
	strings Translator
	logger  *zap.Logger
	metrics *Metrics
	cache   *cache
}

// ResolverOption customises a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger that records every resolution outcome.
func WithResolverLogger(l *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics counts resolution outcomes.
func WithMetrics(m *Metrics) ResolverOption {
	return func(r *Resolver) { r.metrics = m }
}

// WithCacheTTL enables a per-type cache with in-flight coalescing. Zero disables it.
func WithCacheTTL(ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		if ttl > 0 {
			r.cache = newCache(ttl)
		} else {
			r.cache = nil
		}
	}
}

// NewResolver builds a Resolver. A nil fetcher behaves like an unconfigured CMS.
func NewResolver(fetcher Fetcher, strings Translator, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		fetcher: fetcher,
		strings: strings,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// resolve runs the fetch, decode and fallback decision for one content type.
func resolve[F mergeable[F], T any](ctx context.Context, r *Resolver, resource Resource, build func(element[F]) T, fallback func() []T) Resolution[T] {
	load := func(ctx context.Context) Resolution[T] {
		return fetchCollection(ctx, r.fetcher, resource, build, fallback)
	}
	var res Resolution[T]
	if r.cache != nil {
		res = cached(ctx, r.cache, resource, load)
	} else {
		res = load(ctx)
	}
	r.observe(resource, res.Source, res.Cause)
	res.Items = slices.Clone(res.Items)
	return res
}

func fetchCollection[F mergeable[F], T any](ctx context.Context, fetcher Fetcher, resource Resource, build func(element[F]) T, fallback func() []T) Resolution[T] {
	failed := func(cause error) Resolution[T] {
		return Resolution[T]{Items: fallback(), Source: SourceFailed, Cause: cause}
	}
	if fetcher == nil {
		return failed(ErrNotConfigured)
	}
	env, err := fetcher.Fetch(ctx, resource)
	if env == nil {
		if err == nil {
			err = errAbsent
		}
		return failed(err)
	}
	raw, err := splitCollection(resource, env.Data)
	if err != nil {
		return failed(err)
	}
	if len(raw) == 0 {
		return Resolution[T]{Items: fallback(), Source: SourceEmpty}
	}
	elements, err := decodeElements[F](resource, raw)
	if err != nil {
		return failed(err)
	}
	items := make([]T, 0, len(elements))
	for _, el := range elements {
		items = append(items, build(el))
	}
	return Resolution[T]{Items: items, Source: SourceRemote}
}

func (r *Resolver) observe(resource Resource, source Source, cause error) {
	r.metrics.observe(resource, source)
	fields := []zap.Field{
		zap.String("content_type", string(resource)),
		zap.Stringer("source", source),
	}
	switch source {
	case SourceFailed:
		if errors.Is(cause, ErrNotConfigured) {
			r.logger.Debug("content served from fallback catalog", append(fields, zap.Error(cause))...)
			return
		}
		r.logger.Warn("content resolution failed, serving fallback", append(fields, zap.Error(cause))...)
	case SourceEmpty:
		r.logger.Info("cms returned no content, serving fallback", fields...)
	default:
		r.logger.Debug("content resolved", fields...)
	}
}

func (r *Resolver) translate(lang, key string) string {
	if r.strings == nil {
		return key
	}
	return r.strings.T(lang, key)
}
