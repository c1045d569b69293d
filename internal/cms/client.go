package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	defaultTimeout  = 8 * time.Second
	defaultAttempts = 1
	retryDelay      = 200 * time.Millisecond
	apiPrefix       = "/api"
)

// Resource names a CMS collection endpoint.
type Resource string

const (
	ResourceHeroSlides   Resource = "hero-slides"
	ResourceTeamMembers  Resource = "team-members"
	ResourceServices     Resource = "legal-services"
	ResourceTestimonials Resource = "client-testimonials"
	ResourceSubscribers  Resource = "subscribers"
	ResourceSearch       Resource = "search"
)

func (r Resource) path() string { return "/" + string(r) }

var (
	// ErrNotConfigured is returned by every client call when no CMS base URL is set.
	ErrNotConfigured = errors.New("cms: base url not configured")
	// ErrNotFound is returned when a content item cannot be located.
	ErrNotFound = errors.New("cms: not found")
)

// TransportError reports a network level failure talking to the CMS.
type TransportError struct {
	Resource Resource
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cms: %s transport: %v", e.Resource, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx CMS response.
type StatusError struct {
	Resource   Resource
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("cms: %s status %d", e.Resource, e.StatusCode)
	}
	return fmt.Sprintf("cms: %s status %d: %s", e.Resource, e.StatusCode, e.Body)
}

// DecodeError reports a payload that could not be parsed into the expected shape.
type DecodeError struct {
	Resource Resource
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cms: decode %s: %v", e.Resource, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Envelope is the `{ "data": ... }` wrapper every CMS response uses. Data is left raw;
// interpreting its shape is the caller's job.
type Envelope struct {
	Data json.RawMessage `json:"data"`
}

// Fetcher retrieves a named collection from the CMS. A nil envelope is the absence signal;
// the accompanying error only explains why.
type Fetcher interface {
	Fetch(ctx context.Context, resource Resource) (*Envelope, error)
}

// Client issues GET/POST calls against the CMS REST API.
type Client struct {
	baseURL    string
	http       *resty.Client
	httpClient *http.Client
	timeout    time.Duration
	attempts   uint
	logger     *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying *http.Client (tests pass httptest clients here).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every request. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithAttempts sets how many times a request is tried. 1 disables retries.
func WithAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.attempts = uint(n)
		}
	}
}

// WithLogger sets the logger used for failure diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

var tracer = otel.Tracer("github.com/alsafar-partners/legal-web/internal/cms")

// NewClient constructs a Client. When baseURL is empty the client never touches the network
// and every call reports ErrNotConfigured, which resolvers turn into fallback content.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		timeout:  defaultTimeout,
		attempts: defaultAttempts,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient != nil {
		c.http = resty.NewWithClient(c.httpClient)
	} else {
		c.http = resty.New()
	}
	c.http.
		SetBaseURL(c.baseURL+apiPrefix).
		SetTimeout(c.timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	return c
}

// Configured reports whether a CMS base URL is set.
func (c *Client) Configured() bool { return c != nil && c.baseURL != "" }

// Fetch implements Fetcher for the collection resources.
func (c *Client) Fetch(ctx context.Context, resource Resource) (*Envelope, error) {
	return c.get(ctx, resource, map[string]string{"populate": "*"})
}

// HeroSlides retrieves the hero carousel collection.
func (c *Client) HeroSlides(ctx context.Context) (*Envelope, error) {
	return c.Fetch(ctx, ResourceHeroSlides)
}

// TeamMembers retrieves the team collection.
func (c *Client) TeamMembers(ctx context.Context) (*Envelope, error) {
	return c.Fetch(ctx, ResourceTeamMembers)
}

// Services retrieves the legal services collection.
func (c *Client) Services(ctx context.Context) (*Envelope, error) {
	return c.Fetch(ctx, ResourceServices)
}

// Testimonials retrieves the client testimonials collection.
func (c *Client) Testimonials(ctx context.Context) (*Envelope, error) {
	return c.Fetch(ctx, ResourceTestimonials)
}

// Search runs the CMS-side search for query.
func (c *Client) Search(ctx context.Context, query string) (*Envelope, error) {
	return c.get(ctx, ResourceSearch, map[string]string{"q": query})
}

// Subscribe creates a newsletter subscriber record.
func (c *Client) Subscribe(ctx context.Context, email string) (*Envelope, error) {
	body := map[string]any{"data": map[string]string{"email": email}}
	return c.do(ctx, http.MethodPost, ResourceSubscribers, nil, body)
}

func (c *Client) get(ctx context.Context, resource Resource, params map[string]string) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, resource, params, nil)
}

func (c *Client) do(ctx context.Context, method string, resource Resource, params map[string]string, body any) (*Envelope, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := tracer.Start(ctx, "cms "+method+" "+string(resource),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("cms.resource", string(resource))),
	)
	defer span.End()

	var payload []byte
	err := retry.Do(
		func() error {
			req := c.http.R().
				SetContext(ctx).
				SetHeader("Cache-Control", "no-cache, no-store").
				SetHeader("Pragma", "no-cache")
			if len(params) > 0 {
				req.SetQueryParams(params)
			}
			if body != nil {
				req.SetBody(body)
			}
			resp, err := req.Execute(method, resource.path())
			if err != nil {
				return &TransportError{Resource: resource, Err: err}
			}
			span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
			if !resp.IsSuccess() {
				return &StatusError{Resource: resource, StatusCode: resp.StatusCode(), Body: snippet(resp.Body())}
			}
			payload = resp.Body()
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
	)
	if err != nil {
		err = classify(resource, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug("cms request failed", zap.String("resource", string(resource)), zap.String("method", method), zap.Error(err))
		return nil, err
	}

	env, err := decodeEnvelope(resource, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug("cms payload rejected", zap.String("resource", string(resource)), zap.Error(err))
		return nil, err
	}
	return env, nil
}

func decodeEnvelope(resource Resource, payload []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, &DecodeError{Resource: resource, Err: err}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, &DecodeError{Resource: resource, Err: errors.New("missing data")}
	}
	return &env, nil
}

// retryable limits retries to transport failures and 5xx responses.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= http.StatusInternalServerError
	}
	return true
}

func classify(resource Resource, err error) error {
	var te *TransportError
	var se *StatusError
	if errors.As(err, &te) || errors.As(err, &se) {
		return err
	}
	return &TransportError{Resource: resource, Err: err}
}

func snippet(b []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		s = s[:limit]
	}
	return s
}
