package services

import (
	"context"

	"github.com/nulzo/formatapi/internal/extract"
	"github.com/nulzo/formatapi/internal/registry"
	"github.com/nulzo/formatapi/pkg/schema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrentThreshold is the input size in bytes from which the URL
// and credential passes run on separate goroutines.
const DefaultConcurrentThreshold = 64 << 10

// ParserService turns pasted text into a ParseResult. It is stateless and
// never fails: text without matches yields empty candidate lists.
type ParserService struct {
	extractor *extract.Extractor
	threshold int
	tracer    trace.Tracer
}

type ParserOption func(*ParserService)

// WithConcurrentThreshold sets the input size at which both passes run
// concurrently. Zero or less disables concurrency.
func WithConcurrentThreshold(n int) ParserOption {
	return func(s *ParserService) {
		s.threshold = n
	}
}

func NewParserService(opts ...ParserOption) *ParserService {
	s := &ParserService{
		extractor: extract.New(),
		threshold: DefaultConcurrentThreshold,
		tracer:    otel.Tracer("github.com/nulzo/formatapi/parser"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Parse extracts and ranks candidates from text and selects the top URL and
// key. The vendor is classified from the selected URL.
func (s *ParserService) Parse(text string) schema.ParseResult {
	return s.ParseContext(context.Background(), text)
}

// ParseContext is Parse with a tracing span attached to ctx.
func (s *ParserService) ParseContext(ctx context.Context, text string) schema.ParseResult {
	_, span := s.tracer.Start(ctx, "parser.Parse", trace.WithAttributes(
		attribute.Int("input.bytes", len(text)),
	))
	defer span.End()

	urls, keys := s.scan(text)

	result := schema.ParseResult{
		Vendor:        registry.GenericVendor,
		URLCandidates: urls,
		KeyCandidates: keys,
	}
	if len(urls) > 0 {
		result = withURL(result, urls[0].Value)
	}
	if len(keys) > 0 {
		key := keys[0].Value
		result.APIKey = &key
	}

	span.SetAttributes(
		attribute.Int("candidates.url", len(urls)),
		attribute.Int("candidates.key", len(keys)),
		attribute.String("vendor", result.Vendor),
	)
	return result
}

// Select overrides the selections in r with caller-chosen values, typically
// picked by a user from the candidate lists. Empty arguments leave the
// current selection untouched. The vendor is re-derived from the base URL.
func (s *ParserService) Select(r schema.ParseResult, baseURL, apiKey string) schema.ParseResult {
	if baseURL != "" {
		r = withURL(r, baseURL)
	}
	if apiKey != "" {
		r.APIKey = &apiKey
	}
	return r
}

func (s *ParserService) scan(text string) (urls, keys []schema.Candidate) {
	if s.threshold <= 0 || len(text) < s.threshold {
		return s.extractor.FindURLs(text), s.extractor.FindKeys(text)
	}

	// Neither pass can fail; the group is only used to join them.
	var g errgroup.Group
	g.Go(func() error {
		urls = s.extractor.FindURLs(text)
		return nil
	})
	g.Go(func() error {
		keys = s.extractor.FindKeys(text)
		return nil
	})
	_ = g.Wait()
	return urls, keys
}

func withURL(r schema.ParseResult, url string) schema.ParseResult {
	r.BaseURL = &url
	r.Vendor = registry.Detect(url)
	return r
}
