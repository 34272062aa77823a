package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pantryport/backend/internal/domain"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 2
	searchPageSize    = 20
)

// Config holds catalog client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	// RatePerSecond caps outbound request rate; zero disables the limiter
	// burst beyond the default.
	RatePerSecond float64
}

// Client talks to the external product catalog over HTTP. It owns the
// timeout/retry policy for its own calls and normalizes raw payloads into
// domain.Product before anything else sees them.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxRetries  uint64
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

var _ domain.CatalogClient = (*Client)(nil)

// NewClient creates a catalog client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 10
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     cfg.BaseURL,
		maxRetries:  uint64(retries),
		rateLimiter: rate.NewLimiter(rate.Limit(rps), 5),
		logger:      logger,
	}
}

// Search returns candidate products for a free-text term. An empty result
// is not an error; transient failures are retried with exponential backoff
// and surface as domain.ErrCatalogUnavailable.
func (c *Client) Search(ctx context.Context, term string) ([]domain.Product, error) {
	params := url.Values{}
	params.Add("search_terms", term)
	params.Add("search_simple", "1")
	params.Add("action", "process")
	params.Add("json", "1")
	params.Add("page_size", fmt.Sprintf("%d", searchPageSize))

	reqURL := fmt.Sprintf("%s/cgi/search.pl?%s", c.baseURL, params.Encode())

	var raw rawSearchResponse
	if err := c.getJSON(ctx, reqURL, &raw); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(raw.Products))
	for _, rp := range raw.Products {
		p := mapProduct(rp)
		if p.Barcode == "" || p.Name == "" {
			continue
		}
		products = append(products, p)
	}

	c.logger.Debug().Str("term", term).Int("candidates", len(products)).Msg("catalog search")
	return products, nil
}

// GetByBarcode fetches a single product. Returns domain.ErrProductNotFound
// when the catalog has no record for the barcode.
func (c *Client) GetByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	reqURL := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, url.PathEscape(barcode))

	var raw rawProductResponse
	if err := c.getJSON(ctx, reqURL, &raw); err != nil {
		return nil, err
	}
	if raw.Status != 1 || raw.Product.Code == "" {
		return nil, domain.ErrProductNotFound
	}

	p := mapProduct(raw.Product)
	return &p, nil
}

// getJSON executes a GET with rate limiting, bounded retries and
// exponential backoff, decoding the body into out. Nothing is cached by
// callers unless this returns nil, so a timeout can never poison the cache.
func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	operation := func() error {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", "pantryport/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn().Err(err).Msg("catalog request failed")
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.Unmarshal(body, out); err != nil {
				return backoff.Permanent(fmt.Errorf("decoding catalog response: %w", err))
			}
			return nil
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(domain.ErrProductNotFound)
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			c.logger.Warn().Int("status", resp.StatusCode).Msg("catalog error, will retry")
			return fmt.Errorf("catalog status %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("catalog status %d", resp.StatusCode))
		}
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 2 * time.Second

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) ||
			errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return nil
}
