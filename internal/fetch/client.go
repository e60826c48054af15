package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

const (
	// DefaultTimeout bounds every request, connection to last body byte.
	DefaultTimeout = 5 * time.Second

	maxBodyBytes = 20 * 1024 * 1024

	breakerOpenTimeout = 30 * time.Second
)

var (
	// ErrCircuitOpen is returned while the breaker rejects requests.
	ErrCircuitOpen = errors.New("fetch: circuit open")

	// ErrBodyTooLarge is returned for bodies over the size limit.
	ErrBodyTooLarge = errors.New("fetch: response body too large")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch: %s returned status %d", e.URL, e.StatusCode)
}

// Options configures a Client.
type Options struct {
	Timeout time.Duration

	// BreakerFailures opens the circuit after this many consecutive failed
	// requests. Zero disables the breaker.
	BreakerFailures uint32

	Logger *slog.Logger
}

// Client performs single-attempt GET requests with a random browser
// identity per request.
type Client struct {
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker
	identity func() Identity
	logger   *slog.Logger
	maxBody  int64
}

// New creates a Client.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Client{
		http:     &http.Client{Timeout: opts.Timeout},
		identity: RandomIdentity,
		logger:   opts.Logger.With("component", "fetch"),
		maxBody:  maxBodyBytes,
	}

	if opts.BreakerFailures > 0 {
		threshold := opts.BreakerFailures
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "youdao",
			Timeout: breakerOpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				c.logger.Warn("circuit breaker state change",
					"name", name, "from", from.String(), "to", to.String())
			},
		})
	}

	return c
}

// Get fetches url and returns the body of a 2xx response. Any other status
// is a *StatusError; timeouts surface as transport errors.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if c.breaker == nil {
		return c.get(ctx, url)
	}

	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.get(ctx, url)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s", ErrCircuitOpen, url)
	}
	if err != nil {
		return nil, err
	}
	return body.([]byte), nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: create request: %w", err)
	}

	id := c.identity()
	req.Header.Set("User-Agent", id.UserAgent)
	req.Header.Set("Accept-Language", id.AcceptLanguage)
	req.Header.Set("Accept", "text/html,application/json;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "request failed", "url", url, "error", err)
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "response",
		"url", url,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, url, c.maxBody)
	}
	return body, nil
}
