package scorefeed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
	"github.com/riskibarqy/esoccer-watchdog/internal/platform/logging"
	"github.com/riskibarqy/esoccer-watchdog/internal/platform/resilience"
	"github.com/riskibarqy/esoccer-watchdog/internal/usecase"
	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout      = 15 * time.Second
	defaultMaxBodyBytes = 6 << 20
	defaultRetryBackoff = time.Second
	defaultSportMarker  = "esoccer"
)

var errFeedTransient = crerr.New("score feed transient failure")

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	MaxBodyBytes   int
	SportMarker    string
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches feed URLs and extracts match records from them.
type Client struct {
	httpClient   *fasthttp.Client
	timeout      time.Duration
	maxRetries   int
	retryBackoff time.Duration
	sportMarker  string
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	validate     *validator.Validate
	now          func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "esoccer-watchdog",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxBodyBytes,
		}
	}
	retryBackoff := cfg.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = defaultRetryBackoff
	}
	sportMarker := strings.TrimSpace(cfg.SportMarker)
	if sportMarker == "" {
		sportMarker = defaultSportMarker
	}

	return &Client{
		httpClient:   httpClient,
		timeout:      timeout,
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: retryBackoff,
		sportMarker:  sportMarker,
		logger:       logger,
		breaker:      resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		validate:     validator.New(),
		now:          time.Now,
	}
}

// Extract fetches one feed URL. Transport failures are returned as errors;
// a payload that cannot be decoded yields no records and no error.
func (c *Client) Extract(ctx context.Context, url string) ([]match.Record, error) {
	raw, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	var payload feedPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		c.logger.DebugContext(ctx, "skip malformed feed payload", "url", url, "error", err)
		return nil, nil
	}

	records, skipped := extractRecords(payload, c.sportMarker, c.now().UTC(), c.validate)
	if skipped > 0 {
		c.logger.DebugContext(ctx, "skipped feed events without usable description", "url", url, "skipped", skipped)
	}
	return records, nil
}

// BreakerStats reports the feed circuit breaker state.
func (c *Client) BreakerStats() resilience.BreakerStats {
	return c.breaker.Stats()
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	var raw []byte
	err := c.breaker.Execute(func() error {
		body, reqErr := c.executeRequest(ctx, url)
		raw = body
		return reqErr
	}, isFeedCircuitFailure)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "score feed circuit breaker rejected request", "url", url, "state", c.breaker.State())
		return nil, fmt.Errorf("%w: score feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	return raw, err
}

func (c *Client) executeRequest(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, status, err := c.do(ctx, url)
		switch {
		case err != nil:
			lastErr = crerr.Mark(crerr.Wrap(err, "send request"), errFeedTransient)
		case status >= 200 && status < 300:
			return raw, nil
		case isRetryableStatus(status):
			lastErr = crerr.Wrapf(errFeedTransient, "feed status=%d body=%s", status, abbreviateBody(raw))
		default:
			return nil, fmt.Errorf("feed status=%d body=%s", status, abbreviateBody(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, lastErr
}

func (c *Client) do(ctx context.Context, url string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return nil, 0, err
	}

	body := append([]byte(nil), resp.Body()...)
	return body, resp.StatusCode(), nil
}

func isFeedCircuitFailure(err error) bool {
	return crerr.Is(err, errFeedTransient)
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status >= 500
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 256 {
		return body[:256] + "..."
	}
	return body
}
