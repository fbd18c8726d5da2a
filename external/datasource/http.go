// Package datasource fetches raw JSON documents over HTTP or from disk.
package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/foot-stats-coach/internal/platform/logging"
	"github.com/riskibarqy/foot-stats-coach/internal/platform/resilience"
	"github.com/riskibarqy/foot-stats-coach/internal/usecase"
)

const (
	defaultTimeout  = 20 * time.Second
	defaultMaxBytes = 64 << 20
	defaultBackoff  = time.Second
)

var (
	errSourceTransient = crerr.New("source transient failure")
	errSourceTooLarge  = crerr.New("source document too large")
)

type HTTPConfig struct {
	HTTPClient     *http.Client
	URL            string
	Name           string
	Timeout        time.Duration
	MaxRetries     int
	MaxBytes       int64
	Backoff        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// HTTPSource downloads one JSON document. Transient failures (network errors,
// 429 and 5xx) are retried with linear backoff and count towards the circuit
// breaker; other statuses fail immediately.
type HTTPSource struct {
	httpClient *http.Client
	url        string
	name       string
	maxRetries int
	maxBytes   int64
	backoff    time.Duration
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
}

func NewHTTPSource(cfg HTTPConfig) (*HTTPSource, error) {
	rawURL := strings.TrimSpace(cfg.URL)
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: source url must be absolute http(s), got %q", usecase.ErrInvalidInput, rawURL)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	// Shared clients are copied so the timeout default stays local to this source.
	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		clone := *cfg.HTTPClient
		httpClient = &clone
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = cfg.Timeout
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = parsed.Redacted()
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}

	source := &HTTPSource{
		httpClient: httpClient,
		url:        rawURL,
		name:       name,
		maxRetries: max(cfg.MaxRetries, 0),
		maxBytes:   maxBytes,
		backoff:    backoff,
		logger:     logger,
		breaker:    resilience.NewCircuitBreaker(cfg.CircuitBreaker),
	}
	source.breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("source circuit breaker changed state", "source", name, "from", string(from), "to", string(to))
	})
	return source, nil
}

func (s *HTTPSource) Name() string {
	return s.name
}

// Key is the full request URL.
func (s *HTTPSource) Key() string {
	return s.url
}

// Fetch downloads and decodes the document into generic JSON values.
func (s *HTTPSource) Fetch(ctx context.Context) (any, error) {
	if err := s.breaker.Allow(); err != nil {
		s.logger.WarnContext(ctx, "source circuit breaker rejected request", "source", s.name, "state", string(s.breaker.State()))
		return nil, fmt.Errorf("%w: %s is temporarily unavailable", usecase.ErrDependencyUnavailable, s.name)
	}

	raw, err := s.executeRequest(ctx)
	if err != nil && isCircuitFailure(err) {
		s.breaker.RecordFailure()
	} else {
		s.breaker.RecordSuccess()
	}
	if err != nil {
		return nil, err
	}

	var root any
	if err := sonic.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("decode %s: invalid json: %w", s.name, err)
	}
	return root, nil
}

func (s *HTTPSource) executeRequest(ctx context.Context) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			lastErr = crerr.Mark(crerr.Wrapf(err, "send request to %s", s.name), errSourceTransient)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Mark(crerr.Wrap(readErr, "read response body"), errSourceTransient)
			case int64(len(raw)) > s.maxBytes:
				return nil, fmt.Errorf("%w: %s exceeds %d bytes", errSourceTooLarge, s.name, s.maxBytes)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.WithDetailf(
					crerr.Mark(crerr.Newf("%s: status=%d", s.name, resp.StatusCode), errSourceTransient),
					"body=%s", abbreviateBody(raw),
				)
			default:
				return nil, fmt.Errorf("%s: status=%d body=%s", s.name, resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == s.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * s.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.Newf("%s: source request failed", s.name)
	}
	s.logger.WarnContext(ctx, "source request failed",
		"source", s.name,
		"attempts", s.maxRetries+1,
		"error", lastErr,
		"detail", crerr.FlattenDetails(lastErr),
	)
	return nil, lastErr
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errSourceTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
