package records

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// HTTPSource fetches per-season record CSVs from a tabular file endpoint laid
// out as <base>/<league>/<kind>_<season>.csv. Requests are rate limited and
// wrapped in a circuit breaker; when the endpoint is unhealthy the loader's
// caller falls back to the local data directory.
type HTTPSource struct {
	baseURL string
	league  string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *logrus.Logger
}

// NewHTTPSource builds a source against baseURL. requestsPerSecond bounds the
// fetch rate; timeout bounds each request.
func NewHTTPSource(baseURL, league string, requestsPerSecond float64, timeout time.Duration, logger *logrus.Logger) *HTTPSource {
	settings := gobreaker.Settings{
		Name:    "record-source",
		Timeout: 2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Info("Circuit breaker state changed")
		},
	}
	return &HTTPSource{
		baseURL: baseURL,
		league:  league,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

func (s *HTTPSource) Open(ctx context.Context, kind Kind, season int) (io.ReadCloser, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s_%d.csv", s.baseURL, s.league, kind, season)
	body, err := s.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	s.logger.WithFields(logrus.Fields{
		"url":    url,
		"season": season,
	}).Debug("Fetched season records")
	return io.NopCloser(bytes.NewReader(body.([]byte))), nil
}

// FallbackSource tries a primary source and falls back to a secondary when
// the primary fails (typically HTTPSource backed by FileSource).
type FallbackSource struct {
	Primary   Source
	Secondary Source
	Logger    *logrus.Logger
}

func (s FallbackSource) Open(ctx context.Context, kind Kind, season int) (io.ReadCloser, error) {
	rc, err := s.Primary.Open(ctx, kind, season)
	if err == nil {
		return rc, nil
	}
	s.Logger.WithError(err).WithFields(logrus.Fields{
		"kind":   string(kind),
		"season": season,
	}).Warn("Primary record source failed, falling back")
	return s.Secondary.Open(ctx, kind, season)
}
