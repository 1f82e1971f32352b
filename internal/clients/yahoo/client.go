// Package yahoo fetches daily closes from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aristath/quantdash/internal/clientdata"
	"github.com/aristath/quantdash/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the production chart API host
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	maxRetries    = 2
	baseRetryWait = 500 * time.Millisecond
	userAgent     = "Mozilla/5.0 (compatible; quantdash/1.0)"
)

var (
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quantdash_yahoo_fetch_total",
		Help: "Chart API lookups by symbol and outcome",
	}, []string{"symbol", "outcome"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quantdash_yahoo_fetch_duration_seconds",
		Help:    "Chart API request latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 8), // 50ms to ~6s
	}, []string{"symbol"})
)

// errRetryable marks responses worth another attempt
var errRetryable = errors.New("retryable response")

// Client for the Yahoo Finance chart API
type Client struct {
	baseURL   string
	client    *http.Client
	limiter   *rate.Limiter
	retryWait time.Duration
	cacheRepo *clientdata.Repository
	log       zerolog.Logger
}

// NewClient creates a new chart API client.
// cacheRepo is optional - if nil, caching is disabled.
func NewClient(baseURL string, requestsPerSecond float64, cacheRepo *clientdata.Repository, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}
	return &Client{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
		limiter:   rate.NewLimiter(rate.Limit(requestsPerSecond), 4),
		retryWait: baseRetryWait,
		cacheRepo: cacheRepo,
		log:       log.With().Str("client", "yahoo-chart").Logger(),
	}
}

// chartResponse mirrors the parts of /v8/finance/chart we read
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// DailyCloses returns daily closes for symbol over [start, end], oldest
// first. Adjusted closes are preferred when present. Dates are calendar dates
// in the exchange's time zone, expressed as midnight UTC. Missing and
// non-positive values are skipped.
//
// A fresh cached response is served without a request. When the request
// fails, a stale cached response is returned instead if one exists.
func (c *Client) DailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]domain.Observation, error) {
	start, end = truncateDay(start), truncateDay(end)
	cacheKey := symbol + "|" + start.Format(domain.DateLayout) + "|" + end.Format(domain.DateLayout)

	if c.cacheRepo != nil {
		var cached []domain.Observation
		found, err := c.cacheRepo.GetIfFresh(clientdata.TableYahooChart, cacheKey, &cached)
		if err == nil && found {
			fetchTotal.WithLabelValues(symbol, "cache_hit").Inc()
			c.log.Debug().Str("symbol", symbol).Int("rows", len(cached)).Msg("Cache hit")
			return domain.InUTC(cached), nil
		}
	}

	observations, err := c.fetch(ctx, symbol, start, end)
	if err != nil {
		if stale, ok := c.getStaleFromCache(cacheKey); ok {
			fetchTotal.WithLabelValues(symbol, "stale").Inc()
			c.log.Warn().
				Err(err).
				Str("symbol", symbol).
				Int("rows", len(stale)).
				Msg("API failed, using stale cached closes")
			return stale, nil
		}
		fetchTotal.WithLabelValues(symbol, "error").Inc()
		return nil, err
	}
	fetchTotal.WithLabelValues(symbol, "fetched").Inc()

	if c.cacheRepo != nil && len(observations) > 0 {
		if err := c.cacheRepo.Store(clientdata.TableYahooChart, cacheKey, observations, clientdata.TTLChart); err != nil {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache closes")
		}
	}

	c.log.Info().
		Str("symbol", symbol).
		Str("start", start.Format(domain.DateLayout)).
		Str("end", end.Format(domain.DateLayout)).
		Int("rows", len(observations)).
		Msg("Fetched daily closes")

	return observations, nil
}

func (c *Client) fetch(ctx context.Context, symbol string, start, end time.Time) ([]domain.Observation, error) {
	q := url.Values{}
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	// period2 is exclusive
	q.Set("period2", strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10))
	q.Set("interval", "1d")
	q.Set("events", "history")
	q.Set("includeAdjustedClose", "true")
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), q.Encode())

	timer := prometheus.NewTimer(fetchDuration.WithLabelValues(symbol))
	defer timer.ObserveDuration()

	var resp chartResponse
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err = c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		err = c.get(ctx, endpoint, &resp)
		if err == nil || !errors.Is(err, errRetryable) {
			break
		}
		if attempt < maxRetries {
			c.log.Debug().Err(err).Int("attempt", attempt+1).Str("symbol", symbol).Msg("Retrying chart request")
			if sleepErr := sleep(ctx, c.retryWait<<attempt); sleepErr != nil {
				return nil, sleepErr
			}
		}
	}
	if err != nil {
		return nil, err
	}

	return parseChart(&resp, symbol, start, end)
}

func (c *Client) get(ctx context.Context, endpoint string, out *chartResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errRetryable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", errRetryable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// parseChart converts a chart response into dated observations within [start, end]
func parseChart(resp *chartResponse, symbol string, start, end time.Time) ([]domain.Observation, error) {
	if e := resp.Chart.Error; e != nil {
		return nil, fmt.Errorf("chart API error for %s: %s: %s", symbol, e.Code, e.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return []domain.Observation{}, nil
	}

	result := resp.Chart.Result[0]

	var closes []*float64
	if adj := result.Indicators.AdjClose; len(adj) > 0 && len(adj[0].AdjClose) == len(result.Timestamp) {
		closes = adj[0].AdjClose
	} else if quote := result.Indicators.Quote; len(quote) > 0 {
		closes = quote[0].Close
	}

	observations := make([]domain.Observation, 0, len(result.Timestamp))
	seen := make(map[time.Time]int, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil || *closes[i] <= 0 {
			continue
		}

		date := truncateDay(time.Unix(ts+result.Meta.GMTOffset, 0).UTC())
		if date.Before(start) || date.After(end) {
			continue
		}

		// Intraday rows for the current session share the last date; keep the latest
		if idx, dup := seen[date]; dup {
			observations[idx].Value = *closes[i]
			continue
		}
		seen[date] = len(observations)
		observations = append(observations, domain.Observation{Date: date, Value: *closes[i]})
	}

	return observations, nil
}

// getStaleFromCache retrieves cached closes even if expired.
func (c *Client) getStaleFromCache(cacheKey string) ([]domain.Observation, bool) {
	if c.cacheRepo == nil {
		return nil, false
	}

	var cached []domain.Observation
	found, err := c.cacheRepo.Get(clientdata.TableYahooChart, cacheKey, &cached)
	if err != nil || !found {
		return nil, false
	}
	return domain.InUTC(cached), true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
