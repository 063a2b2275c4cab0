// Package loader downloads protocol documents from the parliament
// document archive, skipping everything the manifest already records as
// fetched.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/xhad/plenum/pkg/manifest"
	"github.com/xhad/plenum/pkg/store"
)

type LoaderConfig struct {
	BaseURL    string
	MaxIndex   int             // upper bound for index discovery
	MaxMisses  int             // consecutive misses before discovery stops
	RateLimit  float64         // requests per second
	Timeout    time.Duration
	Retries    int             // transport-level retries per request
	OnProgress func(index int) // called after every fetch attempt
}

type Loader struct {
	config  LoaderConfig
	client  *resty.Client
	store   *store.Store
	limiter *rate.Limiter
}

func NewWithConfig(st *store.Store, config LoaderConfig) (*Loader, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("document source base URL is required")
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxIndex == 0 {
		config.MaxIndex = 300
	}
	if config.MaxMisses == 0 {
		config.MaxMisses = 20
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2 // 2 requests per second by default
	}

	client := resty.New()
	client.SetTimeout(config.Timeout)
	client.SetRetryCount(config.Retries)
	// Retry transport errors only; an HTTP error status is a miss, not a
	// transient condition.
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		return err != nil
	})

	return &Loader{
		config:  config,
		client:  client,
		store:   st,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}, nil
}

// ProtocolURL returns the archive URL of one protocol document.
func (l *Loader) ProtocolURL(period, index int) string {
	return fmt.Sprintf("%sMMP%d-%d.html", l.config.BaseURL, period, index)
}

// FetchError describes a failed fetch of one document.
type FetchError struct {
	Period     int
	Index      int
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Result summarizes one load run.
type Result struct {
	Fetched int
	Skipped int
	Failed  int
	Errors  []*FetchError
}

type outcome int

const (
	outcomeFetched outcome = iota
	outcomeSkipped
	outcomeFailed
)

// Load fetches one document when index is positive, or discovers and
// fetches all documents of the manifest's period otherwise. Per-index
// failures are recorded in the result; only a broken store or a canceled
// context abort the run.
func (l *Loader) Load(ctx context.Context, m *manifest.Manifest, index int, force bool) (Result, error) {
	var result Result

	if index > 0 {
		if _, err := l.loadOne(ctx, m, index, force, &result); err != nil {
			return result, err
		}
		return result, nil
	}

	// No listing endpoint exists upstream, so discovery scans from 1 and
	// stops after a run of consecutive misses.
	misses := 0
	for i := 1; i <= l.config.MaxIndex; i++ {
		out, err := l.loadOne(ctx, m, i, force, &result)
		if err != nil {
			return result, err
		}
		if out == outcomeFailed {
			misses++
			if misses >= l.config.MaxMisses {
				slog.Info("no additional documents found",
					"period", m.Period(), "last_index", i)
				break
			}
		} else {
			misses = 0
		}
	}

	return result, nil
}

func (l *Loader) loadOne(ctx context.Context, m *manifest.Manifest, index int, force bool, result *Result) (outcome, error) {
	period := m.Period()
	url := l.ProtocolURL(period, index)

	if !m.Begin(index, url, force) {
		result.Skipped++
		return outcomeSkipped, nil
	}

	if err := l.limiter.Wait(ctx); err != nil {
		m.MarkFailed(index)
		return outcomeFailed, err
	}

	res, err := l.client.R().SetContext(ctx).Get(url)
	if l.config.OnProgress != nil {
		l.config.OnProgress(index)
	}
	if err != nil {
		if ctx.Err() != nil {
			m.MarkFailed(index)
			return outcomeFailed, ctx.Err()
		}
		l.fail(m, result, &FetchError{Period: period, Index: index, URL: url, Err: err})
		return outcomeFailed, nil
	}
	if !res.IsSuccess() {
		l.fail(m, result, &FetchError{Period: period, Index: index, URL: url, StatusCode: res.StatusCode()})
		return outcomeFailed, nil
	}

	if err := l.store.WriteRaw(period, index, res.Body()); err != nil {
		// A store that cannot be written to will fail every following
		// index as well, so this aborts the run.
		m.MarkFailed(index)
		result.Failed++
		return outcomeFailed, fmt.Errorf("failed to persist document %d-%d: %v", period, index, err)
	}

	m.MarkFetched(index)
	result.Fetched++
	return outcomeFetched, nil
}

func (l *Loader) fail(m *manifest.Manifest, result *Result, ferr *FetchError) {
	m.MarkFailed(ferr.Index)
	result.Failed++
	result.Errors = append(result.Errors, ferr)
	slog.Warn("could not download document",
		"url", ferr.URL, "status", ferr.StatusCode, "error", ferr.Err)
}
