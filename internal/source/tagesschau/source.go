package tagesschau

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"comment_harvester/internal/domain"
)

const (
	SourceID   = "tagesschau"
	SourceName = "meta.tagesschau.de"
)

var reArticleLink = regexp.MustCompile(`/id/(\d+)/`)

// Config holds tagesschau source configuration.
type Config struct {
	BaseURL        string
	LatestURL      string
	UserAgent      string
	TeaserSuffix   string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Source fetches article pages with their comment threads from the
// tagesschau.de discussion site.
type Source struct {
	httpClient     *http.Client
	baseURL        string
	latestURL      string
	userAgent      string
	teaserSuffix   string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

// New creates a new tagesschau source.
func New(cfg Config, logger *slog.Logger) *Source {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        cfg.BaseURL,
		latestURL:      cfg.LatestURL,
		userAgent:      cfg.UserAgent,
		teaserSuffix:   cfg.TeaserSuffix,
		maxAttempts:    maxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("source", SourceID),
	}
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return SourceID
}

// Name returns human-readable name.
func (s *Source) Name() string {
	return SourceName
}

// LatestArticleID returns the id of the newest article linked from the
// site's front page.
func (s *Source) LatestArticleID(ctx context.Context) (int64, error) {
	body, err := s.fetch(ctx, s.latestURL)
	if err != nil {
		return 0, fmt.Errorf("fetch front page: %w", err)
	}

	m := reArticleLink.FindSubmatch(body)
	if m == nil {
		return 0, errors.New("no article link on front page")
	}

	id, err := strconv.ParseInt(string(m[1]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse article id %q: %w", m[1], err)
	}
	return id, nil
}

// FetchArticle downloads and extracts one article page. A missing page
// yields domain.ErrNotFound.
func (s *Source) FetchArticle(ctx context.Context, id int64) (*domain.Page, error) {
	body, err := s.fetch(ctx, s.baseURL+strconv.FormatInt(id, 10))
	if err != nil {
		return nil, fmt.Errorf("fetch article %d: %w", id, err)
	}

	page, err := parsePage(id, bytes.NewReader(body), s.teaserSuffix)
	if err != nil {
		return nil, fmt.Errorf("parse article %d: %w", id, err)
	}
	return page, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.code)
}

func (s *Source) fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	var err error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		body, err = s.doRequest(ctx, url)
		if err == nil {
			return body, nil
		}

		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusNotFound {
			return nil, domain.ErrNotFound
		}
		if errors.As(err, &se) && se.code < http.StatusInternalServerError && se.code != http.StatusTooManyRequests {
			return nil, err
		}

		if attempt == s.maxAttempts {
			break
		}

		backoff := s.calculateBackoff(attempt)
		s.logger.Warn("request failed, retrying",
			"url", url,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", s.maxAttempts, err)
}

func (s *Source) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "text/html")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func (s *Source) calculateBackoff(attempt int) time.Duration {
	backoff := s.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > s.maxBackoff {
		backoff = s.maxBackoff
	}
	return backoff
}
