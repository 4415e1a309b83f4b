package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// IngestFrontier decides which remote article ids the next crawl visits.
type IngestFrontier struct {
	articles ArticleStore
	source   Source
	seedID   int64
	window   time.Duration
	logger   *slog.Logger
}

func NewIngestFrontier(articles ArticleStore, source Source, seedID int64, window time.Duration, logger *slog.Logger) *IngestFrontier {
	return &IngestFrontier{
		articles: articles,
		source:   source,
		seedID:   seedID,
		window:   window,
		logger:   logger.With("stage", "ingest_frontier"),
	}
}

// CrawlRange returns the ids in [start, latest) where start is the lowest
// stored id published within the recrawl window before the newest stored
// article, or the seed id for an empty store. The remote's latest id is
// left for a later run. An unreachable source yields an empty range.
func (f *IngestFrontier) CrawlRange(ctx context.Context) ([]int64, error) {
	start, err := f.startID(ctx)
	if err != nil {
		return nil, err
	}

	latest, err := f.source.LatestArticleID(ctx)
	if err != nil {
		f.logger.Warn("latest article id unavailable, try again later", "error", err)
		return nil, nil
	}

	if latest <= start {
		f.logger.Info("nothing to crawl", "start_id", start, "latest_id", latest)
		return nil, nil
	}

	ids := make([]int64, 0, latest-start)
	for id := start; id < latest; id++ {
		ids = append(ids, id)
	}

	f.logger.Info("crawl range computed", "start_id", start, "latest_id", latest, "count", len(ids))
	return ids, nil
}

func (f *IngestFrontier) startID(ctx context.Context) (int64, error) {
	newest, ok, err := f.articles.LatestPublishedAt(ctx)
	if err != nil {
		return 0, fmt.Errorf("latest article date: %w", err)
	}
	if !ok {
		return f.seedID, nil
	}

	start, ok, err := f.articles.MinIDPublishedAfter(ctx, newest.Add(-f.window))
	if err != nil {
		return 0, fmt.Errorf("recrawl start id: %w", err)
	}
	if !ok {
		return f.seedID, nil
	}
	return start, nil
}

// CitationFrontier finds stored articles whose comments arrived after the
// last citation analysis.
type CitationFrontier struct {
	comments  CommentStore
	citations CitationStore
	logger    *slog.Logger
}

func NewCitationFrontier(comments CommentStore, citations CitationStore, logger *slog.Logger) *CitationFrontier {
	return &CitationFrontier{
		comments:  comments,
		citations: citations,
		logger:    logger.With("stage", "citation_frontier"),
	}
}

// RescanList returns the distinct ids of articles owning at least one
// comment stored after the highest citation occurrence recorded so far.
func (f *CitationFrontier) RescanList(ctx context.Context) ([]int64, error) {
	mark, err := f.citations.HighWaterMark(ctx)
	if err != nil {
		return nil, fmt.Errorf("citation high-water mark: %w", err)
	}

	ids, err := f.comments.ArticlesWithCommentsAfter(ctx, mark)
	if err != nil {
		return nil, fmt.Errorf("articles with new comments: %w", err)
	}

	f.logger.Info("rescan list computed", "high_water_mark", mark, "articles", len(ids))
	return ids, nil
}
