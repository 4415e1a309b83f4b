package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"comment_harvester/internal/domain"
)

// Harvester runs one full pass: crawl new articles and comments, then
// look for citations in every article that received comments.
type Harvester struct {
	source    Source
	ingest    *IngestFrontier
	ingester  *ArticleIngester
	rescan    *CitationFrontier
	analyzer  *CitationAnalyzer
	citations CitationStore
	runState  RunStateStore
	logger    *slog.Logger
}

func NewHarvester(
	source Source,
	ingest *IngestFrontier,
	ingester *ArticleIngester,
	rescan *CitationFrontier,
	analyzer *CitationAnalyzer,
	citations CitationStore,
	runState RunStateStore,
	logger *slog.Logger,
) *Harvester {
	return &Harvester{
		source:    source,
		ingest:    ingest,
		ingester:  ingester,
		rescan:    rescan,
		analyzer:  analyzer,
		citations: citations,
		runState:  runState,
		logger:    logger.With("source", source.ID()),
	}
}

func (h *Harvester) Run(ctx context.Context) (*domain.RunStats, error) {
	startTime := time.Now()
	stats := &domain.RunStats{}

	h.logger.Info("starting harvest", "source_name", h.source.Name())

	if err := h.crawl(ctx, stats); err != nil {
		return stats, err
	}

	h.logger.Info("got all data, looking for citations in comments")

	if err := h.findCitations(ctx, stats); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(startTime)

	h.logger.Info("harvest completed",
		"articles_visited", stats.ArticlesVisited,
		"articles_stored", stats.ArticlesStored,
		"articles_skipped", stats.ArticlesSkipped,
		"comments_added", stats.CommentsAdded,
		"articles_analyzed", stats.ArticlesAnalyzed,
		"citations_found", stats.CitationsFound,
		"published", stats.Published,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)

	return stats, nil
}

func (h *Harvester) crawl(ctx context.Context, stats *domain.RunStats) error {
	ids, err := h.ingest.CrawlRange(ctx)
	if err != nil {
		return fmt.Errorf("crawl range: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	last := ids[len(ids)-1]
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		h.logger.Debug("visiting article", "article_id", id, "last_id", last)
		stats.ArticlesVisited++
		h.ingestOne(ctx, id, stats)
	}

	return h.updateRunState(ctx, domain.StageIngest, last, int64(stats.ArticlesStored))
}

// ingestOne fetches and stores one article. Failures are logged and
// counted; they never stop the batch.
func (h *Harvester) ingestOne(ctx context.Context, id int64, stats *domain.RunStats) {
	logger := h.logger.With("article_id", id)

	page, err := h.source.FetchArticle(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Info("article not found, skipping")
		stats.ArticlesSkipped++
		return
	}
	if err != nil {
		logger.Warn("failed to fetch article", "error", err)
		stats.Errors++
		return
	}

	res, err := h.ingester.Ingest(ctx, page)
	if err != nil {
		logger.Error("failed to ingest article", "error", err)
		stats.Errors++
		return
	}

	if res.Skipped {
		stats.ArticlesSkipped++
	}
	if res.ArticleStored {
		stats.ArticlesStored++
	}
	stats.CommentsAdded += res.CommentsAdded
}

func (h *Harvester) findCitations(ctx context.Context, stats *domain.RunStats) error {
	ids, err := h.rescan.RescanList(ctx)
	if err != nil {
		return fmt.Errorf("rescan list: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		found, err := h.analyzer.Analyze(ctx, id)
		if err != nil {
			h.logger.Error("failed to analyse article", "article_id", id, "error", err)
			stats.Errors++
			continue
		}
		stats.ArticlesAnalyzed++
		stats.CitationsFound += len(found)

		published, err := h.analyzer.Announce(ctx, id, found)
		if err != nil {
			h.logger.Warn("failed to announce citations", "article_id", id, "error", err)
			stats.Errors++
		} else if published {
			stats.Published++
		}
	}

	mark, err := h.citations.HighWaterMark(ctx)
	if err != nil {
		return fmt.Errorf("citation high-water mark: %w", err)
	}
	return h.updateRunState(ctx, domain.StageCitations, mark, int64(stats.CitationsFound))
}

func (h *Harvester) updateRunState(ctx context.Context, stage string, lastItemID, processed int64) error {
	state, err := h.runState.Get(ctx, stage)
	if err != nil {
		return fmt.Errorf("get run state %s: %w", stage, err)
	}

	state.Stage = stage
	state.LastRunAt = time.Now()
	state.LastItemID = lastItemID
	state.TotalProcessed += processed

	if err := h.runState.Update(ctx, state); err != nil {
		return fmt.Errorf("update run state %s: %w", stage, err)
	}
	return nil
}
