package service

import (
	"context"
	"fmt"
	"log/slog"

	"comment_harvester/internal/domain"
)

// CitationAnalyzer runs citation detection over one article's comments
// and records the edges it finds.
type CitationAnalyzer struct {
	comments  CommentStore
	citations CitationStore
	detector  Detector
	txManager TransactionManager
	publisher Publisher
	logger    *slog.Logger
}

func NewCitationAnalyzer(
	comments CommentStore,
	citations CitationStore,
	detector Detector,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
) *CitationAnalyzer {
	return &CitationAnalyzer{
		comments:  comments,
		citations: citations,
		detector:  detector,
		txManager: txManager,
		publisher: publisher,
		logger:    logger,
	}
}

// Analyze returns the citations that were not recorded before. Edges that
// already exist are ignored by the store, so re-analysing is safe.
func (a *CitationAnalyzer) Analyze(ctx context.Context, articleID int64) ([]domain.Citation, error) {
	records, err := a.comments.ListForArticle(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	found := a.detector.Detect(records)
	if len(found) == 0 {
		return nil, nil
	}

	var recorded []domain.Citation
	err = a.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		recorded, err = a.citations.Record(txCtx, found)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("record citations: %w", err)
	}

	a.logger.Debug("article analysed",
		"article_id", articleID,
		"comments", len(records),
		"found", len(found),
		"new", len(recorded),
	)

	return recorded, nil
}

// Announce publishes newly recorded citations when a publisher is set.
func (a *CitationAnalyzer) Announce(ctx context.Context, articleID int64, citations []domain.Citation) (bool, error) {
	if a.publisher == nil || len(citations) == 0 {
		return false, nil
	}
	if err := a.publisher.PublishCitations(ctx, articleID, citations); err != nil {
		return false, fmt.Errorf("publish citations: %w", err)
	}
	return true, nil
}
