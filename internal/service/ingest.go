package service

import (
	"context"
	"fmt"
	"log/slog"

	"comment_harvester/internal/domain"
)

// IngestResult summarizes what one page added to the store.
type IngestResult struct {
	Skipped       bool
	ArticleStored bool
	CommentsAdded int
}

// ArticleIngester persists the fields of fetched pages. Every write is
// insert-if-absent so re-ingesting a page is harmless.
type ArticleIngester struct {
	articles  ArticleStore
	tags      TagStore
	users     UserStore
	comments  CommentStore
	dates     DateParser
	txManager TransactionManager
	logger    *slog.Logger
}

func NewArticleIngester(
	articles ArticleStore,
	tags TagStore,
	users UserStore,
	comments CommentStore,
	dates DateParser,
	txManager TransactionManager,
	logger *slog.Logger,
) *ArticleIngester {
	return &ArticleIngester{
		articles:  articles,
		tags:      tags,
		users:     users,
		comments:  comments,
		dates:     dates,
		txManager: txManager,
		logger:    logger,
	}
}

func (in *ArticleIngester) Ingest(ctx context.Context, page *domain.Page) (IngestResult, error) {
	var res IngestResult
	logger := in.logger.With("article_id", page.ArticleID)

	if page.Title == "" {
		logger.Info("article is empty, skipping")
		res.Skipped = true
		return res, nil
	}

	publishedAt, err := in.dates.Parse(page.RawDate)
	if err != nil {
		return res, fmt.Errorf("parse article date: %w", err)
	}

	article := &domain.Article{
		ID:          page.ArticleID,
		PublishedAt: publishedAt,
		Title:       page.Title,
		Teaser:      page.Teaser,
	}

	err = in.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		stored, err := in.articles.Insert(txCtx, article)
		if err != nil {
			return fmt.Errorf("insert article: %w", err)
		}
		res.ArticleStored = stored

		if err := in.tags.Add(txCtx, article.ID, domain.TagKindTopic, page.Tags); err != nil {
			return fmt.Errorf("add tags: %w", err)
		}
		if err := in.tags.Add(txCtx, article.ID, domain.TagKindGeo, page.Geotags); err != nil {
			return fmt.Errorf("add geotags: %w", err)
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	err = in.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		added, err := in.appendComments(txCtx, page)
		if err != nil {
			return err
		}
		res.CommentsAdded = added
		return nil
	})
	if err != nil {
		return res, err
	}

	logger.Debug("article ingested",
		"new_article", res.ArticleStored,
		"comments_added", res.CommentsAdded,
	)
	return res, nil
}

// appendComments stores the comments newer than the newest one already
// known for the article. Pages list comments in ascending remote id order,
// so anything at or below that id has been stored before.
func (in *ArticleIngester) appendComments(ctx context.Context, page *domain.Page) (int, error) {
	newestKnown, err := in.comments.NewestRemoteID(ctx, page.ArticleID)
	if err != nil {
		return 0, fmt.Errorf("newest comment id: %w", err)
	}

	added := 0
	for _, pc := range page.Comments {
		if pc.RemoteID <= newestKnown {
			continue
		}

		postedAt, err := in.dates.Parse(pc.RawDate)
		if err != nil {
			return 0, fmt.Errorf("parse date of comment %d: %w", pc.RemoteID, err)
		}

		userID, err := in.users.GetOrCreate(ctx, pc.AuthorName)
		if err != nil {
			return 0, fmt.Errorf("resolve user %q: %w", pc.AuthorName, err)
		}

		comment := &domain.Comment{
			RemoteID:  pc.RemoteID,
			PostedAt:  postedAt,
			ArticleID: page.ArticleID,
			UserID:    userID,
			Title:     pc.Title,
			Text:      pc.Text,
		}
		if _, err := in.comments.Append(ctx, comment); err != nil {
			return 0, fmt.Errorf("append comment %d: %w", pc.RemoteID, err)
		}
		added++
	}

	return added, nil
}
