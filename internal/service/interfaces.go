package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"comment_harvester/internal/domain"
)

type ArticleStore interface {
	Insert(ctx context.Context, article *domain.Article) (bool, error)
	LatestPublishedAt(ctx context.Context) (time.Time, bool, error)
	MinIDPublishedAfter(ctx context.Context, after time.Time) (int64, bool, error)
}

type TagStore interface {
	Add(ctx context.Context, articleID int64, kind domain.TagKind, labels []string) error
}

type UserStore interface {
	GetOrCreate(ctx context.Context, name string) (int64, error)
}

type CommentStore interface {
	NewestRemoteID(ctx context.Context, articleID int64) (int64, error)
	Append(ctx context.Context, comment *domain.Comment) (int64, error)
	ListForArticle(ctx context.Context, articleID int64) ([]domain.CommentRecord, error)
	ArticlesWithCommentsAfter(ctx context.Context, commentID int64) ([]int64, error)
}

type CitationStore interface {
	HighWaterMark(ctx context.Context) (int64, error)
	Record(ctx context.Context, citations []domain.Citation) ([]domain.Citation, error)
}

type RunStateStore interface {
	Get(ctx context.Context, stage string) (*domain.RunState, error)
	Update(ctx context.Context, state *domain.RunState) error
}

type Source interface {
	ID() string
	Name() string
	LatestArticleID(ctx context.Context) (int64, error)
	FetchArticle(ctx context.Context, id int64) (*domain.Page, error)
}

type DateParser interface {
	Parse(raw string) (time.Time, error)
}

type Detector interface {
	Detect(comments []domain.CommentRecord) []domain.Citation
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	PublishCitations(ctx context.Context, articleID int64, citations []domain.Citation) error
	Close() error
}
