package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"comment_harvester/internal/domain"
)

type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// Insert stores the article unless its id is already present. It reports
// whether a row was written.
func (s *ArticleStore) Insert(ctx context.Context, article *domain.Article) (bool, error) {
	query := `
		INSERT INTO articles (article_id, published_at, title, teaser)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (article_id) DO NOTHING`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		article.ID,
		article.PublishedAt,
		article.Title,
		article.Teaser,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *ArticleStore) LatestPublishedAt(ctx context.Context) (time.Time, bool, error) {
	var latest sql.NullTime
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &latest, `SELECT MAX(published_at) FROM articles`)
	if err != nil {
		return time.Time{}, false, err
	}
	return latest.Time, latest.Valid, nil
}

func (s *ArticleStore) MinIDPublishedAfter(ctx context.Context, after time.Time) (int64, bool, error) {
	var id sql.NullInt64
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &id,
		`SELECT MIN(article_id) FROM articles WHERE published_at > $1`, after)
	if err != nil {
		return 0, false, err
	}
	return id.Int64, id.Valid, nil
}

func (s *ArticleStore) Get(ctx context.Context, id int64) (*domain.Article, error) {
	var article domain.Article
	query := `
		SELECT article_id, published_at, title, teaser
		FROM articles
		WHERE article_id = $1`

	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &article, query, id); err != nil {
		return nil, err
	}
	return &article, nil
}
