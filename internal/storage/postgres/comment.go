package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"comment_harvester/internal/domain"
)

type CommentStore struct {
	db *sqlx.DB
}

func NewCommentStore(db *sqlx.DB) *CommentStore {
	return &CommentStore{db: db}
}

// NewestRemoteID returns the highest remote comment id stored for the
// article, 0 if it has none.
func (s *CommentStore) NewestRemoteID(ctx context.Context, articleID int64) (int64, error) {
	var id int64
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &id,
		`SELECT COALESCE(MAX(id_on_tagesschau), 0) FROM comments WHERE article_id = $1`, articleID)
	return id, err
}

func (s *CommentStore) Append(ctx context.Context, comment *domain.Comment) (int64, error) {
	query := `
		INSERT INTO comments (id_on_tagesschau, posted_at, article_id, user_id, title, text)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id int64
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		comment.RemoteID,
		comment.PostedAt,
		comment.ArticleID,
		comment.UserID,
		comment.Title,
		comment.Text,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	comment.ID = id
	return id, nil
}

// ListForArticle returns the article's comments with their author names
// in insertion order.
func (s *CommentStore) ListForArticle(ctx context.Context, articleID int64) ([]domain.CommentRecord, error) {
	query := `
		SELECT c.id, c.posted_at, c.title, c.text, u.name
		FROM comments c
		INNER JOIN users u ON u.user_id = c.user_id
		WHERE c.article_id = $1
		ORDER BY c.id`

	var records []domain.CommentRecord
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &records, query, articleID)
	return records, err
}

// ArticlesWithCommentsAfter returns the distinct articles owning a comment
// whose store id is greater than commentID.
func (s *CommentStore) ArticlesWithCommentsAfter(ctx context.Context, commentID int64) ([]int64, error) {
	query := `
		SELECT DISTINCT article_id
		FROM comments
		WHERE id > $1
		ORDER BY article_id`

	var ids []int64
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &ids, query, commentID)
	return ids, err
}
