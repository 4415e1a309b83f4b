package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"comment_harvester/internal/domain"
)

type TagStore struct {
	db *sqlx.DB
}

func NewTagStore(db *sqlx.DB) *TagStore {
	return &TagStore{db: db}
}

var tagTables = map[domain.TagKind]struct{ table, column string }{
	domain.TagKindTopic: {"tags", "tag"},
	domain.TagKindGeo:   {"geotags", "geotag"},
}

// Add records each label for the article once. Labels already present
// are ignored.
func (s *TagStore) Add(ctx context.Context, articleID int64, kind domain.TagKind, labels []string) error {
	if len(labels) == 0 {
		return nil
	}

	t, ok := tagTables[kind]
	if !ok {
		return fmt.Errorf("unknown tag kind %q", kind)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (article_id, %s)
		SELECT $1::bigint, UNNEST($2::text[])
		ON CONFLICT DO NOTHING`, t.table, t.column)

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, articleID, pq.Array(labels))
	return err
}

func (s *TagStore) GetByArticleID(ctx context.Context, articleID int64, kind domain.TagKind) ([]string, error) {
	t, ok := tagTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown tag kind %q", kind)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE article_id = $1 ORDER BY %s`, t.column, t.table, t.column)

	var labels []string
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &labels, query, articleID)
	return labels, err
}
