package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"comment_harvester/internal/domain"
)

type CitationStore struct {
	db *sqlx.DB
}

func NewCitationStore(db *sqlx.DB) *CitationStore {
	return &CitationStore{db: db}
}

// HighWaterMark returns the highest occurrence comment id of any recorded
// citation, 0 when none exist.
func (s *CitationStore) HighWaterMark(ctx context.Context) (int64, error) {
	var mark int64
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &mark,
		`SELECT COALESCE(MAX(citation_occurrence_id), 0) FROM citations`)
	return mark, err
}

// Record inserts the citations and returns those that were not already
// present. An edge is identified by origin, occurrence and start.
func (s *CitationStore) Record(ctx context.Context, citations []domain.Citation) ([]domain.Citation, error) {
	if len(citations) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO citations (origin_comment_id, citation_occurrence_id, citation_start, citation_length) VALUES ")
	valueArgs := make([]interface{}, 0, len(citations)*4)

	for i, c := range citations {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := 1; j <= 4; j++ {
			if j > 1 {
				sb.WriteString(", ")
			}
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(i*4 + j))
		}
		sb.WriteString(")")
		valueArgs = append(valueArgs, c.OriginCommentID, c.OccurrenceCommentID, c.Start, c.Length)
	}
	sb.WriteString(" ON CONFLICT (origin_comment_id, citation_occurrence_id, citation_start) DO NOTHING")
	sb.WriteString(" RETURNING origin_comment_id, citation_occurrence_id, citation_start, citation_length")

	var inserted []domain.Citation
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &inserted, sb.String(), valueArgs...)
	return inserted, err
}

func (s *CitationStore) ListForOccurrence(ctx context.Context, commentID int64) ([]domain.Citation, error) {
	query := `
		SELECT origin_comment_id, citation_occurrence_id, citation_start, citation_length
		FROM citations
		WHERE citation_occurrence_id = $1
		ORDER BY origin_comment_id, citation_start`

	var citations []domain.Citation
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &citations, query, commentID)
	return citations, err
}
