// Package citation detects quotations of and references to earlier
// comments within one article's comment thread.
package citation

import (
	"strings"

	"comment_harvester/internal/domain"
	"comment_harvester/internal/textmatch"
)

// Config holds the detection thresholds.
type Config struct {
	// MinTextLength is the shortest comparison text that is examined.
	MinTextLength int
	// QuoteMinLength is the common-substring length a match must exceed
	// to be treated as a quotation.
	QuoteMinLength int
	// StrongQuoteLength is the length above which a quotation is recorded
	// without any further marker.
	StrongQuoteLength int
	// Quotes lists the runes accepted as quotation marks around a quote.
	Quotes string
}

func DefaultConfig() Config {
	return Config{
		MinTextLength:     5,
		QuoteMinLength:    50,
		StrongQuoteLength: 100,
		Quotes:            "\"„“”",
	}
}

const clockLayout = "15:04"

type Detector struct {
	cfg Config
}

func New(cfg Config) *Detector {
	def := DefaultConfig()
	if cfg.MinTextLength == 0 {
		cfg.MinTextLength = def.MinTextLength
	}
	if cfg.QuoteMinLength == 0 {
		cfg.QuoteMinLength = def.QuoteMinLength
	}
	if cfg.StrongQuoteLength == 0 {
		cfg.StrongQuoteLength = def.StrongQuoteLength
	}
	if cfg.Quotes == "" {
		cfg.Quotes = def.Quotes
	}
	return &Detector{cfg: cfg}
}

type post struct {
	record domain.CommentRecord
	text   string
	runes  []rune
	clock  string
}

// Detect compares every comment with all comments before it and returns
// the citation edges found. comments must be ordered by store id.
func (d *Detector) Detect(comments []domain.CommentRecord) []domain.Citation {
	posts := make([]post, len(comments))
	for i, c := range comments {
		text := ComparisonText(c)
		posts[i] = post{
			record: c,
			text:   text,
			runes:  []rune(text),
			clock:  c.PostedAt.Format(clockLayout),
		}
	}

	var found []domain.Citation
	for i := range posts {
		cur := &posts[i]
		if len(cur.runes) < d.cfg.MinTextLength {
			continue
		}
		for j := 0; j < i; j++ {
			if c, ok := d.compare(cur, &posts[j]); ok {
				found = append(found, c)
			}
		}
	}

	return found
}

func (d *Detector) compare(cur, earlier *post) (domain.Citation, bool) {
	m := textmatch.LongestCommon(cur.runes, earlier.runes)
	author := earlier.record.AuthorName

	if m.Size > d.cfg.QuoteMinLength {
		// A match running to the end of the text is shared boilerplate
		// such as a signature, not a quotation.
		if m.End() == len(cur.runes) {
			return domain.Citation{}, false
		}
		if textmatch.Enclosed(cur.runes, m.A, m.Size, d.cfg.Quotes) ||
			textmatch.Contains(cur.text, author) ||
			textmatch.Contains(cur.text, earlier.clock) ||
			m.Size > d.cfg.StrongQuoteLength {
			return domain.Citation{
				OriginCommentID:     earlier.record.ID,
				OccurrenceCommentID: cur.record.ID,
				Start:               m.A,
				Length:              m.Size,
			}, true
		}
		return domain.Citation{}, false
	}

	score := 0
	if textmatch.Contains(cur.text, author) {
		score++
	}
	if author != "" && textmatch.Contains(cur.text, "@"+author) {
		score++
	}
	if author != "" && textmatch.Contains(cur.text, "@ "+author) {
		score++
	}
	if textmatch.Contains(cur.text, earlier.clock) {
		score++
	}
	if score < 2 {
		return domain.Citation{}, false
	}

	return domain.Citation{
		OriginCommentID:     earlier.record.ID,
		OccurrenceCommentID: cur.record.ID,
	}, true
}

// ComparisonText is the body alone when it already contains the title,
// otherwise title and body joined by a space.
func ComparisonText(c domain.CommentRecord) string {
	if strings.Contains(c.Text, c.Title) {
		return c.Text
	}
	return c.Title + " " + c.Text
}
