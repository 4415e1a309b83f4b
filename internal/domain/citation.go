package domain

// Citation links a later comment (Occurrence) to an earlier one (Origin).
// Start and Length locate the quoted span inside the occurrence's
// comparison text; both are zero for a heuristic reference.
type Citation struct {
	OriginCommentID     int64 `db:"origin_comment_id" json:"origin_comment_id"`
	OccurrenceCommentID int64 `db:"citation_occurrence_id" json:"citation_occurrence_id"`
	Start               int   `db:"citation_start" json:"start"`
	Length              int   `db:"citation_length" json:"length"`
}

// IsReference reports whether the edge is an unlocated reference rather
// than an exact quotation.
func (c Citation) IsReference() bool {
	return c.Start == 0 && c.Length == 0
}
