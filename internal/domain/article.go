package domain

import "time"

// Article is one crawled news item. ID is assigned by the source site.
type Article struct {
	ID          int64     `db:"article_id"`
	PublishedAt time.Time `db:"published_at"`
	Title       string    `db:"title"`
	Teaser      string    `db:"teaser"`
}

type User struct {
	ID   int64  `db:"user_id"`
	Name string `db:"name"`
}

// TagKind distinguishes topical tags from geographic ones.
type TagKind string

const (
	TagKindTopic TagKind = "tag"
	TagKindGeo   TagKind = "geotag"
)

type Comment struct {
	ID        int64     `db:"id"`
	RemoteID  int64     `db:"id_on_tagesschau"`
	PostedAt  time.Time `db:"posted_at"`
	ArticleID int64     `db:"article_id"`
	UserID    int64     `db:"user_id"`
	Title     string    `db:"title"`
	Text      string    `db:"text"`
}

// CommentRecord is a stored comment joined with its author's name,
// the shape citation detection works on.
type CommentRecord struct {
	ID         int64     `db:"id"`
	PostedAt   time.Time `db:"posted_at"`
	Title      string    `db:"title"`
	Text       string    `db:"text"`
	AuthorName string    `db:"name"`
}
