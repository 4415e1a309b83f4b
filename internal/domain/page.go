package domain

// Page holds the fields extracted from one fetched article page.
// Dates are kept raw; parsing them is up to the caller.
type Page struct {
	ArticleID int64
	Title     string
	RawDate   string
	Teaser    string
	Tags      []string
	Geotags   []string
	Comments  []PageComment
}

type PageComment struct {
	RemoteID   int64
	RawDate    string
	AuthorName string
	Title      string
	Text       string
}
