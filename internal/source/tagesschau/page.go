package tagesschau

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"comment_harvester/internal/domain"
)

const commentAnchorPrefix = "comment-"

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	reSubmitted  = regexp.MustCompile(`Am (.*:\d{2}) von (.*)`)
)

func normalizeText(text string) string {
	text = reWhitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// parsePage extracts the article fields and comment thread from an
// article page. A page without headline comes back with an empty title.
func parsePage(id int64, r io.Reader, teaserSuffix string) (*domain.Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	page := &domain.Page{
		ArticleID: id,
		Title:     strings.TrimSpace(doc.Find("span.headline").First().Text()),
	}
	if page.Title == "" {
		return page, nil
	}

	page.RawDate = strings.TrimSpace(doc.Find("h3.metaDate").First().Text())

	teaser := normalizeText(doc.Find("span.teasertext").First().Text())
	if teaserSuffix != "" {
		teaser = strings.TrimSpace(strings.TrimSuffix(teaser, teaserSuffix))
	}
	page.Teaser = teaser

	taxonomies := doc.Find("div.taxonomy")
	page.Tags = anchorTexts(taxonomies.Eq(0))
	page.Geotags = anchorTexts(taxonomies.Eq(1))

	var parseErr error
	doc.Find("div.comment").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		c, err := parseComment(sel)
		if err != nil {
			parseErr = err
			return false
		}
		page.Comments = append(page.Comments, c)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return page, nil
}

func anchorTexts(sel *goquery.Selection) []string {
	var texts []string
	sel.Find("a").Each(func(_ int, a *goquery.Selection) {
		if t := strings.TrimSpace(a.Text()); t != "" {
			texts = append(texts, t)
		}
	})
	return texts
}

func parseComment(sel *goquery.Selection) (domain.PageComment, error) {
	var c domain.PageComment

	anchorID, _ := sel.Find("a").First().Attr("id")
	remoteID, err := strconv.ParseInt(strings.TrimPrefix(anchorID, commentAnchorPrefix), 10, 64)
	if err != nil {
		return c, fmt.Errorf("comment anchor %q: %w", anchorID, err)
	}
	c.RemoteID = remoteID

	submitted := normalizeText(sel.Find("div.submitted").First().Text())
	m := reSubmitted.FindStringSubmatch(submitted)
	if m == nil {
		return c, fmt.Errorf("comment %d: unexpected byline %q", remoteID, submitted)
	}
	c.RawDate = m[1]
	c.AuthorName = m[2]

	c.Title = strings.TrimSpace(sel.Find("h3").First().Text())
	c.Text = normalizeText(sel.Find("p").First().Text())

	return c, nil
}
