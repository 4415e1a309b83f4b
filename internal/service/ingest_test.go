package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"comment_harvester/internal/dates"
	"comment_harvester/internal/domain"
	"comment_harvester/internal/service/mocks"
)

type IngesterTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	articles  *mocks.MockArticleStore
	tags      *mocks.MockTagStore
	users     *mocks.MockUserStore
	comments  *mocks.MockCommentStore
	txManager *mocks.MockTransactionManager

	ingester *ArticleIngester
}

func (s *IngesterTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.articles = mocks.NewMockArticleStore(s.ctrl)
	s.tags = mocks.NewMockTagStore(s.ctrl)
	s.users = mocks.NewMockUserStore(s.ctrl)
	s.comments = mocks.NewMockCommentStore(s.ctrl)
	s.txManager = mocks.NewMockTransactionManager(s.ctrl)

	parser := dates.NewParser(dates.Format{
		Layouts: []string{"2. January 2006 - 15:04 Uhr", "2. January 2006 um 15:04"},
		Months:  dates.GermanMonths(),
	})
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.ingester = NewArticleIngester(s.articles, s.tags, s.users, s.comments, parser, s.txManager, logger)
}

func (s *IngesterTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestIngesterTestSuite(t *testing.T) {
	suite.Run(t, new(IngesterTestSuite))
}

func (s *IngesterTestSuite) expectTransactions(n int) {
	s.txManager.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	).Times(n)
}

func testPage() *domain.Page {
	return &domain.Page{
		ArticleID: 130500,
		Title:     "Sturm über Norddeutschland",
		RawDate:   "5. März 2017 - 14:30 Uhr",
		Teaser:    "Ein Orkan zieht über das Land.",
		Tags:      []string{"Wetter", "Sturm"},
		Geotags:   []string{"Hamburg"},
		Comments: []domain.PageComment{
			{RemoteID: 901, RawDate: "5. März 2017 um 14:45", AuthorName: "janedoe", Title: "Oha", Text: "Hier stürmt es schon."},
			{RemoteID: 902, RawDate: "5. März 2017 um 15:02", AuthorName: "max", Title: "Re", Text: "@janedoe bei uns auch."},
		},
	}
}

func (s *IngesterTestSuite) TestIngest_NewArticle() {
	ctx := context.Background()
	page := testPage()
	s.expectTransactions(2)

	s.articles.EXPECT().Insert(ctx, &domain.Article{
		ID:          130500,
		PublishedAt: time.Date(2017, time.March, 5, 14, 30, 0, 0, time.UTC),
		Title:       "Sturm über Norddeutschland",
		Teaser:      "Ein Orkan zieht über das Land.",
	}).Return(true, nil)
	s.tags.EXPECT().Add(ctx, int64(130500), domain.TagKindTopic, []string{"Wetter", "Sturm"}).Return(nil)
	s.tags.EXPECT().Add(ctx, int64(130500), domain.TagKindGeo, []string{"Hamburg"}).Return(nil)

	s.comments.EXPECT().NewestRemoteID(ctx, int64(130500)).Return(int64(0), nil)
	s.users.EXPECT().GetOrCreate(ctx, "janedoe").Return(int64(7), nil)
	s.users.EXPECT().GetOrCreate(ctx, "max").Return(int64(8), nil)

	var appended []*domain.Comment
	s.comments.EXPECT().Append(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, c *domain.Comment) (int64, error) {
			appended = append(appended, c)
			return int64(len(appended)), nil
		},
	).Times(2)

	res, err := s.ingester.Ingest(ctx, page)

	s.NoError(err)
	s.True(res.ArticleStored)
	s.False(res.Skipped)
	s.Equal(2, res.CommentsAdded)
	s.Require().Len(appended, 2)
	s.Equal(int64(901), appended[0].RemoteID)
	s.Equal(int64(7), appended[0].UserID)
	s.Equal(int64(130500), appended[0].ArticleID)
	s.Equal("14:45", appended[0].PostedAt.Format("15:04"))
	s.Equal(int64(8), appended[1].UserID)
	s.Equal("@janedoe bei uns auch.", appended[1].Text)
}

func (s *IngesterTestSuite) TestIngest_EmptyTitleIsSkipped() {
	page := testPage()
	page.Title = ""

	res, err := s.ingester.Ingest(context.Background(), page)

	s.NoError(err)
	s.True(res.Skipped)
	s.False(res.ArticleStored)
	s.Zero(res.CommentsAdded)
}

func (s *IngesterTestSuite) TestIngest_KnownCommentsAreSkipped() {
	ctx := context.Background()
	page := testPage()
	s.expectTransactions(2)

	s.articles.EXPECT().Insert(ctx, gomock.Any()).Return(false, nil)
	s.tags.EXPECT().Add(ctx, int64(130500), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	s.comments.EXPECT().NewestRemoteID(ctx, int64(130500)).Return(int64(901), nil)
	s.users.EXPECT().GetOrCreate(ctx, "max").Return(int64(8), nil)
	s.comments.EXPECT().Append(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, c *domain.Comment) (int64, error) {
			s.Equal(int64(902), c.RemoteID)
			return 12, nil
		},
	)

	res, err := s.ingester.Ingest(ctx, page)

	s.NoError(err)
	s.False(res.ArticleStored)
	s.Equal(1, res.CommentsAdded)
}

func (s *IngesterTestSuite) TestIngest_ReingestAddsNothing() {
	ctx := context.Background()
	page := testPage()
	s.expectTransactions(2)

	s.articles.EXPECT().Insert(ctx, gomock.Any()).Return(false, nil)
	s.tags.EXPECT().Add(ctx, int64(130500), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	s.comments.EXPECT().NewestRemoteID(ctx, int64(130500)).Return(int64(902), nil)

	res, err := s.ingester.Ingest(ctx, page)

	s.NoError(err)
	s.False(res.ArticleStored)
	s.Zero(res.CommentsAdded)
}

func (s *IngesterTestSuite) TestIngest_BadArticleDate() {
	page := testPage()
	page.RawDate = "gestern"

	_, err := s.ingester.Ingest(context.Background(), page)

	s.ErrorIs(err, dates.ErrNoLayoutMatched)
	s.Contains(err.Error(), "parse article date")
}

func (s *IngesterTestSuite) TestIngest_BadCommentDate() {
	ctx := context.Background()
	page := testPage()
	page.Comments[1].RawDate = "vorhin"
	s.expectTransactions(2)

	s.articles.EXPECT().Insert(ctx, gomock.Any()).Return(true, nil)
	s.tags.EXPECT().Add(ctx, int64(130500), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	s.comments.EXPECT().NewestRemoteID(ctx, int64(130500)).Return(int64(0), nil)
	s.users.EXPECT().GetOrCreate(ctx, "janedoe").Return(int64(7), nil)
	s.comments.EXPECT().Append(ctx, gomock.Any()).Return(int64(1), nil)

	res, err := s.ingester.Ingest(ctx, page)

	s.ErrorIs(err, dates.ErrNoLayoutMatched)
	s.Contains(err.Error(), "comment 902")
	s.True(res.ArticleStored)
	s.Zero(res.CommentsAdded)
}

func (s *IngesterTestSuite) TestIngest_ArticleInsertFails() {
	ctx := context.Background()
	s.expectTransactions(1)

	s.articles.EXPECT().Insert(ctx, gomock.Any()).Return(false, errors.New("connection reset"))

	_, err := s.ingester.Ingest(ctx, testPage())

	s.Error(err)
	s.Contains(err.Error(), "insert article")
}

func (s *IngesterTestSuite) TestIngest_UserLookupFails() {
	ctx := context.Background()
	s.expectTransactions(2)

	s.articles.EXPECT().Insert(ctx, gomock.Any()).Return(true, nil)
	s.tags.EXPECT().Add(ctx, int64(130500), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	s.comments.EXPECT().NewestRemoteID(ctx, int64(130500)).Return(int64(0), nil)
	s.users.EXPECT().GetOrCreate(ctx, "janedoe").Return(int64(0), errors.New("deadlock"))

	_, err := s.ingester.Ingest(ctx, testPage())

	s.Error(err)
	s.Contains(err.Error(), `resolve user "janedoe"`)
}
