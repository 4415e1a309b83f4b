package citation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comment_harvester/internal/domain"
)

const skyText = "The sky is blue today and nothing else matters here really, " +
	"and the sea below it is calm and grey all afternoon long."

func at(hour, minute int) time.Time {
	return time.Date(2017, time.March, 5, hour, minute, 0, 0, time.UTC)
}

func record(id int64, author string, posted time.Time, text string) domain.CommentRecord {
	return domain.CommentRecord{
		ID:         id,
		PostedAt:   posted,
		AuthorName: author,
		Text:       text,
	}
}

func TestDetect_LongQuotationNeedsNoMarker(t *testing.T) {
	quoted := skyText[:110]
	comments := []domain.CommentRecord{
		record(1, "alice", at(10, 15), skyText),
		record(2, "bob", at(11, 42), "Seen elsewhere: "+quoted+" which I do not believe at all."),
	}

	got := New(DefaultConfig()).Detect(comments)

	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].OriginCommentID)
	assert.Equal(t, int64(2), got[0].OccurrenceCommentID)
	assert.Equal(t, len("Seen elsewhere: "), got[0].Start)
	assert.Greater(t, got[0].Length, 100)
	assert.False(t, got[0].IsReference())
}

func TestDetect_MentionAndClockTimeMakeReference(t *testing.T) {
	comments := []domain.CommentRecord{
		record(1, "janedoe", at(9, 30), "Ich finde das Wetter heute wirklich schön."),
		record(2, "max", at(9, 45), "@janedoe um 09:30 hattest du recht, sehe ich auch so."),
	}

	got := New(DefaultConfig()).Detect(comments)

	require.Len(t, got, 1)
	assert.Equal(t, domain.Citation{OriginCommentID: 1, OccurrenceCommentID: 2}, got[0])
	assert.True(t, got[0].IsReference())
}

func TestDetect_MatchRunningToEndIsIgnored(t *testing.T) {
	comments := []domain.CommentRecord{
		record(1, "alice", at(10, 15), skyText),
		record(2, "bob", at(11, 42), "Mein Kommentar dazu ist nur: "+skyText[10:80]),
	}

	got := New(DefaultConfig()).Detect(comments)

	assert.Empty(t, got)
}

func TestDetect_EndOfTextMatchStillChecksOtherComments(t *testing.T) {
	comments := []domain.CommentRecord{
		record(1, "janedoe", at(9, 30), "Ich finde das Wetter heute wirklich schön."),
		record(2, "alice", at(10, 15), skyText),
		record(3, "bob", at(11, 42), "@janedoe seit 09:30 denke ich: "+skyText[10:80]),
	}

	got := New(DefaultConfig()).Detect(comments)

	require.Len(t, got, 1)
	assert.Equal(t, domain.Citation{OriginCommentID: 1, OccurrenceCommentID: 3}, got[0])
}

func TestDetect_QuotedSpan(t *testing.T) {
	prefix := `Du schreibst "`
	comments := []domain.CommentRecord{
		record(1, "alice", at(10, 15), skyText),
		record(2, "bob", at(11, 42), prefix+skyText[:70]+`" - das stimmt so nicht.`),
	}

	got := New(DefaultConfig()).Detect(comments)

	require.Len(t, got, 1)
	assert.Equal(t, domain.Citation{
		OriginCommentID:     1,
		OccurrenceCommentID: 2,
		Start:               len(prefix),
		Length:              70,
	}, got[0])
}

func TestDetect_MediumMatchNeedsMarker(t *testing.T) {
	body := "Ich lese hier " + skyText[:70] + " und frage mich warum."

	t.Run("without marker", func(t *testing.T) {
		comments := []domain.CommentRecord{
			record(1, "alice", at(10, 15), skyText),
			record(2, "bob", at(11, 42), body),
		}
		assert.Empty(t, New(DefaultConfig()).Detect(comments))
	})

	t.Run("with author name", func(t *testing.T) {
		comments := []domain.CommentRecord{
			record(1, "alice", at(10, 15), skyText),
			record(2, "bob", at(11, 42), "alice: "+body),
		}
		got := New(DefaultConfig()).Detect(comments)
		require.Len(t, got, 1)
		assert.Equal(t, 70, got[0].Length)
	})

	t.Run("with clock time", func(t *testing.T) {
		comments := []domain.CommentRecord{
			record(1, "alice", at(10, 15), skyText),
			record(2, "bob", at(11, 42), "Um 10:15 stand: "+body),
		}
		got := New(DefaultConfig()).Detect(comments)
		require.Len(t, got, 1)
		assert.Equal(t, 70, got[0].Length)
	})
}

func TestDetect_SingleWeakSignalIsNotEnough(t *testing.T) {
	comments := []domain.CommentRecord{
		record(1, "janedoe", at(9, 30), "Ich finde das Wetter heute wirklich schön."),
		record(2, "max", at(9, 45), "Wie janedoe schon sagte, ist es warm."),
	}

	assert.Empty(t, New(DefaultConfig()).Detect(comments))
}

func TestDetect_SpacedMentionCountsTwice(t *testing.T) {
	comments := []domain.CommentRecord{
		record(1, "janedoe", at(9, 30), "Ich finde das Wetter heute wirklich schön."),
		record(2, "max", at(9, 45), "@ janedoe nein, finde ich nicht."),
	}

	got := New(DefaultConfig()).Detect(comments)

	require.Len(t, got, 1)
	assert.True(t, got[0].IsReference())
}

func TestDetect_OnlyPointsBackward(t *testing.T) {
	comments := []domain.CommentRecord{
		record(1, "max", at(9, 45), "@janedoe um 09:30 hattest du recht, sehe ich auch so."),
		record(2, "janedoe", at(9, 30), "Ich finde das Wetter heute wirklich schön."),
	}

	assert.Empty(t, New(DefaultConfig()).Detect(comments))
}

func TestDetect_ShortTextIsSkipped(t *testing.T) {
	comments := []domain.CommentRecord{
		record(1, "ab", at(9, 30), "Ich finde das Wetter heute wirklich schön."),
		record(2, "max", at(9, 45), "@ab"),
	}

	assert.Empty(t, New(DefaultConfig()).Detect(comments))
}

func TestDetect_EmptyAuthorIsNoSignal(t *testing.T) {
	comments := []domain.CommentRecord{
		record(1, "", at(9, 30), "Ich finde das Wetter heute wirklich schön."),
		record(2, "max", at(9, 45), "@ um 09:30 gelesen, naja."),
	}

	assert.Empty(t, New(DefaultConfig()).Detect(comments))
}

func TestDetect_ThresholdsAreConfigurable(t *testing.T) {
	body := "Ich lese hier " + skyText[:70] + " und frage mich warum."
	comments := []domain.CommentRecord{
		record(1, "alice", at(10, 15), skyText),
		record(2, "bob", at(11, 42), body),
	}

	got := New(Config{StrongQuoteLength: 60}).Detect(comments)

	require.Len(t, got, 1)
	assert.Equal(t, len("Ich lese hier "), got[0].Start)
}

func TestDetect_Empty(t *testing.T) {
	assert.Empty(t, New(DefaultConfig()).Detect(nil))
}

func TestComparisonText(t *testing.T) {
	tests := []struct {
		name  string
		title string
		text  string
		want  string
	}{
		{"title repeated in body", "Wetter", "Das Wetter ist gut", "Das Wetter ist gut"},
		{"distinct title", "Frage", "Warum nur?", "Frage Warum nur?"},
		{"empty title", "", "Nur Text", "Nur Text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComparisonText(domain.CommentRecord{Title: tt.title, Text: tt.text})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetect_OffsetsAreRuneBased(t *testing.T) {
	prefix := "Grüße, ich zitiere „"
	comments := []domain.CommentRecord{
		record(1, "alice", at(10, 15), skyText),
		record(2, "bob", at(11, 42), prefix+skyText[:70]+"“ und widerspreche."),
	}

	got := New(DefaultConfig()).Detect(comments)

	require.Len(t, got, 1)
	assert.Equal(t, len([]rune(prefix)), got[0].Start)
	assert.NotEqual(t, len(prefix), got[0].Start)
	assert.Equal(t, 70, got[0].Length)
}
