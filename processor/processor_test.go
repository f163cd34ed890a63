package processor

import (
	"io/ioutil"
	"testing"
	"time"

	"github.com/harukit/likes-archive/model"
	"github.com/harukit/likes-archive/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokyo(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	return loc
}

func TestExtractTweetID(t *testing.T) {
	assert.Equal(t, "1884321098765432109", ExtractTweetID("https://twitter.com/someone/status/1884321098765432109"))
	assert.Equal(t, "42", ExtractTweetID("https://x.com/a/status/42?s=20"))
	assert.Equal(t, "", ExtractTweetID("https://twitter.com/someone"))
	assert.Equal(t, "", ExtractTweetID(""))
}

func newLike(id, likedAt string) model.Like {
	return model.Like{
		Text:     "text for " + id,
		Username: "someone",
		TweetURL: "https://twitter.com/someone/status/" + id,
		LikedAt:  likedAt,
		Source:   "ifttt",
	}
}

func TestCanonicalizeFilesByTargetTimezone(t *testing.T) {
	days := store.NewDayStore(t.TempDir())
	c := NewCanonicalizer(days, tokyo(t))

	// 23:30 UTC on Jan 31 is already Feb 1 in UTC+9.
	res, err := c.Canonicalize([]model.Like{newLike("111", "2025-01-31T23:30:00Z")})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)

	_, ok, err := days.TryLoad(model.DayKey{Year: "2025", Month: "01", Day: "31"})
	require.NoError(t, err)
	assert.False(t, ok)

	doc, ok, err := days.TryLoad(model.DayKey{Year: "2025", Month: "02", Day: "01"})
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, doc.Body, 1)
	assert.Equal(t, "111", doc.Body[0].TweetID)
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	days := store.NewDayStore(t.TempDir())
	c := NewCanonicalizer(days, tokyo(t))

	raw := []model.Like{
		newLike("201", "2025-03-10T01:00:00+09:00"),
		newLike("202", "2025-03-10T09:30:00+09:00"),
		newLike("203", "2025-03-11T12:00:00+09:00"),
	}

	res, err := c.Canonicalize(raw)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Inserted)

	key := model.DayKey{Year: "2025", Month: "03", Day: "10"}
	first, err := ioutil.ReadFile(days.Path(key))
	require.NoError(t, err)

	res, err = c.Canonicalize(raw)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 3, res.Duplicates)

	second, err := ioutil.ReadFile(days.Path(key))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCanonicalizeSortsBodyDescending(t *testing.T) {
	days := store.NewDayStore(t.TempDir())
	c := NewCanonicalizer(days, tokyo(t))

	_, err := c.Canonicalize([]model.Like{
		newLike("301", "2025-03-10T08:00:00+09:00"),
		newLike("302", "2025-03-10T22:00:00+09:00"),
		newLike("303", "2025-03-10T15:00:00+09:00"),
	})
	require.NoError(t, err)

	doc, ok, err := days.TryLoad(model.DayKey{Year: "2025", Month: "03", Day: "10"})
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, doc.Body, 3)
	assert.Equal(t, "302", doc.Body[0].TweetID)
	assert.Equal(t, "303", doc.Body[1].TweetID)
	assert.Equal(t, "301", doc.Body[2].TweetID)
}

func TestCanonicalizeSkipsMalformedRecords(t *testing.T) {
	days := store.NewDayStore(t.TempDir())
	c := NewCanonicalizer(days, tokyo(t))

	res, err := c.Canonicalize([]model.Like{
		{TweetURL: "https://twitter.com/someone", LikedAt: "2025-03-10T08:00:00+09:00"},
		newLike("401", "not a timestamp at all ###"),
		newLike("402", "2025-03-10T08:00:00+09:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 1, res.Inserted)
}

func TestCanonicalizeNormalizesRecords(t *testing.T) {
	days := store.NewDayStore(t.TempDir())
	c := NewCanonicalizer(days, tokyo(t))

	like := newLike("501", "2025-03-10T08:00:00+09:00")
	like.EmbedCode = "<blockquote>legacy</blockquote>"
	like.Private = true

	_, err := c.Canonicalize([]model.Like{like})
	require.NoError(t, err)

	doc, ok, err := days.TryLoad(model.DayKey{Year: "2025", Month: "03", Day: "10"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, doc.Body[0].EmbedCode)
	assert.False(t, doc.Body[0].Private)
	assert.False(t, doc.Body[0].NotFound)
}
