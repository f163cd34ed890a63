package dedupe

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harukit/likes-archive/model"
	"github.com/harukit/likes-archive/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDay(t *testing.T, days *store.DayStore, key model.DayKey, likes []model.Like) {
	require.NoError(t, days.Save(key, &model.DayDocument{Body: likes}))
}

func TestCanonicalKeepsEarliestOccurrence(t *testing.T) {
	days := store.NewDayStore(t.TempDir())

	// Tweet 1 appears twice; the January occurrence was liked first.
	seedDay(t, days, model.DayKey{Year: "2025", Month: "01", Day: "05"}, []model.Like{
		{TweetID: "1", LikedAt: "2025-01-05T10:00:00+09:00"},
		{TweetID: "2", LikedAt: "2025-01-05T11:00:00+09:00"},
	})
	seedDay(t, days, model.DayKey{Year: "2025", Month: "02", Day: "20"}, []model.Like{
		{TweetID: "1", LikedAt: "2025-02-20T10:00:00+09:00"},
		{TweetID: "3", LikedAt: "2025-02-20T11:00:00+09:00"},
	})

	report, err := Canonical(days, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, []string{"1"}, report.DuplicateIDs)
	assert.Equal(t, 1, report.Removed)
	assert.Equal(t, []string{"2025/02/20"}, report.FilesUpdated)

	jan, _, err := days.TryLoad(model.DayKey{Year: "2025", Month: "01", Day: "05"})
	require.NoError(t, err)
	assert.Len(t, jan.Body, 2)

	feb, _, err := days.TryLoad(model.DayKey{Year: "2025", Month: "02", Day: "20"})
	require.NoError(t, err)
	require.Len(t, feb.Body, 1)
	assert.Equal(t, "3", feb.Body[0].TweetID)
}

func TestCanonicalIsIdempotent(t *testing.T) {
	days := store.NewDayStore(t.TempDir())
	seedDay(t, days, model.DayKey{Year: "2025", Month: "01", Day: "05"}, []model.Like{
		{TweetID: "1", LikedAt: "2025-01-05T10:00:00+09:00"},
	})
	seedDay(t, days, model.DayKey{Year: "2025", Month: "02", Day: "20"}, []model.Like{
		{TweetID: "1", LikedAt: "2025-02-20T10:00:00+09:00"},
	})

	first, err := Canonical(days, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Removed)

	second, err := Canonical(days, time.UTC)
	require.NoError(t, err)
	assert.Zero(t, second.Removed)
	assert.Empty(t, second.DuplicateIDs)
	assert.Empty(t, second.FilesUpdated)
}

func TestCanonicalLeavesCleanStoreUntouched(t *testing.T) {
	root := t.TempDir()
	days := store.NewDayStore(root)
	key := model.DayKey{Year: "2025", Month: "03", Day: "01"}
	seedDay(t, days, key, []model.Like{
		{TweetID: "5", LikedAt: "2025-03-01T10:00:00+09:00"},
	})

	path := days.Path(key)
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Chtimes(path, info.ModTime().Add(-time.Hour), info.ModTime().Add(-time.Hour)))
	before, err := os.Stat(path)
	require.NoError(t, err)

	report, err := Canonical(days, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, report.FilesUpdated)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime(), "clean files must not be rewritten")
}

func TestRawRemovesLaterDuplicates(t *testing.T) {
	root := t.TempDir()
	monthDir := func(m string) string {
		dir := filepath.Join(root, m)
		require.NoError(t, os.MkdirAll(dir, 0755))
		return dir
	}
	writeRaw := func(dir, name, tweetURL string) string {
		path := filepath.Join(dir, name)
		body := `{"tweet_url":"` + tweetURL + `","liked_at":"2024-06-01T10:00:00+09:00"}`
		require.NoError(t, ioutil.WriteFile(path, []byte(body), 0644))
		return path
	}

	jan := monthDir("2024-01")
	jun := monthDir("2024-06")
	kept := writeRaw(jan, "a.json", "https://twitter.com/u/status/111")
	dup := writeRaw(jun, "b.json", "https://twitter.com/u/status/111")
	other := writeRaw(jun, "c.json", "https://twitter.com/u/status/222")

	report, err := Raw(root)
	require.NoError(t, err)

	assert.Equal(t, 3, report.FilesScanned)
	assert.Equal(t, 1, report.FilesRemoved)
	assert.Equal(t, 2, report.UniqueTweets)

	_, err = os.Stat(kept)
	assert.NoError(t, err)
	_, err = os.Stat(other)
	assert.NoError(t, err)
	_, err = os.Stat(dup)
	assert.True(t, os.IsNotExist(err))
}
