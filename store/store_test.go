package store

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/harukit/likes-archive/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayStoreTryLoadAbsent(t *testing.T) {
	days := NewDayStore(t.TempDir())

	doc, ok, err := days.TryLoad(model.DayKey{Year: "2025", Month: "01", Day: "01"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, doc)
}

func TestDayStoreSaveLoadRoundtrip(t *testing.T) {
	days := NewDayStore(t.TempDir())
	key := model.DayKey{Year: "2025", Month: "02", Day: "01"}

	doc := &model.DayDocument{Body: []model.Like{
		{TweetID: "1", Username: "a", LikedAt: "2025-02-01T10:00:00+09:00"},
	}}
	require.NoError(t, days.Save(key, doc))

	loaded, ok, err := days.TryLoad(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, cmp.Equal(doc, loaded))
}

func TestDayStoreListOrdersByDate(t *testing.T) {
	days := NewDayStore(t.TempDir())
	empty := &model.DayDocument{Body: []model.Like{}}

	require.NoError(t, days.Save(model.DayKey{Year: "2025", Month: "02", Day: "03"}, empty))
	require.NoError(t, days.Save(model.DayKey{Year: "2024", Month: "12", Day: "31"}, empty))
	require.NoError(t, days.Save(model.DayKey{Year: "2025", Month: "01", Day: "15"}, empty))

	refs, err := days.List()
	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.Equal(t, "2024/12/31", refs[0].Key.String())
	assert.Equal(t, "2025/01/15", refs[1].Key.String())
	assert.Equal(t, "2025/02/03", refs[2].Key.String())
}

func TestDayStoreListIgnoresForeignFiles(t *testing.T) {
	root := t.TempDir()
	days := NewDayStore(root)
	require.NoError(t, days.Save(model.DayKey{Year: "2025", Month: "01", Day: "01"}, &model.DayDocument{}))

	// Stray files outside the year/month/day layout must not break listing.
	require.NoError(t, ioutil.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, ioutil.WriteFile(filepath.Join(root, "2025", "01", "summary.json"), []byte("{}"), 0644))

	refs, err := days.List()
	require.NoError(t, err)
	assert.Len(t, refs, 1)
}

func TestLoadCheckpointFallsBackOnInvalid(t *testing.T) {
	dir := t.TempDir()
	fallback := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	// Missing file.
	assert.Equal(t, fallback, LoadCheckpoint(filepath.Join(dir, "missing.txt"), fallback))

	// Garbage content.
	path := filepath.Join(dir, "last-sync.txt")
	require.NoError(t, ioutil.WriteFile(path, []byte("not a date"), 0644))
	assert.Equal(t, fallback, LoadCheckpoint(path, fallback))
}

func TestCheckpointRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last-sync.txt")
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	saved := time.Date(2025, 5, 1, 12, 30, 45, 0, loc)
	require.NoError(t, SaveCheckpoint(path, saved))

	loaded := LoadCheckpoint(path, time.Time{})
	assert.True(t, saved.Equal(loaded))
}

func TestTweetIndexRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tweet-index.json")

	// Missing file is an empty index.
	idx, err := LoadTweetIndex(path)
	require.NoError(t, err)
	assert.Empty(t, idx)

	idx = model.TweetIndex{
		"1": {ID: "1", FilePath: "likes/2025/01/01.json", Year: "2025", Month: "01", Day: "01", LikedAt: "2025-01-01T10:00:00+09:00"},
	}
	require.NoError(t, SaveTweetIndex(path, idx))

	loaded, err := LoadTweetIndex(path)
	require.NoError(t, err)
	assert.True(t, cmp.Equal(idx, loaded))
}

func TestRawStoreIDsAndReadAll(t *testing.T) {
	raw := NewRawStore(filepath.Join(t.TempDir(), "tweets_v2"))

	ids, err := raw.IDs()
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, raw.Write("123", []byte(`{"tweet_id":"123","liked_at":"2025-01-01T10:00:00+09:00"}`)))
	require.NoError(t, raw.Write("456", []byte(`{"tweet_id":"456","liked_at":"2025-01-02T10:00:00+09:00"}`)))

	ids, err = raw.IDs()
	require.NoError(t, err)
	assert.True(t, ids["123"])
	assert.True(t, ids["456"])

	likes, err := raw.ReadAll()
	require.NoError(t, err)
	require.Len(t, likes, 2)
	assert.Equal(t, "123", likes[0].TweetID)
}
