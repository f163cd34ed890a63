package index

import (
	"encoding/json"
	"fmt"
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

func TestBuildTweetIndexIsBijective(t *testing.T) {
	root := t.TempDir()
	days := store.NewDayStore(root)
	seedDay(t, days, model.DayKey{Year: "2025", Month: "01", Day: "01"}, []model.Like{
		{TweetID: "1", LikedAt: "2025-01-01T10:00:00+09:00"},
		{TweetID: "2", LikedAt: "2025-01-01T11:00:00+09:00"},
	})
	seedDay(t, days, model.DayKey{Year: "2025", Month: "01", Day: "02"}, []model.Like{
		{TweetID: "3", LikedAt: "2025-01-02T10:00:00+09:00"},
	})

	idx, conflicts, err := BuildTweetIndex(days, root)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
	require.Len(t, idx, 3)

	assert.Equal(t, "2025", idx["3"].Year)
	assert.Equal(t, "01", idx["3"].Month)
	assert.Equal(t, "02", idx["3"].Day)
	assert.Equal(t, "2025-01-02T10:00:00+09:00", idx["3"].LikedAt)
}

func TestBuildTweetIndexFlagsCrossFileDuplicates(t *testing.T) {
	root := t.TempDir()
	days := store.NewDayStore(root)
	seedDay(t, days, model.DayKey{Year: "2025", Month: "01", Day: "01"}, []model.Like{
		{TweetID: "1", LikedAt: "2025-01-01T10:00:00+09:00"},
	})
	seedDay(t, days, model.DayKey{Year: "2025", Month: "01", Day: "02"}, []model.Like{
		{TweetID: "1", LikedAt: "2025-01-02T10:00:00+09:00"},
	})

	idx, conflicts, err := BuildTweetIndex(days, root)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "1", conflicts[0].TweetID)
	assert.Len(t, conflicts[0].Files, 2)

	// The index keeps the first occurrence rather than silently
	// last-write-wins overwriting it.
	assert.Equal(t, "01", idx["1"].Day)
}

func TestBuildSearchIndexExcludesAndDedupes(t *testing.T) {
	root := t.TempDir()
	days := store.NewDayStore(root)
	seedDay(t, days, model.DayKey{Year: "2025", Month: "01", Day: "01"}, []model.Like{
		{TweetID: "1", Text: "visible", Username: "a", LikedAt: "2025-01-01T10:00:00+09:00"},
		{TweetID: "2", Text: "private", Private: true, LikedAt: "2025-01-01T11:00:00+09:00"},
		{TweetID: "3", Text: "gone", NotFound: true, LikedAt: "2025-01-01T12:00:00+09:00"},
		{Text: "no id", LikedAt: "2025-01-01T13:00:00+09:00"},
	})
	seedDay(t, days, model.DayKey{Year: "2025", Month: "02", Day: "01"}, []model.Like{
		{TweetID: "4", Text: "newer", Username: "b", LikedAt: "2025-02-01T10:00:00+09:00"},
	})

	refs, err := days.List()
	require.NoError(t, err)

	tweetIndex := model.TweetIndex{
		"1": {Year: "2025", Month: "01", Day: "01"},
		"4": {Year: "2025", Month: "02", Day: "01"},
	}

	entries, err := BuildSearchIndex(days, refs, tweetIndex)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Sorted by date descending.
	assert.Equal(t, "4", entries[0].ObjectID)
	assert.Equal(t, "2025/02/01", entries[0].Date)
	assert.Equal(t, "1", entries[1].ObjectID)
	assert.Equal(t, "/tweet/1", entries[1].Path)
}

func payloadWithURLs(card string) json.RawMessage {
	payload := `{"entities":{"urls":[{"url":"https://t.co/x","expanded_url":"https://example.com/article","display_url":"example.com/article"}]}`
	if card != "" {
		payload += `,"card":` + card
	}
	return json.RawMessage(payload + `}`)
}

func TestBuildURLIndexExtractsCards(t *testing.T) {
	root := t.TempDir()
	days := store.NewDayStore(root)

	card := `{
		"url": "https://t.co/x",
		"binding_values": {
			"title": {"string_value": "An Article"},
			"description": {"string_value": "About things"},
			"thumbnail_image_original": {"image_value": {"url": "https://img/thumb.jpg"}},
			"photo_image_full_size_original": {"image_value": {"url": "https://img/full.jpg"}}
		}
	}`
	seedDay(t, days, model.DayKey{Year: "2025", Month: "01", Day: "01"}, []model.Like{
		{TweetID: "1", Username: "a", LikedAt: "2025-01-01T10:00:00+09:00", TweetData: payloadWithURLs(card)},
		{TweetID: "2", LikedAt: "2025-01-01T11:00:00+09:00", TweetData: json.RawMessage(`{"entities":{"urls":[]}}`)},
		{TweetID: "3", LikedAt: "2025-01-01T12:00:00+09:00"},
	})

	entries, err := BuildURLIndex(days)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "1", entry.TweetID)
	require.Len(t, entry.URLs, 1)
	assert.Equal(t, "https://example.com/article", entry.URLs[0].ExpandedURL)
	require.NotNil(t, entry.Card)
	assert.Equal(t, "An Article", entry.Card.Title)
	// Thumbnail wins over the full-size photo.
	assert.Equal(t, "https://img/thumb.jpg", entry.Card.Image)
}

func TestExtractCardImagePriority(t *testing.T) {
	img := func(url string) *model.CardBindingValue {
		return &model.CardBindingValue{ImageValue: &model.CardImageValue{URL: url}}
	}

	card := &model.TweetCard{BindingValues: model.CardBindingValues{
		PhotoImageFullSizeOriginal: img("https://img/full.jpg"),
		SummaryPhotoImageOriginal:  img("https://img/summary.jpg"),
	}}
	assert.Equal(t, "https://img/full.jpg", extractCard(card).Image)

	card = &model.TweetCard{BindingValues: model.CardBindingValues{
		SummaryPhotoImageOriginal: img("https://img/summary.jpg"),
	}}
	assert.Equal(t, "https://img/summary.jpg", extractCard(card).Image)

	assert.Nil(t, extractCard(nil))
}

func TestBuildPagesPaginatesDeterministically(t *testing.T) {
	likes := make([]model.ArchiveEntry, 45)
	for i := range likes {
		likes[i] = model.ArchiveEntry{TweetID: fmt.Sprintf("%03d", i)}
	}

	pages := BuildPages(likes, 20)
	require.Len(t, pages, 3)

	assert.Len(t, pages[0].Likes, 20)
	assert.Len(t, pages[1].Likes, 20)
	assert.Len(t, pages[2].Likes, 5)

	for i, page := range pages {
		assert.Equal(t, i+1, page.Page)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 45, page.TotalLikes)
	}

	// Page 2 starts at item 20.
	assert.Equal(t, "020", pages[1].Likes[0].TweetID)
}

func TestBuildPagesEmptyInput(t *testing.T) {
	assert.Empty(t, BuildPages(nil, 20))
}

func TestBuildActivityWindow(t *testing.T) {
	days := store.NewDayStore(t.TempDir())

	likesOfSize := func(n int, day string) []model.Like {
		likes := make([]model.Like, n)
		for i := range likes {
			likes[i] = model.Like{TweetID: fmt.Sprintf("%s-%d", day, i), LikedAt: "2025-03-" + day + "T10:00:00+09:00"}
		}
		return likes
	}

	// Trailing week ending Sunday 2025-03-09 with counts [3,0,5,2,0,0,1];
	// the zero days have no day document at all.
	seedDay(t, days, model.DayKey{Year: "2025", Month: "03", Day: "03"}, likesOfSize(3, "03"))
	seedDay(t, days, model.DayKey{Year: "2025", Month: "03", Day: "05"}, likesOfSize(5, "05"))
	seedDay(t, days, model.DayKey{Year: "2025", Month: "03", Day: "06"}, likesOfSize(2, "06"))
	seedDay(t, days, model.DayKey{Year: "2025", Month: "03", Day: "09"}, likesOfSize(1, "09"))

	windowEnd := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	points, err := BuildActivity(days, windowEnd, 7)
	require.NoError(t, err)
	require.Len(t, points, 7)

	wantCounts := []int{3, 0, 5, 2, 0, 0, 1}
	wantNames := []string{"月", "火", "水", "木", "金", "土", "日"}
	for i, p := range points {
		assert.Equal(t, wantCounts[i], p.Count, "count at %s", p.Date)
		assert.Equal(t, wantNames[i], p.DayName, "day name at %s", p.Date)
	}
	assert.Equal(t, "2025-03-03", points[0].Date)
	assert.Equal(t, "2025-03-09", points[6].Date)
}
