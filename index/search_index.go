package index

import (
	"sort"

	"github.com/harukit/likes-archive/model"
	"github.com/harukit/likes-archive/store"
)

// BuildSearchIndex flattens the canonical store into search records. Private
// and not-found likes are excluded (there is nothing to show), records are
// deduplicated by tweet ID (content is immutable so last occurrence winning
// is fine) and sorted by date descending.
func BuildSearchIndex(days *store.DayStore, refs []store.DayRef, tweetIndex model.TweetIndex) ([]model.SearchEntry, error) {
	byID := map[string]model.SearchEntry{}

	for _, ref := range refs {
		doc, ok, err := days.TryLoad(ref.Key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		for _, like := range doc.Body {
			if like.TweetID == "" || like.Private || like.NotFound {
				continue
			}
			info, ok := tweetIndex[like.TweetID]
			if !ok {
				// Stale index entry; the record still gets the date of the
				// file it lives in.
				info = model.TweetIndexEntry{Year: ref.Key.Year, Month: ref.Key.Month, Day: ref.Key.Day}
			}
			byID[like.TweetID] = model.SearchEntry{
				ObjectID: like.TweetID,
				Text:     like.Text,
				Username: like.Username,
				Date:     info.Year + "/" + info.Month + "/" + info.Day,
				Year:     info.Year,
				Month:    info.Month,
				Day:      info.Day,
				Path:     "/tweet/" + like.TweetID,
			}
		}
	}

	entries := make([]model.SearchEntry, 0, len(byID))
	for _, e := range byID {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date > entries[j].Date
		}
		return entries[i].ObjectID > entries[j].ObjectID
	})
	return entries, nil
}
