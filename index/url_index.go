package index

import (
	"encoding/json"
	"sort"

	"github.com/harukit/likes-archive/model"
	"github.com/harukit/likes-archive/store"
	Logger "github.com/harukit/likes-archive/utils/log"
)

// BuildURLIndex extracts every liked tweet whose render payload carries URL
// entities, flattening link triples and the optional preview card. Sorted by
// date descending.
func BuildURLIndex(days *store.DayStore) ([]model.URLEntry, error) {
	refs, err := days.List()
	if err != nil {
		return nil, err
	}

	entries := []model.URLEntry{}
	for _, ref := range refs {
		doc, ok, err := days.TryLoad(ref.Key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		for _, like := range doc.Body {
			if len(like.TweetData) == 0 {
				continue
			}
			payload := model.TweetPayload{}
			if err := json.Unmarshal(like.TweetData, &payload); err != nil {
				Logger.Log.Warnf("unparseable tweet payload for %s in %s: %v", like.TweetID, ref.Key, err)
				continue
			}
			if payload.Entities == nil || len(payload.Entities.URLs) == 0 {
				continue
			}

			entries = append(entries, model.URLEntry{
				TweetID:  like.TweetID,
				Username: like.Username,
				TweetURL: like.TweetURL,
				LikedAt:  like.LikedAt,
				Year:     ref.Key.Year,
				Month:    ref.Key.Month,
				Day:      ref.Key.Day,
				URLs:     payload.Entities.URLs,
				Card:     extractCard(payload.Card),
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		di := entries[i].Year + entries[i].Month + entries[i].Day
		dj := entries[j].Year + entries[j].Month + entries[j].Day
		return di > dj
	})
	return entries, nil
}

// extractCard flattens a preview card, picking the image by priority:
// thumbnail, then full-size photo, then summary photo.
func extractCard(card *model.TweetCard) *model.URLCard {
	if card == nil {
		return nil
	}

	out := &model.URLCard{URL: card.URL}
	bv := card.BindingValues
	if bv.Title != nil {
		out.Title = bv.Title.StringValue
	}
	if bv.Description != nil {
		out.Description = bv.Description.StringValue
	}
	for _, candidate := range []*model.CardBindingValue{
		bv.ThumbnailImageOriginal,
		bv.PhotoImageFullSizeOriginal,
		bv.SummaryPhotoImageOriginal,
	} {
		if candidate != nil && candidate.ImageValue != nil && candidate.ImageValue.URL != "" {
			out.Image = candidate.ImageValue.URL
			break
		}
	}
	return out
}
