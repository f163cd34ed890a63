// Package dedupe repairs tweet ID collisions in the canonical and raw
// stores. Both passes are idempotent and safe to run at any time; after a
// canonical dedupe the tweet index must be rebuilt.
package dedupe

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/harukit/likes-archive/model"
	"github.com/harukit/likes-archive/processor"
	"github.com/harukit/likes-archive/store"
	Logger "github.com/harukit/likes-archive/utils/log"
)

// occurrence is one sighting of a tweet ID in the canonical store.
type occurrence struct {
	key     model.DayKey
	likedAt time.Time
}

// Report describes exactly what a canonical dedupe pass changed, to support
// manual verification.
type Report struct {
	// DuplicateIDs lists every tweet ID that occurred more than once.
	DuplicateIDs []string
	// FilesUpdated lists the day documents rewritten, as year/month/day keys.
	FilesUpdated []string
	// Removed is the total number of losing occurrences deleted.
	Removed int
}

// Canonical scans every day document, groups like occurrences by tweet ID
// across the whole store, and for each duplicated ID keeps only the earliest
// liked occurrence. Untouched files are not rewritten.
func Canonical(days *store.DayStore, loc *time.Location) (Report, error) {
	report := Report{}

	refs, err := days.List()
	if err != nil {
		return report, err
	}

	docs := map[model.DayKey]*model.DayDocument{}
	occurrences := map[string][]occurrence{}

	for _, ref := range refs {
		doc, ok, err := days.TryLoad(ref.Key)
		if err != nil {
			return report, err
		}
		if !ok {
			continue
		}
		docs[ref.Key] = doc

		for _, like := range doc.Body {
			if like.TweetID == "" {
				Logger.Log.Warnf("like without tweet id in %s", ref.Key)
				continue
			}
			likedAt, err := like.LikedAtTime(loc)
			if err != nil {
				Logger.Log.Warnf("unparseable liked_at for %s in %s: %v", like.TweetID, ref.Key, err)
			}
			occurrences[like.TweetID] = append(occurrences[like.TweetID], occurrence{key: ref.Key, likedAt: likedAt})
		}
	}

	// For each duplicated ID decide the single winning day document: the
	// earliest liked occurrence. This is the one canonical tie-break rule,
	// consistent with the sync engine treating existing occurrences as
	// authoritative.
	winners := map[string]model.DayKey{}
	for id, occs := range occurrences {
		if len(occs) <= 1 {
			continue
		}
		sort.SliceStable(occs, func(i, j int) bool {
			return occs[i].likedAt.Before(occs[j].likedAt)
		})
		winners[id] = occs[0].key
		report.DuplicateIDs = append(report.DuplicateIDs, id)
		report.Removed += len(occs) - 1
		Logger.Log.Warnf("duplicate tweet %s found in %d files, keeping %s", id, len(occs), occs[0].key)
	}
	sort.Strings(report.DuplicateIDs)

	if len(winners) == 0 {
		Logger.Log.Info("no duplicates found")
		return report, nil
	}

	// Rewrite only the documents that actually lose an occurrence.
	updatedKeys := []model.DayKey{}
	for key, doc := range docs {
		kept := doc.Body[:0]
		for _, like := range doc.Body {
			winner, duplicated := winners[like.TweetID]
			if like.TweetID != "" && duplicated && winner != key {
				continue
			}
			kept = append(kept, like)
		}
		if len(kept) == len(doc.Body) {
			continue
		}
		doc.Body = kept
		if err := days.Save(key, doc); err != nil {
			return report, err
		}
		updatedKeys = append(updatedKeys, key)
	}

	sort.Slice(updatedKeys, func(i, j int) bool {
		return updatedKeys[i].String() < updatedKeys[j].String()
	})
	for _, key := range updatedKeys {
		report.FilesUpdated = append(report.FilesUpdated, key.String())
	}

	Logger.Log.Warnf("removed %d duplicate occurrences across %d files; rebuild the tweet index",
		report.Removed, len(report.FilesUpdated))
	return report, nil
}

// RawReport describes a raw store dedupe pass.
type RawReport struct {
	FilesScanned int
	FilesRemoved int
	UniqueTweets int
}

// Raw walks a legacy raw likes tree (arbitrary per-month directories, one
// like per file) and deletes every file whose tweet ID, derived from
// tweet_url, was already seen in an earlier file. The current raw store
// names files by tweet ID so it cannot hold duplicates, but pre-migration
// dumps can.
func Raw(root string) (RawReport, error) {
	report := RawReport{}
	seen := map[string]bool{}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		report.FilesScanned++

		bytes, err := ioutil.ReadFile(path)
		if err != nil {
			return err
		}
		var like model.Like
		if err := json.Unmarshal(bytes, &like); err != nil {
			Logger.Log.Warnf("skipping unparseable raw like %s: %v", path, err)
			return nil
		}

		id := like.TweetID
		if id == "" {
			id = processor.ExtractTweetID(like.TweetURL)
		}
		if id == "" {
			Logger.Log.Warnf("could not derive tweet id from %q in %s", like.TweetURL, path)
			return nil
		}

		if seen[id] {
			Logger.Log.Infof("removing duplicate tweet %s at %s", id, path)
			if err := os.Remove(path); err != nil {
				Logger.Log.Errorf("fail to remove %s: %v", path, err)
				return nil
			}
			report.FilesRemoved++
			return nil
		}
		seen[id] = true
		return nil
	})
	if err != nil {
		return report, err
	}
	report.UniqueTweets = len(seen)
	return report, nil
}
