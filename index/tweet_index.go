// Package index builds the derived artifacts of the canonical store: the
// tweet ID lookup index, the search index, the URL extraction index, archive
// pages and the activity summary. Builders are read-only passes; the
// canonical store is never mutated here.
package index

import (
	"fmt"
	"path/filepath"

	"github.com/harukit/likes-archive/model"
	"github.com/harukit/likes-archive/store"
	Logger "github.com/harukit/likes-archive/utils/log"
)

// Conflict records a tweet ID found in more than one day document. This is a
// data-integrity fault: the canonical store guarantees a tweet ID lives in
// exactly one day file.
type Conflict struct {
	TweetID string
	Files   []string
}

func (c Conflict) String() string {
	return fmt.Sprintf("tweet %s appears in %d files: %v", c.TweetID, len(c.Files), c.Files)
}

// BuildTweetIndex scans every day document and maps each tweet ID to its
// location. Duplicate IDs are never silently overwritten; they come back as
// conflicts and the caller must treat any conflict as a stop condition for
// downstream publishing.
func BuildTweetIndex(days *store.DayStore, indexDir string) (model.TweetIndex, []Conflict, error) {
	refs, err := days.List()
	if err != nil {
		return nil, nil, err
	}

	idx := model.TweetIndex{}
	seenIn := map[string][]string{}

	for _, ref := range refs {
		doc, ok, err := days.TryLoad(ref.Key)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			continue
		}

		relPath, err := filepath.Rel(indexDir, ref.Path)
		if err != nil {
			relPath = ref.Path
		}

		for _, like := range doc.Body {
			if like.TweetID == "" {
				continue
			}
			seenIn[like.TweetID] = append(seenIn[like.TweetID], relPath)
			if len(seenIn[like.TweetID]) > 1 {
				// Keep the first occurrence; the conflict report carries the
				// rest.
				continue
			}
			idx[like.TweetID] = model.TweetIndexEntry{
				ID:       like.TweetID,
				FilePath: relPath,
				Year:     ref.Key.Year,
				Month:    ref.Key.Month,
				Day:      ref.Key.Day,
				LikedAt:  like.LikedAt,
			}
		}
	}

	conflicts := []Conflict{}
	for id, files := range seenIn {
		if len(files) > 1 {
			conflicts = append(conflicts, Conflict{TweetID: id, Files: files})
			Logger.Log.Errorf("integrity fault: tweet %s present in %v", id, files)
		}
	}
	return idx, conflicts, nil
}
