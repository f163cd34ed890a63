// Package archive imports likes from a historical twitter data export: the
// like-twitter-*.js files a full account export contains. Imported likes are
// enriched and paginated separately from the canonical day store.
package archive

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/harukit/likes-archive/model"
	Logger "github.com/harukit/likes-archive/utils/log"
	"github.com/pkg/errors"
)

var exportPrefixRe = regexp.MustCompile(`^window\.YTD\.like\.part\d+\s*=\s*`)

// parseExportFile strips the window.YTD.like.partN assignment wrapper and
// decodes the export entries.
func parseExportFile(path string) ([]model.ArchiveLike, error) {
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "fail to read export file "+path)
	}

	content := exportPrefixRe.ReplaceAllString(string(bytes), "")
	content = strings.TrimRight(strings.TrimSpace(content), ";")

	likes := []model.ArchiveLike{}
	if err := json.Unmarshal([]byte(content), &likes); err != nil {
		return nil, errors.Wrap(err, "fail to parse export file "+path)
	}
	return likes, nil
}

// ProcessResult summarizes one export import pass.
type ProcessResult struct {
	Unique          int
	SkippedExisting int
	SkippedInExport int
}

// Process reads every like-twitter-*.js file in exportDir, drops likes
// already present in the tweet index, dedupes within the export, sorts by
// tweet ID descending (roughly reverse chronological for snowflake IDs) and
// writes archive-likes.json plus archive-tweet-ids.json into outDir.
func Process(exportDir, outDir string, tweetIndex model.TweetIndex, now time.Time) (ProcessResult, error) {
	res := ProcessResult{}

	entries, err := ioutil.ReadDir(exportDir)
	if err != nil {
		return res, errors.Wrap(err, "fail to read export directory "+exportDir)
	}

	exportFiles := []string{}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "like-twitter-") && strings.HasSuffix(e.Name(), ".js") {
			exportFiles = append(exportFiles, e.Name())
		}
	}
	sort.Strings(exportFiles)
	Logger.Log.Infof("found %d export files in %s", len(exportFiles), exportDir)

	all := []model.ArchiveEntry{}
	seen := map[string]bool{}
	processedAt := now.Format(time.RFC3339)

	for _, name := range exportFiles {
		likes, err := parseExportFile(filepath.Join(exportDir, name))
		if err != nil {
			return res, err
		}
		Logger.Log.Infof("processing %s: %d likes", name, len(likes))

		for _, like := range likes {
			id := like.Like.TweetID
			if _, ok := tweetIndex[id]; ok {
				res.SkippedExisting++
				continue
			}
			if seen[id] {
				res.SkippedInExport++
				continue
			}
			seen[id] = true

			all = append(all, model.ArchiveEntry{
				ID:          "archive-" + id,
				TweetID:     id,
				FullText:    like.Like.FullText,
				ExpandedURL: like.Like.ExpandedURL,
				IsArchive:   true,
				ProcessedAt: processedAt,
			})
		}
	}
	res.Unique = len(all)

	sort.Slice(all, func(i, j int) bool {
		return all[i].TweetID > all[j].TweetID
	})

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return res, errors.Wrap(err, "fail to create archive directory "+outDir)
	}
	if err := writeJSON(filepath.Join(outDir, "archive-likes.json"), all); err != nil {
		return res, err
	}

	ids := make([]string, 0, len(all))
	for _, e := range all {
		ids = append(ids, e.TweetID)
	}
	if err := writeJSON(filepath.Join(outDir, "archive-tweet-ids.json"), ids); err != nil {
		return res, err
	}

	Logger.Log.Infof("archive import: %d unique, %d already in project, %d duplicated within export",
		res.Unique, res.SkippedExisting, res.SkippedInExport)
	return res, nil
}

// LoadEntries reads an archive likes file (plain or enriched).
func LoadEntries(path string) ([]model.ArchiveEntry, error) {
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "fail to read archive likes "+path)
	}
	entries := []model.ArchiveEntry{}
	if err := json.Unmarshal(bytes, &entries); err != nil {
		return nil, errors.Wrap(err, "fail to parse archive likes "+path)
	}
	return entries, nil
}

// WritePages regenerates the paginated snapshot files under
// <outDir>/pages/page-<n>.json.
func WritePages(outDir string, pages []model.ArchivePage) error {
	pagesDir := filepath.Join(outDir, "pages")
	if err := os.MkdirAll(pagesDir, 0755); err != nil {
		return errors.Wrap(err, "fail to create pages directory")
	}
	for _, page := range pages {
		path := filepath.Join(pagesDir, fmt.Sprintf("page-%d.json", page.Page))
		if err := writeJSON(path, page); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "fail to serialize "+path)
	}
	return ioutil.WriteFile(path, bytes, 0644)
}
