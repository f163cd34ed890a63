package main

import (
	"encoding/json"
	"io/ioutil"
	"time"

	"github.com/araddon/dateparse"
	"github.com/harukit/likes-archive/index"
	"github.com/harukit/likes-archive/model"
	"github.com/harukit/likes-archive/store"
	Logger "github.com/harukit/likes-archive/utils/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build derived indices from the canonical store",
	}
	cmd.AddCommand(newIndexTweetsCmd())
	cmd.AddCommand(newIndexSearchCmd())
	cmd.AddCommand(newIndexURLsCmd())
	cmd.AddCommand(newIndexActivityCmd())
	return cmd
}

func newIndexTweetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tweets",
		Short: "Rebuild the tweet ID lookup index",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runIndexTweets()
			return err
		},
	}
}

// runIndexTweets rebuilds tweet-index.json. Any cross-file tweet ID conflict
// is a data-integrity fault: the index is still written (pointing at first
// occurrences) but the command fails so automated downstream steps stop.
func runIndexTweets() (model.TweetIndex, error) {
	p := newPaths()

	idx, conflicts, err := index.BuildTweetIndex(store.NewDayStore(p.likesDir()), p.dataDir)
	if err != nil {
		return nil, err
	}
	if err := store.SaveTweetIndex(p.tweetIndex(), idx); err != nil {
		return nil, err
	}
	Logger.Log.Infof("tweet index built with %d entries", len(idx))

	if len(conflicts) > 0 {
		for _, c := range conflicts {
			Logger.Log.Error(c.String())
		}
		return idx, errors.Errorf("%d duplicate tweet ids across day files, run dedupe and rebuild", len(conflicts))
	}
	return idx, nil
}

func newIndexSearchCmd() *cobra.Command {
	var push bool
	var incremental bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Build the full-text search index, optionally pushing it to the hosted service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndexSearch(push, incremental)
		},
	}
	cmd.Flags().BoolVar(&push, "push", false, "push records to the hosted search service")
	cmd.Flags().BoolVar(&incremental, "incremental", false, "only push records from files modified since the last push")
	return cmd
}

func runIndexSearch(push, incremental bool) error {
	p := newPaths()
	days := store.NewDayStore(p.likesDir())

	tweetIndex, err := store.LoadTweetIndex(p.tweetIndex())
	if err != nil {
		return err
	}

	refs, err := days.List()
	if err != nil {
		return err
	}

	if incremental {
		return runIncrementalSearchPush(p, days, tweetIndex)
	}

	entries, err := index.BuildSearchIndex(days, refs, tweetIndex)
	if err != nil {
		return err
	}
	if err := writeJSONArtifact(p.searchIndex(), entries); err != nil {
		return err
	}
	Logger.Log.Infof("search index built with %d entries", len(entries))

	if push {
		pusher, err := index.NewSearchPusher()
		if err != nil {
			return err
		}
		if err := pusher.ReplaceAll(entries); err != nil {
			return err
		}
		Logger.Log.Infof("search index pushed (%d records)", len(entries))
	}
	return nil
}

// runIncrementalSearchPush re-scans only day files modified since the last
// push marker and upserts their records. Keyed off file mtime, which is
// fragile across fresh checkouts; a full push is always available as the
// fallback.
func runIncrementalSearchPush(p paths, days *store.DayStore, tweetIndex model.TweetIndex) error {
	info, err := store.LoadSearchSyncInfo(p.searchSyncInfo())
	if err != nil {
		return err
	}

	var refs []store.DayRef
	if info == nil {
		Logger.Log.Info("no previous search push, scanning all files")
		refs, err = days.List()
	} else {
		lastSync, parseErr := dateparse.ParseAny(info.Timestamp)
		if parseErr != nil {
			return errors.Wrap(parseErr, "invalid search sync marker")
		}
		refs, err = days.ListModifiedAfter(lastSync)
	}
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		Logger.Log.Info("no files modified since last push, skipping")
		return nil
	}
	Logger.Log.Infof("processing %d modified files", len(refs))

	entries, err := index.BuildSearchIndex(days, refs, tweetIndex)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		Logger.Log.Info("no records to push")
		return nil
	}

	pusher, err := index.NewSearchPusher()
	if err != nil {
		return err
	}
	if err := pusher.Upsert(entries); err != nil {
		return err
	}

	return store.SaveSearchSyncInfo(p.searchSyncInfo(), &model.SearchSyncInfo{
		Timestamp:   time.Now().Format(store.CheckpointFormat),
		RecordCount: len(entries),
	})
}

func newIndexURLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "urls",
		Short: "Extract URL entities and link preview cards into the URL index",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndexURLs()
		},
	}
}

func runIndexURLs() error {
	p := newPaths()

	entries, err := index.BuildURLIndex(store.NewDayStore(p.likesDir()))
	if err != nil {
		return err
	}
	if err := writeJSONArtifact(p.urlIndex(), entries); err != nil {
		return err
	}
	Logger.Log.Infof("url index built with %d entries", len(entries))
	return nil
}

func newIndexActivityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activity",
		Short: "Build the 7-day rolling activity summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndexActivity()
		},
	}
}

func runIndexActivity() error {
	p := newPaths()

	loc, err := targetLocation()
	if err != nil {
		return errors.Wrap(err, "invalid timezone configuration")
	}

	data, err := index.BuildActivityData(store.NewDayStore(p.likesDir()), time.Now().In(loc), 7)
	if err != nil {
		return err
	}
	if err := writeJSONArtifact(p.activityData(), data); err != nil {
		return err
	}
	for _, a := range data.Activities {
		Logger.Log.Infof("  %s (%s): %d likes", a.Date, a.DayName, a.Count)
	}
	return nil
}

func writeJSONArtifact(path string, v interface{}) error {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "fail to serialize "+path)
	}
	return ioutil.WriteFile(path, bytes, 0644)
}
