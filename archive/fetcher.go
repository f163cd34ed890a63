package archive

import (
	"context"
	"path/filepath"
	"time"

	"github.com/harukit/likes-archive/enrich"
	"github.com/harukit/likes-archive/index"
	"github.com/harukit/likes-archive/model"
	Logger "github.com/harukit/likes-archive/utils/log"
	"github.com/pkg/errors"
)

const (
	// saveEvery bounds how much progress an interrupted fetch run loses.
	saveEvery = 10
	// repageEvery controls how often the page files are regenerated during a
	// long fetch run.
	repageEvery = 100
)

// FetchStats summarizes one archive enrichment run.
type FetchStats struct {
	Fetched int
	Failed  int
	Skipped int
}

// Fetcher enriches archive entries with tweet render data, resuming from the
// enriched output file when present.
type Fetcher struct {
	dir      string
	provider enrich.Provider
	delay    time.Duration

	lastRequest time.Time
}

func NewFetcher(dir string, provider enrich.Provider, delay time.Duration) *Fetcher {
	if delay <= 0 {
		delay = enrich.DefaultRequestDelay
	}
	return &Fetcher{dir: dir, provider: provider, delay: delay}
}

func (f *Fetcher) inputPath() string {
	return filepath.Join(f.dir, "archive-likes.json")
}

func (f *Fetcher) outputPath() string {
	return filepath.Join(f.dir, "archive-likes-enriched.json")
}

// Run fetches tweet data for every archive entry without a terminal state.
// Progress is saved every few fetches and page files are refreshed
// periodically, so an interrupted run resumes where it left off.
func (f *Fetcher) Run(ctx context.Context) (FetchStats, error) {
	stats := FetchStats{}

	entries, err := LoadEntries(f.outputPath())
	if err != nil {
		// No enriched output yet: start fresh from the processed input.
		entries, err = LoadEntries(f.inputPath())
		if err != nil {
			return stats, errors.Wrap(err, "no archive likes to enrich, run the import first")
		}
		Logger.Log.Info("no existing enriched data found, starting fresh")
	} else {
		Logger.Log.Infof("resuming from enriched data with %d entries", len(entries))
	}

	toFetch := []int{}
	for i := range entries {
		if entries[i].Enriched() {
			stats.Skipped++
			continue
		}
		toFetch = append(toFetch, i)
	}
	Logger.Log.Infof("need to fetch %d of %d archive tweets", len(toFetch), len(entries))

	sinceRepage := 0
	for n, i := range toFetch {
		if err := ctx.Err(); err != nil {
			if saveErr := f.flush(entries); saveErr != nil {
				return stats, saveErr
			}
			Logger.Log.Info("archive fetch interrupted, progress saved")
			return stats, err
		}

		entry := &entries[i]
		if err := f.throttle(ctx); err != nil {
			if saveErr := f.flush(entries); saveErr != nil {
				return stats, saveErr
			}
			Logger.Log.Info("archive fetch interrupted, progress saved")
			return stats, err
		}
		res, err := f.provider.Fetch(ctx, entry.TweetID)
		if err != nil {
			if ctx.Err() != nil {
				// Cancelled mid-request: do not misclassify the entry.
				if saveErr := f.flush(entries); saveErr != nil {
					return stats, saveErr
				}
				Logger.Log.Info("archive fetch interrupted, progress saved")
				return stats, ctx.Err()
			}
			Logger.Log.Errorf("fetch failed for archive tweet %s, marking notfound: %v", entry.TweetID, err)
			res = model.NotFound()
			stats.Failed++
		} else if res.Kind == model.OutcomeFetched {
			stats.Fetched++
		} else {
			stats.Failed++
		}
		entry.Apply(res, time.Now().Format(time.RFC3339))
		sinceRepage++

		if (n+1)%saveEvery == 0 || n == len(toFetch)-1 {
			if err := f.flush(entries); err != nil {
				return stats, err
			}
			Logger.Log.Infof("saved progress: %d/%d archive tweets", n+1, len(toFetch))
		}
		if sinceRepage >= repageEvery || n == len(toFetch)-1 {
			if err := WritePages(f.dir, index.BuildPages(entries, index.DefaultPageSize)); err != nil {
				return stats, err
			}
			sinceRepage = 0
		}
	}

	return stats, nil
}

func (f *Fetcher) flush(entries []model.ArchiveEntry) error {
	return writeJSON(f.outputPath(), entries)
}

// throttle spaces provider requests at least f.delay apart. Cancellation
// interrupts the wait instead of sleeping it out.
func (f *Fetcher) throttle(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if wait := f.delay - time.Since(f.lastRequest); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.lastRequest = time.Now()
	return nil
}
