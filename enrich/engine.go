// Package enrich attaches fetched tweet render data to canonical like
// records, classifying every record as fetched, private or not found.
package enrich

import (
	"context"
	"time"

	"github.com/harukit/likes-archive/model"
	"github.com/harukit/likes-archive/store"
	Logger "github.com/harukit/likes-archive/utils/log"
	"github.com/pkg/errors"
)

const (
	// DefaultRequestDelay is the minimum spacing between provider calls.
	DefaultRequestDelay = 1 * time.Second
	// saveEvery bounds how many completed enrichments an interrupted run can
	// lose within a single day document.
	saveEvery = 10
)

// Stats summarizes one enrichment run.
type Stats struct {
	Fetched int
	Skipped int
	Failed  int
}

// Engine walks the canonical store and enriches every like that has no
// terminal state yet. Safe to re-enter: already enriched or classified
// records are skipped.
type Engine struct {
	days     *store.DayStore
	provider Provider
	delay    time.Duration

	lastRequest time.Time
}

func NewEngine(days *store.DayStore, provider Provider, delay time.Duration) *Engine {
	if delay <= 0 {
		delay = DefaultRequestDelay
	}
	return &Engine{days: days, provider: provider, delay: delay}
}

// Enrich processes every day document in store order. Partial progress is
// flushed after every saveEvery mutations and at the end of each file, so an
// interrupted run loses at most a handful of completed fetches. Cancellation
// via ctx finishes the in-flight file write before returning.
func (e *Engine) Enrich(ctx context.Context) (Stats, error) {
	stats := Stats{}

	refs, err := e.days.List()
	if err != nil {
		return stats, errors.Wrap(err, "fail to list canonical store")
	}

	for _, ref := range refs {
		doc, ok, err := e.days.TryLoad(ref.Key)
		if err != nil {
			return stats, err
		}
		if !ok {
			continue
		}

		dirty := 0
		for i := range doc.Body {
			like := &doc.Body[i]
			if like.Enriched() {
				stats.Skipped++
				continue
			}
			if like.TweetID == "" {
				Logger.Log.Warnf("like without tweet id in %s, leaving untouched", ref.Key)
				stats.Skipped++
				continue
			}

			if err := e.throttle(ctx); err != nil {
				// Flush what we have before bailing out.
				if saveErr := e.saveProgress(ref.Key, doc, dirty); saveErr != nil {
					return stats, saveErr
				}
				Logger.Log.Info("enrichment interrupted, progress saved")
				return stats, err
			}
			res, err := e.provider.Fetch(ctx, like.TweetID)
			if err != nil {
				if ctx.Err() != nil {
					// Cancelled mid-request: do not misclassify the record.
					if saveErr := e.saveProgress(ref.Key, doc, dirty); saveErr != nil {
						return stats, saveErr
					}
					Logger.Log.Info("enrichment interrupted, progress saved")
					return stats, ctx.Err()
				}
				// Conservative default: a transport failure marks the record
				// not found so one bad tweet cannot block the batch. The
				// record still renders as a placeholder and a later run can
				// be forced to retry it.
				Logger.Log.Errorf("fetch failed for tweet %s, marking notfound: %v", like.TweetID, err)
				res = model.NotFound()
				stats.Failed++
			} else if res.Kind == model.OutcomeFetched {
				Logger.Log.Infof("fetched tweet %s", like.TweetID)
				stats.Fetched++
			} else {
				Logger.Log.Infof("tweet %s classified: %v", like.TweetID, res.Kind)
				stats.Failed++
			}
			res.Apply(like)
			dirty++

			if dirty%saveEvery == 0 {
				if err := e.days.Save(ref.Key, doc); err != nil {
					return stats, err
				}
				Logger.Log.Infof("saved progress for %s", ref.Key)
			}
		}

		if err := e.saveProgress(ref.Key, doc, dirty); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// saveProgress flushes the day document if any record changed since the last
// save.
func (e *Engine) saveProgress(key model.DayKey, doc *model.DayDocument, dirty int) error {
	if dirty == 0 {
		return nil
	}
	return e.days.Save(key, doc)
}

// throttle spaces provider requests at least e.delay apart. Cancellation
// interrupts the wait instead of sleeping it out.
func (e *Engine) throttle(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if wait := e.delay - time.Since(e.lastRequest); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	e.lastRequest = time.Now()
	return nil
}
