// Package syncer downloads new like exports from remote object storage into
// the local raw store and reconciles already-synchronized remote objects.
package syncer

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/harukit/likes-archive/model"
	"github.com/harukit/likes-archive/store"
	Logger "github.com/harukit/likes-archive/utils/log"
	"github.com/pkg/errors"
)

// DefaultCheckpointAge is the sync window used when no valid checkpoint
// exists: look back 24 hours from now.
const DefaultCheckpointAge = 24 * time.Hour

// Result summarizes one sync run. NewCheckpoint must be persisted by the
// caller only when Sync returned without error.
type Result struct {
	Downloaded    int
	Skipped       int
	AlreadyLiked  int
	Deleted       int
	NewCheckpoint time.Time
}

// Engine lists remote like exports newer than the checkpoint, downloads the
// genuinely new ones into the raw store and deletes remote objects that were
// already downloaded in a prior run.
type Engine struct {
	remote ObjectStore
	raw    *store.RawStore
	index  model.TweetIndex
	prefix string
	loc    *time.Location

	// now is injectable for tests.
	now func() time.Time
}

func NewEngine(remote ObjectStore, raw *store.RawStore, index model.TweetIndex, prefix string, loc *time.Location) *Engine {
	return &Engine{
		remote: remote,
		raw:    raw,
		index:  index,
		prefix: prefix,
		loc:    loc,
		now:    time.Now,
	}
}

// tweetIDFromKey derives the tweet ID from the object key file name.
func tweetIDFromKey(key string) string {
	return strings.TrimSuffix(path.Base(key), ".json")
}

// Sync runs one synchronization pass. The checkpoint is an injected value;
// reading and persisting it is the caller's responsibility, which keeps the
// engine testable without a filesystem checkpoint. Any transport error aborts
// before a checkpoint can be advanced, so the next run retries the same
// window.
func (e *Engine) Sync(ctx context.Context, checkpoint time.Time) (Result, error) {
	res := Result{}

	objects, err := e.remote.List(ctx, e.prefix)
	if err != nil {
		return res, errors.Wrap(err, "fail to list remote objects")
	}
	Logger.Log.Infof("found %d remote objects under %s, checkpoint %s", len(objects), e.prefix, checkpoint.Format(store.CheckpointFormat))

	rawIDs, err := e.raw.IDs()
	if err != nil {
		return res, errors.Wrap(err, "fail to load raw store ids")
	}

	newObjects := []RemoteObject{}
	oldObjects := []RemoteObject{}
	for _, obj := range objects {
		if obj.LastModified.After(checkpoint) {
			newObjects = append(newObjects, obj)
		} else {
			oldObjects = append(oldObjects, obj)
		}
	}
	Logger.Log.Infof("%d new objects to process, %d old", len(newObjects), len(oldObjects))

	for _, obj := range newObjects {
		// Bail between objects on cancellation; the checkpoint stays put so
		// the next run retries the same window.
		if err := ctx.Err(); err != nil {
			return res, err
		}
		tweetID := tweetIDFromKey(obj.Key)

		// Skip anything already canonicalized or already staged. An existing
		// occurrence is authoritative: earlier runs inserted earlier likes.
		if _, ok := e.index[tweetID]; ok {
			Logger.Log.Infof("skipping %s: already liked tweet", obj.Key)
			res.AlreadyLiked++
			continue
		}
		if rawIDs[tweetID] {
			Logger.Log.Infof("skipping %s: already staged", obj.Key)
			res.Skipped++
			continue
		}

		body, err := e.fetchWithRetry(ctx, obj.Key)
		if err != nil {
			// Never advance the checkpoint past an unprocessed object.
			return res, errors.Wrap(err, "fail to download "+obj.Key)
		}
		if err := e.raw.Write(tweetID, body); err != nil {
			return res, errors.Wrap(err, "fail to persist "+obj.Key)
		}
		Logger.Log.Infof("downloaded %s (modified %s)", obj.Key, obj.LastModified)
		rawIDs[tweetID] = true
		res.Downloaded++
	}

	// Reconcile: remote objects at or before the checkpoint that are already
	// persisted locally were downloaded by a prior run and can be removed to
	// bound remote storage growth.
	for _, obj := range oldObjects {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		tweetID := tweetIDFromKey(obj.Key)
		if _, ok := e.index[tweetID]; !ok && !rawIDs[tweetID] {
			continue
		}
		if err := e.remote.Delete(ctx, obj.Key); err != nil {
			Logger.Log.Errorf("fail to delete remote object %s: %v", obj.Key, err)
			continue
		}
		Logger.Log.Infof("deleted remote object %s", obj.Key)
		res.Deleted++
	}

	res.NewCheckpoint = e.now().In(e.loc)
	return res, nil
}

func (e *Engine) fetchWithRetry(ctx context.Context, key string) ([]byte, error) {
	body, err := e.remote.Fetch(ctx, key)
	if err == nil {
		return body, nil
	}
	Logger.Log.Warnf("retrying download of %s after error: %v", key, err)
	return e.remote.Fetch(ctx, key)
}
