package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harukit/likes-archive/model"
	"github.com/harukit/likes-archive/store"
	"github.com/harukit/likes-archive/syncer"
	Logger "github.com/harukit/likes-archive/utils/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// interruptibleContext returns a context cancelled on SIGINT/SIGTERM, letting
// each stage finish its in-flight file write before exiting.
func interruptibleContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Download new like exports from object storage into the raw store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := interruptibleContext()
			defer cancel()
			return runSync(ctx)
		},
	}
}

func runSync(ctx context.Context) error {
	p := newPaths()

	loc, err := targetLocation()
	if err != nil {
		return errors.Wrap(err, "invalid timezone configuration")
	}

	bucket := os.Getenv("AWS_BUCKET_NAME")
	if bucket == "" {
		return errors.New("missing AWS_BUCKET_NAME")
	}
	prefix := os.Getenv("LIKES_S3_PREFIX")
	if prefix == "" {
		prefix = "tweets_v2"
	}

	remote, err := syncer.NewS3ObjectStore(bucket)
	if err != nil {
		return err
	}

	tweetIndex, err := store.LoadTweetIndex(p.tweetIndex())
	if err != nil {
		return err
	}

	engine := newSyncEngine(remote, p, tweetIndex, prefix, loc)

	checkpoint := store.LoadCheckpoint(p.checkpoint(), time.Now().In(loc).Add(-syncer.DefaultCheckpointAge))
	res, err := engine.Sync(ctx, checkpoint)
	if err != nil {
		return errors.Wrap(err, "sync aborted, checkpoint not advanced")
	}

	// Advance the watermark only after the whole batch succeeded.
	if err := store.SaveCheckpoint(p.checkpoint(), res.NewCheckpoint); err != nil {
		return errors.Wrap(err, "fail to persist checkpoint")
	}

	Logger.Log.Infof("sync done: downloaded=%d skipped=%d alreadyLiked=%d deleted=%d",
		res.Downloaded, res.Skipped, res.AlreadyLiked, res.Deleted)
	return nil
}

func newSyncEngine(remote syncer.ObjectStore, p paths, tweetIndex model.TweetIndex, prefix string, loc *time.Location) *syncer.Engine {
	return syncer.NewEngine(remote, store.NewRawStore(p.rawDir()), tweetIndex, prefix, loc)
}
