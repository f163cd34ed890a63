package main

import (
	"context"
	"os"
	"time"

	"github.com/harukit/likes-archive/enrich"
	"github.com/harukit/likes-archive/store"
	Logger "github.com/harukit/likes-archive/utils/log"
	"github.com/spf13/cobra"
)

func newEnrichCmd() *cobra.Command {
	var delayMs int

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Fetch tweet render data for unclassified likes in the canonical store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := interruptibleContext()
			defer cancel()
			return runEnrich(ctx, time.Duration(delayMs)*time.Millisecond)
		},
	}
	cmd.Flags().IntVar(&delayMs, "delay-ms", 1000, "minimum delay between provider requests in milliseconds")
	return cmd
}

// newProvider wires the tweet-data provider, with the redis cache in front
// when a cache host is configured.
func newProvider() enrich.Provider {
	var provider enrich.Provider = enrich.NewSyndicationClient()
	if os.Getenv("REDIS_HOST") != "" {
		provider = enrich.NewCachedProvider(provider)
	}
	return provider
}

func runEnrich(ctx context.Context, delay time.Duration) error {
	p := newPaths()

	engine := enrich.NewEngine(store.NewDayStore(p.likesDir()), newProvider(), delay)
	stats, err := engine.Enrich(ctx)
	if err != nil && err != context.Canceled {
		return err
	}

	Logger.Log.Infof("enrich done: fetched=%d skipped=%d failed=%d",
		stats.Fetched, stats.Skipped, stats.Failed)
	return nil
}
