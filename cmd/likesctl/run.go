package main

import (
	"context"
	"time"

	Logger "github.com/harukit/likes-archive/utils/log"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var pushSearch bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full daily pipeline: sync, canonicalize, enrich, indices",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := interruptibleContext()
			defer cancel()
			return runPipeline(ctx, pushSearch, 0)
		},
	}
	cmd.Flags().BoolVar(&pushSearch, "push-search", false, "push incremental updates to the hosted search service")
	return cmd
}

// runPipeline executes the stages in order. Stages are decoupled and
// independently rerunnable: a failure in one stage logs and stops that
// stage's downstream artifacts, but already-persisted data from earlier
// stages stays valid for the next scheduled run.
func runPipeline(ctx context.Context, pushSearch bool, delay time.Duration) error {
	if err := runSync(ctx); err != nil {
		// Sync failure defers the window to the next run; the rest of the
		// pipeline still operates on previously synced data.
		Logger.Log.Errorf("sync stage failed: %v", err)
	}

	if err := runCanonicalize(); err != nil {
		Logger.Log.Errorf("canonicalize stage failed: %v", err)
	}

	if err := runEnrich(ctx, delay); err != nil {
		if err == context.Canceled {
			return err
		}
		Logger.Log.Errorf("enrich stage failed: %v", err)
	}

	// An inconsistent tweet index stops the derived publishing steps.
	if _, err := runIndexTweets(); err != nil {
		return err
	}

	if err := runIndexSearch(false, false); err != nil {
		return err
	}
	if pushSearch {
		if err := runIndexSearch(false, true); err != nil {
			return err
		}
	}
	if err := runIndexURLs(); err != nil {
		return err
	}
	return runIndexActivity()
}
