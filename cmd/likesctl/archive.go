package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/harukit/likes-archive/archive"
	"github.com/harukit/likes-archive/index"
	"github.com/harukit/likes-archive/store"
	Logger "github.com/harukit/likes-archive/utils/log"
	"github.com/spf13/cobra"
)

func newArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Import and enrich likes from a historical twitter data export",
	}
	cmd.AddCommand(newArchiveProcessCmd())
	cmd.AddCommand(newArchiveFetchCmd())
	cmd.AddCommand(newArchivePagesCmd())
	return cmd
}

func newArchiveProcessCmd() *cobra.Command {
	var exportDir string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Parse like-twitter-*.js export files into the archive store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchiveProcess(exportDir)
		},
	}
	cmd.Flags().StringVar(&exportDir, "export-dir", ".", "directory containing the like-twitter-*.js export files")
	return cmd
}

func runArchiveProcess(exportDir string) error {
	p := newPaths()

	tweetIndex, err := store.LoadTweetIndex(p.tweetIndex())
	if err != nil {
		return err
	}

	res, err := archive.Process(exportDir, p.archiveDir(), tweetIndex, time.Now())
	if err != nil {
		return err
	}
	Logger.Log.Infof("archive process done: unique=%d skippedExisting=%d skippedInExport=%d",
		res.Unique, res.SkippedExisting, res.SkippedInExport)
	return nil
}

func newArchiveFetchCmd() *cobra.Command {
	var delayMs int

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch tweet render data for imported archive likes (resumable)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := interruptibleContext()
			defer cancel()
			return runArchiveFetch(ctx, time.Duration(delayMs)*time.Millisecond)
		},
	}
	cmd.Flags().IntVar(&delayMs, "delay-ms", 1000, "minimum delay between provider requests in milliseconds")
	return cmd
}

func runArchiveFetch(ctx context.Context, delay time.Duration) error {
	p := newPaths()

	fetcher := archive.NewFetcher(p.archiveDir(), newProvider(), delay)
	stats, err := fetcher.Run(ctx)
	if err != nil && err != context.Canceled {
		return err
	}

	Logger.Log.Infof("archive fetch done: fetched=%d failed=%d previouslyDone=%d",
		stats.Fetched, stats.Failed, stats.Skipped)
	return nil
}

func newArchivePagesCmd() *cobra.Command {
	var pageSize int

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Regenerate the paginated archive snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchivePages(pageSize)
		},
	}
	cmd.Flags().IntVar(&pageSize, "page-size", index.DefaultPageSize, "likes per page")
	return cmd
}

func runArchivePages(pageSize int) error {
	p := newPaths()

	entries, err := archive.LoadEntries(filepath.Join(p.archiveDir(), "archive-likes-enriched.json"))
	if err != nil {
		return err
	}

	pages := index.BuildPages(entries, pageSize)
	if err := archive.WritePages(p.archiveDir(), pages); err != nil {
		return err
	}
	Logger.Log.Infof("wrote %d archive pages for %d likes", len(pages), len(entries))
	return nil
}
