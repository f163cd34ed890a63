package main

import (
	"github.com/harukit/likes-archive/dedupe"
	"github.com/harukit/likes-archive/store"
	Logger "github.com/harukit/likes-archive/utils/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newDedupeCmd() *cobra.Command {
	var rawDir string

	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Remove duplicate tweet IDs from the canonical store, keeping the earliest like",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDedupe(rawDir)
		},
	}
	cmd.Flags().StringVar(&rawDir, "raw-dir", "", "also dedupe a legacy raw likes tree at this path")
	return cmd
}

func runDedupe(rawDir string) error {
	p := newPaths()

	loc, err := targetLocation()
	if err != nil {
		return errors.Wrap(err, "invalid timezone configuration")
	}

	report, err := dedupe.Canonical(store.NewDayStore(p.likesDir()), loc)
	if err != nil {
		return err
	}
	Logger.Log.Infof("dedupe done: duplicateIds=%d removed=%d filesUpdated=%d",
		len(report.DuplicateIDs), report.Removed, len(report.FilesUpdated))
	for _, f := range report.FilesUpdated {
		Logger.Log.Infof("  updated %s", f)
	}

	if report.Removed > 0 {
		// The tweet index may now point at removed occurrences.
		Logger.Log.Info("rebuilding tweet index after dedupe")
		if _, err := runIndexTweets(); err != nil {
			return err
		}
	}

	if rawDir != "" {
		rawReport, err := dedupe.Raw(rawDir)
		if err != nil {
			return err
		}
		Logger.Log.Infof("raw dedupe done: scanned=%d removed=%d unique=%d",
			rawReport.FilesScanned, rawReport.FilesRemoved, rawReport.UniqueTweets)
	}
	return nil
}
