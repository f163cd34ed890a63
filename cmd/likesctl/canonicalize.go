package main

import (
	"github.com/harukit/likes-archive/processor"
	"github.com/harukit/likes-archive/store"
	Logger "github.com/harukit/likes-archive/utils/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newCanonicalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "canonicalize",
		Short: "Merge raw like records into the canonical day-partitioned store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCanonicalize()
		},
	}
}

func runCanonicalize() error {
	p := newPaths()

	loc, err := targetLocation()
	if err != nil {
		return errors.Wrap(err, "invalid timezone configuration")
	}

	canonicalizer := processor.NewCanonicalizer(store.NewDayStore(p.likesDir()), loc)
	res, err := canonicalizer.CanonicalizeRawStore(store.NewRawStore(p.rawDir()))
	if err != nil {
		return err
	}

	Logger.Log.Infof("canonicalize done: inserted=%d duplicates=%d skipped=%d",
		res.Inserted, res.Duplicates, res.Skipped)
	return nil
}
