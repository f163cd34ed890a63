package main

import (
	"time"

	"github.com/harukit/likes-archive/app_config"
	"github.com/harukit/likes-archive/utils"
	Logger "github.com/harukit/likes-archive/utils/log"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

func newScheduleCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the daily pipeline on a cron schedule in the target timezone",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app_config.DefaultLikesAppConfig()
			if configPath != "" {
				cfg = app_config.ParseLikesAppConfig(configPath)
			}
			return runSchedule(cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the pipeline yaml config")
	return cmd
}

func runSchedule(cfg app_config.LikesAppConfig) error {
	loc, err := targetLocation()
	if err != nil {
		return errors.Wrap(err, "invalid timezone configuration")
	}

	utils.StartTracer()
	defer utils.CloseTracer()
	utils.StartProfiler()
	defer utils.CloseProfiler()

	delay := time.Duration(cfg.REQUEST_DELAY_MS) * time.Millisecond

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.PIPELINE_CRON, func() {
		ctx, cancel := interruptibleContext()
		defer cancel()

		Logger.Log.Info("scheduled pipeline run starting")
		if err := runPipeline(ctx, cfg.PUSH_SEARCH, delay); err != nil {
			Logger.Log.Errorf("scheduled pipeline run failed: %v", err)
			return
		}
		Logger.Log.Info("scheduled pipeline run completed")
	})
	if err != nil {
		return errors.Wrap(err, "invalid cron schedule "+cfg.PIPELINE_CRON)
	}

	Logger.Log.Infof("scheduler started with cron %q in %s", cfg.PIPELINE_CRON, loc)
	c.Run()
	return nil
}
