package app_config

import (
	"io/ioutil"

	Logger "github.com/harukit/likes-archive/utils/log"
	"gopkg.in/yaml.v2"
)

// This is the pipeline config for scheduled execution. Every field has a
// sensible default so the config file stays optional.
type LikesAppConfig struct {
	// Cron schedule for the daily pipeline run, evaluated in the target
	// timezone.
	PIPELINE_CRON string `yaml:"PIPELINE_CRON"`
	// Push incremental updates to the hosted search service after each run.
	PUSH_SEARCH bool `yaml:"PUSH_SEARCH"`
	// Delay between tweet fetches in milliseconds. Keep this at 1000 or
	// above, the syndication endpoint throttles aggressively.
	REQUEST_DELAY_MS int `yaml:"REQUEST_DELAY_MS"`
	// Number of likes per archive page file.
	PAGE_SIZE int `yaml:"PAGE_SIZE"`
	// Number of trailing days in the activity chart window.
	ACTIVITY_WINDOW_DAYS int `yaml:"ACTIVITY_WINDOW_DAYS"`
}

func DefaultLikesAppConfig() LikesAppConfig {
	return LikesAppConfig{
		PIPELINE_CRON:        "30 5 * * *",
		PUSH_SEARCH:          false,
		REQUEST_DELAY_MS:     1000,
		PAGE_SIZE:            20,
		ACTIVITY_WINDOW_DAYS: 7,
	}
}

func ParseLikesAppConfig(path string) LikesAppConfig {
	c := DefaultLikesAppConfig()
	yamlFile, err := ioutil.ReadFile(path)
	if err != nil {
		Logger.Log.Fatal("yamlFile. get err: ", err.Error())
	}
	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		Logger.Log.Fatal("Unmarshal: ", err)
	}
	return c
}
