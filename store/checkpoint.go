package store

import (
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	Logger "github.com/harukit/likes-archive/utils/log"
	"github.com/pkg/errors"
)

// CheckpointFormat is the layout of the persisted sync watermark, an
// ISO-8601 timestamp with the target timezone offset.
const CheckpointFormat = "2006-01-02T15:04:05-07:00"

// LoadCheckpoint reads the last-sync watermark. A missing, unreadable or
// unparseable file silently falls back to the provided default rather than
// failing the run, so a corrupted side file only widens the sync window.
func LoadCheckpoint(path string, fallback time.Time) time.Time {
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		Logger.Log.Infof("checkpoint %s unreadable, using default: %v", path, err)
		return fallback
	}

	t, err := dateparse.ParseAny(strings.TrimSpace(string(bytes)))
	if err != nil {
		Logger.Log.Warnf("invalid checkpoint in %s, using default: %v", path, err)
		return fallback
	}
	return t
}

// SaveCheckpoint persists the watermark. Callers must only invoke this after
// the whole sync batch succeeded.
func SaveCheckpoint(path string, t time.Time) error {
	if dir := parentDir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "fail to create checkpoint directory")
		}
	}
	return ioutil.WriteFile(path, []byte(t.Format(CheckpointFormat)), 0644)
}

func parentDir(path string) string {
	idx := strings.LastIndexByte(path, '/')
	if idx <= 0 {
		return ""
	}
	return path[:idx]
}
