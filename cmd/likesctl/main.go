// Package main provides the likesctl CLI, the entry point for every stage of
// the likes archive pipeline.
package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/harukit/likes-archive/utils/dotenv"
	Logger "github.com/harukit/likes-archive/utils/log"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := dotenv.LoadDotEnvs(); err != nil {
		Logger.Log.Fatal("fail to load env: ", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "likesctl",
		Short:   "Sync, canonicalize, enrich and index archived tweet likes",
		Version: version,
	}

	rootCmd.SetVersionTemplate("likesctl version {{.Version}}\n")

	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newCanonicalizeCmd())
	rootCmd.AddCommand(newEnrichCmd())
	rootCmd.AddCommand(newIndexCmd())
	rootCmd.AddCommand(newArchiveCmd())
	rootCmd.AddCommand(newDedupeCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newScheduleCmd())

	return rootCmd
}

// paths resolves every pipeline location from the data directory.
type paths struct {
	dataDir string
}

func newPaths() paths {
	dir := os.Getenv("LIKES_DATA_DIR")
	if dir == "" {
		dir = "content"
	}
	return paths{dataDir: dir}
}

func (p paths) likesDir() string      { return filepath.Join(p.dataDir, "likes") }
func (p paths) rawDir() string        { return filepath.Join(p.dataDir, "raw", "tweets_v2") }
func (p paths) archiveDir() string    { return filepath.Join(p.dataDir, "archive") }
func (p paths) tweetIndex() string    { return filepath.Join(p.dataDir, "tweet-index.json") }
func (p paths) searchIndex() string   { return filepath.Join(p.dataDir, "search-index.json") }
func (p paths) urlIndex() string      { return filepath.Join(p.dataDir, "url-index.json") }
func (p paths) activityData() string  { return filepath.Join(p.dataDir, "activity-data.json") }
func (p paths) checkpoint() string    { return filepath.Join(p.dataDir, "last-sync.txt") }
func (p paths) searchSyncInfo() string {
	return filepath.Join(p.dataDir, ".metadata", "search-last-sync.json")
}

// targetLocation loads the fixed partitioning timezone. This is a fatal
// config error when invalid: day partitioning must be exact.
func targetLocation() (*time.Location, error) {
	name := os.Getenv("LIKES_TIMEZONE")
	if name == "" {
		name = "Asia/Tokyo"
	}
	return time.LoadLocation(name)
}
