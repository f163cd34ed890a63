package model

import (
	"encoding/json"
	"time"

	"github.com/araddon/dateparse"
)

// Like is a single archived tweet-like event. Field names follow the
// canonical store format written by the IFTTT export pipeline, so renaming
// any json tag is a data migration.
type Like struct {
	Text      string `json:"text"`
	Username  string `json:"username"`
	TweetURL  string `json:"tweet_url"`
	FirstLink string `json:"first_link,omitempty"`
	CreatedAt string `json:"created_at"`
	// Legacy field from the old embed pipeline, stripped at canonicalization.
	EmbedCode string `json:"embed_code,omitempty"`
	LikedAt   string `json:"liked_at"`
	Source    string `json:"source"`
	TweetID   string `json:"tweet_id,omitempty"`
	Private   bool   `json:"private"`
	NotFound  bool   `json:"notfound"`

	// Full tweet render payload from the tweet-data provider. Kept opaque so
	// the whole payload round-trips through day file rewrites untouched;
	// consumers that need structure decode it into TweetPayload.
	TweetData json.RawMessage `json:"react_tweet_data,omitempty"`
}

// Enriched reports whether enrichment already produced a terminal state for
// this like: data present, or the tweet is classified private / not found.
func (l *Like) Enriched() bool {
	return len(l.TweetData) > 0 || l.Private || l.NotFound
}

// LikedAtTime parses liked_at leniently in the given location.
func (l *Like) LikedAtTime(loc *time.Location) (time.Time, error) {
	return dateparse.ParseIn(l.LikedAt, loc)
}

// DayDocument is the canonical unit of storage, one file per calendar day in
// the target timezone.
type DayDocument struct {
	Body []Like `json:"body"`
}

// DayKey identifies a day document. Components are zero padded strings so
// they can be used directly as path segments (likes/2025/02/01.json).
type DayKey struct {
	Year  string
	Month string
	Day   string
}

// NewDayKey builds the partition key for t, which must already be in the
// target timezone.
func NewDayKey(t time.Time) DayKey {
	return DayKey{
		Year:  t.Format("2006"),
		Month: t.Format("01"),
		Day:   t.Format("02"),
	}
}

func (k DayKey) String() string {
	return k.Year + "/" + k.Month + "/" + k.Day
}
