// Package processor merges raw like records into the canonical
// day-partitioned store. The merge is idempotent: re-running it over the same
// raw input leaves the store byte-for-byte identical.
package processor

import (
	"regexp"
	"sort"
	"time"

	"github.com/harukit/likes-archive/model"
	"github.com/harukit/likes-archive/store"
	Logger "github.com/harukit/likes-archive/utils/log"
	"github.com/pkg/errors"
)

var tweetIDRe = regexp.MustCompile(`/status/(\d+)`)

// ExtractTweetID derives the tweet ID from a tweet URL. Returns the empty
// string when the URL does not contain a status segment.
func ExtractTweetID(tweetURL string) string {
	match := tweetIDRe.FindStringSubmatch(tweetURL)
	if match == nil {
		return ""
	}
	return match[1]
}

// Result summarizes one canonicalizer run.
type Result struct {
	Inserted   int
	Duplicates int
	Skipped    int
}

// Canonicalizer files raw like records into day documents partitioned by
// liked_at in the target timezone.
type Canonicalizer struct {
	days *store.DayStore
	loc  *time.Location
}

func NewCanonicalizer(days *store.DayStore, loc *time.Location) *Canonicalizer {
	return &Canonicalizer{days: days, loc: loc}
}

// Canonicalize merges the raw records into the canonical store. Records with
// an underivable tweet ID or unparseable liked_at are skipped with a logged
// reason; they never fail the batch. Records whose tweet ID already exists in
// the target day document are counted as duplicates and left alone.
func (c *Canonicalizer) Canonicalize(raw []model.Like) (Result, error) {
	res := Result{}

	for _, like := range raw {
		if like.TweetID == "" {
			like.TweetID = ExtractTweetID(like.TweetURL)
		}
		if like.TweetID == "" {
			Logger.Log.Warnf("skipping like with underivable tweet id, url=%q", like.TweetURL)
			res.Skipped++
			continue
		}

		likedAt, err := like.LikedAtTime(c.loc)
		if err != nil {
			Logger.Log.Warnf("skipping like %s with unparseable liked_at %q: %v", like.TweetID, like.LikedAt, err)
			res.Skipped++
			continue
		}

		// Partitioning must use the converted local time; the UTC calendar
		// day can differ around midnight.
		key := model.NewDayKey(likedAt.In(c.loc))

		if err := c.mergeIntoDay(key, like, &res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (c *Canonicalizer) mergeIntoDay(key model.DayKey, like model.Like, res *Result) error {
	doc, ok, err := c.days.TryLoad(key)
	if err != nil {
		return err
	}
	if !ok {
		doc = &model.DayDocument{Body: []model.Like{}}
	}

	for _, existing := range doc.Body {
		if existing.TweetID == like.TweetID {
			Logger.Log.Infof("duplicate tweet id %s in %s, skipping", like.TweetID, key)
			res.Duplicates++
			return nil
		}
	}

	// Normalize the record on its way into the canonical store.
	like.EmbedCode = ""
	like.Private = false
	like.NotFound = false

	doc.Body = append(doc.Body, like)
	SortBodyByLikedAtDesc(doc.Body, c.loc)

	if err := c.days.Save(key, doc); err != nil {
		return err
	}
	Logger.Log.Infof("inserted tweet %s into %s", like.TweetID, key)
	res.Inserted++
	return nil
}

// CanonicalizeRawStore drains the raw store into the canonical store.
func (c *Canonicalizer) CanonicalizeRawStore(raw *store.RawStore) (Result, error) {
	likes, err := raw.ReadAll()
	if err != nil {
		return Result{}, errors.Wrap(err, "fail to load raw store")
	}
	return c.Canonicalize(likes)
}

// SortBodyByLikedAtDesc orders a day document body newest-like first. A like
// with an unparseable liked_at sorts to the end as the zero time; it cannot
// fail the merge.
func SortBodyByLikedAtDesc(body []model.Like, loc *time.Location) {
	sort.SliceStable(body, func(i, j int) bool {
		ti, _ := body[i].LikedAtTime(loc)
		tj, _ := body[j].LikedAtTime(loc)
		return ti.After(tj)
	})
}
