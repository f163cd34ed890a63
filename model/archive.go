package model

import "encoding/json"

// ArchiveLike is one entry of the raw twitter data export
// (like-twitter-*.js files).
type ArchiveLike struct {
	Like struct {
		TweetID     string `json:"tweetId"`
		FullText    string `json:"fullText,omitempty"`
		ExpandedURL string `json:"expandedUrl"`
	} `json:"like"`
}

// ArchiveEntry is a normalized archive like, enriched in place by the
// archive fetch pass.
type ArchiveEntry struct {
	ID          string `json:"id"`
	TweetID     string `json:"tweetId"`
	FullText    string `json:"fullText,omitempty"`
	ExpandedURL string `json:"expandedUrl"`
	IsArchive   bool   `json:"isArchive"`
	ProcessedAt string `json:"processedAt"`

	TweetData json.RawMessage `json:"react_tweet_data,omitempty"`
	Private   bool            `json:"private,omitempty"`
	NotFound  bool            `json:"notfound,omitempty"`
	FetchedAt string          `json:"fetchedAt,omitempty"`
}

// Enriched reports whether the archive fetch pass already settled this entry.
func (e *ArchiveEntry) Enriched() bool {
	return len(e.TweetData) > 0 || e.Private || e.NotFound
}

// Apply mirrors FetchResult.Apply for archive entries, maintaining the same
// exactly-one-terminal-state invariant.
func (e *ArchiveEntry) Apply(r FetchResult, now string) {
	switch r.Kind {
	case OutcomeFetched:
		e.TweetData = r.Data
		e.Private = false
		e.NotFound = false
		e.FetchedAt = now
	case OutcomePrivate:
		e.TweetData = nil
		e.Private = true
		e.NotFound = false
	case OutcomeNotFound:
		e.TweetData = nil
		e.Private = false
		e.NotFound = true
	}
}

// ArchivePage is one fixed-size page of the paginated archive snapshot.
type ArchivePage struct {
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
	TotalLikes int            `json:"totalLikes"`
	Likes      []ArchiveEntry `json:"likes"`
}
