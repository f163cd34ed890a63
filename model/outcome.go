package model

import "encoding/json"

// OutcomeKind classifies the result of a tweet-data fetch.
type OutcomeKind int

const (
	// OutcomeFetched means the provider returned a render payload.
	OutcomeFetched OutcomeKind = iota
	// OutcomePrivate means the provider returned a tombstone, i.e. the tweet
	// exists but is access restricted.
	OutcomePrivate
	// OutcomeNotFound means the tweet no longer exists.
	OutcomeNotFound
)

// FetchResult is the tagged outcome of one enrichment fetch. Using a variant
// instead of three independent booleans makes the illegal state where two
// flags are set at once unrepresentable.
type FetchResult struct {
	Kind OutcomeKind
	Data json.RawMessage
}

func Fetched(data json.RawMessage) FetchResult {
	return FetchResult{Kind: OutcomeFetched, Data: data}
}

func Private() FetchResult {
	return FetchResult{Kind: OutcomePrivate}
}

func NotFound() FetchResult {
	return FetchResult{Kind: OutcomeNotFound}
}

// Apply writes the outcome onto the like, maintaining the invariant that
// exactly one of {tweet data present, private, notfound} holds afterwards.
func (r FetchResult) Apply(l *Like) {
	switch r.Kind {
	case OutcomeFetched:
		l.TweetData = r.Data
		l.Private = false
		l.NotFound = false
	case OutcomePrivate:
		l.TweetData = nil
		l.Private = true
		l.NotFound = false
	case OutcomeNotFound:
		l.TweetData = nil
		l.Private = false
		l.NotFound = true
	}
}
