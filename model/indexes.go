package model

// TweetIndexEntry points a tweet ID at the day document containing it.
type TweetIndexEntry struct {
	ID       string `json:"id"`
	FilePath string `json:"filePath"`
	Year     string `json:"year"`
	Month    string `json:"month"`
	Day      string `json:"day"`
	LikedAt  string `json:"likedAt"`
}

// TweetIndex maps tweet ID to its unique location in the canonical store.
type TweetIndex map[string]TweetIndexEntry

// SearchEntry is one record of the full text search index. The struct doubles
// as the Algolia record shape, hence the objectID tag.
type SearchEntry struct {
	ObjectID string `json:"objectID"`
	Text     string `json:"text"`
	Username string `json:"username"`
	Date     string `json:"date"`
	Year     string `json:"year"`
	Month    string `json:"month"`
	Day      string `json:"day"`
	Path     string `json:"path"`
}

// URLEntry is one record of the URL extraction index: a liked tweet whose
// render payload contains at least one URL entity.
type URLEntry struct {
	TweetID  string           `json:"tweet_id"`
	Username string           `json:"username"`
	TweetURL string           `json:"tweet_url"`
	LikedAt  string           `json:"liked_at"`
	Year     string           `json:"year"`
	Month    string           `json:"month"`
	Day      string           `json:"day"`
	URLs     []TweetURLEntity `json:"urls"`
	Card     *URLCard         `json:"card,omitempty"`
}

// URLCard is the flattened link preview attached to a URL entry.
type URLCard struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// ActivityPoint is one day of the rolling activity summary.
type ActivityPoint struct {
	Date    string `json:"date"`
	Count   int    `json:"count"`
	DayName string `json:"dayName"`
}

// ActivityData is the persisted activity artifact.
type ActivityData struct {
	Activities  []ActivityPoint `json:"activities"`
	LastUpdated string          `json:"lastUpdated"`
}

// SearchSyncInfo marks the last successful incremental search index push.
type SearchSyncInfo struct {
	Timestamp   string `json:"timestamp"`
	RecordCount int    `json:"recordCount"`
}
