package index

import (
	"os"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/opt"
	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"
	"github.com/harukit/likes-archive/model"
	Logger "github.com/harukit/likes-archive/utils/log"
	"github.com/pkg/errors"
)

const pushBatchSize = 1000

// SearchPusher publishes search records to the hosted full-text index.
type SearchPusher struct {
	index *search.Index
}

// NewSearchPusher builds a pusher from environment configuration. Missing
// credentials are a fatal config error: abort before touching anything.
func NewSearchPusher() (*SearchPusher, error) {
	appID := os.Getenv("ALGOLIA_APP_ID")
	adminKey := os.Getenv("ALGOLIA_ADMIN_API_KEY")
	if appID == "" || adminKey == "" {
		return nil, errors.New("missing search credentials: set ALGOLIA_APP_ID and ALGOLIA_ADMIN_API_KEY")
	}

	indexName := os.Getenv("ALGOLIA_INDEX_NAME")
	if indexName == "" {
		indexName = "tweets"
	}

	client := search.NewClient(appID, adminKey)
	return &SearchPusher{index: client.InitIndex(indexName)}, nil
}

// ReplaceAll clears the hosted index and uploads the full record set,
// configuring the index settings first.
func (p *SearchPusher) ReplaceAll(entries []model.SearchEntry) error {
	settings := search.Settings{
		SearchableAttributes: opt.SearchableAttributes("text", "username"),
		AttributesToRetrieve: opt.AttributesToRetrieve("text", "username", "date", "path"),
		CustomRanking:        opt.CustomRanking("desc(date)"),
		// Japanese language support
		QueryLanguages: opt.QueryLanguages("ja"),
		IndexLanguages: opt.IndexLanguages("ja"),
	}
	if _, err := p.index.SetSettings(settings); err != nil {
		return errors.Wrap(err, "fail to configure search index")
	}

	if _, err := p.index.ClearObjects(); err != nil {
		return errors.Wrap(err, "fail to clear search index")
	}

	return p.saveInBatches(entries, false)
}

// Upsert applies a partial update for the given records, creating missing
// ones. Used by the incremental push.
func (p *SearchPusher) Upsert(entries []model.SearchEntry) error {
	return p.saveInBatches(entries, true)
}

func (p *SearchPusher) saveInBatches(entries []model.SearchEntry, partial bool) error {
	for start := 0; start < len(entries); start += pushBatchSize {
		end := start + pushBatchSize
		if end > len(entries) {
			end = len(entries)
		}
		batch := make([]interface{}, 0, end-start)
		for _, e := range entries[start:end] {
			batch = append(batch, e)
		}

		var err error
		if partial {
			_, err = p.index.PartialUpdateObjects(batch, opt.CreateIfNotExists(true))
		} else {
			_, err = p.index.SaveObjects(batch)
		}
		if err != nil {
			return errors.Wrap(err, "fail to push search records")
		}
		Logger.Log.Infof("pushed %d/%d search records", end, len(entries))
	}
	return nil
}
