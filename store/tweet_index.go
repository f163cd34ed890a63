package store

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/harukit/likes-archive/model"
	"github.com/pkg/errors"
)

// LoadTweetIndex reads tweet-index.json. A missing file is an empty index,
// matching first-run behavior.
func LoadTweetIndex(path string) (model.TweetIndex, error) {
	bytes, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return model.TweetIndex{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "fail to read tweet index "+path)
	}

	index := model.TweetIndex{}
	if err := json.Unmarshal(bytes, &index); err != nil {
		return nil, errors.Wrap(err, "fail to parse tweet index "+path)
	}
	return index, nil
}

// SaveTweetIndex writes tweet-index.json, pretty printed for manual
// inspection and small diffs.
func SaveTweetIndex(path string, index model.TweetIndex) error {
	bytes, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return errors.Wrap(err, "fail to serialize tweet index")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "fail to create index directory")
	}
	return ioutil.WriteFile(path, bytes, 0644)
}

// LoadSearchSyncInfo reads the incremental search push marker. Absence means
// no incremental sync has happened yet.
func LoadSearchSyncInfo(path string) (*model.SearchSyncInfo, error) {
	bytes, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "fail to read search sync info "+path)
	}
	info := &model.SearchSyncInfo{}
	if err := json.Unmarshal(bytes, info); err != nil {
		return nil, errors.Wrap(err, "fail to parse search sync info "+path)
	}
	return info, nil
}

// SaveSearchSyncInfo persists the incremental search push marker.
func SaveSearchSyncInfo(path string, info *model.SearchSyncInfo) error {
	bytes, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return errors.Wrap(err, "fail to serialize search sync info")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "fail to create metadata directory")
	}
	return ioutil.WriteFile(path, bytes, 0644)
}
