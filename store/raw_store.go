package store

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harukit/likes-archive/model"
	Logger "github.com/harukit/likes-archive/utils/log"
	"github.com/pkg/errors"
)

// RawStore holds one like record per file, named <tweetID>.json, exactly as
// the export pipeline drops them into object storage.
type RawStore struct {
	dir string
}

func NewRawStore(dir string) *RawStore {
	return &RawStore{dir: dir}
}

func (s *RawStore) Dir() string {
	return s.dir
}

func (s *RawStore) Path(tweetID string) string {
	return filepath.Join(s.dir, tweetID+".json")
}

// IDs returns the set of tweet IDs staged in the raw store. A missing
// directory is treated as empty.
func (s *RawStore) IDs() (map[string]bool, error) {
	ids := map[string]bool{}
	entries, err := ioutil.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return ids, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "fail to read raw store "+s.dir)
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids[strings.TrimSuffix(e.Name(), ".json")] = true
	}
	return ids, nil
}

// Write stages a downloaded like record.
func (s *RawStore) Write(tweetID string, body []byte) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrap(err, "fail to create raw store "+s.dir)
	}
	return ioutil.WriteFile(s.Path(tweetID), body, 0644)
}

// Remove deletes a staged record. Used by the raw dedupe pass.
func (s *RawStore) Remove(tweetID string) error {
	return os.Remove(s.Path(tweetID))
}

// ReadAll loads every staged like record in file name order. Files that fail
// to parse are skipped with a logged reason so one bad export cannot block
// the canonicalizer batch.
func (s *RawStore) ReadAll() ([]model.Like, error) {
	entries, err := ioutil.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return []model.Like{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "fail to read raw store "+s.dir)
	}

	names := []string{}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	likes := []model.Like{}
	for _, name := range names {
		bytes, err := ioutil.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, errors.Wrap(err, "fail to read raw like "+name)
		}
		var like model.Like
		if err := json.Unmarshal(bytes, &like); err != nil {
			Logger.Log.Warnf("skipping unparseable raw like %s: %v", name, err)
			continue
		}
		likes = append(likes, like)
	}
	return likes, nil
}
