package store

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/harukit/likes-archive/model"
	"github.com/pkg/errors"
)

var (
	yearDirRe  = regexp.MustCompile(`^\d{4}$`)
	monthDirRe = regexp.MustCompile(`^\d{2}$`)
	dayFileRe  = regexp.MustCompile(`^\d{2}\.json$`)
)

// DayStore is the canonical day-partitioned store rooted at
// <root>/<year>/<month>/<day>.json. It is the single source of truth; every
// index is a cache derived from it.
type DayStore struct {
	root string
}

func NewDayStore(root string) *DayStore {
	return &DayStore{root: root}
}

func (s *DayStore) Root() string {
	return s.root
}

// Path returns the absolute path of the day document for key.
func (s *DayStore) Path(key model.DayKey) string {
	return filepath.Join(s.root, key.Year, key.Month, key.Day+".json")
}

// TryLoad loads the day document for key. The second return value reports
// whether the document exists; absence is not an error.
func (s *DayStore) TryLoad(key model.DayKey) (*model.DayDocument, bool, error) {
	bytes, err := ioutil.ReadFile(s.Path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "fail to read day document "+key.String())
	}

	doc := &model.DayDocument{}
	if err := json.Unmarshal(bytes, doc); err != nil {
		return nil, false, errors.Wrap(err, "fail to parse day document "+key.String())
	}
	return doc, true, nil
}

// Save persists the day document atomically: write to a temp file in the
// same directory, then rename over the target. A crash mid-write never
// leaves a partially serialized document behind.
func (s *DayStore) Save(key model.DayKey, doc *model.DayDocument) error {
	dir := filepath.Dir(s.Path(key))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "fail to create day directory "+dir)
	}

	bytes, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "fail to serialize day document "+key.String())
	}

	tmp, err := ioutil.TempFile(dir, "."+key.Day+"-*.tmp")
	if err != nil {
		return errors.Wrap(err, "fail to create temp file for "+key.String())
	}
	if _, err := tmp.Write(bytes); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "fail to write day document "+key.String())
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "fail to close temp file for "+key.String())
	}
	if err := os.Rename(tmp.Name(), s.Path(key)); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "fail to replace day document "+key.String())
	}
	return nil
}

// DayRef is a reference to one existing day document.
type DayRef struct {
	Key  model.DayKey
	Path string
}

// List walks the store and returns every day document reference, ordered by
// year, month, day ascending. Directories and files that do not match the
// layout are ignored.
func (s *DayStore) List() ([]DayRef, error) {
	refs := []DayRef{}

	years, err := readDirNames(s.root)
	if os.IsNotExist(err) {
		return refs, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "fail to read canonical store root "+s.root)
	}

	for _, year := range years {
		if !yearDirRe.MatchString(year) {
			continue
		}
		months, err := readDirNames(filepath.Join(s.root, year))
		if err != nil {
			return nil, errors.Wrap(err, "fail to read year directory "+year)
		}
		for _, month := range months {
			if !monthDirRe.MatchString(month) {
				continue
			}
			days, err := readDirNames(filepath.Join(s.root, year, month))
			if err != nil {
				return nil, errors.Wrap(err, "fail to read month directory "+year+"/"+month)
			}
			for _, day := range days {
				if !dayFileRe.MatchString(day) {
					continue
				}
				key := model.DayKey{Year: year, Month: month, Day: day[:2]}
				refs = append(refs, DayRef{Key: key, Path: s.Path(key)})
			}
		}
	}
	return refs, nil
}

// ListModifiedAfter returns the refs whose underlying file was modified
// strictly after t. Used by the incremental search index push.
func (s *DayStore) ListModifiedAfter(t time.Time) ([]DayRef, error) {
	refs, err := s.List()
	if err != nil {
		return nil, err
	}
	modified := []DayRef{}
	for _, ref := range refs {
		info, err := os.Stat(ref.Path)
		if err != nil {
			return nil, errors.Wrap(err, "fail to stat "+ref.Path)
		}
		if info.ModTime().After(t) {
			modified = append(modified, ref)
		}
	}
	return modified, nil
}

func readDirNames(dir string) ([]string, error) {
	entries, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
