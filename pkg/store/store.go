// Package store persists job records as one JSON file per record, plus the cached resume profile.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nikogura/job-assistant/pkg/jobs"
)

const recordExt = ".json"

// Store is a flat directory of job records keyed by content id.
// It is not safe for concurrent use by more than one process.
type Store struct {
	dir string
	now func() time.Time
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string) (store *Store, err error) {
	if dir == "" {
		err = errors.New("job store directory is required")
		return store, err
	}

	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create job store directory: %s", dir)
		return store, err
	}

	store = &Store{
		dir: dir,
		now: time.Now,
	}

	return store, err
}

// Dir returns the store's root directory.
func (s *Store) Dir() (dir string) {
	dir = s.dir
	return dir
}

// Path returns the file a record with this id lives in.
func (s *Store) Path(id string) (path string) {
	path = filepath.Join(s.dir, id+recordExt)
	return path
}

// Save computes the job's id and writes it, replacing any record with the same id.
func (s *Store) Save(job *jobs.Job) (id string, err error) {
	id = job.ComputeID()
	job.ID = id

	now := s.now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now

	err = WriteJSON(s.Path(id), job)
	if err != nil {
		err = errors.Wrapf(err, "failed to save job %s", id)
		return id, err
	}

	return id, err
}

// Exists reports whether a record with this id is stored.
func (s *Store) Exists(id string) (exists bool, err error) {
	_, err = os.Stat(s.Path(id))
	if err == nil {
		exists = true
		return exists, err
	}
	if os.IsNotExist(err) {
		err = nil
		return exists, err
	}
	err = errors.Wrapf(err, "failed to check job %s", id)
	return exists, err
}

// Get loads one record. A missing record is reported with found=false, not an error.
func (s *Store) Get(id string) (job jobs.Job, found bool, err error) {
	path := s.Path(id)

	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = nil
			return job, found, err
		}
		err = errors.Wrapf(err, "failed to read job file: %s", path)
		return job, found, err
	}

	err = json.Unmarshal(data, &job)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse job file: %s", path)
		return job, found, err
	}

	found = true

	return job, found, err
}

// List returns every stored record, ordered by filename.
func (s *Store) List() (all []jobs.Job, err error) {
	var entries []os.DirEntry
	entries, err = os.ReadDir(s.dir)
	if err != nil {
		err = errors.Wrapf(err, "failed to read job store directory: %s", s.dir)
		return all, err
	}

	all = make([]jobs.Job, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, recordExt) {
			continue
		}

		var job jobs.Job
		var found bool
		job, found, err = s.Get(strings.TrimSuffix(name, recordExt))
		if err != nil {
			return all, err
		}
		if found {
			all = append(all, job)
		}
	}

	return all, err
}

// ListScoredAtLeast returns records with a score of at least threshold. Unscored records count as 0.
func (s *Store) ListScoredAtLeast(threshold int) (matched []jobs.Job, err error) {
	var all []jobs.Job
	all, err = s.List()
	if err != nil {
		return matched, err
	}

	matched = FilterScoredAtLeast(all, threshold)

	return matched, err
}

// FilterScoredAtLeast keeps jobs scoring at least threshold, in their original order.
func FilterScoredAtLeast(all []jobs.Job, threshold int) (matched []jobs.Job) {
	matched = make([]jobs.Job, 0)
	for _, job := range all {
		if job.ScoreValue() >= threshold {
			matched = append(matched, job)
		}
	}
	return matched
}

// SortByScore orders jobs by descending score. Ties keep their original order.
func SortByScore(list []jobs.Job) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].ScoreValue() > list[j].ScoreValue()
	})
}

// WriteJSON writes v to path through a temp file and rename so readers never see a partial file.
func WriteJSON(path string, v any) (err error) {
	var data []byte
	data, err = json.MarshalIndent(v, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal JSON")
		return err
	}

	dir := filepath.Dir(path)
	var tmp *os.File
	tmp, err = os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		err = errors.Wrapf(err, "failed to create temp file in %s", dir)
		return err
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		err = errors.Wrapf(err, "failed to write temp file: %s", tmpName)
		return err
	}

	err = tmp.Close()
	if err != nil {
		_ = os.Remove(tmpName)
		err = errors.Wrapf(err, "failed to close temp file: %s", tmpName)
		return err
	}

	err = os.Rename(tmpName, path)
	if err != nil {
		_ = os.Remove(tmpName)
		err = errors.Wrapf(err, "failed to move temp file into place: %s", path)
		return err
	}

	return err
}
