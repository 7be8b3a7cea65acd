package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/nikogura/job-assistant/pkg/resume"
)

// ResumeCache holds the single cached resume profile.
type ResumeCache struct {
	path string
}

// NewResumeCache creates a cache backed by the file at path.
func NewResumeCache(path string) (cache *ResumeCache) {
	cache = &ResumeCache{path: path}
	return cache
}

// SaveResume replaces the cached profile.
func (c *ResumeCache) SaveResume(profile resume.Profile) (err error) {
	dir := filepath.Dir(c.path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create resume cache directory: %s", dir)
		return err
	}

	err = WriteJSON(c.path, profile)
	if err != nil {
		err = errors.Wrap(err, "failed to save resume cache")
		return err
	}

	return err
}

// LoadResume reads the cached profile. found is false when nothing has been cached yet.
func (c *ResumeCache) LoadResume() (profile resume.Profile, found bool, err error) {
	var data []byte
	data, err = os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			err = nil
			return profile, found, err
		}
		err = errors.Wrapf(err, "failed to read resume cache: %s", c.path)
		return profile, found, err
	}

	err = json.Unmarshal(data, &profile)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse resume cache: %s", c.path)
		return profile, found, err
	}

	found = true

	return profile, found, err
}
