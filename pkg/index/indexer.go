// Package index keeps a secondary search index over the job store. The store is the source of truth;
// the index is regenerated from it and never read back for dedup or scoring.
package index

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nikogura/job-assistant/pkg/jobs"
)

// Field weights for search relevance.
const (
	titleWeight       = 3
	companyWeight     = 2
	descriptionWeight = 1
)

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// Indexer rebuilds and queries the index file.
type Indexer struct {
	indexPath string
}

// NewIndexer creates a new indexer instance.
func NewIndexer(indexPath string) (indexer *Indexer, err error) {
	if indexPath == "" {
		err = errors.New("index path is required")
		return indexer, err
	}

	indexer = &Indexer{
		indexPath: indexPath,
	}

	return indexer, err
}

// Rebuild replaces the index with one entry per job.
func (idx *Indexer) Rebuild(all []jobs.Job) (count int, err error) {
	entries := make([]Entry, 0, len(all))
	for _, job := range all {
		entries = append(entries, Entry{
			ID:          job.ID,
			Title:       job.Title,
			Company:     job.Company,
			Location:    job.Location,
			Source:      job.Source,
			Description: job.Description,
			Score:       job.Score,
			UpdatedAt:   job.UpdatedAt,
		})
	}

	index := Index{
		Entries:   entries,
		UpdatedAt: time.Now().UTC(),
		Version:   Version,
	}

	err = idx.writeIndex(index)
	if err != nil {
		err = errors.Wrap(err, "failed to write index")
		return count, err
	}

	count = len(entries)

	return count, err
}

// Load reads the index. A missing file is an empty index.
func (idx *Indexer) Load() (index Index, err error) {
	var data []byte
	data, err = os.ReadFile(idx.indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			err = nil
			index = Index{Entries: []Entry{}, Version: Version}
			return index, err
		}
		err = errors.Wrapf(err, "failed to read index file: %s", idx.indexPath)
		return index, err
	}

	err = json.Unmarshal(data, &index)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse index file: %s", idx.indexPath)
		return index, err
	}

	return index, err
}

// Search ranks entries by weighted token overlap with the query. limit <= 0 means no limit.
func (idx *Indexer) Search(query string, limit int) (hits []Hit, err error) {
	var index Index
	index, err = idx.Load()
	if err != nil {
		return hits, err
	}

	hits = Rank(index.Entries, query, limit)

	return hits, err
}

// Rank scores entries against query and returns matches, best first.
func Rank(entries []Entry, query string, limit int) (hits []Hit) {
	hits = make([]Hit, 0)

	terms := tokens(normalize(query))
	if len(terms) == 0 {
		return hits
	}

	for _, entry := range entries {
		relevance := overlap(terms, entry.Title)*titleWeight +
			overlap(terms, entry.Company)*companyWeight +
			overlap(terms, entry.Description)*descriptionWeight
		if relevance > 0 {
			hits = append(hits, Hit{Entry: entry, Relevance: relevance})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Relevance != hits[j].Relevance {
			return hits[i].Relevance > hits[j].Relevance
		}
		return scoreOf(hits[i].Entry) > scoreOf(hits[j].Entry)
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	return hits
}

func (idx *Indexer) writeIndex(index Index) (err error) {
	var data []byte
	data, err = json.MarshalIndent(index, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal index")
		return err
	}

	dir := filepath.Dir(idx.indexPath)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create index directory: %s", dir)
		return err
	}

	err = os.WriteFile(idx.indexPath, data, 0600)
	if err != nil {
		err = errors.Wrap(err, "failed to write index file")
		return err
	}

	return err
}

// normalize lowercases s and turns every run of non-alphanumerics into one space.
func normalize(s string) (normalized string) {
	normalized = strings.ToLower(s)
	normalized = nonWord.ReplaceAllString(normalized, " ")
	normalized = strings.TrimSpace(normalized)
	return normalized
}

func tokens(normalized string) (set map[string]struct{}) {
	set = make(map[string]struct{})
	for _, t := range strings.Fields(normalized) {
		set[t] = struct{}{}
	}
	return set
}

func overlap(terms map[string]struct{}, text string) (count int) {
	for t := range tokens(normalize(text)) {
		if _, ok := terms[t]; ok {
			count++
		}
	}
	return count
}

func scoreOf(e Entry) (score int) {
	if e.Score != nil {
		score = *e.Score
	}
	return score
}
