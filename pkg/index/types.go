package index

import "time"

// Version is written into every index file.
const Version = "1.0.0"

// Entry is the searchable projection of one job record.
type Entry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Source      string    `json:"source"`
	Description string    `json:"description"`
	Score       *int      `json:"score,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

// Index is the whole index file.
type Index struct {
	Entries   []Entry   `json:"entries"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   string    `json:"version"`
}

// Hit is one search result.
type Hit struct {
	Entry     Entry
	Relevance int
}
