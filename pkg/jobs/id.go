// Package jobs holds the job record, scoring and company profile types.
package jobs

import (
	"crypto/md5" //nolint:gosec // content fingerprint, not a security boundary
	"encoding/hex"
)

// IDLength is the number of hex characters kept from the digest.
const IDLength = 12

// ID derives a record id from the posting's title, company and url.
// An empty url still participates, so url-less postings dedupe on title and company alone.
func ID(title, company, url string) (id string) {
	sum := md5.Sum([]byte(title + company + url)) //nolint:gosec // see import
	id = hex.EncodeToString(sum[:])[:IDLength]
	return id
}

// ComputeID derives the id from the job's own fields.
func (j *Job) ComputeID() (id string) {
	id = ID(j.Title, j.Company, j.URL)
	return id
}
