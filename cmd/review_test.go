package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nikogura/job-assistant/pkg/jobs"
)

func reviewFixture() (all []jobs.Job) {
	scores := []int{95, 60, 80, 0}
	for i, s := range scores {
		job := jobs.Job{ID: string(rune('a' + i)), Title: "Job"}
		job.SetScore(s)
		all = append(all, job)
	}
	all = append(all, jobs.Job{ID: "e", Title: "Unscored"})
	return all
}

func TestFilterForReviewThreshold(t *testing.T) {
	listing := filterForReview(reviewFixture(), 80, true)

	if len(listing) != 2 {
		t.Fatalf("Expected 2 jobs, got %d", len(listing))
	}

	if listing[0].ScoreValue() != 95 || listing[1].ScoreValue() != 80 {
		t.Errorf("Expected scores 95 then 80, got %d then %d", listing[0].ScoreValue(), listing[1].ScoreValue())
	}
}

func TestFilterForReviewZeroThresholdIncludesUnscored(t *testing.T) {
	listing := filterForReview(reviewFixture(), 0, true)

	if len(listing) != 5 {
		t.Fatalf("Expected 5 jobs, got %d", len(listing))
	}

	if listing[0].ID != "a" || listing[4].ScoreValue() != 0 {
		t.Errorf("Expected descending order, got first '%s' and last score %d", listing[0].ID, listing[4].ScoreValue())
	}
}

func TestFilterForReviewUnfiltered(t *testing.T) {
	all := reviewFixture()
	listing := filterForReview(all, 90, false)

	if len(listing) != len(all) {
		t.Fatalf("Expected %d jobs, got %d", len(all), len(listing))
	}

	for i := range all {
		if listing[i].ID != all[i].ID {
			t.Errorf("Expected store order at %d: '%s', got '%s'", i, all[i].ID, listing[i].ID)
		}
	}
}

func TestPrintListing(t *testing.T) {
	var buf bytes.Buffer
	printListing(&buf, reviewFixture())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("Expected header plus 5 lines, got %d", len(lines))
	}

	if !strings.HasPrefix(lines[0], "Score") {
		t.Errorf("Expected title-cased header, got '%s'", lines[0])
	}

	if !strings.HasPrefix(lines[5], "-") {
		t.Errorf("Expected '-' for an unscored job, got '%s'", lines[5])
	}
}

func TestClip(t *testing.T) {
	if clip("short", 10) != "short" {
		t.Errorf("Expected 'short', got '%s'", clip("short", 10))
	}

	if clip("abcdefghij", 5) != "abcd…" {
		t.Errorf("Expected 'abcd…', got '%s'", clip("abcdefghij", 5))
	}
}
