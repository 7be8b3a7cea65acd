package cmd

import (
	"testing"

	"github.com/nikogura/job-assistant/pkg/jobs"
	"github.com/nikogura/job-assistant/pkg/store"
)

func TestGenerationTargets(t *testing.T) {
	s, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	var ids []string
	for i, score := range []int{90, 50} {
		job := jobs.Job{Title: "Engineer", Company: "Acme", URL: "https://acme.com/" + string(rune('a'+i))}
		job.SetScore(score)
		var id string
		id, err = s.Save(&job)
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		ids = append(ids, id)
	}

	targets, err := generationTargets(s, "", 75)
	if err != nil {
		t.Fatalf("generationTargets failed: %v", err)
	}
	if len(targets) != 1 || targets[0].ID != ids[0] {
		t.Errorf("Expected only the 90-point job, got %d targets", len(targets))
	}

	targets, err = generationTargets(s, ids[1], 75)
	if err != nil {
		t.Fatalf("generationTargets failed: %v", err)
	}
	if len(targets) != 1 || targets[0].ID != ids[1] {
		t.Errorf("Expected the named job regardless of score, got %d targets", len(targets))
	}

	_, err = generationTargets(s, "missing", 75)
	if err == nil {
		t.Error("Expected an error for an unknown id")
	}
}
