package llm

import (
	"context"
	"strings"
	"testing"
)

func TestNewVertexClientRequiresProject(t *testing.T) {
	tests := []struct {
		name     string
		project  string
		location string
		model    string
	}{
		{name: "all empty"},
		{name: "location and model set", location: "europe-west4", model: "gemini-1.5-pro"},
		{name: "model only", model: DefaultVertexModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewVertexClient(context.Background(), tt.project, tt.location, tt.model)
			if err == nil {
				t.Fatal("Expected an error without a project")
			}

			if !strings.Contains(err.Error(), "vertex project is required") {
				t.Errorf("Expected project error, got '%v'", err)
			}

			if client != nil {
				t.Error("Expected nil client")
			}
		})
	}
}
