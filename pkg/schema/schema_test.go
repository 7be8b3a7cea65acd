package schema

import (
	"encoding/json"
	"math"
	"testing"
)

func TestApplyFillsMissing(t *testing.T) {
	s := Schema{
		String("company", "Unknown"),
		NonEmptyString("title", "Fallback"),
		Int("score", 0),
		Strings("skills"),
	}

	record := s.Apply(map[string]any{
		"title": "  ",
		"extra": "kept",
	})

	if record.String("company") != "Unknown" {
		t.Errorf("Expected company 'Unknown', got '%s'", record.String("company"))
	}

	if record.String("title") != "Fallback" {
		t.Errorf("Expected blank title replaced, got '%s'", record.String("title"))
	}

	if record.Int("score") != 0 {
		t.Errorf("Expected score 0, got %d", record.Int("score"))
	}

	if skills := record.Strings("skills"); len(skills) != 0 {
		t.Errorf("Expected empty skills, got %v", skills)
	}

	if record.String("extra") != "kept" {
		t.Error("Expected unknown keys to be preserved")
	}
}

func TestApplyKeepsPresentValues(t *testing.T) {
	s := Schema{String("company", "Unknown"), String("location", "Unknown")}

	record := s.Apply(map[string]any{"company": "", "location": nil})

	// Plain string fields only default when absent or null.
	if record.String("company") != "" {
		t.Errorf("Expected empty company to be kept, got '%s'", record.String("company"))
	}

	if record.String("location") != "Unknown" {
		t.Errorf("Expected null location to default, got '%s'", record.String("location"))
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	input := map[string]any{"title": "x"}
	_ = Schema{String("company", "Unknown")}.Apply(input)

	if _, ok := input["company"]; ok {
		t.Error("Apply modified its input")
	}
}

func TestIntCoercion(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   int
		wantOK bool
	}{
		{name: "float", value: 85.0, want: 85, wantOK: true},
		{name: "fractional float", value: 72.9, want: 72, wantOK: true},
		{name: "numeric string", value: " 64 ", want: 64, wantOK: true},
		{name: "float string", value: "88.5", want: 88, wantOK: true},
		{name: "json number", value: json.Number("91"), want: 91, wantOK: true},
		{name: "word", value: "high", want: 0, wantOK: false},
		{name: "bool", value: true, want: 0, wantOK: false},
		{name: "nil", value: nil, want: 0, wantOK: false},
		{name: "list", value: []any{1.0}, want: 0, wantOK: false},
		{name: "above int range", value: 1e19, want: math.MaxInt, wantOK: true},
		{name: "far above int range", value: 1e300, want: math.MaxInt, wantOK: true},
		{name: "exponent string", value: "1e30", want: math.MaxInt, wantOK: true},
		{name: "below int range", value: -1e300, want: math.MinInt, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := Record{"v": tt.value}
			got, ok := record.IntOK("v")
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("IntOK(%v) = (%d, %v), want (%d, %v)", tt.value, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestStringsCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{name: "list of strings", value: []any{"Go", " Rust ", ""}, want: []string{"Go", "Rust"}},
		{name: "mixed list", value: []any{"Go", 3.0, nil}, want: []string{"Go", "3"}},
		{name: "scalar", value: "Python", want: []string{"Python"}},
		{name: "nil", value: nil, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Record{"v": tt.value}.Strings("v")
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestStringCoercion(t *testing.T) {
	record := Record{
		"num":  5.0,
		"list": []any{"a", "b"},
		"bool": false,
	}

	if record.String("num") != "5" {
		t.Errorf("Expected '5', got '%s'", record.String("num"))
	}

	if record.String("list") != "a, b" {
		t.Errorf("Expected 'a, b', got '%s'", record.String("list"))
	}

	if record.String("bool") != "false" {
		t.Errorf("Expected 'false', got '%s'", record.String("bool"))
	}

	if record.String("missing") != "" {
		t.Errorf("Expected empty string for missing key, got '%s'", record.String("missing"))
	}
}

func TestDecode(t *testing.T) {
	type project struct {
		Name         string   `json:"name"`
		Year         Text     `json:"year"`
		Technologies []string `json:"technologies"`
	}

	record := Record{
		"projects": []any{
			map[string]any{"name": "X", "year": 2021.0, "technologies": []any{"Go"}},
			map[string]any{"name": "Y", "year": "2019-2020"},
		},
	}

	var projects []project
	err := record.Decode("projects", &projects)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if len(projects) != 2 {
		t.Fatalf("Expected 2 projects, got %d", len(projects))
	}

	if projects[0].Year != "2021" {
		t.Errorf("Expected numeric year formatted, got '%s'", projects[0].Year)
	}

	if projects[1].Year != "2019-2020" {
		t.Errorf("Expected string year kept, got '%s'", projects[1].Year)
	}

	var missing []project
	err = record.Decode("absent", &missing)
	if err != nil || missing != nil {
		t.Errorf("Expected absent key to leave dst untouched, got %v, %v", missing, err)
	}
}

func TestTextUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "string", input: `"Led the team"`, want: "Led the team"},
		{name: "number", input: `2019`, want: "2019"},
		{name: "null", input: `null`, want: ""},
		{name: "array", input: `["Built APIs", "Ran on-call"]`, want: "Built APIs; Ran on-call"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var text Text
			err := json.Unmarshal([]byte(tt.input), &text)
			if err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if text.String() != tt.want {
				t.Errorf("Expected '%s', got '%s'", tt.want, text)
			}
		})
	}
}

func TestListUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "array", input: `["Go", "Rust"]`, want: 2},
		{name: "scalar", input: `"Go"`, want: 1},
		{name: "null", input: `null`, want: 0},
		{name: "mixed", input: `["Go", 1, null, ""]`, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var list List
			err := json.Unmarshal([]byte(tt.input), &list)
			if err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if len(list) != tt.want {
				t.Errorf("Expected %d items, got %v", tt.want, list)
			}
		})
	}
}
