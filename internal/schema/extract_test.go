package schema

import (
	"strings"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "clean object",
			input: `{"category": "oceans"}`,
			want:  `{"category": "oceans"}`,
		},
		{
			name:  "fenced block",
			input: "Here you go:\n```json\n{\"category\": \"oceans\"}\n```\nanything else?",
			want:  `{"category": "oceans"}`,
		},
		{
			name:  "fence without language tag",
			input: "```\n{\"score\": 75}\n```",
			want:  `{"score": 75}`,
		},
		{
			name:  "prose wrapped object",
			input: `Sure! The classification is {"category": "cryosphere", "topic": "Sea Ice"} based on the abstract.`,
			want:  `{"category": "cryosphere", "topic": "Sea Ice"}`,
		},
		{
			name:  "nested braces inside strings",
			input: `prefix {"note": "a {weird} value", "inner": {"k": 1}} suffix`,
			want:  `{"note": "a {weird} value", "inner": {"k": 1}}`,
		},
		{
			name:  "bare array",
			input: `The keywords are ["sea ice", "thickness"] as requested.`,
			want:  `["sea ice", "thickness"]`,
		},
		{
			name:    "no structure",
			input:   "I could not produce a classification for this text.",
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "   \n ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanFreeText(t *testing.T) {
	input := "## Suggested Title\n**Snow cover** in the **Himalaya**\n"
	got := CleanFreeText(input)
	if strings.Contains(got, "**") || strings.Contains(got, "#") {
		t.Errorf("markdown survived cleaning: %q", got)
	}
	if !strings.Contains(got, "Snow cover") {
		t.Errorf("content lost during cleaning: %q", got)
	}
}
