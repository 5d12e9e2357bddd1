package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "system.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing prompt file: %v", err)
	}
	return path
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		content string
		noFile  bool
		want    string
		wantErr bool
	}{
		{
			name:   "default when unset",
			noFile: true,
			want:   Default,
		},
		{
			name:    "custom instruction",
			content: "system = \"\"\"\n  Only give general wellness tips.\n\"\"\"\n",
			want:    "Only give general wellness tips.",
		},
		{
			name:    "empty system entry",
			content: "system = \"   \"\n",
			wantErr: true,
		},
		{
			name:    "invalid toml",
			content: "system = \n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := ""
			if !tt.noFile {
				path = writeFile(t, tt.content)
			}

			got, err := Resolve(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve_MissingFile(t *testing.T) {
	if _, err := Resolve(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefaultForbidsDiagnosis(t *testing.T) {
	for _, phrase := range []string{"general health information", "Do NOT diagnose", "Do NOT prescribe"} {
		if !strings.Contains(Default, phrase) {
			t.Errorf("Default instruction is missing %q", phrase)
		}
	}
}
