package parser

import (
	"os"
	"path/filepath"
	"testing"
)

func writeExports(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("01/01/2024, 10:00 - Ana: oi\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestExpandExports(t *testing.T) {
	dir := t.TempDir()
	writeExports(t, dir, "b.txt", "a.txt", "notes.md")
	if err := os.Mkdir(filepath.Join(dir, "dir.txt"), 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "single file",
			patterns: []string{filepath.Join(dir, "a.txt")},
			want:     []string{filepath.Join(dir, "a.txt")},
		},
		{
			name:     "glob sorted and directories skipped",
			patterns: []string{filepath.Join(dir, "*.txt")},
			want:     []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")},
		},
		{
			name:     "pattern order kept and duplicates removed",
			patterns: []string{filepath.Join(dir, "b.txt"), filepath.Join(dir, "*.txt")},
			want:     []string{filepath.Join(dir, "b.txt"), filepath.Join(dir, "a.txt")},
		},
		{
			name:     "missing path kept literally",
			patterns: []string{filepath.Join(dir, "missing.txt")},
			want:     []string{filepath.Join(dir, "missing.txt")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandExports(tt.patterns)
			if err != nil {
				t.Fatalf("ExpandExports() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ExpandExports() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ExpandExports()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExpandExports_InvalidPattern(t *testing.T) {
	if _, err := ExpandExports([]string{"[invalid"}); err == nil {
		t.Error("ExpandExports() expected error for invalid pattern")
	}
}
