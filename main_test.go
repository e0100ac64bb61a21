package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReorderArgs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"flags first unchanged", []string{"-n", "5", "src"}, []string{"-n", "5", "src"}},
		{"positional before flags", []string{"src", "-n", "5"}, []string{"-n", "5", "src"}},
		{"bool flag after positional", []string{"src", "-no-consolidate"}, []string{"-no-consolidate", "src"}},
		{"double dash stops parsing", []string{"-n", "5", "--", "-weird-dir"}, []string{"-n", "5", "-weird-dir"}},
		{"value flag keeps its value", []string{"src", "-intent", "security"}, []string{"-intent", "security", "src"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := reorderArgs(tc.in)
			if len(got) != len(tc.want) {
				t.Fatalf("reorderArgs(%v) = %v, want %v", tc.in, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("reorderArgs(%v) = %v, want %v", tc.in, got, tc.want)
				}
			}
		})
	}
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-V"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "semchunk ") {
		t.Errorf("version output = %q", stdout.String())
	}
}

func TestRunUnsupportedLanguageFlag(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{"-langs", "cobol", t.TempDir()}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "unsupported language") {
		t.Fatalf("err = %v, want unsupported language", err)
	}
}

func TestRunEndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := `package demo

func Process(items []string) int {
	count := 0
	for _, item := range items {
		if item == "" {
			continue
		}
		count++
	}
	return count
}
`
	if err := os.WriteFile(filepath.Join(dir, "demo.go"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-intent", "quick-fixes", dir}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "method: semantic") {
		t.Errorf("summary missing method line:\n%s", out)
	}
	if !strings.Contains(out, "demo.go") {
		t.Errorf("summary missing chunk line:\n%s", out)
	}
}

func TestRunNoFiles(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{t.TempDir()}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "no chunkable files") {
		t.Fatalf("err = %v, want no chunkable files", err)
	}
}
