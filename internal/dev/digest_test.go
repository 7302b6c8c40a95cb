package dev

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSourceDigest(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	if err := os.MkdirAll(filepath.Join(src, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(src, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("a.js", "a")
	write("nested/b.js", "b")

	first, err := SourceDigest([]string{src})
	if err != nil {
		t.Fatalf("SourceDigest() error = %v", err)
	}
	if len(first) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(first))
	}

	again, _ := SourceDigest([]string{src})
	if again != first {
		t.Error("digest is not deterministic")
	}

	write("nested/b.js", "b2")
	changed, _ := SourceDigest([]string{src})
	if changed == first {
		t.Error("content change did not change the digest")
	}

	withExtra, _ := SourceDigest([]string{src}, "npx", "webpack")
	if withExtra == changed {
		t.Error("extra values did not change the digest")
	}
}

func TestSourceDigest_MissingPaths(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "vendor")

	before, err := SourceDigest([]string{missing})
	if err != nil {
		t.Fatalf("SourceDigest() error = %v", err)
	}

	if err := os.MkdirAll(missing, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(missing, "x.css"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	after, _ := SourceDigest([]string{missing})
	if before == after {
		t.Error("creating a watched path did not change the digest")
	}
}

func TestSourceDigest_SingleFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "packs.json")
	if err := os.WriteFile(file, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}
	a, _ := SourceDigest([]string{file})
	if err := os.WriteFile(file, []byte(`{"default": {}}`), 0644); err != nil {
		t.Fatal(err)
	}
	b, _ := SourceDigest([]string{file})
	if a == b {
		t.Error("file change did not change the digest")
	}
}
