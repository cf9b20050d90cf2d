package serialize

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func mustWrite(t *testing.T, root, rel string, content []byte) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestWalkInclusionPolicy(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, root, "src/index.ts", []byte("export {}\n"))
	mustWrite(t, root, "node_modules/x/index.js", []byte("skip me"))
	mustWrite(t, root, "dist/bundle.js", []byte("skip me"))
	mustWrite(t, root, "package-lock.json", []byte("{}"))
	mustWrite(t, root, ".gitignore", []byte("dist/"))
	mustWrite(t, root, ".env", []byte("KEY=1"))
	mustWrite(t, root, "Dockerfile", []byte("FROM scratch"))
	mustWrite(t, root, "photo.png", []byte{0x89, 0x50, 0x4e, 0x47})
	mustWrite(t, root, "src/huge.ts", bytes.Repeat([]byte("a"), 101*1024))
	mustWrite(t, root, "binary.go", []byte{0xff, 0xfe, 0x00, 0x01})

	art, err := New().WithClock(fixedClock).Walk(root, "demo")
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := map[string]bool{}
	for _, f := range art.Files {
		got[f.Path] = true
	}
	for _, want := range []string{"src/index.ts", ".env", "Dockerfile"} {
		if !got[want] {
			t.Fatalf("expected %s in artifact, files=%v", want, got)
		}
	}
	for _, banned := range []string{
		"node_modules/x/index.js", "dist/bundle.js", "package-lock.json",
		".gitignore", "photo.png", "src/huge.ts", "binary.go",
	} {
		if got[banned] {
			t.Fatalf("did not expect %s in artifact", banned)
		}
	}
}

func TestWalkDeterminism(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, root, "b.go", []byte("package b\n"))
	mustWrite(t, root, "a.go", []byte("package a\n"))
	mustWrite(t, root, "sub/c.md", []byte("# c\n"))

	s := New().WithClock(fixedClock)
	first, err := s.Walk(root, "demo")
	if err != nil {
		t.Fatalf("first walk: %v", err)
	}
	second, err := s.Walk(root, "demo")
	if err != nil {
		t.Fatalf("second walk: %v", err)
	}
	if first.XML() != second.XML() {
		t.Fatal("two walks of the same tree produced different artifacts")
	}
	if first.Files[0].Path != "a.go" || first.Files[1].Path != "b.go" || first.Files[2].Path != "sub/c.md" {
		t.Fatalf("files not sorted: %+v", first.Files)
	}
}

func TestWalkMissingRoot(t *testing.T) {
	if _, err := New().Walk(filepath.Join(t.TempDir(), "nope"), "demo"); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestXMLShape(t *testing.T) {
	art := &Artifact{
		RepositoryName: "demo",
		GeneratedAt:    fixedClock(),
		Files: []File{
			{Path: "main.go", Content: "package main\n", Size: 13},
		},
	}
	xml := art.XML()
	if !strings.HasPrefix(xml, `<repository name="demo" generatedAt="2025-06-01T12:00:00Z" fileCount="1" totalSizeBytes="13">`) {
		t.Fatalf("unexpected root element: %q", xml[:80])
	}
	if !strings.Contains(xml, "<file path=\"main.go\">\npackage main\n</file>\n") {
		t.Fatalf("unexpected file element:\n%s", xml)
	}
	if !strings.HasSuffix(xml, "</repository>\n") {
		t.Fatalf("missing closing element:\n%s", xml)
	}
}

func TestAttrEscapingRoundTrip(t *testing.T) {
	raw := `a&b<c>d"e'f.go`
	escaped := EscapeAttr(raw)
	if escaped != "a&amp;b&lt;c&gt;d&quot;e&#39;f.go" {
		t.Fatalf("escaped = %q", escaped)
	}
	if got := UnescapeAttr(escaped); got != raw {
		t.Fatalf("round trip = %q, want %q", got, raw)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		base string
		size int64
		want SkipReason
	}{
		{"index.ts", 10, SkipNone},
		{"Makefile", 10, SkipNone},
		{".env", 10, SkipNone},
		{".bashrc", 10, SkipBareDotfile},
		{"yarn.lock", 10, SkipLockfile},
		{"photo.png", 10, SkipExtension},
		{"big.ts", MaxFileSize + 1, SkipTooLarge},
		{"Dockerfile", MaxFileSize + 1, SkipTooLarge},
	}
	for _, c := range cases {
		if got := Classify(c.base, c.size, MaxFileSize); got != c.want {
			t.Fatalf("Classify(%q, %d) = %v, want %v", c.base, c.size, got, c.want)
		}
	}
}
