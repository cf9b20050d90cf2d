package serialize

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"repoflow/internal/safeio"
)

// File is one repository file that passed the inclusion policy.
type File struct {
	// Path is repo-relative with forward slashes (e.g. "src/app.ts").
	Path    string
	Content string
	Size    int64
}

// Artifact is the ordered collection of included files for one repository.
// Given an identical directory tree the artifact is byte-for-byte
// deterministic apart from GeneratedAt.
type Artifact struct {
	RepositoryName string
	GeneratedAt    time.Time
	Files          []File
}

func (a *Artifact) FileCount() int { return len(a.Files) }

func (a *Artifact) TotalSize() int64 {
	var n int64
	for _, f := range a.Files {
		n += f.Size
	}
	return n
}

// Serializer walks a checkout and builds Artifacts.
type Serializer struct {
	MaxFileSize int64
	now         func() time.Time
}

func New() *Serializer {
	return &Serializer{MaxFileSize: MaxFileSize, now: time.Now}
}

// WithClock fixes the generation timestamp source (tests).
func (s *Serializer) WithClock(now func() time.Time) *Serializer {
	s.now = now
	return s
}

// Walk collects every file under root that passes the inclusion policy,
// sorted by relative path. Directory read errors are swallowed per subtree;
// a partial artifact is preferred over a failed walk. Only a missing or
// unreadable root is an error. Reads go through a root-confined filesystem,
// so symlinks pointing outside the checkout are skipped.
func (s *Serializer) Walk(root, repoName string) (*Artifact, error) {
	fsys, err := safeio.NewSafeFS(root)
	if err != nil {
		return nil, fmt.Errorf("serialize: open root: %w", err)
	}

	var files []File
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree yields zero files instead of aborting.
			return nil
		}
		base := filepath.Base(path)
		if d.IsDir() {
			if path != root && SkipDir(base) {
				return filepath.SkipDir
			}
			return nil
		}
		info, ierr := d.Info()
		if ierr != nil {
			return nil
		}
		if Classify(base, info.Size(), s.MaxFileSize) != SkipNone {
			return nil
		}
		b, rerr := fsys.ReadFile(path)
		if rerr != nil {
			return nil
		}
		if !utf8.Valid(b) {
			return nil
		}
		rel, rerr2 := filepath.Rel(root, path)
		if rerr2 != nil {
			return nil
		}
		files = append(files, File{
			Path:    filepath.ToSlash(rel),
			Content: string(b),
			Size:    info.Size(),
		})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	now := s.now
	if now == nil {
		now = time.Now
	}
	return &Artifact{
		RepositoryName: repoName,
		GeneratedAt:    now().UTC(),
		Files:          files,
	}, nil
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeAttr entity-escapes the five XML-significant characters for use in
// attribute values.
func EscapeAttr(s string) string { return attrEscaper.Replace(s) }

// UnescapeAttr reverses EscapeAttr.
func UnescapeAttr(s string) string {
	r := strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&amp;", "&",
	)
	return r.Replace(s)
}

// XML renders the artifact as the XML-like transport document: escaped
// attributes on the root and file elements, raw unescaped file bodies.
func (a *Artifact) XML() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<repository name=\"%s\" generatedAt=\"%s\" fileCount=\"%d\" totalSizeBytes=\"%d\">\n",
		EscapeAttr(a.RepositoryName), a.GeneratedAt.Format(time.RFC3339), a.FileCount(), a.TotalSize())
	for _, f := range a.Files {
		fmt.Fprintf(&b, "<file path=\"%s\">\n", EscapeAttr(f.Path))
		b.WriteString(f.Content)
		if !strings.HasSuffix(f.Content, "\n") {
			b.WriteByte('\n')
		}
		b.WriteString("</file>\n")
	}
	b.WriteString("</repository>\n")
	return b.String()
}
