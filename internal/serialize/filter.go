package serialize

import (
	"path/filepath"
	"strings"
)

// MaxFileSize is the per-file inclusion cap. Larger files are excluded
// whole, never truncated.
const MaxFileSize = 100 * 1024

// SkipReason makes the exclusion policy explicit: every skipped entry has a
// stated reason rather than an implicit catch-and-ignore.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipExcludedDir
	SkipLockfile
	SkipBareDotfile
	SkipExtension
	SkipTooLarge
	SkipNotText
	SkipUnreadable
)

func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "included"
	case SkipExcludedDir:
		return "excluded dir"
	case SkipLockfile:
		return "lockfile"
	case SkipBareDotfile:
		return "bare dotfile"
	case SkipExtension:
		return "extension not allowed"
	case SkipTooLarge:
		return "too large"
	case SkipNotText:
		return "not utf-8 text"
	case SkipUnreadable:
		return "unreadable"
	}
	return "unknown"
}

// Directories skipped wholesale: VCS metadata, dependency caches, build
// output, editor config, OS artifact folders.
var excludedDirs = map[string]struct{}{
	".git":             {},
	".hg":              {},
	".svn":             {},
	"node_modules":     {},
	"vendor":           {},
	"bower_components": {},
	"dist":             {},
	"build":            {},
	"out":              {},
	".next":            {},
	".nuxt":            {},
	"__pycache__":      {},
	".pytest_cache":    {},
	"venv":             {},
	".venv":            {},
	"env":              {},
	"target":           {},
	".cache":           {},
	"tmp":              {},
	".idea":            {},
	".vscode":          {},
	"coverage":         {},
	"__MACOSX":         {},
}

// Noisy files skipped by exact basename.
var excludedBasenames = map[string]struct{}{
	"package-lock.json":   {},
	"yarn.lock":           {},
	"pnpm-lock.yaml":      {},
	"npm-shrinkwrap.json": {},
	"composer.lock":       {},
	"Gemfile.lock":        {},
	"Cargo.lock":          {},
	"poetry.lock":         {},
	"Pipfile.lock":        {},
	"go.sum":              {},
	".DS_Store":           {},
	"Thumbs.db":           {},
	"desktop.ini":         {},
}

// Extension-less dotfiles are excluded unless explicitly allowed here.
var allowedDotfiles = map[string]struct{}{
	".env": {},
}

// Conventional build files included regardless of extension.
var buildBasenames = map[string]struct{}{
	"Dockerfile": {},
	"Makefile":   {},
	"Procfile":   {},
	"Gemfile":    {},
	"Rakefile":   {},
}

var allowedExtensions = map[string]struct{}{
	".js": {}, ".jsx": {}, ".ts": {}, ".tsx": {}, ".mjs": {}, ".cjs": {},
	".py": {}, ".rb": {}, ".php": {}, ".go": {}, ".rs": {},
	".java": {}, ".kt": {}, ".kts": {}, ".scala": {}, ".swift": {},
	".c": {}, ".h": {}, ".cc": {}, ".cpp": {}, ".hpp": {}, ".cs": {},
	".sh": {}, ".bash": {}, ".zsh": {}, ".ps1": {}, ".bat": {},
	".html": {}, ".htm": {}, ".css": {}, ".scss": {}, ".sass": {}, ".less": {},
	".vue": {}, ".svelte": {}, ".astro": {},
	".json": {}, ".yaml": {}, ".yml": {}, ".toml": {}, ".ini": {}, ".cfg": {}, ".conf": {},
	".xml": {}, ".md": {}, ".markdown": {}, ".rst": {}, ".txt": {},
	".sql": {}, ".graphql": {}, ".gql": {}, ".prisma": {}, ".proto": {},
	".tf": {}, ".gradle": {}, ".properties": {},
	".ex": {}, ".exs": {}, ".erl": {}, ".clj": {}, ".lua": {}, ".dart": {}, ".r": {}, ".pl": {},
}

// SkipDir reports whether a directory is excluded from the walk.
func SkipDir(base string) bool {
	_, ok := excludedDirs[base]
	return ok
}

// Classify applies the file inclusion policy to a basename and size.
// SkipNone means the file should be read and included.
func Classify(base string, size, maxSize int64) SkipReason {
	if maxSize <= 0 {
		maxSize = MaxFileSize
	}
	if _, ok := excludedBasenames[base]; ok {
		return SkipLockfile
	}
	if size > maxSize {
		return SkipTooLarge
	}
	if _, ok := buildBasenames[base]; ok {
		return SkipNone
	}
	if strings.HasPrefix(base, ".") && strings.Count(base, ".") == 1 {
		if _, ok := allowedDotfiles[base]; ok {
			return SkipNone
		}
		return SkipBareDotfile
	}
	ext := strings.ToLower(filepath.Ext(base))
	if _, ok := allowedExtensions[ext]; !ok {
		return SkipExtension
	}
	return SkipNone
}
