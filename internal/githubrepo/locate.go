package githubrepo

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidRepositoryURL is returned for inputs that cannot be resolved to
// a public github.com repository. No network or filesystem work has happened
// when this error is returned.
var ErrInvalidRepositoryURL = errors.New("githubrepo: invalid repository url")

// Identity names a repository once, derived from the input URL.
// Owner and Name are URL-decoded and never contain path separators.
type Identity struct {
	Owner         string
	Name          string
	DefaultBranch string
}

func (id Identity) FullName() string { return id.Owner + "/" + id.Name }

// Locate parses a raw GitHub URL or an "owner/name" shorthand and returns
// the normalized HTTPS URL plus the repository identity. Only github.com
// and www.github.com hosts are accepted. Pure parsing, no side effects.
func Locate(raw string) (string, Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", Identity{}, fmt.Errorf("%w: empty input", ErrInvalidRepositoryURL)
	}
	if isShorthand(raw) {
		raw = "https://github.com/" + raw
	} else if !strings.Contains(raw, "://") &&
		(strings.HasPrefix(raw, "github.com/") || strings.HasPrefix(raw, "www.github.com/")) {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", Identity{}, fmt.Errorf("%w: %v", ErrInvalidRepositoryURL, err)
	}
	host := strings.ToLower(strings.TrimSpace(u.Host))
	if host != "github.com" && host != "www.github.com" {
		return "", Identity{}, fmt.Errorf("%w: host %q is not github.com", ErrInvalidRepositoryURL, u.Host)
	}

	segments := pathSegments(u.Path)
	if len(segments) < 2 {
		return "", Identity{}, fmt.Errorf("%w: expected owner/name in %q", ErrInvalidRepositoryURL, raw)
	}
	owner := segments[0]
	name := strings.TrimSuffix(segments[1], ".git")
	if owner == "" || name == "" {
		return "", Identity{}, fmt.Errorf("%w: expected owner/name in %q", ErrInvalidRepositoryURL, raw)
	}

	id := Identity{Owner: owner, Name: name}
	return "https://github.com/" + owner + "/" + name, id, nil
}

// isShorthand reports whether raw looks like "owner/name": exactly two
// non-empty, non-dotted segments and no scheme.
func isShorthand(raw string) bool {
	if strings.Contains(raw, "://") {
		return false
	}
	parts := strings.Split(raw, "/")
	if len(parts) != 2 {
		return false
	}
	for _, p := range parts {
		if p == "" || strings.Contains(p, ".") {
			return false
		}
	}
	return true
}

func pathSegments(p string) []string {
	var out []string
	for _, seg := range strings.Split(strings.Trim(p, "/"), "/") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		out = append(out, seg)
	}
	return out
}
