package githubrepo

import (
	"errors"
	"testing"
)

func TestLocateFullURL(t *testing.T) {
	norm, id, err := Locate("https://github.com/octocat/Hello-World")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if norm != "https://github.com/octocat/Hello-World" {
		t.Fatalf("normalized = %q", norm)
	}
	if id.Owner != "octocat" || id.Name != "Hello-World" {
		t.Fatalf("identity = %+v", id)
	}
}

func TestLocateShorthand(t *testing.T) {
	norm, id, err := Locate("octocat/Hello-World")
	if err != nil {
		t.Fatalf("Locate shorthand: %v", err)
	}
	if norm != "https://github.com/octocat/Hello-World" {
		t.Fatalf("normalized = %q", norm)
	}
	if id.FullName() != "octocat/Hello-World" {
		t.Fatalf("full name = %q", id.FullName())
	}
}

func TestLocateVariants(t *testing.T) {
	cases := []struct {
		in        string
		wantOwner string
		wantName  string
	}{
		{"https://www.github.com/octocat/Hello-World", "octocat", "Hello-World"},
		{"https://github.com/octocat/Hello-World.git", "octocat", "Hello-World"},
		{"https://github.com/octocat/Hello-World/tree/main", "octocat", "Hello-World"},
		{"github.com/octocat/Hello-World", "octocat", "Hello-World"},
		{"  https://github.com/octocat/Hello-World  ", "octocat", "Hello-World"},
	}
	for _, c := range cases {
		_, id, err := Locate(c.in)
		if err != nil {
			t.Fatalf("Locate(%q): %v", c.in, err)
		}
		if id.Owner != c.wantOwner || id.Name != c.wantName {
			t.Fatalf("Locate(%q) = %+v", c.in, id)
		}
	}
}

func TestLocateRejects(t *testing.T) {
	cases := []string{
		"",
		"https://gitlab.com/foo/bar",
		"https://github.com/onlyowner",
		"not a url at all",
		"octocat",
	}
	for _, in := range cases {
		if _, _, err := Locate(in); !errors.Is(err, ErrInvalidRepositoryURL) {
			t.Fatalf("Locate(%q) err = %v, want ErrInvalidRepositoryURL", in, err)
		}
	}
}

func TestLocateDecodesPathSegments(t *testing.T) {
	_, id, err := Locate("https://github.com/octo%2Dcat/Hello%2DWorld")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if id.Owner != "octo-cat" || id.Name != "Hello-World" {
		t.Fatalf("identity = %+v", id)
	}
}
