package safeio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadFileUnderRoot(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(p, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fsys, err := NewSafeFS(dir)
	if err != nil {
		t.Fatalf("NewSafeFS: %v", err)
	}

	if b, err := fsys.ReadFile(p); err != nil || string(b) != "hello" {
		t.Fatalf("ReadFile absolute: %q, %v", b, err)
	}
	if b, err := fsys.ReadFile("a.txt"); err != nil || string(b) != "hello" {
		t.Fatalf("ReadFile relative: %q, %v", b, err)
	}
}

func TestReadFileRejectsTraversal(t *testing.T) {
	fsys, err := NewSafeFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewSafeFS: %v", err)
	}
	if _, err := fsys.ReadFile(filepath.Join("..", "etc", "passwd")); err == nil {
		t.Fatal("expected traversal to be rejected")
	}
}

func TestReadFileRejectsEscapingSymlink(t *testing.T) {
	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.txt")
	if err := os.WriteFile(secret, []byte("nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	root := t.TempDir()
	link := filepath.Join(root, "link.txt")
	if err := os.Symlink(secret, link); err != nil {
		t.Skipf("symlink: %v", err)
	}

	fsys, err := NewSafeFS(root)
	if err != nil {
		t.Fatalf("NewSafeFS: %v", err)
	}
	if _, err := fsys.ReadFile("link.txt"); err == nil {
		t.Fatal("expected symlink escape to be rejected")
	}
}

func TestNewSafeFSRejectsMissingRoot(t *testing.T) {
	if _, err := NewSafeFS(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing root")
	}
}
