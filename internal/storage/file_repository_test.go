package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileRepositoryMissingFileStartsEmpty(t *testing.T) {
	repo, err := OpenFile(filepath.Join(t.TempDir(), "todo.dat"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	c, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty container, got %d", c.Len())
	}
}

func TestFileRepositoryRejectsEmptyPath(t *testing.T) {
	if _, err := OpenFile("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestFileRepositoryCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.dat")
	if err := os.WriteFile(path, []byte("not cbor at all"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	repo, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := repo.Load(context.Background()); err == nil {
		t.Fatal("expected decode error for corrupt file")
	}
}

func TestFileRepositorySaveIsDeterministicAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.dat")
	repo, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	c := sampleContainer()
	ctx := context.Background()

	if err := repo.Save(ctx, c); err != nil {
		t.Fatalf("first save: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := repo.Save(ctx, c); err != nil {
		t.Fatalf("second save: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("expected identical bytes for unchanged container")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file removed, stat err = %v", err)
	}
}

func TestFileRepositoryHonoursCancelledContext(t *testing.T) {
	repo, err := OpenFile(filepath.Join(t.TempDir(), "todo.dat"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := repo.Save(ctx, sampleContainer()); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestFileRepositoryRejectsDuplicateKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.dat")
	// {"version": 1, "version": 1}
	raw := []byte{0xa2, 0x67, 'v', 'e', 'r', 's', 'i', 'o', 'n', 0x01, 0x67, 'v', 'e', 'r', 's', 'i', 'o', 'n', 0x01}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	repo, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := repo.Load(context.Background()); err == nil {
		t.Fatal("expected duplicate map keys to be rejected")
	}
}
