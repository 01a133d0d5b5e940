package assets

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/gslbridge/pkg/errors"
	"github.com/matzehuels/gslbridge/pkg/observability"
)

type countingHooks struct {
	observability.NoopAssetHooks
	mu      sync.Mutex
	copied  int
	skipped int
}

func (h *countingHooks) OnTextureCopied(context.Context, string, string, int64) {
	h.mu.Lock()
	h.copied++
	h.mu.Unlock()
}

func (h *countingHooks) OnTextureSkipped(context.Context, string, string) {
	h.mu.Lock()
	h.skipped++
	h.mu.Unlock()
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCopyIdempotent(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetAssetHooks(hooks)
	defer observability.Reset()

	src := filepath.Join(t.TempDir(), "bark.png")
	writeFile(t, src, "abcd")
	root := t.TempDir()
	c := &Copier{}
	ctx := context.Background()

	first, err := c.Copy(ctx, src, root, "Old Wood.001")
	if err != nil {
		t.Fatalf("Copy() error: %v", err)
	}
	if !first.Copied {
		t.Error("first Copy() should copy")
	}
	if first.Path != "res://GSL_Texture/Old_Wood_001/bark.png" {
		t.Errorf("Path = %q", first.Path)
	}

	second, err := c.Copy(ctx, src, root, "Old Wood.001")
	if err != nil {
		t.Fatalf("second Copy() error: %v", err)
	}
	if second.Copied {
		t.Error("second Copy() should be skipped")
	}
	if second.Path != first.Path {
		t.Errorf("second Path = %q, want %q", second.Path, first.Path)
	}

	entries, err := os.ReadDir(Dir(root, "Old Wood.001"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("destination holds %d files, want 1", len(entries))
	}
	if hooks.copied != 1 || hooks.skipped != 1 {
		t.Errorf("copied=%d skipped=%d, want 1 and 1", hooks.copied, hooks.skipped)
	}

	// A size change triggers exactly one re-copy.
	writeFile(t, src, "abcdef")
	third, err := c.Copy(ctx, src, root, "Old Wood.001")
	if err != nil {
		t.Fatalf("third Copy() error: %v", err)
	}
	if !third.Copied {
		t.Error("Copy() after size change should copy")
	}
	fourth, _ := c.Copy(ctx, src, root, "Old Wood.001")
	if fourth.Copied {
		t.Error("Copy() after re-copy should be skipped")
	}
	if hooks.copied != 2 {
		t.Errorf("copied = %d, want 2", hooks.copied)
	}

	data, _ := os.ReadFile(third.Dest)
	if string(data) != "abcdef" {
		t.Errorf("destination content = %q", data)
	}
}

func TestCopySameSizeNotDetected(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.png")
	writeFile(t, src, "1111")
	root := t.TempDir()
	c := &Copier{}

	if _, err := c.Copy(context.Background(), src, root, "M"); err != nil {
		t.Fatal(err)
	}
	writeFile(t, src, "2222")
	res, err := c.Copy(context.Background(), src, root, "M")
	if err != nil {
		t.Fatal(err)
	}
	if res.Copied {
		t.Error("same-size content change should not trigger a copy")
	}
}

func TestCopyPreservesModTime(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.png")
	writeFile(t, src, "data")
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	res, err := (&Copier{}).Copy(context.Background(), src, t.TempDir(), "M")
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(res.Dest)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Errorf("ModTime = %v, want %v", info.ModTime(), mtime)
	}
}

func TestCopyMissingSource(t *testing.T) {
	_, err := (&Copier{}).Copy(context.Background(), filepath.Join(t.TempDir(), "nope.png"), t.TempDir(), "M")
	if !errors.Is(err, errors.ErrCodeAssetCopy) {
		t.Errorf("Copy() error = %v, want ASSET_COPY", err)
	}
}

func TestListAndClear(t *testing.T) {
	root := t.TempDir()

	files, err := List(root)
	if err != nil || len(files) != 0 {
		t.Fatalf("List(empty) = %v, %v", files, err)
	}
	n, err := Clear(root)
	if err != nil || n != 0 {
		t.Fatalf("Clear(empty) = %d, %v", n, err)
	}

	src := t.TempDir()
	c := &Copier{}
	for _, name := range []string{"a.png", "b.jpg"} {
		p := filepath.Join(src, name)
		writeFile(t, p, name)
		if _, err := c.Copy(context.Background(), p, root, "Mat"); err != nil {
			t.Fatal(err)
		}
	}

	files, err = List(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || files[0] != "GSL_Texture/Mat/a.png" {
		t.Errorf("List() = %v", files)
	}

	n, err = Clear(root)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Clear() = %d, want 2", n)
	}
	if _, err := os.Stat(filepath.Join(root, TextureDirName)); !os.IsNotExist(err) {
		t.Error("texture directory still exists after Clear()")
	}
}
