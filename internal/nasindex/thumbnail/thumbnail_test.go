package thumbnail

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nasdex/indexer/internal/nasindex/conf"
	"github.com/nasdex/indexer/internal/nasindex/queue"
	"github.com/nasdex/indexer/internal/nasindex/store"
)

func newTestWorker(t *testing.T) (*Worker, *store.FakeStore) {
	t.Helper()
	cfg := &conf.Config{ThumbnailDir: t.TempDir(), ThumbnailQuality: 85, OpTimeout: time.Second}
	st := store.NewFakeStore()
	w, err := New(cfg, st)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return w, st
}

func TestNewCreatesSizeDirectories(t *testing.T) {
	w, _ := newTestWorker(t)
	for _, s := range Sizes {
		if _, err := os.Stat(filepath.Join(w.rootDir, s.Name)); err != nil {
			t.Errorf("expected %s subdirectory to exist: %v", s.Name, err)
		}
	}
}

func TestThumbnailPathStableAcrossCalls(t *testing.T) {
	w, _ := newTestWorker(t)
	a := w.thumbnailPath("/photos/vacation/beach.jpg", "small")
	b := w.thumbnailPath("/photos/vacation/beach.jpg", "small")
	if a != b {
		t.Errorf("expected stable path, got %q and %q", a, b)
	}
	if filepath.Base(filepath.Dir(a)) != "small" {
		t.Errorf("expected path nested under size dir, got %q", a)
	}
}

func TestCleanupRemovesExistingThumbnails(t *testing.T) {
	w, _ := newTestWorker(t)
	logical := "/photos/a.jpg"
	for _, s := range Sizes {
		p := w.thumbnailPath(logical, s.Name)
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatalf("setup write: %v", err)
		}
	}

	w.cleanup(logical)

	for _, s := range Sizes {
		p := w.thumbnailPath(logical, s.Name)
		if fileExists(p) {
			t.Errorf("expected %s thumbnail to be removed", p)
		}
	}
}

func TestProcessOneDeletedCleansUpAndSkipsRender(t *testing.T) {
	w, st := newTestWorker(t)
	logical := "/photos/a.jpg"
	p := w.thumbnailPath(logical, "small")
	if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
		t.Fatalf("setup write: %v", err)
	}
	_ = st.HSet(context.Background(), store.ThumbnailsKey(logical), "small", p)

	ev := queue.FileEvent{FilePath: logical, EventType: queue.Deleted}
	if err := w.ProcessOne(context.Background(), ev); err != nil {
		t.Fatalf("ProcessOne() error: %v", err)
	}

	if fileExists(p) {
		t.Error("expected thumbnail to be removed on delete event")
	}
	if _, ok, _ := st.HGet(context.Background(), store.ThumbnailsKey(logical), "small"); ok {
		t.Error("did not expect a thumbnails hash entry after delete")
	}
}

func TestRenderSkipsUnsupportedExtension(t *testing.T) {
	w, _ := newTestWorker(t)
	ev := queue.FileEvent{FilePath: "/docs/report.pdf", FileExtension: ".pdf"}
	paths, err := w.render(context.Background(), ev)
	if err != nil {
		t.Fatalf("render() error: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("expected no thumbnails for unsupported extension, got %v", paths)
	}
}
