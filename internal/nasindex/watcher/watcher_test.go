package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/nasdex/indexer/internal/nasindex/conf"
	"github.com/nasdex/indexer/internal/nasindex/queue"
	"github.com/nasdex/indexer/internal/nasindex/store"
	"github.com/nasdex/indexer/internal/nasindex/volume"
)

func newTestWatcher(t *testing.T, root string) (*Watcher, *store.FakeStore) {
	t.Helper()
	norm := volume.New([]conf.Volume{{Name: "photos", Path: root}})
	st := store.NewFakeStore()
	cfg := &conf.Config{OpTimeout: time.Second}
	w := New(cfg, norm, st)
	return w, st
}

func writeTestFile(t *testing.T, dir, name string, contents []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, contents, 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestEnqueueWritesEventAndHoldsGlobalLock(t *testing.T) {
	dir := t.TempDir()
	w, st := newTestWatcher(t, dir)
	path := writeTestFile(t, dir, "a.jpg", []byte("hello"))
	logical := w.norm.Logical(path)
	ctx := context.Background()

	if err := w.Enqueue(ctx, logical, path, queue.Created); err != nil {
		t.Fatalf("Enqueue() error: %v", err)
	}

	payload, ok, err := st.DequeueBlocking(ctx, store.FileProcessingQueue, time.Second)
	if err != nil || !ok {
		t.Fatalf("expected a queued event, got ok=%v err=%v", ok, err)
	}
	ev, err := queue.Decode(payload)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if ev.FilePath != logical || ev.EventType != queue.Created {
		t.Errorf("queued event = %+v", ev)
	}

	isMember, _ := st.SIsMember(ctx, store.QueuedFilesSet, logical)
	if !isMember {
		t.Error("expected logical path to be a member of queued_files")
	}

	acquired, _ := st.TryAcquireLock(ctx, store.GlobalLockKey(logical), time.Minute)
	if acquired {
		t.Error("expected global_processing lock to still be held after enqueue")
	}
}

func TestEnqueueDropsWhenGlobalLockAlreadyHeld(t *testing.T) {
	dir := t.TempDir()
	w, st := newTestWatcher(t, dir)
	path := writeTestFile(t, dir, "a.jpg", []byte("hello"))
	logical := w.norm.Logical(path)
	ctx := context.Background()

	_, _ = st.TryAcquireLock(ctx, store.GlobalLockKey(logical), time.Minute)

	if err := w.Enqueue(ctx, logical, path, queue.Created); err != nil {
		t.Fatalf("Enqueue() error: %v", err)
	}

	_, ok, _ := st.DequeueBlocking(ctx, store.FileProcessingQueue, 10*time.Millisecond)
	if ok {
		t.Error("expected no event to be enqueued while global lock is held")
	}
}

func TestEnqueueDropsWhenAlreadyQueued(t *testing.T) {
	dir := t.TempDir()
	w, st := newTestWatcher(t, dir)
	path := writeTestFile(t, dir, "a.jpg", []byte("hello"))
	logical := w.norm.Logical(path)
	ctx := context.Background()

	_ = st.SAdd(ctx, store.QueuedFilesSet, logical)

	if err := w.Enqueue(ctx, logical, path, queue.Created); err != nil {
		t.Fatalf("Enqueue() error: %v", err)
	}

	_, ok, _ := st.DequeueBlocking(ctx, store.FileProcessingQueue, 10*time.Millisecond)
	if ok {
		t.Error("expected no event to be enqueued when path is already in queued_files")
	}
}

func TestEnqueueRecencyDrop(t *testing.T) {
	dir := t.TempDir()
	w, st := newTestWatcher(t, dir)
	path := writeTestFile(t, dir, "a.jpg", []byte("hello"))
	logical := w.norm.Logical(path)
	ctx := context.Background()

	now := float64(time.Now().Unix())
	_ = st.Set(ctx, store.ProcessedKey(logical), strconv.FormatFloat(now, 'f', -1, 64))

	if err := w.Enqueue(ctx, logical, path, queue.Created); err != nil {
		t.Fatalf("Enqueue() error: %v", err)
	}

	_, ok, _ := st.DequeueBlocking(ctx, store.FileProcessingQueue, 10*time.Millisecond)
	if ok {
		t.Error("expected no event to be enqueued within the recency window")
	}
}

func TestEnqueueContentAddressDedupAcrossVolumes(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	norm := volume.New([]conf.Volume{{Name: "v1", Path: dirA}, {Name: "v2", Path: dirB}})
	st := store.NewFakeStore()
	w := New(&conf.Config{OpTimeout: time.Second}, norm, st)

	contents := []byte("identical bytes")
	pathA := writeTestFile(t, dirA, "x.mp3", contents)
	pathB := writeTestFile(t, dirB, "x.mp3", contents)
	logicalA := norm.Logical(pathA)
	logicalB := norm.Logical(pathB)
	ctx := context.Background()

	if err := w.Enqueue(ctx, logicalA, pathA, queue.Created); err != nil {
		t.Fatalf("Enqueue(A) error: %v", err)
	}
	if err := w.Enqueue(ctx, logicalB, pathB, queue.Created); err != nil {
		t.Fatalf("Enqueue(B) error: %v", err)
	}

	count := 0
	for {
		_, ok, _ := st.DequeueBlocking(ctx, store.FileProcessingQueue, 10*time.Millisecond)
		if !ok {
			break
		}
		count++
	}
	if count != 1 {
		t.Errorf("expected exactly one enqueue across duplicate content, got %d", count)
	}
}

func TestEnqueueDeleteSkipsContentChecks(t *testing.T) {
	dir := t.TempDir()
	w, st := newTestWatcher(t, dir)
	logical := "/photos/gone.jpg"
	ctx := context.Background()

	if err := w.Enqueue(ctx, logical, filepath.Join(dir, "gone.jpg"), queue.Deleted); err != nil {
		t.Fatalf("Enqueue(deleted) error: %v", err)
	}

	payload, ok, err := st.DequeueBlocking(ctx, store.FileProcessingQueue, time.Second)
	if err != nil || !ok {
		t.Fatalf("expected a queued delete event, got ok=%v err=%v", ok, err)
	}
	ev, _ := queue.Decode(payload)
	if ev.EventType != queue.Deleted {
		t.Errorf("event type = %q, want deleted", ev.EventType)
	}

	isMember, _ := st.SIsMember(ctx, store.QueuedFilesSet, logical)
	if isMember {
		t.Error("delete events must not be added to queued_files")
	}
}

func TestScheduleDeletedWinsOverPendingCreate(t *testing.T) {
	dir := t.TempDir()
	w, _ := newTestWatcher(t, dir)

	w.schedule("/photos/a.jpg", filepath.Join(dir, "a.jpg"), queue.Created, time.Now())
	w.schedule("/photos/a.jpg", filepath.Join(dir, "a.jpg"), queue.Deleted, time.Now())

	shard := w.shardFor("/photos/a.jpg")
	shard.mu.Lock()
	entry := shard.entries["/photos/a.jpg"]
	shard.mu.Unlock()

	if entry == nil || entry.eventType != queue.Deleted {
		t.Errorf("expected pending entry to be deleted after delete arrives, got %+v", entry)
	}
}
