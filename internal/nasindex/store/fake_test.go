package store

import (
	"context"
	"testing"
	"time"
)

func TestTryAcquireLockIsExclusive(t *testing.T) {
	s := NewFakeStore()
	ctx := context.Background()

	ok, err := s.TryAcquireLock(ctx, "global_processing:/photos/a.jpg", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first TryAcquireLock() = %v, %v; want true, nil", ok, err)
	}

	ok, err = s.TryAcquireLock(ctx, "global_processing:/photos/a.jpg", time.Minute)
	if err != nil || ok {
		t.Fatalf("second TryAcquireLock() = %v, %v; want false, nil", ok, err)
	}
}

func TestLockExpiresByTTL(t *testing.T) {
	s := NewFakeStore()
	ctx := context.Background()

	ok, _ := s.TryAcquireLock(ctx, "queue_lock:/photos/a.jpg", 10*time.Millisecond)
	if !ok {
		t.Fatal("expected first lock acquisition to succeed")
	}
	time.Sleep(20 * time.Millisecond)

	ok, err := s.TryAcquireLock(ctx, "queue_lock:/photos/a.jpg", time.Minute)
	if err != nil || !ok {
		t.Fatalf("TryAcquireLock() after TTL expiry = %v, %v; want true, nil", ok, err)
	}
}

func TestEnqueueDequeueFIFO(t *testing.T) {
	s := NewFakeStore()
	ctx := context.Background()

	_ = s.Enqueue(ctx, FileProcessingQueue, []byte("first"))
	_ = s.Enqueue(ctx, FileProcessingQueue, []byte("second"))

	payload, ok, err := s.DequeueBlocking(ctx, FileProcessingQueue, time.Second)
	if err != nil || !ok || string(payload) != "first" {
		t.Fatalf("first dequeue = %q, %v, %v; want first, true, nil", payload, ok, err)
	}

	payload, ok, err = s.DequeueBlocking(ctx, FileProcessingQueue, time.Second)
	if err != nil || !ok || string(payload) != "second" {
		t.Fatalf("second dequeue = %q, %v, %v; want second, true, nil", payload, ok, err)
	}
}

func TestDequeueBlockingTimesOut(t *testing.T) {
	s := NewFakeStore()
	ctx := context.Background()

	start := time.Now()
	_, ok, err := s.DequeueBlocking(ctx, FileProcessingQueue, 20*time.Millisecond)
	if err != nil || ok {
		t.Fatalf("DequeueBlocking() on empty queue = %v, %v; want false, nil", ok, err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("DequeueBlocking() returned before timeout elapsed: %v", elapsed)
	}
}

func TestDequeueBlockingRespondsToCancellation(t *testing.T) {
	s := NewFakeStore()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		_, _, _ = s.DequeueBlocking(ctx, FileProcessingQueue, 10*time.Second)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("DequeueBlocking() did not return promptly after cancellation")
	}
}

func TestSetMembership(t *testing.T) {
	s := NewFakeStore()
	ctx := context.Background()

	_ = s.SAdd(ctx, QueuedFilesSet, "/photos/a.jpg")
	isMember, _ := s.SIsMember(ctx, QueuedFilesSet, "/photos/a.jpg")
	if !isMember {
		t.Error("SIsMember() = false after SAdd, want true")
	}

	_ = s.SRem(ctx, QueuedFilesSet, "/photos/a.jpg")
	isMember, _ = s.SIsMember(ctx, QueuedFilesSet, "/photos/a.jpg")
	if isMember {
		t.Error("SIsMember() = true after SRem, want false")
	}
}

func TestHashThumbnails(t *testing.T) {
	s := NewFakeStore()
	ctx := context.Background()
	key := ThumbnailsKey("/photos/a.jpg")

	_ = s.HSet(ctx, key, "small", "/thumbs/small/x.jpg")
	_ = s.HSet(ctx, key, "medium", "/thumbs/medium/x.jpg")

	all, err := s.HGetAll(ctx, key)
	if err != nil {
		t.Fatalf("HGetAll() error: %v", err)
	}
	if all["small"] != "/thumbs/small/x.jpg" || all["medium"] != "/thumbs/medium/x.jpg" {
		t.Errorf("HGetAll() = %v", all)
	}
}
