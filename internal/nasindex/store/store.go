// Package store wraps the Redis-compatible key/value store with the
// pipeline's naming conventions and atomic primitives: locks, queues,
// sets, and hashes, all scoped to the pipeline namespace.
package store

import (
	"context"
	"time"
)

// Store is the thin adapter every component talks to. All operations
// must treat transient connection errors as retryable by the caller;
// implementations must never silently discard data, and a canceled
// context must make a blocking dequeue return promptly.
type Store interface {
	// TryAcquireLock is an atomic set-if-absent with expiry (SET NX EX).
	TryAcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// ReleaseLock unconditionally deletes key. Idempotent.
	ReleaseLock(ctx context.Context, key string) error

	// Enqueue pushes payload onto the left end of queue (LPUSH).
	Enqueue(ctx context.Context, queue string, payload []byte) error
	// DequeueBlocking pops from the right end of queue (BRPOP) with the
	// given timeout, returning ok=false on timeout (not an error).
	DequeueBlocking(ctx context.Context, queue string, timeout time.Duration) (payload []byte, ok bool, err error)

	SIsMember(ctx context.Context, key, member string) (bool, error)
	SAdd(ctx context.Context, key, member string) error
	SRem(ctx context.Context, key, member string) error
	SCard(ctx context.Context, key string) (int64, error)
	SMembers(ctx context.Context, key string) ([]string, error)

	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	SetEX(ctx context.Context, key, value string, ttl time.Duration) error

	HSet(ctx context.Context, key, field, value string) error
	HGet(ctx context.Context, key, field string) (string, bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, key string) error

	// Scan iterates keys matching prefix*, for maintenance scripts.
	Scan(ctx context.Context, prefix string) ([]string, error)

	// Ping checks connectivity, used by the health endpoint and startup.
	Ping(ctx context.Context) error
}

// Key-naming conventions, scoped to the pipeline namespace per §3.
const (
	FileProcessingQueue     = "file_processing_queue"
	ThumbnailGenerationQueue = "thumbnail_generation_queue"
	QueuedFilesSet          = "queued_files"
	ProcessedFilesSet       = "processed_files"
)

// ProcessedKey returns the processed:<logical_path> key.
func ProcessedKey(logicalPath string) string { return "processed:" + logicalPath }

// FileHashKey returns the file_hash:<sha256> key.
func FileHashKey(sha256hex string) string { return "file_hash:" + sha256hex }

// GlobalLockKey returns the global_processing:<logical_path> key.
func GlobalLockKey(logicalPath string) string { return "global_processing:" + logicalPath }

// QueueLockKey returns the queue_lock:<logical_path> key.
func QueueLockKey(logicalPath string) string { return "queue_lock:" + logicalPath }

// ThumbnailsKey returns the thumbnails:<logical_path> key.
func ThumbnailsKey(logicalPath string) string { return "thumbnails:" + logicalPath }

// TTLs named per §3's state store key table.
const (
	GlobalLockTTL  = 30 * time.Minute
	QueueLockTTL   = 60 * time.Second
	ProcessedTTL   = 24 * time.Hour
	FileHashTTL    = 24 * time.Hour
	ThumbnailsTTL  = 30 * 24 * time.Hour
	RecencyWindow  = 2 * time.Hour
)
