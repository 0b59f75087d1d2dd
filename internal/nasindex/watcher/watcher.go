// Package watcher implements the Watcher + Scanner: it turns filesystem
// notifications and periodic rescans into a deduplicated stream of file
// events enqueued to the extractor's work queue, per the five-stage
// enqueue discipline.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/nasdex/indexer/internal/nasindex/conf"
	"github.com/nasdex/indexer/internal/nasindex/queue"
	"github.com/nasdex/indexer/internal/nasindex/store"
	"github.com/nasdex/indexer/internal/nasindex/volume"
)

// pendingShardCount bounds lock contention on the dispatcher's debounce
// state the way pkg/filecopy shards its file index by path hash: one
// mutex per shard instead of one global mutex for every in-flight path.
const pendingShardCount = 16

type pendingShard struct {
	mu      sync.Mutex
	entries map[string]*pendingEntry
}

// Watcher owns one fsnotify source across all configured volumes, a
// single dispatcher goroutine that centralizes per-path debounce state
// (§9 "Callback-shaped watcher API" — no per-path locks here, only in
// the state store), and the periodic rescanner.
type Watcher struct {
	cfg   *conf.Config
	norm  *volume.Normalizer
	st    store.Store
	opctx time.Duration

	debounceDelay  time.Duration
	staleAfter     time.Duration
	rescanInterval time.Duration

	fsw *fsnotify.Watcher

	pending [pendingShardCount]*pendingShard

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// shardFor picks the debounce shard for logicalPath by a fast,
// non-cryptographic hash — contention-sharding only, never the
// content-identity hash, which stays SHA-256 per spec (§3).
func (w *Watcher) shardFor(logicalPath string) *pendingShard {
	return w.pending[xxhash.Sum64String(logicalPath)%pendingShardCount]
}

type pendingEntry struct {
	eventType     queue.EventType
	containerPath string
	logicalPath   string
	timestamp     time.Time
	timer         *time.Timer
}

// New builds a Watcher from configuration. It does not start watching
// until Start is called.
func New(cfg *conf.Config, norm *volume.Normalizer, st store.Store) *Watcher {
	delay := cfg.DebounceDelay
	if delay <= 0 {
		delay = 5 * time.Second
	}
	rescan := cfg.RescanInterval
	if rescan <= 0 {
		rescan = 30 * time.Minute
	}
	w := &Watcher{
		cfg:            cfg,
		norm:           norm,
		st:             st,
		opctx:          cfg.OpTimeout,
		debounceDelay:  delay,
		staleAfter:     2 * delay,
		rescanInterval: rescan,
		stopCh:         make(chan struct{}),
	}
	for i := range w.pending {
		w.pending[i] = &pendingShard{entries: make(map[string]*pendingEntry)}
	}
	return w
}

// Start adds recursive watches for every configured volume, runs the
// startup full-tree scan, and launches the dispatch loop and periodic
// rescanner. It returns once the startup scan has been kicked off in
// the background; Stop blocks until everything has wound down.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsw = fsw

	for _, v := range w.norm.Volumes() {
		if _, err := os.Stat(v.Path); err != nil {
			return err
		}
		if err := w.addRecursive(v.Path); err != nil {
			return err
		}
	}

	w.wg.Add(1)
	go w.dispatchLoop(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.Scan(ctx)
		ticker := time.NewTicker(w.rescanInterval)
		defer ticker.Stop()
		for {
			select {
			case <-w.stopCh:
				return
			case <-ticker.C:
				w.Scan(ctx)
			}
		}
	}()

	return nil
}

// Stop cancels pending debounce timers (dropping their entries without
// enqueue) and waits for the dispatcher and rescanner to exit.
func (w *Watcher) Stop() error {
	close(w.stopCh)

	for _, shard := range w.pending {
		shard.mu.Lock()
		for path, entry := range shard.entries {
			entry.timer.Stop()
			delete(shard.entries, path)
		}
		shard.mu.Unlock()
	}

	var closeErr error
	if w.fsw != nil {
		closeErr = w.fsw.Close()
	}
	w.wg.Wait()
	return closeErr
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if werr := w.fsw.Add(path); werr != nil {
				log.Warn().Str("dir", path).Err(werr).Msg("failed to watch directory")
			}
		}
		return nil
	})
}

func (w *Watcher) dispatchLoop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleRawEvent(ctx, ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("filesystem watcher error")
		}
	}
}

func (w *Watcher) handleRawEvent(ctx context.Context, ev fsnotify.Event) {
	if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && ev.Op&(fsnotify.Create|fsnotify.Rename) != 0 {
		if err := w.addRecursive(ev.Name); err != nil {
			log.Warn().Str("dir", ev.Name).Err(err).Msg("failed to extend watch to new directory")
		}
		return
	}

	logicalPath := w.norm.Logical(ev.Name)

	switch {
	case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
		// A move decomposes into deleted-of-old-path + created-of-new-path;
		// fsnotify already delivers that decomposition as Rename (old path)
		// followed by a separate Create (new path), so Rename is handled
		// identically to Remove here.
		w.schedule(logicalPath, ev.Name, queue.Deleted, time.Now())
	case ev.Op&fsnotify.Create != 0:
		w.schedule(logicalPath, ev.Name, queue.Created, time.Now())
	case ev.Op&fsnotify.Write != 0:
		go func() {
			time.Sleep(time.Second)
			w.schedule(logicalPath, ev.Name, queue.Modified, time.Now())
		}()
	}
}

// schedule arms or refreshes the debounce timer for logicalPath. Only
// the dispatcher goroutine and the 1s-delayed modify goroutines call
// this, each guarded by the path's shard lock, so the entry map itself
// never needs a lock any finer-grained than that.
func (w *Watcher) schedule(logicalPath, containerPath string, eventType queue.EventType, ts time.Time) {
	shard := w.shardFor(logicalPath)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	existing, had := shard.entries[logicalPath]
	finalType := eventType
	if had && existing.eventType == queue.Deleted && eventType != queue.Deleted {
		finalType = queue.Deleted
	}
	if had {
		existing.timer.Stop()
	}

	entry := &pendingEntry{
		eventType:     finalType,
		containerPath: containerPath,
		logicalPath:   logicalPath,
		timestamp:     ts,
	}
	entry.timer = time.AfterFunc(w.debounceDelay, func() {
		w.fire(logicalPath)
	})
	shard.entries[logicalPath] = entry
}

func (w *Watcher) fire(logicalPath string) {
	shard := w.shardFor(logicalPath)
	shard.mu.Lock()
	entry, ok := shard.entries[logicalPath]
	if ok {
		delete(shard.entries, logicalPath)
	}
	shard.mu.Unlock()
	if !ok {
		return
	}

	if time.Since(entry.timestamp) > w.staleAfter {
		return
	}

	if entry.eventType != queue.Deleted {
		if _, err := os.Stat(entry.containerPath); err != nil {
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.opctx)
	defer cancel()
	if err := w.Enqueue(ctx, logicalPath, entry.containerPath, entry.eventType); err != nil {
		log.Error().Str("path", logicalPath).Err(err).Msg("enqueue failed")
	}
}

// Scan walks every configured volume and runs the enqueue discipline
// (as a created event) for every supported file not already present in
// processed_files, per the startup/periodic rescan algorithm.
func (w *Watcher) Scan(ctx context.Context) {
	for _, v := range w.norm.Volumes() {
		_ = filepath.WalkDir(v.Path, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			ext := lowerExt(path)
			if !queue.Supported(ext) {
				return nil
			}
			logicalPath := w.norm.Logical(path)

			opCtx, cancel := context.WithTimeout(ctx, w.opctx)
			isProcessed, err := w.st.SIsMember(opCtx, store.ProcessedFilesSet, logicalPath)
			cancel()
			if err != nil {
				log.Error().Str("path", logicalPath).Err(err).Msg("rescan membership check failed")
				return nil
			}
			if isProcessed {
				return nil
			}

			opCtx2, cancel2 := context.WithTimeout(ctx, w.opctx)
			defer cancel2()
			if err := w.Enqueue(opCtx2, logicalPath, path, queue.Created); err != nil {
				log.Error().Str("path", logicalPath).Err(err).Msg("rescan enqueue failed")
			}
			return nil
		})
	}
}

func lowerExt(path string) string {
	ext := filepath.Ext(path)
	out := make([]byte, len(ext))
	for i := 0; i < len(ext); i++ {
		c := ext[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// Enqueue runs the five-stage deduplication discipline against the
// state store and, if all stages clear, pushes a work-queue message for
// (logicalPath, eventType). It is exported so the rescanner, the
// dispatcher, and tests can all drive it directly.
func (w *Watcher) Enqueue(ctx context.Context, logicalPath, containerPath string, eventType queue.EventType) error {
	if eventType != queue.Deleted {
		ext := lowerExt(containerPath)
		if !queue.Supported(ext) {
			return nil
		}
	}

	globalKey := store.GlobalLockKey(logicalPath)
	queueKey := store.QueueLockKey(logicalPath)

	// Stage 1: acquire global lock.
	acquired, err := w.st.TryAcquireLock(ctx, globalKey, store.GlobalLockTTL)
	if err != nil {
		return err
	}
	if !acquired {
		return nil
	}

	releaseOnException := func() {
		_ = w.st.ReleaseLock(ctx, globalKey)
		_ = w.st.ReleaseLock(ctx, queueKey)
	}

	// Stage 2: queued_files membership. Not an exception — the global
	// lock is deliberately left held for the in-flight item.
	isQueued, err := w.st.SIsMember(ctx, store.QueuedFilesSet, logicalPath)
	if err != nil {
		releaseOnException()
		return err
	}
	if isQueued {
		return nil
	}

	var fileSize int64
	var contentHash string
	var modTime time.Time

	if eventType != queue.Deleted {
		// Stage 3: recency check.
		if raw, ok, err := w.st.Get(ctx, store.ProcessedKey(logicalPath)); err != nil {
			releaseOnException()
			return err
		} else if ok {
			if sec, perr := strconv.ParseFloat(raw, 64); perr == nil {
				processedAt := time.Unix(int64(sec), 0)
				if time.Since(processedAt) < store.RecencyWindow {
					return nil
				}
			}
		}

		data, err := os.ReadFile(containerPath)
		if err != nil {
			// File vanished mid-flight: not an error, a future delete
			// event reconciles. Leave the global lock for TTL reclaim,
			// same as any other non-exception drop.
			return nil
		}
		fileSize = int64(len(data))
		contentHash = queue.ContentHash(data)
		if info, err := os.Stat(containerPath); err == nil {
			modTime = info.ModTime()
		}

		// Stage 4: content-address dedup.
		hashKey := store.FileHashKey(contentHash)
		existingPath, ok, err := w.st.Get(ctx, hashKey)
		if err != nil {
			releaseOnException()
			return err
		}
		if ok && existingPath != logicalPath {
			return nil
		}
		if err := w.st.SetEX(ctx, hashKey, logicalPath, store.FileHashTTL); err != nil {
			releaseOnException()
			return err
		}
	}

	// Stage 5: short queue lock.
	gotQueueLock, err := w.st.TryAcquireLock(ctx, queueKey, store.QueueLockTTL)
	if err != nil {
		releaseOnException()
		return err
	}
	if !gotQueueLock {
		return nil
	}

	ev := w.buildEvent(logicalPath, containerPath, eventType, fileSize, contentHash, modTime)
	payload, err := ev.Encode()
	if err != nil {
		releaseOnException()
		return err
	}
	if err := w.st.Enqueue(ctx, store.FileProcessingQueue, payload); err != nil {
		releaseOnException()
		return err
	}
	if eventType != queue.Deleted {
		if err := w.st.SAdd(ctx, store.QueuedFilesSet, logicalPath); err != nil {
			releaseOnException()
			return err
		}
	}

	return w.st.ReleaseLock(ctx, queueKey)
}

func (w *Watcher) buildEvent(logicalPath, containerPath string, eventType queue.EventType, fileSize int64, contentHash string, modTime time.Time) queue.FileEvent {
	ev := queue.FileEvent{
		EventType:      eventType,
		FilePath:       logicalPath,
		ContainerPath:  containerPath,
		FileName:       filepath.Base(logicalPath),
		FileExtension:  lowerExt(logicalPath),
		FileSize:       fileSize,
		ContentHash:    contentHash,
		DirectoryPath:  volume.DirectoryPath(logicalPath),
		DirectoryDepth: volume.Depth(logicalPath),
		QueuedAt:       queue.ISOTime(time.Now()),
	}
	if eventType != queue.Deleted {
		ev.CreatedDate = queue.ISOTime(modTime)
		ev.ModifiedDate = queue.ISOTime(modTime)
	}
	return ev
}
