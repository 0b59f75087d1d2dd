// Package extractor implements the Extractor Worker: it pulls events off
// the work queue, computes type-specific metadata, and upserts or
// deletes the corresponding index document under a deterministic id.
package extractor

import (
	"context"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nasdex/indexer/internal/nasindex/conf"
	"github.com/nasdex/indexer/internal/nasindex/index"
	"github.com/nasdex/indexer/internal/nasindex/queue"
	"github.com/nasdex/indexer/internal/nasindex/store"
	"github.com/nasdex/indexer/internal/nasindex/volume"
)

// FileType is the coarse classification an index document is filed
// under, derived from MIME type with an extension fallback.
type FileType string

const (
	TypeImage    FileType = "image"
	TypeVideo    FileType = "video"
	TypeAudio    FileType = "audio"
	TypeDocument FileType = "document"
	TypeArchive  FileType = "archive"
	TypeOther    FileType = "other"
)

// Worker runs a fixed pool of goroutines, each blocking on
// file_processing_queue, per §5's concurrency model.
type Worker struct {
	st   store.Store
	idx  index.Index
	norm *volume.Normalizer
	cfg  *conf.Config
}

// New builds a Worker.
func New(cfg *conf.Config, norm *volume.Normalizer, st store.Store, idx index.Index) *Worker {
	return &Worker{st: st, idx: idx, norm: norm, cfg: cfg}
}

// Run starts n goroutines, each looping BRPOP/process until ctx is
// canceled. It returns once every worker goroutine has exited.
func (w *Worker) Run(ctx context.Context, n int) {
	if n <= 0 {
		n = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.loop(ctx)
		}()
	}
	wg.Wait()
}

func (w *Worker) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		payload, ok, err := w.st.DequeueBlocking(ctx, store.FileProcessingQueue, time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Msg("dequeue failed")
			continue
		}
		if !ok {
			continue
		}

		ev, err := queue.Decode(payload)
		if err != nil {
			log.Error().Err(err).Msg("failed to decode work queue message")
			continue
		}

		opCtx, cancel := context.WithTimeout(ctx, w.cfg.OpTimeout)
		if err := w.ProcessOne(opCtx, ev); err != nil {
			log.Error().Str("path", ev.FilePath).Err(err).Msg("failed to process event")
		}
		cancel()
	}
}

// ProcessOne runs the full algorithm of §4.4 for a single event. It
// always releases the global_processing lock on both success and
// failure paths, per the error taxonomy's propagation policy.
func (w *Worker) ProcessOne(ctx context.Context, ev queue.FileEvent) error {
	globalKey := store.GlobalLockKey(ev.FilePath)
	defer func() {
		_ = w.st.ReleaseLock(ctx, globalKey)
	}()

	if ev.EventType == queue.Deleted {
		if err := w.idx.DeleteByFilePath(ctx, ev.FilePath); err != nil {
			return err
		}
		_ = w.st.SRem(ctx, store.QueuedFilesSet, ev.FilePath)
		return nil
	}

	if _, err := os.Stat(ev.ContainerPath); err != nil {
		// File vanished mid-flight: treat as success, a later delete
		// event will reconcile the index.
		_ = w.st.SRem(ctx, store.QueuedFilesSet, ev.FilePath)
		return nil
	}

	fileType, mimeType, err := detectType(ev.ContainerPath, ev.FileExtension)
	if err != nil {
		log.Warn().Str("path", ev.FilePath).Err(err).Msg("mime detection failed, continuing with base fields")
	}

	metadata := w.extractMetadata(ctx, fileType, ev)

	doc := index.Document{
		"id":              queue.DocumentID(ev.FilePath),
		"file_path":       ev.FilePath,
		"file_name":       ev.FileName,
		"file_extension":  ev.FileExtension,
		"file_size":       ev.FileSize,
		"content_hash":    ev.ContentHash,
		"created_date":    ev.CreatedDate,
		"modified_date":   ev.ModifiedDate,
		"directory_path":  ev.DirectoryPath,
		"directory_depth": ev.DirectoryDepth,
		"file_type":       string(fileType),
		"content_type":    mimeType,
		"processing_status": "completed",
	}
	for k, v := range metadata {
		doc[k] = v
	}

	unchanged, err := w.skipIfUnchanged(ctx, ev)
	if err != nil {
		log.Warn().Str("path", ev.FilePath).Err(err).Msg("skip-if-unchanged check failed, writing anyway")
	} else if unchanged {
		_ = w.st.SAdd(ctx, store.ProcessedFilesSet, ev.FilePath)
		_ = w.st.SRem(ctx, store.QueuedFilesSet, ev.FilePath)
		return nil
	}

	if err := w.idx.Upsert(ctx, doc); err != nil {
		// Transient index failure: drop the item, rely on the rescan.
		return err
	}

	now := strconv.FormatFloat(float64(time.Now().Unix()), 'f', -1, 64)
	_ = w.st.SetEX(ctx, store.ProcessedKey(ev.FilePath), now, store.ProcessedTTL)
	_ = w.st.SAdd(ctx, store.ProcessedFilesSet, ev.FilePath)
	_ = w.st.SRem(ctx, store.QueuedFilesSet, ev.FilePath)

	if queue.IsImage(ev.FileExtension) || queue.IsVideo(ev.FileExtension) {
		payload, err := ev.Encode()
		if err == nil {
			_ = w.st.Enqueue(ctx, store.ThumbnailGenerationQueue, payload)
		}
	}

	return nil
}

// skipIfUnchanged implements §4.4's skip-if-unchanged check: a current,
// identical document short-circuits the write. More than one match is
// an invariant violation (§9 open question) — logged, and the write
// proceeds rather than silently dropping.
func (w *Worker) skipIfUnchanged(ctx context.Context, ev queue.FileEvent) (bool, error) {
	matches, err := w.idx.FindByFilePath(ctx, ev.FilePath)
	if err != nil {
		return false, err
	}
	if len(matches) == 0 {
		return false, nil
	}
	if len(matches) > 1 {
		log.Warn().Str("path", ev.FilePath).Int("count", len(matches)).Msg("multiple index documents for one file_path")
	}

	for _, m := range matches {
		sameHash := m.ContentHash != "" && m.ContentHash == ev.ContentHash && m.FileSize == ev.FileSize
		notNewer := m.ModifiedDate != "" && ev.ModifiedDate <= m.ModifiedDate && m.FileSize == ev.FileSize
		if sameHash || notNewer {
			return true, nil
		}
	}
	return false, nil
}

func (w *Worker) extractMetadata(ctx context.Context, fileType FileType, ev queue.FileEvent) map[string]any {
	switch fileType {
	case TypeImage:
		return extractImageMetadata(ev.ContainerPath)
	case TypeVideo:
		return extractVideoMetadata(ctx, ev.ContainerPath)
	case TypeAudio:
		return extractAudioMetadata(ctx, ev.ContainerPath)
	case TypeDocument:
		return extractDocumentMetadata(ev.ContainerPath, ev.FileExtension)
	default:
		return nil
	}
}

// detectType sniffs the file's MIME type from its contents (replacing
// the original's python-magic) and derives the coarse file_type,
// falling back to the extension tables for documents and archives that
// mimetype can't distinguish from generic octet streams.
func detectType(containerPath, ext string) (FileType, string, error) {
	mtype, err := detectMime(containerPath)
	if err != nil {
		return fallbackType(ext), "", err
	}

	switch {
	case strings.HasPrefix(mtype, "image/"):
		return TypeImage, mtype, nil
	case strings.HasPrefix(mtype, "video/"):
		return TypeVideo, mtype, nil
	case strings.HasPrefix(mtype, "audio/"):
		return TypeAudio, mtype, nil
	}

	if t := fallbackType(ext); t == TypeDocument || t == TypeArchive {
		return t, mtype, nil
	}
	return TypeOther, mtype, nil
}

func fallbackType(ext string) FileType {
	switch {
	case queue.IsImage(ext):
		return TypeImage
	case queue.IsVideo(ext):
		return TypeVideo
	case queue.IsAudio(ext):
		return TypeAudio
	case queue.IsDocument(ext):
		return TypeDocument
	case queue.IsArchive(ext):
		return TypeArchive
	default:
		return TypeOther
	}
}
