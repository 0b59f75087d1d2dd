// Package thumbnail implements the Thumbnail Worker: it drains
// thumbnail_generation_queue, rendering three fixed sizes per image or
// video and recording their paths in the thumbnails:<file_path> hash.
package thumbnail

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nasdex/indexer/internal/nasindex/conf"
	"github.com/nasdex/indexer/internal/nasindex/queue"
	"github.com/nasdex/indexer/internal/nasindex/store"
)

// Size is one of the three fixed thumbnail dimensions rendered for
// every supported image or video.
type Size struct {
	Name          string
	Width, Height int
}

var Sizes = []Size{
	{"small", 150, 150},
	{"medium", 300, 300},
	{"large", 800, 600},
}

// Worker runs a fixed pool of goroutines draining
// thumbnail_generation_queue, per §5's concurrency model.
type Worker struct {
	st      store.Store
	cfg     *conf.Config
	rootDir string
}

// New builds a Worker rooted at cfg.ThumbnailDir, creating the
// per-size subdirectories up front the way the original generator does
// on startup.
func New(cfg *conf.Config, st store.Store) (*Worker, error) {
	for _, s := range Sizes {
		if err := ensureDir(filepath.Join(cfg.ThumbnailDir, s.Name)); err != nil {
			return nil, err
		}
	}
	return &Worker{st: st, cfg: cfg, rootDir: cfg.ThumbnailDir}, nil
}

// Run starts n goroutines, each looping BRPOP/render until ctx is
// canceled.
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

		payload, ok, err := w.st.DequeueBlocking(ctx, store.ThumbnailGenerationQueue, time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Msg("thumbnail dequeue failed")
			continue
		}
		if !ok {
			continue
		}

		ev, err := queue.Decode(payload)
		if err != nil {
			log.Error().Err(err).Msg("failed to decode thumbnail queue message")
			continue
		}

		opCtx, cancel := context.WithTimeout(ctx, w.cfg.OpTimeout)
		if err := w.ProcessOne(opCtx, ev); err != nil {
			log.Error().Str("path", ev.FilePath).Err(err).Msg("failed to process thumbnail job")
		}
		cancel()
	}
}

// ProcessOne renders (or removes, on delete) the thumbnail set for one
// event, mirroring process_file in the original service.
func (w *Worker) ProcessOne(ctx context.Context, ev queue.FileEvent) error {
	if ev.EventType == queue.Deleted {
		w.cleanup(ev.FilePath)
		return w.st.Del(ctx, store.ThumbnailsKey(ev.FilePath))
	}

	paths, err := w.render(ctx, ev)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		log.Debug().Str("path", ev.FilePath).Msg("no thumbnails generated")
		return nil
	}

	key := store.ThumbnailsKey(ev.FilePath)
	for size, p := range paths {
		if err := w.st.HSet(ctx, key, size, p); err != nil {
			return err
		}
	}
	if err := w.st.Expire(ctx, key, store.ThumbnailsTTL); err != nil {
		return err
	}
	log.Info().Str("path", ev.FilePath).Int("count", len(paths)).Msg("generated thumbnails")
	return nil
}

func (w *Worker) render(ctx context.Context, ev queue.FileEvent) (map[string]string, error) {
	if existing := w.existingPaths(ev.FilePath); len(existing) == len(Sizes) {
		log.Debug().Str("path", ev.FilePath).Msg("thumbnails already exist")
		return existing, nil
	}

	switch {
	case queue.IsImage(ev.FileExtension):
		return w.renderImage(ev)
	case queue.IsVideo(ev.FileExtension):
		return w.renderVideo(ctx, ev)
	default:
		return nil, nil
	}
}

func (w *Worker) existingPaths(logicalPath string) map[string]string {
	out := make(map[string]string, len(Sizes))
	for _, s := range Sizes {
		p := w.thumbnailPath(logicalPath, s.Name)
		if fileExists(p) {
			out[s.Name] = p
		}
	}
	return out
}

func (w *Worker) cleanup(logicalPath string) {
	for _, s := range Sizes {
		p := w.thumbnailPath(logicalPath, s.Name)
		if err := removeIfExists(p); err != nil {
			log.Error().Str("path", p).Err(err).Msg("failed to remove thumbnail")
		}
	}
}

// thumbnailPath mirrors _get_thumbnail_path: an md5 of the full logical
// path plus the original stem keeps names unique and traceable without
// reproducing the whole directory tree under thumbnail_dir.
func (w *Worker) thumbnailPath(logicalPath, size string) string {
	sum := md5.Sum([]byte(logicalPath))
	stem := strings.TrimSuffix(filepath.Base(logicalPath), filepath.Ext(logicalPath))
	name := fmt.Sprintf("%s_%s.jpg", hex.EncodeToString(sum[:]), stem)
	return filepath.Join(w.rootDir, size, name)
}
