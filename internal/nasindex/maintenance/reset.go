package maintenance

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/nasdex/indexer/internal/nasindex/store"
)

// ResetReport summarizes a tracking-reset run for the CLI to print.
type ResetReport struct {
	KeysCleared int
}

// ResetTracking clears every state-store key the pipeline uses to
// remember what it has already processed, grounded on
// clear_redis_tracking.py: once cleared, the next rescan treats every
// file on every volume as new.
func ResetTracking(ctx context.Context, st store.Store) (ResetReport, error) {
	var report ResetReport

	if n, err := st.SCard(ctx, store.ProcessedFilesSet); err == nil && n > 0 {
		if err := st.Del(ctx, store.ProcessedFilesSet); err != nil {
			return report, err
		}
		log.Info().Int64("count", n).Msg("cleared processed_files set")
		report.KeysCleared++
	}

	if n, err := st.SCard(ctx, store.QueuedFilesSet); err == nil && n > 0 {
		if err := st.Del(ctx, store.QueuedFilesSet); err != nil {
			return report, err
		}
		log.Info().Int64("count", n).Msg("cleared queued_files set")
		report.KeysCleared++
	}

	for _, prefix := range []string{"processed:", "file_hash:", "global_processing:", "queue_lock:"} {
		keys, err := st.Scan(ctx, prefix)
		if err != nil {
			return report, err
		}
		for _, k := range keys {
			if err := st.Del(ctx, k); err != nil {
				log.Error().Str("key", k).Err(err).Msg("failed to delete key")
				continue
			}
			report.KeysCleared++
		}
		if len(keys) > 0 {
			log.Info().Str("prefix", prefix).Int("count", len(keys)).Msg("cleared keys")
		}
	}

	if report.KeysCleared == 0 {
		log.Info().Msg("no tracking data found to clear")
	} else {
		log.Info().Int("total", report.KeysCleared).Msg("tracking data cleared")
	}

	return report, nil
}
