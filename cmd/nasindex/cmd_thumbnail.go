package nasindex

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nasdex/indexer/internal/nasindex/thumbnail"
)

func init() {
	rootCmd.AddCommand(thumbnailCmd)
	addPipelineFlags(thumbnailCmd)
}

var thumbnailCmd = &cobra.Command{
	Use:   "thumbnail",
	Short: "Run only the thumbnail worker, rendering previews for queued media files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(pipelineOverrides())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := buildStore(cfg)
		if err != nil {
			return err
		}

		tw, err := thumbnail.New(cfg, st)
		if err != nil {
			return err
		}

		log.Info().Int("workers", cfg.ThumbnailWorkers).Msg("thumbnail worker running")
		tw.Run(ctx, cfg.ThumbnailWorkers)
		return nil
	},
}
