package nasindex

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nasdex/indexer/internal/nasindex/extractor"
)

func init() {
	rootCmd.AddCommand(extractCmd)
	addPipelineFlags(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run only the metadata extractor workers, draining the queue into the index",
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
		idx := buildIndex(cfg)
		norm := buildNormalizer(cfg)

		log.Info().Int("workers", cfg.ExtractorWorkers).Msg("extractor running")
		ew := extractor.New(cfg, norm, st, idx)
		ew.Run(ctx, cfg.ExtractorWorkers)
		return nil
	},
}
