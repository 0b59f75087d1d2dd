package nasindex

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nasdex/indexer/internal/nasindex/extractor"
	"github.com/nasdex/indexer/internal/nasindex/httpapi"
	"github.com/nasdex/indexer/internal/nasindex/thumbnail"
	"github.com/nasdex/indexer/internal/nasindex/watcher"
)

func init() {
	rootCmd.AddCommand(runCmd)
	addPipelineFlags(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: watcher, extractor, thumbnail generator and HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(pipelineOverrides())
		if err != nil {
			return err
		}
		log.Info().Interface("volumes", cfg.Volumes).Msg("starting nasindex pipeline")

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := buildStore(cfg)
		if err != nil {
			return err
		}
		idx := buildIndex(cfg)
		norm := buildNormalizer(cfg)

		w := watcher.New(cfg, norm, st)
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := w.Stop(); err != nil {
				log.Err(err).Msg("failed to stop watcher")
			}
		}()
		w.Scan(ctx)

		ew := extractor.New(cfg, norm, st, idx)
		go ew.Run(ctx, cfg.ExtractorWorkers)

		tw, err := thumbnail.New(cfg, st)
		if err != nil {
			return err
		}
		go tw.Run(ctx, cfg.ThumbnailWorkers)

		svc := httpapi.NewService(cfg, idx, st)
		if err := svc.Start(); err != nil {
			return err
		}
		defer func() {
			if err := svc.Stop(); err != nil {
				log.Err(err).Msg("failed to stop HTTP server")
			}
		}()

		<-ctx.Done()
		log.Info().Msg("shutting down")
		return nil
	},
}
