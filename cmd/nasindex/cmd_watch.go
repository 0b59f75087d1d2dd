package nasindex

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nasdex/indexer/internal/nasindex/watcher"
)

func init() {
	rootCmd.AddCommand(watchCmd)
	addPipelineFlags(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run only the filesystem watcher and rescanner, enqueuing file events",
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

		log.Info().Msg("watcher running")
		<-ctx.Done()
		return nil
	},
}
