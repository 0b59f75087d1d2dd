package nasindex

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nasdex/indexer/internal/nasindex/httpapi"
)

func init() {
	rootCmd.AddCommand(serverCmd)
	addPipelineFlags(serverCmd)
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run only the HTTP search API against an existing index and state store",
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

		svc := httpapi.NewService(cfg, idx, st)
		if err := svc.Start(); err != nil {
			return err
		}
		defer func() {
			if err := svc.Stop(); err != nil {
				log.Err(err).Msg("failed to stop HTTP server")
			}
		}()

		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server running")
		<-ctx.Done()
		return nil
	},
}
