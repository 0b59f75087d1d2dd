package nasindex

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nasdex/indexer/internal/nasindex/maintenance"
)

func init() {
	rootCmd.AddCommand(resetCmd)
	addPipelineFlags(resetCmd)
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all Redis tracking state, forcing a full rescan on next watch",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(pipelineOverrides())
		if err != nil {
			return err
		}
		st, err := buildStore(cfg)
		if err != nil {
			return err
		}

		report, err := maintenance.ResetTracking(context.Background(), st)
		if err != nil {
			return err
		}

		log.Info().Int("keys_cleared", report.KeysCleared).Msg("tracking reset complete")
		return nil
	},
}
