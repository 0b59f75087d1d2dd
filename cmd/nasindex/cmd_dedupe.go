package nasindex

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nasdex/indexer/internal/nasindex/maintenance"
)

func init() {
	rootCmd.AddCommand(dedupeCmd)
	addPipelineFlags(dedupeCmd)
	dedupeCmd.Flags().BoolVar(&dedupeExecute, "execute", false, "actually delete duplicate documents instead of only reporting them")
}

var dedupeExecute bool

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Find and remove duplicate index documents for the same file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(pipelineOverrides())
		if err != nil {
			return err
		}
		idx := buildIndex(cfg)

		report, err := maintenance.Dedupe(context.Background(), idx, dedupeExecute)
		if err != nil {
			return err
		}

		log.Info().
			Int("unique_file_paths", report.UniqueFilePaths).
			Int("duplicated_paths", report.DuplicatedPaths).
			Int("docs_removed", report.DocsRemoved).
			Bool("dry_run", report.DryRun).
			Msg("dedupe complete")
		if report.DryRun && report.DuplicatedPaths > 0 {
			log.Info().Msg("re-run with --execute to remove these duplicates")
		}
		return nil
	},
}
