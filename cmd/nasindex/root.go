package nasindex

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	cobra.MousetrapHelpText = ""

	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "debug")
	rootCmd.PersistentFlags().StringVar(&ConfigDir, "config-dir", "", "directory holding nasindex.json")
	rootCmd.PersistentPreRun = initLog
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command execution failed")
	}
}

var rootCmd = &cobra.Command{
	Use:     "nasindex",
	Short:   "nasindex",
	Long:    `nasindex indexes file content across NAS volumes into a searchable store`,
	Example: `nasindex run`,
	Args:    cobra.MinimumNArgs(0),
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}
