package nasindex

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	Debug     bool
	ConfigDir string
)

func initLog(cmd *cobra.Command, args []string) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

	if Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Logger.With().Caller().Logger()
	}
}
