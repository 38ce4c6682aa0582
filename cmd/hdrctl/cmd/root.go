package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mdouchement/rgbe/internal/logging"
	"github.com/spf13/cobra"
)

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	var logFile io.Closer

	cmd := &cobra.Command{
		Use:          "hdrctl",
		Short:        "a CLI to inspect and write Radiance RGBE pictures",
		Long:         "hdrctl reads, writes and checks Radiance RGBE (.hdr) pictures.",
		Version:      gitsha,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logLevel, _ := cmd.Flags().GetString("log-level")
			logPath, _ := cmd.Flags().GetString("log-file")
			logJSON, _ := cmd.Flags().GetBool("log-json")

			// Parse log level
			var level slog.Level
			levelErr := level.UnmarshalText([]byte(strings.ToUpper(logLevel)))
			if levelErr != nil {
				level = slog.LevelInfo
			}

			var w io.Writer = os.Stderr
			if logPath != "" {
				rw := logging.Rotate(logPath, 10, 3)
				logFile = rw
				w = rw
			}
			slog.SetDefault(logging.Logger(w, logJSON, level))

			if levelErr != nil {
				slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", logLevel, "error", levelErr)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logFile != nil {
				logFile.Close()
			}
		},
	}
	cmd.AddCommand(
		NewInfoCmd(ctx),
		NewEncodeCmd(ctx),
		NewRoundTripCmd(ctx),
	)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("log-file", "", "Write logs to this rotated file instead of stderr")
	pf.Bool("log-json", false, "Write logs as JSON")
	return cmd
}
