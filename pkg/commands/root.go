package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/emptypockets-dev/hubspot-cli/internal/version"
	"github.com/emptypockets-dev/hubspot-cli/pkg/application"
	"github.com/emptypockets-dev/hubspot-cli/pkg/config"
)

// Log file rotation limits
const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 28
)

// NewRootCommand creates the root command for hs
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hs",
		Short: "Sync local files to the design manager",
		Long: `hs uploads local theme and template files to an account's file mapper.
Use "hs watch" to keep a remote folder in sync while you edit, or
"hs upload" to push a folder once.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().String("config", "", "Path to config file (default ~/.hs/config.yaml)")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().String("log-file", "", "Also write logs to a rotating file")

	// Add subcommands
	cmd.AddCommand(NewWatchCommand())
	cmd.AddCommand(NewUploadCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hs version %s\n", version.Version)
		},
	}
}

// newApp builds the logger and application from the global flags. The
// returned closer releases the log file, if any.
func newApp(cmd *cobra.Command) (*application.App, *slog.Logger, io.Closer, error) {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	logFile, _ := cmd.Flags().GetString("log-file")

	logger, closer, err := newLogger(cmd.ErrOrStderr(), debug, logFile)
	if err != nil {
		return nil, nil, nil, err
	}

	app, err := application.NewApp(configPath, logger)
	if err != nil {
		_ = closer.Close()
		return nil, nil, nil, err
	}
	return app, logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger creates a text logger on w, teeing into a rotating log file when
// logFile is set
func newLogger(w io.Writer, debug bool, logFile string) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var closer io.Closer = nopCloser{}
	if logFile != "" {
		path, err := config.ResolvePath(logFile)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log file: %w", err)
		}
		rotating := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAgeDays,
		}
		w = io.MultiWriter(w, rotating)
		closer = rotating
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closer, nil
}
