package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emptypockets-dev/hubspot-cli/pkg/application/service"
)

// NewUploadCommand creates a new upload command
func NewUploadCommand() *cobra.Command {
	var params service.WatchParams

	cmd := &cobra.Command{
		Use:   "upload <src> <dest>",
		Short: "Upload a local folder once",
		Long: `Upload every supported file in a local folder to the destination folder.

Files matched by .hsignore or the configured exclude patterns are skipped.
The command fails if any file could not be uploaded.

Examples:
  hs upload ./theme my-theme
  hs upload ./theme my-theme --account 123456 --mode draft`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Src = args[0]
			params.Dest = args[1]
			return runUpload(cmd, params)
		},
	}

	cmd.Flags().StringVarP(&params.Account, "account", "a", "", "Account name or id (default: configured default account)")
	cmd.Flags().StringVarP(&params.Mode, "mode", "m", "", "Upload mode: publish or draft (default: from config)")
	cmd.Flags().BoolVar(&params.UseEnv, "use-env", false, "Read the account from HUBSPOT_* environment variables")
	cmd.Flags().StringSliceVar(&params.EnvFiles, "env-file", nil, "Dotenv files read before the environment (with --use-env)")

	return cmd
}

func runUpload(cmd *cobra.Command, params service.WatchParams) error {
	app, _, closer, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := app.WatchService.Upload(ctx, params)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Uploaded %d files (%s)\n", report.Uploaded, report.Size)

	if report.Failed > 0 {
		for _, path := range report.FailedPaths {
			fmt.Fprintf(out, "  ✗ %s\n", path)
		}
		return fmt.Errorf("%d files failed to upload", report.Failed)
	}
	return nil
}
