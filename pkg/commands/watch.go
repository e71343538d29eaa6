package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emptypockets-dev/hubspot-cli/pkg/application/service"
)

// NewWatchCommand creates a new watch command
func NewWatchCommand() *cobra.Command {
	var params service.WatchParams

	cmd := &cobra.Command{
		Use:   "watch <src> <dest>",
		Short: "Watch a local folder and sync changes",
		Long: `Watch a local folder and upload every change to the destination folder.

Steps:
  1. Upload the whole folder (unless --disable-initial)
  2. Upload added and changed files as they happen
  3. Delete remote files when local files are removed (with --remove)

Press Ctrl+C to stop. Pending uploads finish before hs exits;
press Ctrl+C again to abandon them.

Examples:
  hs watch ./theme my-theme
  hs watch ./theme my-theme --account sandbox --mode draft
  hs watch ./theme my-theme --remove --notify ./.hs-notify`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Src = args[0]
			params.Dest = args[1]
			return runWatch(cmd, params)
		},
	}

	cmd.Flags().StringVarP(&params.Account, "account", "a", "", "Account name or id (default: configured default account)")
	cmd.Flags().StringVarP(&params.Mode, "mode", "m", "", "Upload mode: publish or draft (default: from config)")
	cmd.Flags().BoolVar(&params.Remove, "remove", false, "Delete remote files when local files are removed")
	cmd.Flags().BoolVar(&params.DisableInitial, "disable-initial", false, "Skip the initial upload of the folder")
	cmd.Flags().StringVar(&params.Notify, "notify", "", "Append a log of settled changes to this file")
	cmd.Flags().BoolVar(&params.UseEnv, "use-env", false, "Read the account from HUBSPOT_* environment variables")
	cmd.Flags().StringSliceVar(&params.EnvFiles, "env-file", nil, "Dotenv files read before the environment (with --use-env)")

	return cmd
}

func runWatch(cmd *cobra.Command, params service.WatchParams) error {
	app, logger, closer, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	id, err := app.WatchService.Watch(ctx, params)
	if err != nil {
		return err
	}
	logger.Debug("Started watch session", "id", id)

	<-ctx.Done()
	stop()

	if status, err := app.WatchService.Status(id); err == nil && status.Pending > 0 {
		logger.Info(fmt.Sprintf("Stopping watcher, waiting for %d pending uploads", status.Pending))
	} else {
		logger.Info("Stopping watcher")
	}

	// A second signal abandons the pending work
	stopCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.WatchService.StopAll(stopCtx); err != nil {
		return fmt.Errorf("failed to stop watcher: %w", err)
	}
	return nil
}
