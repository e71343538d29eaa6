package application

import (
	"fmt"
	"log/slog"

	"github.com/emptypockets-dev/hubspot-cli/pkg/application/service"
	filemapperAdapter "github.com/emptypockets-dev/hubspot-cli/pkg/infrastructure/filemapper"
	"github.com/emptypockets-dev/hubspot-cli/pkg/infrastructure/repository"
	syncAdapter "github.com/emptypockets-dev/hubspot-cli/pkg/infrastructure/sync"
)

// App holds all application services and dependencies
type App struct {
	WatchService *service.WatchService
}

// NewApp creates and wires up the entire application with all dependencies.
// configPath may be empty to use ~/.hs/config.yaml.
func NewApp(configPath string, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// Create infrastructure adapters
	configRepo, err := repository.NewConfigFileRepository(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create config repository: %w", err)
	}

	remote := filemapperAdapter.NewAdapter(logger)
	syncMgr := syncAdapter.NewAdapter()

	// Wire services
	watchService := service.NewWatchService(
		configRepo,
		remote,
		syncMgr,
		logger,
	)

	return &App{
		WatchService: watchService,
	}, nil
}
