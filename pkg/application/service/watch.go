package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/emptypockets-dev/hubspot-cli/pkg/application/port"
	"github.com/emptypockets-dev/hubspot-cli/pkg/config"
	"github.com/emptypockets-dev/hubspot-cli/pkg/env"
	"github.com/emptypockets-dev/hubspot-cli/pkg/filemapper"
	"github.com/emptypockets-dev/hubspot-cli/pkg/sync"
)

// WatchParams holds the command-line inputs for a watch or upload
type WatchParams struct {
	Src  string
	Dest string

	// Account is a name or numeric id; empty selects the default account
	Account string
	// UseEnv reads the account from HUBSPOT_* variables instead of the
	// config file. EnvFiles are dotenv files consulted first.
	UseEnv   bool
	EnvFiles []string
	// Mode overrides the configured upload mode when set
	Mode string

	Remove         bool
	DisableInitial bool
	Notify         string
}

// WatchService provides watch and upload operations using dependency injection
type WatchService struct {
	configRepo port.ConfigRepository
	remote     port.RemoteFactory
	syncMgr    port.SyncManager
	logger     *slog.Logger
}

// NewWatchService creates a new WatchService with injected dependencies
func NewWatchService(
	configRepo port.ConfigRepository,
	remote port.RemoteFactory,
	syncMgr port.SyncManager,
	logger *slog.Logger,
) *WatchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WatchService{
		configRepo: configRepo,
		remote:     remote,
		syncMgr:    syncMgr,
		logger:     logger,
	}
}

// Watch starts a watch session and returns its id
func (s *WatchService) Watch(ctx context.Context, params WatchParams) (string, error) {
	req, err := s.buildRequest(params)
	if err != nil {
		return "", err
	}

	id, err := s.syncMgr.Start(ctx, *req)
	if err != nil {
		return "", fmt.Errorf("failed to start watching %s: %w", req.Src, err)
	}
	return id, nil
}

// Upload uploads params.Src to params.Dest once. Remove, DisableInitial and
// Notify are ignored.
func (s *WatchService) Upload(ctx context.Context, params WatchParams) (*port.UploadReport, error) {
	req, err := s.buildRequest(params)
	if err != nil {
		return nil, err
	}

	s.logger.Info(fmt.Sprintf("Uploading files from %s to %s in %d", req.Src, req.Dest, req.Config.AccountID))
	report, err := s.syncMgr.UploadFolder(ctx, req.Config, req.Src, req.Dest, req.Options)
	if err != nil {
		return report, fmt.Errorf("failed to upload %s: %w", req.Src, err)
	}
	return report, nil
}

// StopAll stops every watch session, waiting for their pending work
func (s *WatchService) StopAll(ctx context.Context) error {
	return s.syncMgr.StopAll(ctx)
}

// Status returns the status of a watch session
func (s *WatchService) Status(id string) (*port.SyncStatus, error) {
	return s.syncMgr.Status(id)
}

func (s *WatchService) buildRequest(params WatchParams) (*sync.WatchRequest, error) {
	if params.Src == "" {
		return nil, fmt.Errorf("source path is required")
	}

	src, err := config.ResolveDir(params.Src)
	if err != nil {
		return nil, err
	}

	global, err := s.configRepo.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	resolver := config.NewConfigResolver(global, params.Account)
	if params.UseEnv {
		account, err := s.accountFromEnv(params.EnvFiles)
		if err != nil {
			return nil, err
		}
		resolver.WithAccount(account)
	}

	resolved, err := resolver.Resolve()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account (config: %s): %w", s.configRepo.Path(), err)
	}

	mode, err := filemapper.ParseMode(config.CoalesceString(params.Mode, resolved.Mode))
	if err != nil {
		return nil, err
	}

	client, err := s.remote.NewFileMapper(resolved.Account)
	if err != nil {
		return nil, err
	}

	var notify string
	if params.Notify != "" {
		if notify, err = config.ResolvePath(params.Notify); err != nil {
			return nil, fmt.Errorf("invalid notify path: %w", err)
		}
	}

	return &sync.WatchRequest{
		Config: sync.Config{
			Client:            client,
			AccountID:         resolved.Account.AccountID,
			Logger:            s.logger,
			Concurrency:       resolved.Concurrency,
			NotifyQuietPeriod: resolved.NotifyQuietPeriod,
			ExcludePatterns:   resolved.Exclude,
			UseIgnoreFile:     resolved.UseIgnoreFile,
		},
		Src:  src,
		Dest: params.Dest,
		Options: sync.Options{
			Mode:           mode,
			Remove:         params.Remove,
			DisableInitial: params.DisableInitial,
			Notify:         notify,
		},
	}, nil
}

func (s *WatchService) accountFromEnv(files []string) (*config.AccountConfig, error) {
	vars, err := env.Lookup(files, s.logger)
	if err != nil {
		return nil, err
	}

	account, err := env.AccountFromVars(vars)
	if err != nil {
		return nil, fmt.Errorf("failed to read account from environment: %w", err)
	}
	return account, nil
}
