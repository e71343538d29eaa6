package filemapper

import (
	"fmt"
	"log/slog"

	"github.com/emptypockets-dev/hubspot-cli/pkg/application/port"
	"github.com/emptypockets-dev/hubspot-cli/pkg/config"
	fm "github.com/emptypockets-dev/hubspot-cli/pkg/filemapper"
	"github.com/emptypockets-dev/hubspot-cli/pkg/sync"
)

// Adapter implements port.RemoteFactory using filemapper.Client
type Adapter struct {
	logger *slog.Logger
	opts   []fm.Option
}

// NewAdapter creates a new file mapper adapter. opts are applied to every
// client it creates.
func NewAdapter(logger *slog.Logger, opts ...fm.Option) port.RemoteFactory {
	return &Adapter{logger: logger, opts: opts}
}

// NewFileMapper creates a client for the account's environment
func (a *Adapter) NewFileMapper(account config.AccountConfig) (sync.FileMapper, error) {
	opts := append([]fm.Option{fm.WithLogger(a.logger)}, a.opts...)

	client, err := fm.NewClient(fm.BaseURLForEnv(account.Env), fm.Credentials{
		APIKey:      account.APIKey,
		AccessToken: account.AccessToken,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create file mapper client for account %s: %w", account.Name, err)
	}
	return client, nil
}
