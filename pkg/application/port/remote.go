package port

import (
	"github.com/emptypockets-dev/hubspot-cli/pkg/config"
	"github.com/emptypockets-dev/hubspot-cli/pkg/sync"
)

// RemoteFactory creates file mapper clients for an account
type RemoteFactory interface {
	// NewFileMapper returns a client authenticated as account
	NewFileMapper(account config.AccountConfig) (sync.FileMapper, error)
}
