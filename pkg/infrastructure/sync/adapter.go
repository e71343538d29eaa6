package sync

import (
	"context"

	"github.com/emptypockets-dev/hubspot-cli/pkg/application/port"
	"github.com/emptypockets-dev/hubspot-cli/pkg/sync"
)

// Adapter implements port.SyncManager using sync.Manager
type Adapter struct {
	manager *sync.Manager
}

// NewAdapter creates a new sync adapter
func NewAdapter() port.SyncManager {
	return &Adapter{
		manager: sync.NewManager(),
	}
}

// Start creates a watch session
func (a *Adapter) Start(ctx context.Context, req sync.WatchRequest) (string, error) {
	return a.manager.Start(ctx, req)
}

// StopAll terminates every watch session
func (a *Adapter) StopAll(ctx context.Context) error {
	return a.manager.StopAll(ctx)
}

// Status retrieves the status of a specific watch session
func (a *Adapter) Status(id string) (*port.SyncStatus, error) {
	status, err := a.manager.Status(id)
	if err != nil {
		return nil, err
	}
	return toPortStatus(status), nil
}

// UploadFolder uploads a directory tree once
func (a *Adapter) UploadFolder(ctx context.Context, cfg sync.Config, src, dest string, opts sync.Options) (*port.UploadReport, error) {
	report, err := sync.UploadFolder(ctx, cfg, src, dest, opts)
	if report == nil {
		return nil, err
	}

	// Convert sync.FolderReport to port.UploadReport
	return &port.UploadReport{
		Uploaded:    report.Uploaded,
		Failed:      report.Failed,
		Size:        report.Size(),
		FailedPaths: report.FailedPaths,
	}, err
}

// Convert sync.SessionStatus to port.SyncStatus
func toPortStatus(s *sync.SessionStatus) *port.SyncStatus {
	return &port.SyncStatus{
		ID:         s.ID,
		Status:     s.State.String(),
		LocalPath:  s.LocalPath,
		RemotePath: s.RemotePath,
		Succeeded:  s.Succeeded,
		Failed:     s.Failed,
		Pending:    s.Pending,
		LastSync:   s.LastActivity,
	}
}
