package port

import (
	"context"
	"time"

	"github.com/emptypockets-dev/hubspot-cli/pkg/sync"
)

// SyncManager provides interface for managing watch sessions and uploads
type SyncManager interface {
	// Start creates a watch session and returns its id
	Start(ctx context.Context, req sync.WatchRequest) (string, error)

	// StopAll terminates every watch session after its pending work finishes
	StopAll(ctx context.Context) error

	// Status retrieves the status of a specific watch session
	Status(id string) (*SyncStatus, error)

	// UploadFolder uploads a directory tree once
	UploadFolder(ctx context.Context, cfg sync.Config, src, dest string, opts sync.Options) (*UploadReport, error)
}

// SyncStatus represents the status of a watch session
type SyncStatus struct {
	ID         string
	Status     string // "initializing", "ready", "stopped"
	LocalPath  string
	RemotePath string
	Succeeded  int
	Failed     int
	Pending    int
	LastSync   time.Time
}

// UploadReport summarizes a one-shot upload
type UploadReport struct {
	Uploaded    int
	Failed      int
	Size        string
	FailedPaths []string
}
