package sync

import (
	"context"
	"log/slog"

	"github.com/emptypockets-dev/hubspot-cli/pkg/filemapper"
)

// FileMapper is the remote content store. Satisfied by *filemapper.Client.
type FileMapper interface {
	Upload(ctx context.Context, accountID int, localPath, destPath string, opts filemapper.UploadOptions) error
	Delete(ctx context.Context, accountID int, remotePath string) error
}

// uploadAttempts is fixed: one call plus one retry
const uploadAttempts = 2

// Operations runs remote calls for one account and reports each terminal
// outcome exactly once through the logger.
type Operations struct {
	client    FileMapper
	accountID int
	mode      filemapper.Mode
	logger    *slog.Logger
}

// NewOperations creates Operations bound to an account and upload mode
func NewOperations(client FileMapper, accountID int, mode filemapper.Mode, logger *slog.Logger) *Operations {
	if logger == nil {
		logger = slog.Default()
	}
	return &Operations{
		client:    client,
		accountID: accountID,
		mode:      mode,
		logger:    logger,
	}
}

// Upload sends localPath to destPath, retrying once with identical
// arguments. It never returns an error.
func (o *Operations) Upload(ctx context.Context, localPath, destPath string) Outcome {
	opts := filemapper.UploadOptions{Mode: o.mode}

	var err error
	for attempt := 1; attempt <= uploadAttempts; attempt++ {
		if attempt > 1 {
			o.logger.Debug("Retrying to upload file", "file", localPath, "dest", destPath, "error", err)
		}
		if err = o.client.Upload(ctx, o.accountID, localPath, destPath, opts); err == nil {
			o.logger.Info("Uploaded file "+localPath+" to "+destPath, "attempt", attempt)
			return OutcomeSucceeded
		}
	}

	o.logger.Error("Uploading file "+localPath+" to "+destPath+" failed", "error", err)
	return OutcomeFailed
}

// Delete removes remotePath. Deletes are not retried.
func (o *Operations) Delete(ctx context.Context, remotePath string) Outcome {
	if err := o.client.Delete(ctx, o.accountID, remotePath); err != nil {
		o.logger.Error("Deleting file "+remotePath+" failed", "error", err)
		return OutcomeFailed
	}

	o.logger.Info("Deleted file " + remotePath)
	return OutcomeSucceeded
}

// UploadTask adapts Upload for the queue
func (o *Operations) UploadTask(localPath, destPath string) Task {
	return func(ctx context.Context) Outcome {
		return o.Upload(ctx, localPath, destPath)
	}
}

// DeleteTask adapts Delete for the queue
func (o *Operations) DeleteTask(remotePath string) Task {
	return func(ctx context.Context) Outcome {
		return o.Delete(ctx, remotePath)
	}
}
