package sync

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emptypockets-dev/hubspot-cli/pkg/filemapper"
	"github.com/emptypockets-dev/hubspot-cli/pkg/sync"
)

type nopFileMapper struct{}

func (nopFileMapper) Upload(context.Context, int, string, string, filemapper.UploadOptions) error {
	return nil
}
func (nopFileMapper) Delete(context.Context, int, string) error { return nil }

func TestAdapter_WatchLifecycle(t *testing.T) {
	adapter := NewAdapter()
	src := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id, err := adapter.Start(ctx, sync.WatchRequest{
		Config:  sync.Config{Client: nopFileMapper{}},
		Src:     src,
		Dest:    "remote",
		Options: sync.Options{DisableInitial: true, Cwd: src},
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		status, err := adapter.Status(id)
		return err == nil && status.Status == "ready"
	}, 3*time.Second, 10*time.Millisecond)

	status, err := adapter.Status(id)
	require.NoError(t, err)
	assert.Equal(t, id, status.ID)
	assert.Equal(t, src, status.LocalPath)
	assert.Equal(t, "remote", status.RemotePath)
	assert.Equal(t, 0, status.Pending)

	require.NoError(t, adapter.StopAll(ctx))
	_, err = adapter.Status(id)
	assert.ErrorIs(t, err, sync.ErrSessionNotFound)
}

func TestAdapter_UploadFolder(t *testing.T) {
	adapter := NewAdapter()
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.html"), []byte("hello"), 0o600))

	report, err := adapter.UploadFolder(context.Background(), sync.Config{Client: nopFileMapper{}}, src, "remote", sync.Options{Cwd: src})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Uploaded)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, "5 B", report.Size)
}
