package sync

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emptypockets-dev/hubspot-cli/pkg/filemapper"
)

func newTestTree(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func TestUploadFolder(t *testing.T) {
	fs := newTestTree(t, map[string]string{
		"/work/theme/templates/home.html":       "<html>",
		"/work/theme/css/main.css":              "body{}",
		"/work/theme/images/logo.psd":           "psd",
		"/work/theme/node_modules/pkg/index.js": "js",
		"/work/theme/.git/HEAD":                 "ref",
		"/work/theme/notify.txt":                "log",
	})

	client := &fakeFileMapper{}
	logger, _ := newBufferLogger()
	cfg := Config{Client: client, AccountID: 42, Logger: logger, Fs: fs, Concurrency: 2}

	report, err := UploadFolder(context.Background(), cfg, "/work/theme", "remote", Options{
		Mode:   filemapper.ModeDraft,
		Cwd:    "/work",
		Notify: "/work/theme/notify.txt",
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"remote/templates/home.html", "remote/css/main.css"}, uploadedDests(client))
	assert.Equal(t, 2, report.Uploaded)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, int64(len("<html>")+len("body{}")), report.Bytes)
	assert.Equal(t, "12 B", report.Size())
}

func TestUploadFolder_FailuresDoNotAbort(t *testing.T) {
	fs := newTestTree(t, map[string]string{
		"/src/a.html": "a",
		"/src/b.html": "b",
		"/src/c.html": "c",
	})

	client := &fakeFileMapper{failUploads: map[string]bool{"/src/b.html": true}}
	logger, _ := newBufferLogger()
	cfg := Config{Client: client, Logger: logger, Fs: fs}

	report, err := UploadFolder(context.Background(), cfg, "/src", "dest", Options{Cwd: "/"})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Uploaded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []string{"/src/b.html"}, report.FailedPaths)
	// The failing file is attempted twice
	assert.Len(t, client.Uploads(), 4)
}

// unreadableDirFs fails to open one directory
type unreadableDirFs struct {
	afero.Fs
	dir string
}

func (f unreadableDirFs) Open(name string) (afero.File, error) {
	if name == f.dir {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return f.Fs.Open(name)
}

func TestUploadFolder_UnreadableEntryIsSkipped(t *testing.T) {
	fs := newTestTree(t, map[string]string{
		"/src/a.html":        "a",
		"/src/broken/b.html": "b",
		"/src/c.html":        "c",
	})

	client := &fakeFileMapper{}
	logger, logs := newBufferLogger()
	cfg := Config{Client: client, Logger: logger, Fs: unreadableDirFs{Fs: fs, dir: "/src/broken"}}

	report, err := UploadFolder(context.Background(), cfg, "/src", "dest", Options{Cwd: "/"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"dest/a.html", "dest/c.html"}, uploadedDests(client))
	assert.Equal(t, 2, report.Uploaded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []string{"/src/broken"}, report.FailedPaths)
	assert.Contains(t, logs.String(), "Unable to read /src/broken")
}

func TestUploadFolder_MissingSource(t *testing.T) {
	logger, _ := newBufferLogger()
	cfg := Config{Client: &fakeFileMapper{}, Logger: logger, Fs: afero.NewMemMapFs()}

	_, err := UploadFolder(context.Background(), cfg, "/nope", "dest", Options{Cwd: "/"})
	assert.Error(t, err)
}

func TestUploadFolder_CancelledContext(t *testing.T) {
	fs := newTestTree(t, map[string]string{"/src/a.html": "a"})
	logger, _ := newBufferLogger()
	cfg := Config{Client: &fakeFileMapper{}, Logger: logger, Fs: fs}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := UploadFolder(ctx, cfg, "/src", "dest", Options{Cwd: "/"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestUploadFolder_RequiresClient(t *testing.T) {
	_, err := UploadFolder(context.Background(), Config{}, "/src", "dest", Options{})
	assert.Error(t, err)
}
