package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	stdsync "sync"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// FolderReport summarizes a folder upload
type FolderReport struct {
	Uploaded int
	Failed   int
	// Bytes is the total size of the files uploaded successfully
	Bytes int64
	// FailedPaths lists local paths whose upload failed permanently
	FailedPaths []string
}

// Size returns Bytes in human-readable form
func (r *FolderReport) Size() string {
	return humanize.Bytes(uint64(r.Bytes))
}

// UploadFolder uploads every eligible file under src to the matching path
// under dest. Each file goes through the retrying upload; a failed file
// never aborts the walk, and neither does an entry that cannot be read,
// which is logged and reported as failed. An error is returned only when src
// itself cannot be walked or ctx is cancelled before every file was scheduled.
func UploadFolder(ctx context.Context, cfg Config, src, dest string, opts Options) (*FolderReport, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("file mapper client is required")
	}
	cfg = cfg.withDefaults()

	absSrc, err := filepath.Abs(src)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	filter, err := newFilter(cfg, opts)
	if err != nil {
		return nil, err
	}

	mapper := NewMapper(absSrc, dest)
	ops := NewOperations(cfg.Client, cfg.AccountID, opts.Mode, cfg.Logger)
	// Uploads already started run to completion
	opCtx := context.WithoutCancel(ctx)

	var (
		g      errgroup.Group
		mu     stdsync.Mutex
		report FolderReport
	)
	g.SetLimit(cfg.Concurrency)

	walkErr := afero.Walk(cfg.Fs, absSrc, func(localPath string, info os.FileInfo, err error) error {
		if err != nil {
			if localPath == absSrc {
				return err
			}
			cfg.Logger.Warn("Unable to read "+localPath+", skipping", "error", err)
			mu.Lock()
			report.Failed++
			report.FailedPaths = append(report.FailedPaths, localPath)
			mu.Unlock()
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if info.IsDir() {
			if localPath != absSrc && filter.Ignored(localPath) {
				cfg.Logger.Debug("Skipping " + localPath + " due to " + SkipIgnoreRule.String())
				return filepath.SkipDir
			}
			return nil
		}

		if skip, reason := filter.Skip(localPath); skip {
			cfg.Logger.Debug("Skipping " + localPath + " due to " + reason.String())
			return nil
		}

		destPath := mapper.Remote(localPath)
		size := info.Size()

		cfg.Logger.Debug("Attempting to upload file", "file", localPath, "dest", destPath)
		g.Go(func() error {
			outcome := ops.Upload(opCtx, localPath, destPath)

			mu.Lock()
			defer mu.Unlock()
			if outcome == OutcomeSucceeded {
				report.Uploaded++
				report.Bytes += size
			} else {
				report.Failed++
				report.FailedPaths = append(report.FailedPaths, localPath)
			}
			return nil
		})
		return nil
	})

	_ = g.Wait()

	if walkErr != nil {
		return &report, fmt.Errorf("failed to walk %s: %w", absSrc, walkErr)
	}
	return &report, nil
}
