package sync

import (
	"path"
	"path/filepath"
	"strings"
)

// Mapper converts local paths under a source root into remote paths under
// a destination root. Remote paths are always slash-delimited.
type Mapper struct {
	src  string
	dest string
}

// NewMapper creates a Mapper for the given roots
func NewMapper(src, dest string) Mapper {
	return Mapper{
		src:  strings.TrimRight(filepath.Clean(src), `/\`),
		dest: dest,
	}
}

// Remote returns the remote path for a local path. localPath must lie
// under the source root.
func (m Mapper) Remote(localPath string) string {
	rel := strings.TrimPrefix(localPath, m.src)
	return path.Join(toSlash(m.dest), toSlash(rel))
}

// toSlash normalizes both separator styles to forward slashes
func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
