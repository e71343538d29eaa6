package exclude

import (
	"os"
	"path/filepath"
	"strings"
	stdsync "sync"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultIgnoreFileName is the per-project ignore file, gitignore syntax
const DefaultIgnoreFileName = ".hsignore"

// DefaultPatterns are always excluded, before any ignore file is consulted
var DefaultPatterns = []string{
	"fields.output.json",
	"hubspot.config.yml",
	".DS_Store",
	".git",
	".idea",
	".vscode",
	".env",
	"node_modules",
	"*.log",
	"*.swp",
	"*~",
}

// Manager handles exclude pattern matching for file sync
type Manager struct {
	basePath       string
	defaults       *ignore.GitIgnore
	ignoreFile     *ignore.GitIgnore
	ignoreFileDir  string
	configPatterns []string

	mu           stdsync.RWMutex
	ignoredPaths map[string]struct{}
}

// Config holds configuration for the exclude manager
type Config struct {
	// BasePath is the working directory; the ignore file is searched for
	// from here upwards
	BasePath string

	// Patterns are explicit exclude patterns (doublestar glob syntax)
	Patterns []string

	// UseIgnoreFile enables loading the nearest ignore file
	UseIgnoreFile bool

	// IgnoreFileName overrides DefaultIgnoreFileName
	IgnoreFileName string
}

// NewManager creates a new exclude pattern manager
func NewManager(cfg Config) (*Manager, error) {
	basePath, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		basePath:       basePath,
		defaults:       ignore.CompileIgnoreLines(DefaultPatterns...),
		configPatterns: cfg.Patterns,
		ignoredPaths:   make(map[string]struct{}),
	}

	if cfg.UseIgnoreFile {
		name := cfg.IgnoreFileName
		if name == "" {
			name = DefaultIgnoreFileName
		}
		if path, ok := findUp(basePath, name); ok {
			matcher, err := ignore.CompileIgnoreFile(path)
			if err == nil {
				m.ignoreFile = matcher
				m.ignoreFileDir = filepath.Dir(path)
			}
			// A malformed ignore file is treated as absent
		}
	}

	return m, nil
}

// findUp looks for name in dir and each of its parents
func findUp(dir, name string) (string, bool) {
	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// IgnorePath registers a path that is always excluded
func (m *Manager) IgnorePath(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}

	m.mu.Lock()
	m.ignoredPaths[abs] = struct{}{}
	m.mu.Unlock()
}

// ShouldExclude returns true if the path should be excluded from sync
func (m *Manager) ShouldExclude(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	m.mu.RLock()
	_, explicit := m.ignoredPaths[absPath]
	m.mu.RUnlock()
	if explicit {
		return true
	}

	relPath, err := filepath.Rel(m.basePath, absPath)
	if err != nil {
		return false
	}
	relPath = filepath.ToSlash(relPath)

	// Config patterns take precedence
	if m.matchesConfigPatterns(relPath) {
		return true
	}

	if m.defaults.MatchesPath(relPath) {
		return true
	}

	if m.ignoreFile != nil {
		fileRel, err := filepath.Rel(m.ignoreFileDir, absPath)
		if err == nil && m.ignoreFile.MatchesPath(filepath.ToSlash(fileRel)) {
			return true
		}
	}

	return false
}

// matchesConfigPatterns checks if path matches any config pattern
func (m *Manager) matchesConfigPatterns(relPath string) bool {
	for _, pattern := range m.configPatterns {
		if m.matchPattern(pattern, relPath) {
			return true
		}
	}
	return false
}

// matchPattern matches a single glob pattern against a slash-separated
// relative path
func (m *Manager) matchPattern(pattern, path string) bool {
	// Directory-only patterns (ending with /) match the directory and
	// anything under it
	if strings.HasSuffix(pattern, "/") {
		dir := strings.TrimSuffix(pattern, "/")
		return path == dir ||
			strings.HasPrefix(path, dir+"/") ||
			strings.Contains(path, "/"+dir+"/") ||
			strings.HasSuffix(path, "/"+dir)
	}

	if matched, err := doublestar.Match(pattern, path); err == nil && matched {
		return true
	}

	// Patterns without a separator match any single path component
	// (e.g., "node_modules" matches "foo/node_modules/bar")
	if !strings.Contains(pattern, "/") {
		for _, part := range strings.Split(path, "/") {
			if matched, err := doublestar.Match(pattern, part); err == nil && matched {
				return true
			}
		}
	}

	return false
}
