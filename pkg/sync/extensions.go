package sync

import (
	"path/filepath"
	"strings"
)

// AllowedExtensions are the file types the file mapper accepts
var AllowedExtensions = map[string]struct{}{
	"css":   {},
	"js":    {},
	"json":  {},
	"html":  {},
	"txt":   {},
	"md":    {},
	"jpg":   {},
	"jpeg":  {},
	"png":   {},
	"gif":   {},
	"map":   {},
	"svg":   {},
	"ttf":   {},
	"woff":  {},
	"woff2": {},
	"zip":   {},
}

// IsAllowedExtension reports whether the file mapper accepts this file type
func IsAllowedExtension(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return false
	}
	_, ok := AllowedExtensions[strings.ToLower(ext)]
	return ok
}
