package sync

// IgnoreRules decides whether a path matches an ignore rule. Satisfied by
// *exclude.Manager.
type IgnoreRules interface {
	ShouldExclude(path string) bool
	IgnorePath(path string)
}

// SkipReason explains why a path was filtered out
type SkipReason int

const (
	// NotSkipped means the path passes the filter
	NotSkipped SkipReason = iota
	// SkipExtension means the file type is not accepted remotely
	SkipExtension
	// SkipIgnoreRule means an ignore rule matched
	SkipIgnoreRule
)

// String returns the wording used in debug traces
func (r SkipReason) String() string {
	switch r {
	case SkipExtension:
		return "unsupported extension"
	case SkipIgnoreRule:
		return "an ignore rule"
	default:
		return "none"
	}
}

// Filter combines the extension allow-list with ignore rules
type Filter struct {
	rules   IgnoreRules
	allowed func(string) bool
}

// NewFilter creates a Filter. A nil allowed func uses IsAllowedExtension.
func NewFilter(rules IgnoreRules, allowed func(string) bool) *Filter {
	if allowed == nil {
		allowed = IsAllowedExtension
	}
	return &Filter{rules: rules, allowed: allowed}
}

// Skip reports whether path must be skipped before any remote operation
func (f *Filter) Skip(path string) (bool, SkipReason) {
	if !f.allowed(path) {
		return true, SkipExtension
	}
	if f.rules != nil && f.rules.ShouldExclude(path) {
		return true, SkipIgnoreRule
	}
	return false, NotSkipped
}

// Ignored reports whether path matches an ignore rule, regardless of its
// extension. Used by the filesystem subscription, which must still descend
// into directories.
func (f *Filter) Ignored(path string) bool {
	return f.rules != nil && f.rules.ShouldExclude(path)
}

// IgnorePath registers a path that is always skipped
func (f *Filter) IgnorePath(path string) {
	if f.rules != nil {
		f.rules.IgnorePath(path)
	}
}
