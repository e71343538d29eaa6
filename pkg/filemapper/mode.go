package filemapper

import (
	"fmt"
	"net/url"
	"strconv"
)

// Mode selects whether uploads go live immediately or into the draft buffer
type Mode string

const (
	// ModePublish uploads straight to the live version
	ModePublish Mode = "publish"
	// ModeDraft uploads into the draft buffer
	ModeDraft Mode = "draft"
)

// DefaultMode is used when no mode is configured
const DefaultMode = ModePublish

// ParseMode validates a mode string. Empty resolves to DefaultMode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return DefaultMode, nil
	case ModePublish, ModeDraft:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid mode %q: must be %q or %q", s, ModePublish, ModeDraft)
	}
}

// QueryFromMode returns the upload query parameters for a mode
func QueryFromMode(mode Mode) url.Values {
	q := url.Values{}
	q.Set("buffer", strconv.FormatBool(mode == ModeDraft))
	return q
}

// UploadOptions carries per-upload settings
type UploadOptions struct {
	Mode Mode
}
