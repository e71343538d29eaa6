package env

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/emptypockets-dev/hubspot-cli/pkg/config"
)

// Environment variables describing an account
const (
	VarPortalID    = "HUBSPOT_PORTAL_ID"
	VarAPIKey      = "HUBSPOT_API_KEY"
	VarAccessToken = "HUBSPOT_ACCESS_TOKEN"
	VarEnv         = "HUBSPOT_ENV"
)

// AccountVars lists every variable read by AccountFromVars
var AccountVars = []string{VarPortalID, VarAPIKey, VarAccessToken, VarEnv}

// EnvAccountName names accounts built from the environment
const EnvAccountName = "env"

// ErrNoPortalID is returned when HUBSPOT_PORTAL_ID is not set
var ErrNoPortalID = errors.New(VarPortalID + " is not set")

// AccountFromVars builds an account from environment variables
func AccountFromVars(vars map[string]string) (*config.AccountConfig, error) {
	raw := strings.TrimSpace(vars[VarPortalID])
	if raw == "" {
		return nil, ErrNoPortalID
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", VarPortalID, raw, err)
	}

	account := &config.AccountConfig{
		Name:        EnvAccountName,
		AccountID:   id,
		Env:         strings.ToLower(vars[VarEnv]),
		APIKey:      vars[VarAPIKey],
		AccessToken: vars[VarAccessToken],
	}
	if err := account.Validate(); err != nil {
		return nil, fmt.Errorf("invalid account from environment: %w", err)
	}
	return account, nil
}
