package relay

import (
	"log/slog"
	"slices"
)

// IsAllowed reports whether sourceIP may reach the authenticated surface.
//
// Development mode bypasses the check entirely. Otherwise an empty allow-list rejects
// everything, an empty sourceIP (no trusted header) is rejected, and the remaining
// comparison is an exact string match with no CIDR handling or normalization.
func IsAllowed(sourceIP string, allowlist []string, env Environment) bool {
	if env == EnvDevelopment {
		return true
	}

	if len(allowlist) == 0 {
		slog.Warn("no permitted IPs configured, rejecting request")
		return false
	}

	if sourceIP == "" {
		return false
	}

	return slices.Contains(allowlist, sourceIP)
}
