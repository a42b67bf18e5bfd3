package hosting

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	oerrors "github.com/opmodel/hostctl/internal/errors"
)

const (
	// DefaultChannelTTL applies when a channel is created without a TTL.
	DefaultChannelTTL = 7 * 24 * time.Hour

	// MaxChannelTTL is the longest TTL the backend accepts.
	MaxChannelTTL = 30 * 24 * time.Hour
)

var ttlPattern = regexp.MustCompile(`^(\d+)([hdm])$`)

var ttlUnits = map[string]time.Duration{
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
}

// ParseTTL parses durations such as 12h, 7d or 30m. Empty input yields
// DefaultChannelTTL.
func ParseTTL(s string) (time.Duration, error) {
	if s == "" {
		return DefaultChannelTTL, nil
	}

	m := ttlPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, oerrors.NewValidationError(
			fmt.Sprintf("invalid expiration %q", s), "", "expires",
			"use a number followed by m, h or d, e.g. 12h or 7d")
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, oerrors.NewValidationError(fmt.Sprintf("invalid expiration %q: %v", s, err), "", "expires", "")
	}

	d := time.Duration(n) * ttlUnits[m[2]]
	if d > MaxChannelTTL || d/ttlUnits[m[2]] != time.Duration(n) {
		return 0, oerrors.NewValidationError(
			fmt.Sprintf("expiration %q may not be longer than 30d", s), "", "expires", "")
	}
	return d, nil
}

// ttlString formats d as a seconds-denominated protobuf duration.
func ttlString(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}
