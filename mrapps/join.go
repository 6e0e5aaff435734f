package mrapps

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emptyOVO/flightmr/dataset"
)

// ErrJoinMiss means an airport code had no row in the lookup table.
var ErrJoinMiss = errors.New("airport code not found in lookup table")

// ErrBadNumber means an epoch or duration field was not an integer.
var ErrBadNumber = errors.New("malformed numeric field")

// UnknownAirport stands in for an unresolved airport under JoinMissUnknown.
const UnknownAirport = "UNKNOWN"

// JoinMissPolicy decides what a join against the lookup table does when the
// code is missing.
type JoinMissPolicy string

const (
	JoinMissFail    JoinMissPolicy = "fail"
	JoinMissUnknown JoinMissPolicy = "unknown"
)

// ParseJoinMissPolicy accepts "", "fail" or "unknown" in any case.
func ParseJoinMissPolicy(s string) (JoinMissPolicy, error) {
	switch p := JoinMissPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return JoinMissFail, nil
	case JoinMissFail, JoinMissUnknown:
		return p, nil
	default:
		return "", fmt.Errorf("invalid join miss policy: %q", s)
	}
}

func resolveAirport(index *dataset.LookupIndex, code string, policy JoinMissPolicy) (string, error) {
	if name, ok := index.Name(code); ok {
		return name, nil
	}
	if policy == JoinMissUnknown {
		return UnknownAirport, nil
	}
	return "", fmt.Errorf("%w: %q", ErrJoinMiss, code)
}
