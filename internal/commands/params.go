package commands

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dyluth/spsbridge/pkg/link"
)

// ParamID is the waypoint id attribute shared by the waypoint commands.
const ParamID = "id"

// requiredID returns the command's non-empty id attribute.
func requiredID(cmd *link.Command) (string, bool) {
	id, ok := cmd.Param(ParamID)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// floatParam looks up an optional numeric attribute.
// Absent: (0, false, nil). Present but malformed: (0, true, err).
func floatParam(cmd *link.Command, key string) (float64, bool, error) {
	raw, ok := cmd.Param(key)
	if !ok {
		return 0, false, nil
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, true, fmt.Errorf("unable to parse %s: %q", key, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, true, fmt.Errorf("unable to parse %s: %q is not a finite number", key, raw)
	}

	return v, true, nil
}
