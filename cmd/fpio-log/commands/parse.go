// Package commands implements the fpio-log CLI commands.
package commands

import (
	"fmt"
	"strings"

	"github.com/floppyio/floppyio-go/pkg/layout"
	"github.com/floppyio/floppyio-go/pkg/log"
)

// ParseLayerFlag parses a layer string from command-line flag (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "region":
		return log.LayerRegion, nil
	case "wire":
		return log.LayerWire, nil
	case "channel":
		return log.LayerChannel, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be region, wire, or channel)", s)
	}
}

// ParseDirectionFlag parses a direction string from command-line flag (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "message":
		return log.CategoryMessage, nil
	case "control":
		return log.CategoryControl, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be message, control, state, or error)", s)
	}
}

// ParseRoleFlag parses a role string from command-line flag (case-insensitive).
func ParseRoleFlag(s string) (layout.Role, error) {
	switch strings.ToLower(s) {
	case "host":
		return layout.RoleHost, nil
	case "peer", "guest":
		return layout.RolePeer, nil
	default:
		return 0, fmt.Errorf("invalid role: %s (must be host or peer)", s)
	}
}

// shortenID returns the first 8 characters of a channel ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
