// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"

	"github.com/dukex/flowdesk/pkg/registry"
)

// NewRegistry returns the catalog of built-in trigger and action types.
func NewRegistry(log *slog.Logger) *registry.Registry {
	reg := registry.Default(log)

	log.Info("Registry initialized",
		"triggers", len(reg.Triggers()),
		"actions", len(reg.Actions()),
	)

	return reg
}
