// Package storage provides local persistence for budgetview.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/budgetview/internal/service"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrVersionMismatch = errors.New("settings version mismatch, refresh")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateSettings ensures a settings document is present and versioned.
func validateSettings(settings service.Settings, paramName string) error {
	if settings == nil {
		return fmt.Errorf("%w: %s", ErrNilParameter, paramName)
	}
	if settings.SettingsVersion() < 1 {
		return fmt.Errorf("%w: %s has no version", ErrNilParameter, paramName)
	}
	return nil
}
