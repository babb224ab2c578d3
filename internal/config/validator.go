// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `Load` calls `validateStruct` immediately after it unmarshals the merged
// Koanf tree.  Any tag mismatch aborts startup, so the relay never runs
// with a zero submit timeout or an empty instance cache.  Form IDs under
// `forms.blocks` must also be non-empty.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var v = validator.New()

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		return err
	}
	for id := range c.Forms.Blocks {
		if id == "" {
			return errors.New("config: forms.blocks contains an empty form id")
		}
	}
	return nil
}
