// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config` instance, so the engine
// never runs with out-of-range ghost counts, a malformed color, or an
// unknown falloff curve.
//
// The rules in use are `min`/`max` bounds on the ghost tunables, `dive`
// bounds on the RGBA arrays, `oneof` on the falloff curve, and
// `hostname_port` on the stats listener.  Custom rules can be registered
// here as the configuration surface grows.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import "github.com/go-playground/validator/v10"

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
