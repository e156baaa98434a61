// internal/config/model.go
//
// Typed configuration model for the onion-skin engine.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   - optional `.env`                          – dotenv values,
//   - `conf/onionskin.yaml`                    – primary static file,
//   - `ONION_`-prefixed environment overrides  – highest precedence.
//
// Defaults come from Default(); the overlays only override what they
// mention.  Validation happens immediately after unmarshal; the binary
// fails fast on out-of-range tunables.
//
// Notes
// -----
//   - Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   - The `Paths` block is filled at runtime; YAML must not try to set it.
//   - Oxford commas, two spaces after periods.  No em-dash.

package config

//
// Ghost section
//

// Ghost holds the onion-skin display tunables.  Bounds mirror the host
// property definitions (1–30 ghost frames, step 1–10).
type Ghost struct {
	Enabled        bool       `koanf:"enabled"`
	ShowBefore     bool       `koanf:"show_before"`
	ShowAfter      bool       `koanf:"show_after"`
	FramesBefore   int        `koanf:"frames_before"   validate:"min=1,max=30"`
	FramesAfter    int        `koanf:"frames_after"    validate:"min=1,max=30"`
	FrameStep      int        `koanf:"frame_step"      validate:"min=1,max=10"`
	ColorBefore    [4]float32 `koanf:"color_before"    validate:"dive,min=0,max=1"`
	ColorAfter     [4]float32 `koanf:"color_after"     validate:"dive,min=0,max=1"`
	OpacityFalloff float32    `koanf:"opacity_falloff" validate:"min=0,max=1"`
	FalloffCurve   string     `koanf:"falloff_curve"   validate:"oneof=linear smooth exponential"`
	Wireframe      bool       `koanf:"wireframe"`
	XRay           bool       `koanf:"xray"`
}

//
// Range section
//

// Range optionally bounds the valid frame domain.  When Use is false the
// session's own scene range applies.
type Range struct {
	Use   bool `koanf:"use"`
	Start int  `koanf:"start"`
	End   int  `koanf:"end"`
}

//
// Cache section
//

// Cache holds the frame-cache bounds.  Capacity 0 falls back to the
// compiled default; KeepRadius drives distance-based eviction under memory
// pressure.
type Cache struct {
	Capacity   int `koanf:"capacity"    validate:"min=0"`
	KeepRadius int `koanf:"keep_radius" validate:"min=0"`
}

//
// HTTP section
//

// HTTP holds the stats/metrics endpoint tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or ONION_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // ONION_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the session lifetime.
type Config struct {
	Ghost Ghost `koanf:"ghost"`
	Range Range `koanf:"range"`
	Cache Cache `koanf:"cache"`
	HTTP  HTTP  `koanf:"http"`
	Paths Paths `koanf:"-"` // not loaded from config files
}

// Default returns the compiled-in configuration, matching the host
// property defaults the engine was extracted from.
func Default() Config {
	return Config{
		Ghost: Ghost{
			Enabled:        true,
			ShowBefore:     true,
			ShowAfter:      true,
			FramesBefore:   3,
			FramesAfter:    3,
			FrameStep:      2,
			ColorBefore:    [4]float32{0.2, 0.5, 1.0, 0.5},
			ColorAfter:     [4]float32{1.0, 0.3, 0.2, 0.5},
			OpacityFalloff: 0.6,
			FalloffCurve:   "smooth",
		},
		Range: Range{Start: 1, End: 250},
		Cache: Cache{Capacity: 500, KeepRadius: 250},
		HTTP:  HTTP{ListenAddr: "127.0.0.1:9632"},
	}
}
