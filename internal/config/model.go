// internal/config/model.go
//
// Typed configuration model for the contact form relay.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from four overlay layers:
//
//   • compiled defaults                            – Default(),
//   • optional `.env`                              – dotenv values,
//   • `conf/global.yaml`                           – primary static file,
//   • `CONTACTFORM_`-prefixed environment overrides – highest precedence.
//
// Validation happens immediately after unmarshal; the relay fails fast if
// a value is out of range.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

import "time"

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
	GeoIPDB    string `koanf:"geoip_db"` // optional GeoLite2-Country path
}

// Submit bounds outbound delivery.
type Submit struct {
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// Instances sizes the per-visitor form instance cache.
type Instances struct {
	Max int           `koanf:"max" validate:"gte=1"`
	TTL time.Duration `koanf:"ttl" validate:"gte=0"`
}

// Forms locates YAML definitions and holds authored block config.
//
// `Blocks` is keyed by form ID.  Each inner map is the loose key/value table
// that form.ResolveSpec reads, so any accepted spelling works here
// (`submit-text`, `submitText`, …).  Entries override the `config:` table
// of the matching YAML definition key by key.
type Forms struct {
	Dir    string                       `koanf:"dir"`
	Blocks map[string]map[string]string `koanf:"blocks"`
}

// Paths is resolved at runtime.
type Paths struct {
	Root string // CONTACTFORM_ROOT or discovered parent
}

// Config is the immutable aggregate returned by Load().
type Config struct {
	HTTP      HTTP      `koanf:"http"`
	Submit    Submit    `koanf:"submit"`
	Instances Instances `koanf:"instances"`
	Forms     Forms     `koanf:"forms"`
	Paths     Paths     `koanf:"-"`
}

// Default returns the compiled-in baseline.
func Default() Config {
	return Config{
		HTTP:      HTTP{ListenAddr: ":8080"},
		Submit:    Submit{Timeout: 5 * time.Second},
		Instances: Instances{Max: 10000, TTL: 30 * time.Minute},
		Forms:     Forms{Dir: "forms"},
	}
}
