// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from four layers (highest
precedence last):

  1. Compiled defaults from `Default()` via the structs provider.
  2. Optional `.env` file at `<root>/conf/.env`.
  3. `conf/global.yaml`.
  4. Environment variables prefixed `CONTACTFORM_`, where `__` maps to “.”
     (e.g., `CONTACTFORM_SUBMIT__TIMEOUT → submit.timeout`).

After merging, the tree is unmarshalled into strongly-typed structs,
validated, and enriched with the runtime root path.  The relay reads it
once at start-up; a changed file takes effect on restart.

Instrumentation
---------------
  • DEBUG spans: root discovery, YAML read.
  • ERROR spans: YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span:  final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface before the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`;
    this lets `go run ./cmd/web` work from any sub-directory.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// EnvPrefix marks environment overrides.
const EnvPrefix = "CONTACTFORM_"

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves CONTACTFORM_ROOT or climbs directories until
// conf/global.yaml is found.  Falls back to the executable heuristic for
// the production layout.
func rootDir() string {
	if r := os.Getenv(EnvPrefix + "ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load discovers the root and loads from it.
func Load() (*Config, error) { return LoadFrom(rootDir()) }

// LoadFrom reads defaults, .env, YAML, and env overrides under root,
// validates, and caches Config.
func LoadFrom(root string) (*Config, error) {
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		zap.S().Errorw("config defaults load failed", "err", err)
		return nil, err
	}

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: CONTACTFORM_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, EnvPrefix), "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	if cfg.Forms.Dir != "" && !filepath.IsAbs(cfg.Forms.Dir) {
		cfg.Forms.Dir = filepath.Join(root, cfg.Forms.Dir)
	}
	if cfg.HTTP.GeoIPDB != "" && !filepath.IsAbs(cfg.HTTP.GeoIPDB) {
		cfg.HTTP.GeoIPDB = filepath.Join(root, cfg.HTTP.GeoIPDB)
	}
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"submit_timeout", cfg.Submit.Timeout,
		"forms_dir", cfg.Forms.Dir,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}
