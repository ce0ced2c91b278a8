// internal/config/model.go
//
// Typed configuration model for Skiff.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                         – dotenv values,
//   • `conf/skiff.yaml`                       – primary static file,
//   • `SKIFF_`-prefixed environment overrides – highest precedence.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Database section
//

// Database selects the driver and its DSN.  sqlite3 wants a file path
// (created on first write); mysql wants a full go-sql-driver DSN.
type Database struct {
	Driver string `koanf:"driver" validate:"required,oneof=sqlite3 mysql"`
	DSN    string `koanf:"dsn"    validate:"required"`
}

//
// Site section
//

// Site carries presentation defaults consumed by the view layer and the
// list controllers.
type Site struct {
	Title        string `koanf:"title"          validate:"required"`
	PerPage      int    `koanf:"per_page"       validate:"min=1"`
	AdminPerPage int    `koanf:"admin_per_page" validate:"min=1"`
}

//
// Uploads section
//

// Uploads constrains the file app: where files land, which extensions are
// accepted, and the per-file size cap in bytes.
type Uploads struct {
	Dir               string   `koanf:"dir" validate:"required"`
	AllowedExtensions []string `koanf:"allowed_extensions"`
	MaxBytes          int64    `koanf:"max_bytes" validate:"min=1"`
}

//
// Auth section
//

// Auth is the single admin credential.  PasswordHash is a bcrypt hash; the
// plaintext never appears in configuration.
type Auth struct {
	Username     string `koanf:"username"      validate:"required"`
	PasswordHash string `koanf:"password_hash" validate:"required"`
}

//
// Session section
//

// Session tunes the in-memory session store.
type Session struct {
	TTL time.Duration `koanf:"ttl" validate:"required"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or SKIFF_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // SKIFF_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Site     Site     `koanf:"site"`
	Uploads  Uploads  `koanf:"uploads"`
	Auth     Auth     `koanf:"auth"`
	Session  Session  `koanf:"session"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
