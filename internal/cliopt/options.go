package cliopt

import (
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/cerealdex/cerealdex/internal/config"
)

// GlobalOptions are parsed once at the CLI root and passed to subcommands.
// Flags that were set explicitly override the config file and environment.
//
// NOTE: This is a separate package to avoid import cycles between the root
// command router and per-command code.
type GlobalOptions struct {
	ConfigPath string

	Backend        string
	SQLitePath     string
	SQLiteDriver   string
	PostgresDSN    string
	PostgresSchema string
	StaticDir      string

	LogLevel string
	Format   string
}

func DefaultGlobalOptions() GlobalOptions {
	d := config.Default()
	return GlobalOptions{
		Backend:        d.Database.Backend,
		SQLitePath:     d.Database.Path,
		SQLiteDriver:   d.Database.Driver,
		PostgresSchema: d.Database.Schema,
		StaticDir:      d.Server.StaticDir,
		LogLevel:       d.Log.Level,
		Format:         "pretty",
	}
}

func BindGlobalFlags(fs *pflag.FlagSet, g *GlobalOptions) {
	fs.StringVarP(&g.ConfigPath, "config", "c", g.ConfigPath, "config file (YAML or JSON)")

	fs.StringVar(&g.Backend, "backend", g.Backend, "backend: sqlite|postgres")
	fs.StringVar(&g.SQLitePath, "db", g.SQLitePath, "sqlite database file")
	fs.StringVar(&g.SQLiteDriver, "sqlite-driver", g.SQLiteDriver, "sqlite driver: sqlite (pure Go) | sqlite3 (cgo)")
	fs.StringVar(&g.PostgresDSN, "pg-dsn", g.PostgresDSN, "postgres DSN")
	fs.StringVar(&g.PostgresSchema, "pg-schema", g.PostgresSchema, "postgres schema")
	fs.StringVar(&g.StaticDir, "static-dir", g.StaticDir, "directory for picture files")

	fs.StringVar(&g.LogLevel, "log-level", g.LogLevel, "log level: debug|info|warn|error")
	fs.StringVarP(&g.Format, "format", "o", g.Format, "output: pretty|json|ids")
}

// Apply copies explicitly set flags onto cfg
func (g GlobalOptions) Apply(fs *pflag.FlagSet, cfg *config.Config) {
	set := func(flag string, dst *string, v string) {
		if fs.Changed(flag) {
			*dst = v
		}
	}
	set("backend", &cfg.Database.Backend, g.Backend)
	set("db", &cfg.Database.Path, g.SQLitePath)
	set("sqlite-driver", &cfg.Database.Driver, g.SQLiteDriver)
	set("pg-dsn", &cfg.Database.DSN, g.PostgresDSN)
	set("pg-schema", &cfg.Database.Schema, g.PostgresSchema)
	set("static-dir", &cfg.Server.StaticDir, g.StaticDir)
	set("log-level", &cfg.Log.Level, g.LogLevel)
}

// Env is what every command runs against once the root has resolved
// flags, config and logging
type Env struct {
	Global GlobalOptions
	Config config.Config
	Log    *slog.Logger
	Out    io.Writer
	Err    io.Writer
}
