// This file maps CLI context to the launcher config struct.

package launcher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/urfave/cli.v1"
)

// Config aggregates every subsystem's configuration the launcher needs.
type Config struct {
	Node NodeConfig
	Sale SaleConfig
}

type NodeConfig struct {
	DataDir string
	HTTP    HTTPConfig
	Logging LoggingConfig
}

type HTTPConfig struct {
	Enabled bool
	Addr    string
	Port    int
}

type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
	SentryDSN string
}

type SaleConfig struct {
	Preset        string
	AuctionStart  uint64
	Owner         string
	Account       string
	AllowlistRoot string
	PublicSale    bool
	JournalPath   string
	SnapshotPath  string
}

// -----------------------------------------------------------------------------
// Default config + builders
// -----------------------------------------------------------------------------

func defaultConfig() Config {
	home := GuessHomeDir()
	d := DefaultConfig()
	return Config{
		Node: NodeConfig{
			DataDir: filepath.Join(home, ".mogies"),
			HTTP: HTTPConfig{
				Enabled: d.HTTP.Enabled,
				Addr:    d.HTTP.Addr,
				Port:    d.HTTP.Port,
			},
			Logging: LoggingConfig{
				Verbosity: d.Logging.Verbosity,
				Format:    d.Logging.Format,
				Color:     d.Logging.Color,
			},
		},
		Sale: SaleConfig{
			Preset: d.Sale.Preset,
		},
	}
}

// MakeAllConfigs merges defaults, an optional config file, then CLI flag
// overrides into a single config struct.
func MakeAllConfigs(ctx *cli.Context) Config {
	cfg := defaultConfig()

	if file := ctx.String("config"); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			panic(fmt.Errorf("failed to load config file %s: %w", file, err))
		}
	}

	applyCLIOverrides(ctx, &cfg)

	if cfg.Sale.JournalPath == "" {
		cfg.Sale.JournalPath = filepath.Join(cfg.Node.DataDir, "journal.db")
	}
	if cfg.Sale.SnapshotPath == "" {
		cfg.Sale.SnapshotPath = filepath.Join(cfg.Node.DataDir, "sale.json")
	}

	if err := ensureDir(cfg.Node.DataDir); err != nil {
		panic(err)
	}
	return cfg
}

// -----------------------------------------------------------------------------
// Config-file / CLI wiring
// -----------------------------------------------------------------------------

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet("datadir") {
		cfg.Node.DataDir = resolvePath(ctx.String("datadir"))
	}

	if ctx.Bool("http") {
		cfg.Node.HTTP.Enabled = true
	}
	if ctx.IsSet("http.addr") {
		cfg.Node.HTTP.Addr = ctx.String("http.addr")
	}
	if ctx.IsSet("http.port") {
		cfg.Node.HTTP.Port = ctx.Int("http.port")
	}

	if ctx.IsSet("log.format") {
		cfg.Node.Logging.Format = ctx.String("log.format")
	}
	if ctx.IsSet("log.verbosity") {
		cfg.Node.Logging.Verbosity = ctx.Int("log.verbosity")
	}
	if ctx.IsSet("log.color") {
		cfg.Node.Logging.Color = ctx.Bool("log.color")
	}
	if ctx.IsSet("sentry.dsn") {
		cfg.Node.Logging.SentryDSN = ctx.String("sentry.dsn")
	}

	if ctx.IsSet("preset") {
		cfg.Sale.Preset = ctx.String("preset")
	}
	if ctx.IsSet("sale.start") {
		cfg.Sale.AuctionStart = ctx.Uint64("sale.start")
	}
	if ctx.IsSet("sale.owner") {
		cfg.Sale.Owner = ctx.String("sale.owner")
	}
	if ctx.IsSet("sale.account") {
		cfg.Sale.Account = ctx.String("sale.account")
	}
	if ctx.IsSet("sale.allowlistroot") {
		cfg.Sale.AllowlistRoot = ctx.String("sale.allowlistroot")
	}
	if ctx.IsSet("sale.public") {
		cfg.Sale.PublicSale = ctx.Bool("sale.public")
	}
	if ctx.IsSet("journal.path") {
		cfg.Sale.JournalPath = resolvePath(ctx.String("journal.path"))
	}
	if ctx.IsSet("snapshot.path") {
		cfg.Sale.SnapshotPath = resolvePath(ctx.String("snapshot.path"))
	}
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create datadir %s: %w", dir, err)
	}
	return nil
}

func resolvePath(p string) string {
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GuessWorkDir(), p)
}

func GuessWorkDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
