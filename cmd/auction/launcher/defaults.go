package launcher

// Defaults bundles the baseline configuration values the launcher uses
// before flags and config files override them.

type Defaults struct {
	HTTP    HTTPDefaults
	Sale    SaleDefaults
	Logging LoggingDefaults
}

// HTTPDefaults captures the query API listener options.
type HTTPDefaults struct {
	Enabled bool   // Toggle for the read-only HTTP query API.
	Addr    string // IP/interface the API binds to (127.0.0.1 keeps it local-only).
	Port    int    // TCP port for the query API; 18080 avoids the common 8080 collisions.
}

// SaleDefaults selects the rules preset the engine boots with.
type SaleDefaults struct {
	Preset string // Rules preset name; mainnet is the production sale, fake the small test sale.
}

// LoggingDefaults controls log verbosity/format.
type LoggingDefaults struct {
	Verbosity int    // logrus level numeric (0=panic through 6=trace).
	Format    string // Log output format (text vs json).
	Color     bool   // ANSI colors in logs; best disabled when piping to files.
}

// DefaultConfig returns a fully populated Defaults instance.

func DefaultConfig() Defaults {
	return Defaults{
		HTTP: HTTPDefaults{
			Enabled: true,
			Addr:    "127.0.0.1",
			Port:    18080,
		},
		Sale: SaleDefaults{
			Preset: "mainnet",
		},
		Logging: LoggingDefaults{
			Verbosity: 4,
			Format:    "text",
			Color:     true,
		},
	}
}
