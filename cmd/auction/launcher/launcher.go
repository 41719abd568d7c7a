package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/mogul-productions/go-mogies-auction/api/httpserver"
	"github.com/mogul-productions/go-mogies-auction/auction"
	"github.com/mogul-productions/go-mogies-auction/flags"
	"github.com/mogul-productions/go-mogies-auction/items"
	"github.com/mogul-productions/go-mogies-auction/journal"
	"github.com/mogul-productions/go-mogies-auction/sale"
	"github.com/mogul-productions/go-mogies-auction/token"
)

var app = flags.NewApp()

func init() {
	app.Flags = append(app.Flags, flags.CommonFlags()...)
	app.Flags = append(app.Flags, flags.SaleFlags()...)
	app.Action = run
}

// Launch parses flags and runs the sale daemon until interrupted.
func Launch(args []string) error {
	return app.Run(args)
}

func run(ctx *cli.Context) error {
	cfg := MakeAllConfigs(ctx)

	log, err := makeLogger(cfg.Node.Logging)
	if err != nil {
		return err
	}

	eng, jrnl, err := makeEngine(cfg, log)
	if err != nil {
		return err
	}
	if jrnl != nil {
		defer jrnl.Close()
	}

	if data, err := os.ReadFile(cfg.Sale.SnapshotPath); err == nil {
		if err := eng.Restore(data); err != nil {
			return fmt.Errorf("restore snapshot %s: %w", cfg.Sale.SnapshotPath, err)
		}
		log.WithField("path", cfg.Sale.SnapshotPath).Info("sale state restored")
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var srv *httpserver.Server
	errCh := make(chan error, 1)
	if cfg.Node.HTTP.Enabled {
		addr := fmt.Sprintf("%s:%d", cfg.Node.HTTP.Addr, cfg.Node.HTTP.Port)
		srv = httpserver.New(addr, eng, jrnl, log)
		go func() { errCh <- srv.Run() }()
	}

	log.WithFields(logrus.Fields{
		"preset": cfg.Sale.Preset,
		"phase":  eng.CurrentPhase().String(),
	}).Info("sale daemon running")

	select {
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("http shutdown")
		}
	}

	data, err := eng.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot sale state: %w", err)
	}
	if err := os.WriteFile(cfg.Sale.SnapshotPath, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", cfg.Sale.SnapshotPath, err)
	}
	log.WithField("path", cfg.Sale.SnapshotPath).Info("sale state saved")
	return nil
}

// makeLogger builds the process logger from the logging config,
// attaching a Sentry hook when a DSN is configured.
func makeLogger(cfg LoggingConfig) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetLevel(logrus.Level(cfg.Verbosity))

	switch cfg.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{ForceColors: cfg.Color})
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	if cfg.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.SentryDSN, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return nil, fmt.Errorf("sentry hook: %w", err)
		}
		log.Hooks.Add(hook)
	}
	return log, nil
}

// makeEngine builds the sale engine and its collaborators from config.
func makeEngine(cfg Config, log *logrus.Logger) (*auction.Engine, *journal.Journal, error) {
	rules, err := makeRules(cfg.Sale)
	if err != nil {
		return nil, nil, err
	}

	owner, err := parseAddress(cfg.Sale.Owner, "sale.owner")
	if err != nil {
		return nil, nil, err
	}
	account, err := parseAddress(cfg.Sale.Account, "sale.account")
	if err != nil {
		return nil, nil, err
	}

	jrnl, err := journal.Open(cfg.Sale.JournalPath)
	if err != nil {
		return nil, nil, err
	}

	opts := []auction.Option{
		auction.WithLogger(log),
		auction.WithJournal(jrnl),
	}
	if cfg.Sale.AllowlistRoot != "" {
		opts = append(opts, auction.WithAllowlistRoot(common.HexToHash(cfg.Sale.AllowlistRoot)))
	}

	eng, err := auction.New(rules, owner, account,
		token.NewMem(nil),
		items.NewMem(rules.Collection.TotalSupply),
		opts...)
	if err != nil {
		jrnl.Close()
		return nil, nil, err
	}
	return eng, jrnl, nil
}

func makeRules(cfg SaleConfig) (sale.Rules, error) {
	var rules sale.Rules
	switch cfg.Preset {
	case "mainnet":
		rules = sale.MainnetRules()
	case "fake":
		start := sale.Timestamp(cfg.AuctionStart)
		if start == 0 {
			start = sale.Now().Add(time.Minute)
		}
		rules = sale.FakeRules(start)
	default:
		return sale.Rules{}, fmt.Errorf("unknown sale preset %q", cfg.Preset)
	}
	rules.Schedule.HasPublicSale = cfg.PublicSale
	return rules, nil
}

func parseAddress(raw, flag string) (common.Address, error) {
	if raw == "" {
		return common.Address{}, errors.New("missing required address flag " + flag)
	}
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("malformed address %q for %s", raw, flag)
	}
	return common.HexToAddress(raw), nil
}
