package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"openphil/internal/config"
	"openphil/internal/eventbus"
	"openphil/internal/logging"
	"openphil/internal/store"
)

// app carries the state shared by all subcommands
type app struct {
	configPath string
	dbPath     string
	debug      bool

	cfg    *config.Config
	logger *zap.Logger
	bus    eventbus.EventBus
	db     *store.SQLiteStore
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	a.teardown()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "openphil",
		Short:         "Select, split and annotate token ranges of witness texts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default .openphil.toml or the user config dir)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "sqlite database path (overrides config)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "log at debug level")

	root.AddCommand(
		newImportCmd(a),
		newListCmd(a),
		newViewCmd(a),
		newRangeCmd(a),
		newExportCmd(a),
		newLoadCmd(a),
		newCommentsCmd(a),
		newSplitCmd(a),
	)
	return root
}

// setup loads config and builds the logger and event bus. The bus comes
// first so loading the config is published on it.
func (a *app) setup() error {
	a.bus = eventbus.New(nil)
	loaded := make(chan eventbus.ConfigLoadedEvent, 1)
	unsubscribe := a.bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) {
		loaded <- e.(eventbus.ConfigLoadedEvent)
	})
	defer unsubscribe()

	configSvc := config.NewConfigServiceWithBus(a.configPath, a.bus)
	cfg, err := configSvc.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.dbPath != "" {
		cfg.Database = a.dbPath
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log, a.debug)
	if err != nil {
		return err
	}
	a.logger = logger

	select {
	case ev := <-loaded:
		a.logger.Info("config loaded",
			zap.String("path", ev.Path),
			zap.String("database", cfg.Database))
	case <-time.After(time.Second):
		a.logger.Warn("config loaded event not delivered", zap.String("path", configSvc.Path()))
	}
	return nil
}

// store opens the project database on first use
func (a *app) store(ctx context.Context) (*store.SQLiteStore, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := store.OpenSQLite(ctx, a.cfg.Database, a.logger, store.WithStride(a.cfg.Import.IndexStride))
	if err != nil {
		return nil, err
	}
	a.db = db
	return db, nil
}

// teardown releases what setup and store opened
func (a *app) teardown() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	if a.bus != nil {
		a.bus.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
