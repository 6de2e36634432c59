// Package main provides equipment-cli, a local-first inventory tool that works
// on the SQLite cache and syncs with a ledger server on demand
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Zevankai/Equipment-Tool/internal/clients/remote"
	"github.com/Zevankai/Equipment-Tool/internal/config"
	"github.com/Zevankai/Equipment-Tool/internal/entities/equipment"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
	"github.com/Zevankai/Equipment-Tool/internal/orchestrators/inventory"
	"github.com/Zevankai/Equipment-Tool/internal/orchestrators/replication"
	"github.com/Zevankai/Equipment-Tool/internal/pkg/idgen"
	"github.com/Zevankai/Equipment-Tool/internal/pkg/logger"
	"github.com/Zevankai/Equipment-Tool/internal/repositories/snapshot"
)

var (
	configPath string
	roomID     string
	cachePath  string
	serverAddr string
	asJSON     bool
)

// app holds what every command needs once the root has set up
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	cache     *snapshot.SQLiteRepository
	inventory inventory.Service
}

var cli app

var rootCmd = &cobra.Command{
	Use:   "equipment-cli",
	Short: "Local-first character equipment ledger",
	Long: `equipment-cli edits character equipment in a local cache. Nothing leaves the
machine until you run sync or delete.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	cli.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", describe(err))
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "Directory holding config.yaml and .env")
	rootCmd.PersistentFlags().StringVarP(&roomID, "room", "r", "", "Room ID")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "Path of the local cache (overrides cache.path)")
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "", "Ledger server address (overrides sync.server_addr)")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print results as JSON")
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("cache") {
		cfg.Cache.Path = cachePath
	}
	if cmd.Flags().Changed("server") {
		cfg.Sync.ServerAddr = serverAddr
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	cache, err := snapshot.OpenSQLite(cmd.Context(), &snapshot.SQLiteConfig{
		Path:   cfg.Cache.Path,
		Logger: log,
	})
	if err != nil {
		return fmt.Errorf("failed to open cache %s: %w", cfg.Cache.Path, err)
	}

	conversion := equipment.SingleStep
	if cfg.Currency.Cascade {
		conversion = equipment.Cascade
	}

	inv, err := inventory.NewOrchestrator(&inventory.Config{
		SnapshotRepo: cache,
		ItemIDs:      idgen.NewUUID("item"),
		CharacterIDs: idgen.NewUUID("char"),
		Conversion:   conversion,
		Logger:       log,
	})
	if err != nil {
		_ = cache.Close()
		return fmt.Errorf("failed to create inventory orchestrator: %w", err)
	}

	cli = app{cfg: cfg, log: log, cache: cache, inventory: inv}
	return nil
}

// close releases the cache; it runs whether or not the command failed
func (a *app) close() {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.cache != nil {
		_ = a.cache.Close()
	}
	*a = app{}
}

// openReplication builds the sync orchestrator; tests swap it out
var openReplication = (*app).replication

// replication connects the sync orchestrator to the configured server. The
// connection is established on first use.
func (a *app) replication() (replication.Service, func(), error) {
	client, closeConn, err := remote.New(&remote.Config{
		Address: a.cfg.Sync.ServerAddr,
		Timeout: a.cfg.Sync.Timeout,
		Logger:  a.log,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create remote client: %w", err)
	}
	cleanup := func() {
		_ = closeConn() // nolint:errcheck // safe to ignore in cleanup
	}

	svc, err := replication.NewOrchestrator(&replication.Config{
		SnapshotRepo: a.cache,
		Remote:       client,
		Policy:       replication.ConflictPolicy(a.cfg.Sync.ConflictPolicy),
		Logger:       a.log,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

func requireRoom() error {
	if roomID == "" {
		return errors.InvalidArgument("--room is required")
	}
	return nil
}

func ref(characterID string) inventory.CharacterRef {
	return inventory.CharacterRef{RoomID: roomID, CharacterID: characterID}
}

// describe turns ledger errors into the message a user should see
func describe(err error) string {
	switch {
	case errors.IsUnavailable(err):
		return "server unreachable, local changes are kept: " + err.Error()
	case errors.IsStorage(err):
		return "local cache failure: " + err.Error()
	default:
		return err.Error()
	}
}
