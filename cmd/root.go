package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgc/internal/adapters/repository"
	"github.com/kamal-hamza/imgc/internal/core/domain"
	"github.com/kamal-hamza/imgc/internal/core/services"
	"github.com/kamal-hamza/imgc/pkg/config"
	"github.com/kamal-hamza/imgc/pkg/logging"
	"github.com/kamal-hamza/imgc/pkg/ui"
	"github.com/kamal-hamza/imgc/pkg/vault"
)

// annotationWrites marks commands that mutate the catalog and need the root lock
const annotationWrites = "imgc/writes"

var (
	// Global vault and configuration
	appVault  *vault.Vault
	appConfig *config.Config
	appLog    = logging.Nop()

	// Catalog engine, opened for every command that reads or writes records
	catalog *services.CatalogEngine

	// Held by commands that mutate the catalog
	rootLock *flock.Flock

	// Whether the storage directory existed before this run
	vaultExisted bool

	// Global flags
	flagRoot    string
	flagBackend string
	flagVerbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "imgc",
	Short: "imgc - a local image catalog",
	Long: ui.StyleTitle.Render("imgc") + " - Image Container\n\n" +
		"Import images into a managed storage directory and keep a metadata\n" +
		"catalog (original name, date added, description) in step with the files.",
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	rootCmd.SetArgs(resolveArgs(os.Args[1:]))
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.FormatError(err.Error()))
		// PersistentPostRunE is skipped when RunE fails
		_ = shutdownApp(rootCmd, nil)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "Catalog root directory (default: config 'root' or $XDG_DATA_HOME/imgc)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Metadata backend: table, delimited or sqlite (default: config 'backend')")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(aliasCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads configuration, resolves the vault and opens the catalog
func initializeApp(cmd *cobra.Command, args []string) error {
	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}

	configPath, err := vault.ConfigFilePath()
	if err != nil {
		return fmt.Errorf("failed to determine config path: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	appConfig = cfg
	ui.SetTheme(cfg.ColorTheme)

	level := cfg.LogLevel
	if flagVerbose {
		level = "debug"
	}
	appLog = logging.New(os.Stderr, level)

	root := flagRoot
	if root == "" {
		root = cfg.Root
	}
	if root != "" {
		appVault = vault.NewAt(root)
	} else {
		appVault, err = vault.New()
		if err != nil {
			return fmt.Errorf("failed to initialize vault: %w", err)
		}
	}
	appVault.ConfigPath = configPath

	if flagBackend != "" {
		appConfig.Backend = flagBackend
	}

	vaultExisted = appVault.Exists()

	if cmd.Annotations[annotationWrites] == "true" {
		if err := acquireLock(); err != nil {
			return err
		}
	}

	// These commands manage stores or files themselves
	if cmd == migrateCmd || cmd == purgeCmd || cmd == cleanCmd || cmd == configCmd || cmd.Parent() == configCmd || cmd.Parent() == aliasCmd {
		return nil
	}

	engine, err := openCatalog(appConfig.Backend)
	if err != nil {
		return err
	}
	catalog = engine
	return nil
}

// shutdownApp releases the catalog and the root lock
func shutdownApp(cmd *cobra.Command, args []string) error {
	defer releaseLock()
	if catalog == nil {
		return nil
	}
	err := catalog.Close()
	catalog = nil
	return err
}

// openCatalog builds the metadata store for backend and loads it
func openCatalog(backend string) (*services.CatalogEngine, error) {
	store, err := repository.NewMetadataStore(backend, appVault)
	if err != nil {
		return nil, err
	}

	engine, err := services.OpenCatalog(getContext(), appVault, store, services.WithLogger(appLog))
	if err != nil {
		if errors.Is(err, domain.ErrStoreCorrupt) {
			appLog.Error().Err(err).Str("path", store.Path()).Msg("metadata file is unreadable")
		}
		return nil, err
	}

	appLog.Debug().
		Str("backend", store.Kind()).
		Str("path", store.Path()).
		Int("records", engine.Len()).
		Msg("catalog opened")
	return engine, nil
}

// acquireLock takes the root lock without blocking
func acquireLock() error {
	if err := appVault.Ensure(); err != nil {
		return err
	}

	lock := flock.New(appVault.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("catalog at %s is in use by another imgc process (is 'imgc watch' running?)", appVault.RootPath)
	}
	rootLock = lock
	appLog.Debug().Str("lock", lock.Path()).Msg("lock acquired")
	return nil
}

func releaseLock() {
	if rootLock == nil {
		return
	}
	if err := rootLock.Unlock(); err != nil {
		appLog.Warn().Err(err).Msg("failed to release lock")
	}
	rootLock = nil
}

// exitCode maps error kinds to process exit codes
func exitCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrSourceNotFound):
		return 2
	case errors.Is(err, domain.ErrStoreCorrupt):
		return 3
	default:
		return 1
	}
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
