package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgc/internal/adapters/repository"
	"github.com/kamal-hamza/imgc/internal/core/services"
	"github.com/kamal-hamza/imgc/pkg/config"
	"github.com/kamal-hamza/imgc/pkg/ui"
)

var (
	migrateTo     string
	migrateDryRun bool
	migrateSave   bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate --to <backend>",
	Short: "Copy the catalog into another metadata backend",
	Long: `Rewrite the metadata catalog into another backend (table, delimited, sqlite).

The current backend is read, written to the target, and the target is read
back to confirm every record survived. Migrating to or from sqlite leaves the
source file in place. The table and delimited backends share image_data.csv,
so migrating between them rewrites that file in place in the canonical
four-column layout; legacy extra columns are dropped on the way.

Examples:
  imgc migrate --to sqlite
  imgc migrate --to delimited --dry-run
  imgc --backend sqlite migrate --to table --save`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationWrites: "true"},
	RunE:        runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "Target backend (table, delimited, sqlite)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "Report what would be migrated without writing")
	migrateCmd.Flags().BoolVar(&migrateSave, "save", false, "Make the target the configured backend afterwards")
	_ = migrateCmd.MarkFlagRequired("to")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	from := appConfig.Backend
	if from == migrateTo {
		return fmt.Errorf("catalog already uses the %s backend", from)
	}

	src, err := repository.NewMetadataStore(from, appVault)
	if err != nil {
		return err
	}
	dst, err := repository.NewMetadataStore(migrateTo, appVault)
	if err != nil {
		return err
	}
	defer closeStore(src)
	defer closeStore(dst)

	fmt.Println(ui.FormatTitle("Migrating metadata"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("From", fmt.Sprintf("%s (%s)", src.Kind(), src.Path())))
	fmt.Println(ui.RenderKeyValue("To", fmt.Sprintf("%s (%s)", dst.Kind(), dst.Path())))
	fmt.Println()

	result, err := services.Migrate(getContext(), src, dst, migrateDryRun)
	if err != nil {
		return err
	}

	if result.DryRun {
		fmt.Println(ui.FormatInfo(fmt.Sprintf("Dry run: %d record%s would be migrated", result.Records, pluralize(result.Records))))
		return nil
	}

	appLog.Info().
		Str("from", result.From).
		Str("to", result.To).
		Int("records", result.Records).
		Msg("metadata migrated")
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Migrated %d record%s", result.Records, pluralize(result.Records))))

	if migrateSave {
		cfg, err := config.Load(appVault.ConfigPath)
		if err != nil {
			return err
		}
		cfg.Backend = migrateTo
		if err := cfg.Save(appVault.ConfigPath); err != nil {
			return err
		}
		fmt.Println(ui.FormatInfo("Config updated: backend = " + migrateTo))
	} else {
		fmt.Println(ui.FormatMuted(fmt.Sprintf("Use it with --backend %s, or set 'backend: %s' in %s", migrateTo, migrateTo, appVault.ConfigPath)))
	}

	return nil
}

// closeStore releases stores that hold a handle
func closeStore(store any) {
	if c, ok := store.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			appLog.Warn().Err(err).Msg("failed to close store")
		}
	}
}
