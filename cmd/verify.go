package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgc/internal/core/domain"
	"github.com/kamal-hamza/imgc/pkg/ui"
)

var verifyCmd = &cobra.Command{
	Use:     "verify",
	Aliases: []string{"doctor"},
	Short:   "Check that catalog records and stored files agree",
	Long: `Diagnose the storage directory.

Checks for:
  - Storage directory and metadata file presence
  - Configuration file existence
  - Records whose stored file is missing
  - Files in storage that no record points to

Exits non-zero when the catalog and the directory disagree.`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.FormatTitle("imgc verify"))
	fmt.Println()

	// 1. Structure
	checkStep("Storage Directory", func() error {
		if !appVault.Exists() {
			return fmt.Errorf("not found at %s", appVault.StoragePath)
		}
		return nil
	})

	checkStep("Metadata File", func() error {
		store := catalog.Store()
		if _, err := os.Stat(store.Path()); err != nil {
			return fmt.Errorf("missing at %s", store.Path())
		}
		fmt.Printf("    %s\n", ui.StyleMuted.Render(fmt.Sprintf("%s backend, %d record%s", store.Kind(), catalog.Len(), pluralize(catalog.Len()))))
		return nil
	})

	checkStep("Configuration File", func() error {
		if _, err := os.Stat(appVault.ConfigPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (defaults in use)", appVault.ConfigPath)
		}
		return nil
	})

	fmt.Println()
	fmt.Println(ui.FormatInfo("Checking catalog consistency..."))

	// 2. Records vs files
	report, err := catalog.Verify()
	if err != nil {
		return err
	}

	checkStep(fmt.Sprintf("Stored Files (%d record%s)", report.Records, pluralize(report.Records)), func() error {
		if len(report.MissingFiles) == 0 {
			return nil
		}
		fmt.Println()
		for _, name := range report.MissingFiles {
			fmt.Printf("    %s (missing)\n", name)
		}
		return fmt.Errorf("%d record%s without a file", len(report.MissingFiles), pluralize(len(report.MissingFiles)))
	})

	checkStep(fmt.Sprintf("Catalogued Files (%d file%s)", report.Files, pluralize(report.Files)), func() error {
		if len(report.OrphanFiles) == 0 {
			return nil
		}
		fmt.Println()
		for _, name := range report.OrphanFiles {
			fmt.Printf("    %s (no record)\n", name)
		}
		return fmt.Errorf("%d file%s without a record", len(report.OrphanFiles), pluralize(len(report.OrphanFiles)))
	})

	fmt.Println()
	if !report.Consistent() {
		appLog.Warn().
			Int("missing", len(report.MissingFiles)).
			Int("orphans", len(report.OrphanFiles)).
			Msg("catalog inconsistent")
		return domain.NewError(domain.ErrAssetFileMissing, "verify", appVault.StoragePath,
			fmt.Errorf("%d missing file%s, %d orphan file%s",
				len(report.MissingFiles), pluralize(len(report.MissingFiles)),
				len(report.OrphanFiles), pluralize(len(report.OrphanFiles))))
	}

	fmt.Println(ui.FormatSuccess("Catalog and storage directory are consistent"))
	return nil
}

// checkStep runs a check function and prints the result nicely
func checkStep(name string, check func() error) {
	err := check()
	if err == nil {
		fmt.Printf("%s %s\n", ui.FormatSuccess("✔"), name)
	} else {
		fmt.Printf("%s %s\n", ui.FormatError("✘"), name)
		fmt.Printf("    %s\n", ui.StyleMuted.Render(err.Error()))
	}
}
