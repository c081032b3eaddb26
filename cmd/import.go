package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgc/internal/core/domain"
	"github.com/kamal-hamza/imgc/pkg/ui"
)

var (
	importDescription string
	importAny         bool
	importCopy        bool
)

var importCmd = &cobra.Command{
	Use:     "import <file>...",
	Aliases: []string{"add"},
	Short:   "Copy images into storage and record them",
	Long: `Import one or more files into the storage directory.

Each file is copied under a timestamped name (20240301_100000_photo.jpg),
and a record with its original name, date added and description is written
to the metadata catalog. The source file is never modified.

Only image types listed in allowed_extensions are accepted unless --any is set.
On a terminal a description is asked for each file unless -d is given.

Examples:
  imgc import ~/Pictures/photo.jpg -d "Beach at sunset"
  imgc import *.png
  imgc import scan.pdf --any --copy`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{annotationWrites: "true"},
	RunE:        runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importDescription, "description", "d", "", "Description stored with every imported file")
	importCmd.Flags().BoolVar(&importAny, "any", false, "Accept files of any type")
	importCmd.Flags().BoolVarP(&importCopy, "copy", "c", false, "Copy the stored path(s) to the clipboard")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	var stored []string
	failed := 0

	// Ask per file on a terminal unless -d was given
	prompt := !cmd.Flags().Changed("description") && isInteractive()

	for _, arg := range args {
		absPath, err := filepath.Abs(arg)
		if err != nil {
			absPath = arg
		}

		description := importDescription
		if prompt {
			description = promptLine(fmt.Sprintf("Description for %s (optional): ", filepath.Base(absPath)))
		}

		rec, err := importFile(ctx, absPath, description, importAny)
		if err != nil {
			fmt.Println(ui.FormatError(fmt.Sprintf("%s: %v", filepath.Base(absPath), err)))
			failed++
			continue
		}

		fmt.Println(ui.FormatSuccess("Imported " + rec.OriginalName + " as " + ui.FormatStoredName(rec.StoredName)))
		stored = append(stored, catalog.ResolvePath(rec.StoredName))
	}

	if importCopy && len(stored) > 0 {
		if err := clipboard.WriteAll(strings.Join(stored, "\n")); err != nil {
			fmt.Println(ui.FormatMuted("(Clipboard access failed, please copy manually)"))
		} else {
			fmt.Println(ui.FormatInfo("Stored path" + pluralize(len(stored)) + " copied to clipboard"))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d import%s failed", failed, len(args), pluralize(len(args)))
	}
	return nil
}

// importFile checks the file type and ingests one file
func importFile(ctx context.Context, path, description string, anyType bool) (domain.AssetRecord, error) {
	if !anyType && !appConfig.AllowsExtension(filepath.Ext(path)) {
		return domain.AssetRecord{}, fmt.Errorf("not an allowed image type (use --any to import anyway)")
	}

	rec, err := catalog.Ingest(ctx, path, description)
	if err != nil {
		appLog.Debug().Err(err).Str("source", path).Msg("import failed")
		return domain.AssetRecord{}, err
	}

	appLog.Info().
		Str("source", path).
		Str("stored", rec.StoredName).
		Msg("imported")
	return rec, nil
}
