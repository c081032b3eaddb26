package cmd

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgc/internal/core/domain"
	"github.com/kamal-hamza/imgc/pkg/ui"
)

var (
	showOpen bool
	showCopy bool
)

var showCmd = &cobra.Command{
	Use:     "show [name]",
	Aliases: []string{"open", "get"},
	Short:   "Show one record and where its file lives",
	Long: `Show the metadata and stored path of one record.

The argument is a stored name or a search query. Without an argument an
interactive picker is shown.

Examples:
  imgc show 20240301_100000_photo.jpg
  imgc show beach --open
  imgc show --copy`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVarP(&showOpen, "open", "o", false, "Open the file in the configured viewer")
	showCmd.Flags().BoolVarP(&showCopy, "copy", "c", false, "Copy the stored path to the clipboard")
}

func runShow(cmd *cobra.Command, args []string) error {
	rec, err := selectRecord(args)
	if err != nil {
		return err
	}

	path, fileErr := catalog.CheckFile(rec.StoredName)

	fmt.Println(ui.FormatImage(rec.StoredName))
	fmt.Println()
	fmt.Print(renderRecordDetails(rec))
	fmt.Println(ui.RenderKeyValue("Path", ui.FormatPath(path)))
	fmt.Println()

	if fileErr != nil {
		if errors.Is(fileErr, domain.ErrAssetFileMissing) {
			fmt.Println(ui.FormatWarning("Stored file is missing; run 'imgc verify' for details"))
		}
		return fileErr
	}

	if showCopy {
		if err := clipboard.WriteAll(path); err != nil {
			fmt.Println(ui.FormatMuted("(Clipboard access failed, please copy manually)"))
		} else {
			fmt.Println(ui.FormatInfo("Path copied to clipboard"))
		}
	}

	if showOpen {
		appLog.Debug().Str("path", path).Str("viewer", appConfig.Viewer).Msg("opening file")
		return OpenFile(path, appConfig.Viewer)
	}

	return nil
}
