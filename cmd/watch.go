package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgc/pkg/ui"
)

var (
	watchDescription string
	watchAny         bool
	watchExisting    bool
	watchQuiet       bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Import images as they appear in a directory",
	Long: `Watch an inbox directory and import every new image dropped into it.

A file is imported once it has stopped changing for watch_debounce_ms
(default 500ms), so partially copied files are not picked up. Files are
copied; the inbox is never modified. Only one watcher may run per catalog.

Examples:
  imgc watch ~/Downloads
  imgc watch ~/Scans --any --existing -d "scanned"`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationWrites: "true"},
	RunE:        runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchDescription, "description", "d", "", "Description stored with every imported file")
	watchCmd.Flags().BoolVar(&watchAny, "any", false, "Accept files of any type")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "Import files already in the directory on start")
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Suppress import notifications")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(getContext(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inbox, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	info, err := os.Stat(inbox)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", inbox, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", inbox)
	}
	if inbox == appVault.StoragePath || strings.HasPrefix(inbox, appVault.StoragePath+string(filepath.Separator)) {
		return fmt.Errorf("refusing to watch the storage directory itself")
	}

	// Create file watcher
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(inbox); err != nil {
		return fmt.Errorf("failed to watch %s: %w", inbox, err)
	}

	if !watchQuiet {
		fmt.Println(ui.FormatRocket("Watching for new images..."))
		fmt.Println(ui.FormatMuted("Inbox:   " + inbox))
		fmt.Println(ui.FormatMuted("Storage: " + appVault.StoragePath))
		fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
		fmt.Println()
	}

	w := newInboxWatcher(time.Duration(appConfig.WatchDebounceMS) * time.Millisecond)
	defer w.stopAll()

	if watchExisting {
		entries, err := os.ReadDir(inbox)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if entry.Type().IsRegular() {
				w.touch(filepath.Join(inbox, entry.Name()))
			}
		}
	}

	appLog.Info().Str("inbox", inbox).Dur("debounce", w.debounce).Msg("watcher started")

	// Event loop; ingestion only ever happens on this goroutine
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ignoredInboxFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				w.touch(event.Name)
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.forget(event.Name)
			}

		case path := <-w.ready:
			importFromInbox(ctx, path, w)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			appLog.Warn().Err(err).Msg("watcher error")

		case <-ctx.Done():
			if !watchQuiet {
				fmt.Println()
				fmt.Println(ui.FormatMuted("Watcher stopped"))
			}
			appLog.Info().Msg("watcher stopped")
			return nil
		}
	}
}

// inboxWatcher debounces events per path and remembers what it imported
type inboxWatcher struct {
	debounce time.Duration
	timers   map[string]*time.Timer
	imported map[string]time.Time // source path -> mod time at import
	ready    chan string
}

func newInboxWatcher(debounce time.Duration) *inboxWatcher {
	return &inboxWatcher{
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
		imported: make(map[string]time.Time),
		ready:    make(chan string, 64),
	}
}

// touch (re)starts the quiet period for path
func (w *inboxWatcher) touch(path string) {
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.ready <- path
	})
}

func (w *inboxWatcher) forget(path string) {
	if t, ok := w.timers[path]; ok {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *inboxWatcher) stopAll() {
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// importFromInbox ingests a settled file unless this exact version was already imported
func importFromInbox(ctx context.Context, path string, w *inboxWatcher) {
	delete(w.timers, path)

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}
	if mod, ok := w.imported[path]; ok && mod.Equal(info.ModTime()) {
		return
	}

	rec, err := importFile(ctx, path, watchDescription, watchAny)
	if err != nil {
		appLog.Warn().Err(err).Str("source", path).Msg("skipped")
		if !watchQuiet {
			fmt.Println(ui.FormatWarning(fmt.Sprintf("%s: %v", filepath.Base(path), err)))
		}
		return
	}
	w.imported[path] = info.ModTime()

	if !watchQuiet {
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s  %s -> %s",
			time.Now().Format("15:04:05"), rec.OriginalName, ui.FormatStoredName(rec.StoredName))))
	}
}

// ignoredInboxFile filters editor swap files, partial downloads and hidden files
func ignoredInboxFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") {
		return true
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".part", ".crdownload", ".tmp", ".swp":
		return true
	}
	return false
}
