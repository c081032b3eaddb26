package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/mattn/go-isatty"

	"github.com/kamal-hamza/imgc/internal/core/domain"
	"github.com/kamal-hamza/imgc/pkg/ui"
)

// OpenFile opens a file using a custom viewer or the OS default application.
func OpenFile(path string, viewer string) error {
	var cmd *exec.Cmd

	if viewer != "" {
		// Use user-configured viewer (e.g. feh, eog, qlmanage)
		cmd = exec.Command(viewer, path)
	} else {
		// Fallback to OS default
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", path)
		case "windows":
			cmd = exec.Command("cmd", "/c", "start", path)
		default:
			cmd = exec.Command("xdg-open", path)
		}
	}

	// Start() detaches the viewer so imgc can exit while it stays open
	if err := cmd.Start(); err != nil {
		if viewer != "" {
			return fmt.Errorf("failed to open '%s' with '%s': %w", path, viewer, err)
		}
		return fmt.Errorf("failed to open '%s': %w", path, err)
	}

	return nil
}

// isInteractive reports whether stdin and stdout are both terminals
func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// confirm asks a yes/no question on stdin. Anything but y/yes is no.
func confirm(prompt string) bool {
	fmt.Print(ui.StyleWarning.Render(prompt + " (y/N): "))
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// promptLine reads one trimmed line from stdin
func promptLine(prompt string) string {
	fmt.Print(ui.StyleInfo.Render(prompt))
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// selectRecord resolves a command argument to one record.
// An exact stored name wins; otherwise the argument is a search query.
// With no argument, or several matches, a fuzzy finder is shown on a terminal.
func selectRecord(args []string) (domain.AssetRecord, error) {
	query := ""
	if len(args) > 0 {
		query = args[0]
		if rec, err := catalog.Get(query); err == nil {
			return rec, nil
		}
	}

	matches := catalog.Search(query)
	switch {
	case len(matches) == 0 && query == "":
		return domain.AssetRecord{}, domain.NewError(domain.ErrNotFound, "select", "", fmt.Errorf("catalog is empty"))
	case len(matches) == 0:
		return domain.AssetRecord{}, domain.NewError(domain.ErrNotFound, "select", query, nil)
	case len(matches) == 1 && query != "":
		return matches[0], nil
	}

	if !isInteractive() {
		if query == "" {
			return domain.AssetRecord{}, fmt.Errorf("a stored name is required when not running in a terminal")
		}
		return domain.AssetRecord{}, fmt.Errorf("%q matches %d records; use the full stored name", query, len(matches))
	}

	return pickRecord(matches)
}

// pickRecord shows an interactive fuzzy finder over records
func pickRecord(records []domain.AssetRecord) (domain.AssetRecord, error) {
	idx, err := fuzzyfinder.Find(
		records,
		func(i int) string {
			r := records[i]
			return fmt.Sprintf("%s  %s", r.StoredName, r.Description)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return renderRecordDetails(records[i])
		}),
	)
	if err != nil {
		return domain.AssetRecord{}, fmt.Errorf("selection cancelled")
	}
	return records[idx], nil
}

// renderRecordDetails renders one record as key/value lines
func renderRecordDetails(r domain.AssetRecord) string {
	var s strings.Builder
	s.WriteString(ui.RenderKeyValue("Stored name", ui.FormatStoredName(r.StoredName)) + "\n")
	s.WriteString(ui.RenderKeyValue("Original", r.OriginalName) + "\n")
	s.WriteString(ui.RenderKeyValue("Added", formatDate(r)) + "\n")
	if r.Description != "" {
		s.WriteString("\n" + ui.StyleHeader.Render("Description") + "\n")
		s.WriteString(r.Description + "\n")
	}
	return s.String()
}

// formatDate renders AddedAt with the configured display format
func formatDate(r domain.AssetRecord) string {
	layout := domain.DateLayout
	if appConfig != nil && appConfig.DisplayDateFormat != "" {
		layout = appConfig.DisplayDateFormat
	}
	return r.AddedAt.Format(layout)
}

// truncate truncates a string to the specified number of runes
func truncate(s string, maxLen int) string {
	// Multi-line descriptions collapse onto one line
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// pluralize returns "s" unless count is one
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
