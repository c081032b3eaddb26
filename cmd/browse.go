package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgc/internal/core/domain"
	"github.com/kamal-hamza/imgc/internal/core/services"
	"github.com/kamal-hamza/imgc/pkg/ui"
)

var browseQuery string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive catalog browser",
	Long: `Browse the catalog in a scrollable table.

Controls:
  - ↑/↓   : Navigate
  - Enter : Open in viewer
  - c     : Copy stored path
  - q     : Quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVarP(&browseQuery, "query", "q", "", "Only show records matching the query")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !isInteractive() {
		return fmt.Errorf("browse needs a terminal; use 'imgc list' instead")
	}

	resp := catalog.Query(services.ListRequest{
		Query:   browseQuery,
		SortBy:  appConfig.DefaultSort,
		Reverse: appConfig.ReverseSort,
	})
	if resp.Total == 0 {
		fmt.Println(ui.FormatInfo("No images to browse."))
		return nil
	}

	p := tea.NewProgram(newBrowseModel(resp.Records))
	_, err := p.Run()
	return err
}

// --- TUI Model ---

type browseModel struct {
	table   table.Model
	records []domain.AssetRecord
	status  string
}

func newBrowseModel(records []domain.AssetRecord) browseModel {
	columns := []table.Column{
		{Title: "Stored Name", Width: 36},
		{Title: "Original", Width: 24},
		{Title: "Added", Width: 16},
		{Title: "Description", Width: 40},
	}

	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			truncate(r.StoredName, 36),
			truncate(r.OriginalName, 24),
			formatDate(r),
			truncate(r.Description, 40),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows), 15)+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ui.ColorDefault).
		Background(ui.ColorPrimary).
		Bold(true)
	t.SetStyles(s)

	return browseModel{table: t, records: records}
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit

		case "enter":
			if rec, ok := m.selected(); ok {
				path, err := catalog.CheckFile(rec.StoredName)
				if err == nil {
					err = OpenFile(path, appConfig.Viewer)
				}
				m.status = statusLine(err, "Opened "+rec.StoredName)
			}
			return m, nil

		case "c":
			if rec, ok := m.selected(); ok {
				err := clipboard.WriteAll(catalog.ResolvePath(rec.StoredName))
				m.status = statusLine(err, "Path copied to clipboard")
			}
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	view := "\n" +
		ui.StyleTitle.Render(fmt.Sprintf(" %s Images (%d) ", ui.IconImage, len(m.records))) + "\n\n" +
		m.table.View() + "\n\n"
	if m.status != "" {
		view += " " + m.status + "\n"
	}
	return view + ui.FormatMuted(" [Enter] Open  [c] Copy path  [q] Quit") + "\n"
}

func (m browseModel) selected() (domain.AssetRecord, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return domain.AssetRecord{}, false
	}
	return m.records[idx], true
}

func statusLine(err error, ok string) string {
	if err != nil {
		return ui.FormatError(err.Error())
	}
	return ui.FormatSuccess(ok)
}
