package cmd

import (
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgc/internal/core/domain"
	"github.com/kamal-hamza/imgc/internal/core/services"
	"github.com/kamal-hamza/imgc/pkg/ui"
)

var (
	listQuery   string
	listSortBy  string
	listReverse bool
	listFormat  string
	listGallery bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List catalog records",
	Aliases: []string{"ls"},
	Long: `List the records of the catalog in a table.

Examples:
  imgc list
  imgc list --query beach
  imgc list --sort name --reverse
  imgc list --format csv > catalog.csv
  imgc list --gallery`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Filter by stored name, original name or description")
	// Sort defaults to "added", but the config overrides it in runList
	listCmd.Flags().StringVar(&listSortBy, "sort", services.SortAdded, "Sort by field (added, name)")
	listCmd.Flags().BoolVar(&listReverse, "reverse", false, "Reverse sort order")
	listCmd.Flags().StringVarP(&listFormat, "format", "f", ui.FormatTable, "Output format (table, csv, markdown)")
	listCmd.Flags().BoolVarP(&listGallery, "gallery", "g", false, "Open the results as an HTML gallery")
}

func runList(cmd *cobra.Command, args []string) error {
	// If the flag was NOT changed by the user, use the config default
	if !cmd.Flags().Changed("sort") {
		listSortBy = appConfig.DefaultSort
	}
	if !cmd.Flags().Changed("reverse") {
		listReverse = appConfig.ReverseSort
	}

	resp := catalog.Query(services.ListRequest{
		Query:   listQuery,
		SortBy:  listSortBy,
		Reverse: listReverse,
	})

	if listGallery {
		if len(resp.Records) == 0 {
			fmt.Println(ui.FormatWarning("No matching records"))
			return nil
		}
		return openGallery(resp.Records, listQuery)
	}

	table := recordTable(resp.Records)

	// Machine-readable formats print only the table
	if listFormat != ui.FormatTable {
		out, err := table.RenderFormat(listFormat)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	if len(resp.Records) == 0 {
		if listQuery != "" {
			fmt.Println(ui.FormatWarning("No records match: " + listQuery))
		} else {
			fmt.Println(ui.FormatWarning("Catalog is empty"))
			fmt.Println(ui.FormatInfo("Import your first image with: imgc import <file>"))
		}
		return nil
	}

	if listQuery != "" {
		fmt.Println(ui.FormatTitle(fmt.Sprintf("Records (matching: %s)", listQuery)))
	} else {
		fmt.Println(ui.FormatTitle("Records"))
	}
	fmt.Println()
	fmt.Println(table.Render())
	fmt.Println()

	summary := fmt.Sprintf("Total: %d record%s", resp.Total, pluralize(resp.Total))
	if len(resp.Records) != resp.Total {
		summary = fmt.Sprintf("Showing %d of %d records", len(resp.Records), resp.Total)
	}
	fmt.Println(ui.FormatMuted(summary))

	return nil
}

// recordTable lays records out in the catalog column order
func recordTable(records []domain.AssetRecord) *ui.Table {
	table := ui.NewTable([]ui.TableColumn{
		{Header: "Stored Name"},
		{Header: "Original Name", MaxWidth: 30},
		{Header: "Date Added"},
		{Header: "Description", MaxWidth: 40},
	})

	for _, rec := range records {
		desc := rec.Description
		if listFormat == ui.FormatTable {
			desc = truncate(desc, 80)
		}
		table.AddRow([]string{
			rec.StoredName,
			rec.OriginalName,
			formatDate(rec),
			desc,
		})
	}
	return table
}

// openGallery writes an HTML page of thumbnails to the cache and opens it
func openGallery(records []domain.AssetRecord, query string) error {
	title := "All images"
	if query != "" {
		title = fmt.Sprintf("Results: %q", query)
	}

	var page strings.Builder
	page.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><title>imgc gallery</title>
	<style>
		body { font-family: sans-serif; background: #1a1b26; color: #a9b1d6; padding: 20px; }
		.grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(200px, 1fr)); gap: 20px; }
		.card { background: #24283b; border-radius: 8px; padding: 10px; }
		.card img { width: 100%; height: 150px; object-fit: contain; background: #000; }
		.title { color: #7aa2f7; font-weight: bold; display: block; margin-top: 5px; word-break: break-all; }
		.meta { font-size: 0.8em; color: #565f89; display: block; }
		.desc { font-size: 0.9em; margin-top: 5px; display: block; white-space: pre-wrap; }
	</style></head><body><h1>` + html.EscapeString(title) + `</h1><div class="grid">`)

	for _, rec := range records {
		src := html.EscapeString("file://" + catalog.ResolvePath(rec.StoredName))
		page.WriteString(fmt.Sprintf(`
		<div class="card">
			<a href="%s" target="_blank"><img src="%s" loading="lazy"></a>
			<span class="title">%s</span>
			<span class="meta">%s &middot; %s</span>
			<span class="desc">%s</span>
		</div>`,
			src, src,
			html.EscapeString(rec.StoredName),
			html.EscapeString(rec.OriginalName),
			html.EscapeString(formatDate(rec)),
			html.EscapeString(rec.Description)))
	}
	page.WriteString(`</div></body></html>`)

	path := appVault.GetCachePath("gallery.html")
	if err := os.WriteFile(path, []byte(page.String()), 0644); err != nil {
		return err
	}

	fmt.Println(ui.FormatRocket("Opening gallery..."))
	fmt.Println(ui.FormatMuted(path))
	return OpenFile(path, "")
}
