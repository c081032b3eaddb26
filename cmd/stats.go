package cmd

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgc/internal/core/domain"
	"github.com/kamal-hamza/imgc/pkg/ui"
)

var (
	statsChart bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog statistics",
	Long: `Analyze the catalog and display:
  - Record count and date range
  - Images added per month
  - File type distribution

Use --chart to render both distributions as an HTML chart page.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsChart, "chart", false, "Open an HTML chart of the statistics")
}

func runStats(cmd *cobra.Command, args []string) error {
	report := catalog.Stats()

	if report.Count == 0 {
		fmt.Println(ui.FormatWarning("Catalog is empty, nothing to analyze"))
		return nil
	}

	fmt.Println(ui.FormatTitle("Catalog Statistics"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Records", fmt.Sprintf("%d", report.Count)))
	fmt.Println(ui.RenderKeyValue("Oldest", report.Oldest.Format(appConfig.DisplayDateFormat)))
	fmt.Println(ui.RenderKeyValue("Newest", report.Newest.Format(appConfig.DisplayDateFormat)))
	fmt.Println()

	fmt.Println(ui.StyleHeader.Render("Added per month"))
	fmt.Println(bucketTable("Month", report.ByMonth, report.Count).Render())
	fmt.Println()

	fmt.Println(ui.StyleHeader.Render("File types"))
	fmt.Println(bucketTable("Extension", report.ByExtension, report.Count).Render())

	if statsChart {
		path := appVault.GetCachePath("stats.html")
		if err := writeStatsChart(report, path); err != nil {
			return fmt.Errorf("failed to render chart: %w", err)
		}
		fmt.Println()
		fmt.Println(ui.FormatRocket("Opening chart..."))
		fmt.Println(ui.FormatMuted(path))
		return OpenFile(path, "")
	}

	return nil
}

// bucketTable renders buckets with a proportional bar
func bucketTable(label string, buckets []domain.Bucket, total int) *ui.Table {
	const barWidth = 30

	peak := 0
	for _, b := range buckets {
		if b.Count > peak {
			peak = b.Count
		}
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: label},
		{Header: "Count", Align: "right"},
		{Header: "Share", Align: "right"},
		{Header: ""},
	})
	for _, b := range buckets {
		width := 1
		if peak > 0 {
			width = b.Count * barWidth / peak
		}
		table.AddRow([]string{
			bucketLabel(b.Key),
			fmt.Sprintf("%d", b.Count),
			fmt.Sprintf("%.0f%%", float64(b.Count)*100/float64(total)),
			ui.FormatBar(width),
		})
	}
	return table
}

func bucketLabel(key string) string {
	if key == "" {
		return "(none)"
	}
	return key
}

// writeStatsChart renders a month bar chart and an extension pie chart
func writeStatsChart(report domain.StatsReport, path string) error {
	months := make([]string, 0, len(report.ByMonth))
	monthData := make([]opts.BarData, 0, len(report.ByMonth))
	for _, b := range report.ByMonth {
		months = append(months, b.Key)
		monthData = append(monthData, opts.BarData{Value: b.Count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Images added per month",
			Subtitle: fmt.Sprintf("%d records", report.Count),
		}),
	)
	bar.SetXAxis(months).AddSeries("Images", monthData)

	extData := make([]opts.PieData, 0, len(report.ByExtension))
	for _, b := range report.ByExtension {
		extData = append(extData, opts.PieData{Name: bucketLabel(b.Key), Value: b.Count})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "File types"}),
	)
	pie.AddSeries("Extensions", extData)

	page := components.NewPage()
	page.PageTitle = "imgc statistics"
	page.AddCharts(bar, pie)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := page.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
