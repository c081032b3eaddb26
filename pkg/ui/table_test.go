package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	tbl := NewTable([]TableColumn{
		{Header: "Name"},
		{Header: "Description", MaxWidth: 20},
		{Header: "Count", Align: "right"},
	})
	tbl.AddRow([]string{"20240301_100000_photo.jpg", "Beach, sunset", "1"})
	tbl.AddRow([]string{"short.png"}) // missing cells are padded
	return tbl
}

func TestTable_Render(t *testing.T) {
	out := sampleTable().Render()

	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "20240301_100000_photo.jpg")
	assert.Contains(t, out, "short.png")
}

func TestTable_RenderFormat(t *testing.T) {
	tbl := sampleTable()

	csvOut, err := tbl.RenderFormat(FormatCSV)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(csvOut), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.EqualFold("Name,Description,Count", lines[0]), lines[0])
	assert.Contains(t, lines[1], `"Beach, sunset"`)

	md, err := tbl.RenderFormat(FormatMarkdown)
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(md), "| name |")

	_, err = tbl.RenderFormat("xml")
	assert.Error(t, err)
}

func TestTable_Empty(t *testing.T) {
	assert.Equal(t, "", NewTable(nil).Render())
}
