package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExcelAppendCreatesWorkbook(t *testing.T) {
	t.Parallel()

	exporter := NewExcelExporter(filepath.Join(t.TempDir(), "User_Data.xlsx"))
	require.NoError(t, exporter.AppendRow(map[string]string{"Name": "Omar", "Country": "Germany"}))

	f, err := excelize.OpenFile(exporter.Path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.ElementsMatch(t, []string{"Name", "Country"}, rows[0])
}

func TestExcelAppendUnionsColumnsAcrossSessions(t *testing.T) {
	t.Parallel()

	exporter := NewExcelExporter(filepath.Join(t.TempDir(), "User_Data.xlsx"))
	require.NoError(t, exporter.AppendRow(map[string]string{"Name": "Omar"}))
	require.NoError(t, exporter.AppendRow(map[string]string{"Name": "Lina", "Languages": `["german"]`}))

	f, err := excelize.OpenFile(exporter.Path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"Name", "Languages"}, rows[0])

	// The first row predates the Languages column and stays blank there.
	require.Equal(t, "Omar", rows[1][0])
	require.Equal(t, "Lina", rows[2][0])
	require.Equal(t, `["german"]`, rows[2][1])
}

func TestExcelEnsureWorkbookIsIdempotent(t *testing.T) {
	t.Parallel()

	exporter := NewExcelExporter(filepath.Join(t.TempDir(), "User_Data.xlsx"))
	require.NoError(t, exporter.EnsureWorkbook())
	require.NoError(t, exporter.AppendRow(map[string]string{"Name": "Omar"}))
	require.NoError(t, exporter.EnsureWorkbook())

	f, err := excelize.OpenFile(exporter.Path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}
