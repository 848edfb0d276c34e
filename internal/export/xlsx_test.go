package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/LoadPlan/internal/model"
)

func TestExportExcel_Sheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	require.NoError(t, ExportExcel(path, buildTestPlan()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetPlacements}, f.GetSheetList())

	rows, err := f.GetRows(SheetPlacements)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Item", rows[0][1])
	assert.Equal(t, []string{"3", "B7", "B", "0", "205", "0", "485", "385", "200"}, rows[3][:9])
	assert.Equal(t, "#4", rows[4][1])
}

func TestExportExcel_Summary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	require.NoError(t, ExportExcel(path, buildTestPlan()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetSummary)
	require.NoError(t, err)

	values := map[string]string{}
	for _, r := range rows[1:] {
		if len(r) == 2 {
			values[r[0]] = r[1]
		}
	}
	assert.Equal(t, "20 HC", values["Container"])
	assert.Equal(t, "62.5", values["Volume Utilization (%)"])
	assert.Equal(t, "4", values["Loaded"])
	assert.Equal(t, "run-1", values["Run"])
}

func TestExportExcel_NotPlacedSheet(t *testing.T) {
	plan := buildTestPlan()
	plan.Result.NotPlaced = []model.NotPlaced{{ItemID: "A1", Quantity: 9}}
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	require.NoError(t, ExportExcel(path, plan))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetNotPlaced)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Item", "Quantity"}, {"A1", "9"}}, rows)
}

func TestExportExcel_NoPlan(t *testing.T) {
	assert.ErrorIs(t, ExportExcel(filepath.Join(t.TempDir(), "x.xlsx"), nil), ErrNoPlan)
}
