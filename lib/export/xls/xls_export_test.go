package xlsexport

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"hr-agent-backend/lib/attrition"
)

func TestExportAttrition(t *testing.T) {
	t.Run(`ranking and summary sheets check`, func(t *testing.T) {
		buf, err := New().ExportAttrition(attrition.Ranking{
			TopN: 2,
			Entries: []attrition.Entry{
				{EmployeeID: "7", Name: "Ann Lee", Probability: 0.91, Band: attrition.BandCritical},
				{EmployeeID: "3", Name: "Bob Kim", Probability: 0.55, Band: attrition.BandHigh},
			},
			Total:        10,
			MeanRisk:     0.42,
			AboveHalf:    2,
			AboveSeventy: 1,
		})
		require.NoError(t, err)

		f, err := excelize.OpenReader(buf)
		require.NoError(t, err)
		defer f.Close()
		require.Equal(t, []string{rankingSheet, summarySheet}, f.GetSheetList())

		rows, err := f.GetRows(rankingSheet)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		require.Equal(t, rankingHeaders, rows[0])
		require.Equal(t, "Ann Lee", rows[1][2])
		require.Equal(t, "CRITICAL", rows[1][4])

		value, err := f.GetCellValue(summarySheet, "B2")
		require.NoError(t, err)
		require.Equal(t, "10", value)
	})

	t.Run(`empty ranking keeps the header check`, func(t *testing.T) {
		buf, err := New().ExportAttrition(attrition.Ranking{})
		require.NoError(t, err)
		f, err := excelize.OpenReader(buf)
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows(rankingSheet)
		require.NoError(t, err)
		require.Len(t, rows, 1)
	})
}
