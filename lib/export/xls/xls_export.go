package xlsexport

import (
	"bytes"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"hr-agent-backend/lib/attrition"
)

type Provider interface {
	// ExportAttrition writes the ranking on one sheet and its aggregates on a second one.
	ExportAttrition(ranking attrition.Ranking) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

func New() Provider {
	return impl{}
}

type impl struct{}

const (
	rankingSheet = "Attrition Risk"
	summarySheet = "Summary"
	// excelize built-in number format "0.00%"
	percentFormat = 10
)

var rankingHeaders = []string{"Rank", "Employee ID", "Name", "Risk Probability", "Risk Band"}

func (i impl) ExportAttrition(ranking attrition.Ranking) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("failed to close workbook")
		}
	}()
	sheet := "Sheet1"
	row, err := writeHeader(f, sheet, 0, rankingHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "write xlsx header")
	}
	if len(ranking.Entries) != 0 {
		if _, err = writeRanking(f, sheet, ranking.Entries, row); err != nil {
			return nil, errors.Wrap(err, "write xlsx ranking rows")
		}
	}
	if err = f.SetSheetName(sheet, rankingSheet); err != nil {
		return nil, errors.Wrap(err, "rename ranking sheet")
	}
	if err = writeSummary(f, ranking); err != nil {
		return nil, errors.Wrap(err, "write xlsx summary")
	}
	return f.WriteToBuffer()
}

func writeRanking(f *excelize.File, sheet string, list []attrition.Entry, row int) (int, error) {
	last := row + len(list)
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(rankingHeaders), last, 0); err != nil {
		return row, err
	}
	if err := applyDataCellStyle(f, sheet, 4, row+1, 4, last, percentFormat); err != nil {
		return row, err
	}
	for idx, item := range list {
		row++
		values := []interface{}{idx + 1, item.EmployeeID, item.Name, item.Probability, string(item.Band)}
		for col, value := range values {
			if err := writeColumn(f, sheet, col+1, row, value); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}

func writeSummary(f *excelize.File, ranking attrition.Ranking) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	row, err := writeHeader(f, summarySheet, 0, []string{"Metric", "Value"})
	if err != nil {
		return err
	}
	lines := []struct {
		name  string
		value interface{}
	}{
		{"Employees analyzed", ranking.Total},
		{"Average risk", ranking.MeanRisk},
		{"Risk above 50%", ranking.AboveHalf},
		{"Risk above 70%", ranking.AboveSeventy},
		{"Top N", ranking.TopN},
	}
	if err = applyDataCellStyle(f, summarySheet, 1, row+1, 2, row+len(lines), 0); err != nil {
		return err
	}
	for _, line := range lines {
		row++
		if err = writeColumn(f, summarySheet, 1, row, line.name); err != nil {
			return err
		}
		if err = writeColumn(f, summarySheet, 2, row, line.value); err != nil {
			return err
		}
	}
	return nil
}
