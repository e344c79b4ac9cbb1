package reports

import (
	"fmt"

	"bitbucket.org/crestline/charters_recon/recon"
	"bitbucket.org/crestline/charters_recon/utils"
	"github.com/xuri/excelize/v2"
)

// ExportExcel writes one run's results to an xlsx workbook for the office
// staff who review orphans in a spreadsheet rather than the console.
func ExportExcel(filename string, runId string, summary ReconciliationSummary, results []recon.MatchResult) error {

	f := excelize.NewFile()
	sheetName := "Reconciliation"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// Add headers
	f.SetCellValue(sheetName, "A1", "RecordId")
	f.SetCellValue(sheetName, "B1", "TransactionId")
	f.SetCellValue(sheetName, "C1", "Status")
	f.SetCellValue(sheetName, "D1", "DateDeltaDays")
	f.SetCellValue(sheetName, "E1", "Note")

	// Add data
	for i, r := range results {
		row := i + 2
		f.SetCellValue(sheetName, "A"+fmt.Sprint(row), r.RecordID)
		if r.Status == recon.MatchStatusMatched {
			f.SetCellValue(sheetName, "B"+fmt.Sprint(row), utils.DereferencePtr(r.TransactionID))
			f.SetCellValue(sheetName, "D"+fmt.Sprint(row), r.DateDeltaDays)
		}
		f.SetCellValue(sheetName, "C"+fmt.Sprint(row), string(r.Status))
		f.SetCellValue(sheetName, "E"+fmt.Sprint(row), r.Note)
	}

	summarySheet := "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	f.SetCellValue(summarySheet, "A1", "RunId")
	f.SetCellValue(summarySheet, "B1", runId)
	f.SetCellValue(summarySheet, "A2", "Records")
	f.SetCellValue(summarySheet, "B2", summary.Total)
	f.SetCellValue(summarySheet, "A3", "Matched")
	f.SetCellValue(summarySheet, "B3", summary.Matched)
	f.SetCellValue(summarySheet, "A4", "Unmatched")
	f.SetCellValue(summarySheet, "B4", summary.Unmatched)
	f.SetCellValue(summarySheet, "A5", "MatchRatePercent")
	f.SetCellValue(summarySheet, "B5", summary.MatchRatePercent)

	if err := f.SaveAs(filename); err != nil {
		return err
	}
	return nil
}
