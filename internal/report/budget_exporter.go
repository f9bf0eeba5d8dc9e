// Package report renders budget usage summaries as Excel workbooks.
package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/project-approval/internal/domain/entity"
)

const sheetName = "Budget Usage"

// BudgetExporter renders a project's cumulative budget summary to .xlsx
type BudgetExporter struct {
	logger *zap.Logger
}

// NewBudgetExporter creates a new exporter
func NewBudgetExporter(logger *zap.Logger) *BudgetExporter {
	return &BudgetExporter{logger: logger}
}

var headerRow = []string{
	"Year", "Month", "Opex Budget", "Capex Budget", "Opex Used", "Capex Used",
}

// Export builds the workbook for a budget summary and returns its bytes
func (e *BudgetExporter) Export(project *entity.Project, summary *entity.BudgetSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := e.writeTitle(f, project, summary); err != nil {
		return nil, err
	}

	headerLine := 3
	for col, title := range headerRow {
		cell, err := excelize.CoordinatesToCellName(col+1, headerLine)
		if err != nil {
			return nil, fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	row := headerLine + 1
	for _, entry := range summary.Entries {
		values := []interface{}{
			entry.Year, entry.Month,
			entry.OpexBudget, entry.CapexBudget,
			entry.OpexUsed, entry.CapexUsed,
		}
		if err := e.writeRow(f, row, values); err != nil {
			return nil, err
		}
		row++
	}

	totals := []interface{}{
		"Total", "",
		summary.OpexBudgetTotal, summary.CapexBudgetTotal,
		summary.OpexUsedTotal, summary.CapexUsedTotal,
	}
	if err := e.writeRow(f, row, totals); err != nil {
		return nil, err
	}
	remaining := []interface{}{
		"Remaining", "",
		summary.OpexRemaining, summary.CapexRemaining, "", "",
	}
	if err := e.writeRow(f, row+1, remaining); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	e.logger.Info("Budget report exported",
		zap.Int64("project_id", summary.ProjectID), zap.Int("entries", len(summary.Entries)))
	return buf.Bytes(), nil
}

func (e *BudgetExporter) writeTitle(f *excelize.File, project *entity.Project, summary *entity.BudgetSummary) error {
	title := fmt.Sprintf("%s budget through %d-%02d", project.Name, summary.ThroughYear, summary.ThroughMonth)
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return fmt.Errorf("failed to write title: %w", err)
	}
	subtitle := fmt.Sprintf("Requested amount: %d", project.RequestedAmount)
	if err := f.SetCellValue(sheetName, "A2", subtitle); err != nil {
		return fmt.Errorf("failed to write subtitle: %w", err)
	}
	return nil
}

func (e *BudgetExporter) writeRow(f *excelize.File, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}
	return nil
}
