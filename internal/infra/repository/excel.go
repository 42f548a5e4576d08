package repository

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Sheet1"

// ExcelExporter appends one row per ended session to a workbook. Columns are
// the union of everything exported so far; rows written before a column
// existed stay blank for it.
type ExcelExporter struct {
	Path string
	mu   sync.Mutex
}

func NewExcelExporter(path string) *ExcelExporter {
	return &ExcelExporter{Path: path}
}

// EnsureWorkbook creates an empty workbook when none exists yet.
func (ex *ExcelExporter) EnsureWorkbook() error {
	ex.mu.Lock()
	defer ex.mu.Unlock()

	if _, err := os.Stat(ex.Path); err == nil {
		return nil
	}
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SaveAs(ex.Path); err != nil {
		return fmt.Errorf("failed to create workbook: %w", err)
	}
	return nil
}

// AppendRow flattens nothing itself; callers pass an already flat record.
func (ex *ExcelExporter) AppendRow(record map[string]string) error {
	ex.mu.Lock()
	defer ex.mu.Unlock()

	f, created, err := ex.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	if err != nil {
		return fmt.Errorf("failed to read workbook: %w", err)
	}

	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}
	header = unionColumns(header, record)

	for i, column := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, cell, column); err != nil {
			return err
		}
	}

	rowIndex := len(rows) + 1
	if rowIndex < 2 {
		rowIndex = 2
	}
	for i, column := range header {
		value, ok := record[column]
		if !ok {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, rowIndex)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, cell, value); err != nil {
			return err
		}
	}

	if created {
		return f.SaveAs(ex.Path)
	}
	return f.Save()
}

func (ex *ExcelExporter) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(ex.Path); err == nil {
		f, err := excelize.OpenFile(ex.Path)
		if err != nil {
			return nil, false, fmt.Errorf("failed to open workbook: %w", err)
		}
		return f, false, nil
	}
	return excelize.NewFile(), true, nil
}

// unionColumns keeps the existing column order and appends unseen record
// keys sorted, so repeated exports stay deterministic.
func unionColumns(header []string, record map[string]string) []string {
	seen := make(map[string]bool, len(header))
	for _, column := range header {
		seen[column] = true
	}

	extra := make([]string, 0, len(record))
	for key := range record {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return append(header, extra...)
}
