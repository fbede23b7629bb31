// Package export renders daily entries as spreadsheets.
package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
)

// SheetName is the name of the worksheet holding the entries.
const SheetName = "Entries"

var defaultSlots = []string{
	entity.MealSlotBreakfast,
	entity.MealSlotLunch,
	entity.MealSlotDinner,
	entity.MealSlotSnacks,
}

type xlsxExporter struct{}

// NewXLSXExporter creates an exporter producing Excel workbooks.
func NewXLSXExporter() adapter.EntryExporter {
	return &xlsxExporter{}
}

func (e *xlsxExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *xlsxExporter) FileExtension() string {
	return ".xlsx"
}

// WriteEntries writes one row per entry. The standard meal slots always get a
// column; any other slot found in the entries is appended in name order.
func (e *xlsxExporter) WriteEntries(w io.Writer, entries []*entity.DailyEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	slots := mealSlots(entries)

	header := []interface{}{"Date", "Weight", "Notes"}
	for _, slot := range slots {
		header = append(header, slot)
	}
	header = append(header, "Habits")

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, entry := range entries {
		row := []interface{}{entry.Date, weightCell(entry), ""}
		if entry.Notes != nil {
			row[2] = *entry.Notes
		}
		for _, slot := range slots {
			row = append(row, entry.Meals[slot])
		}
		row = append(row, fmt.Sprintf("%d/%d", entry.CompletedHabits(), len(entry.Habits)))

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "C", lastCol, 28); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func weightCell(entry *entity.DailyEntry) interface{} {
	if !entry.Weight.Valid {
		return ""
	}
	return entry.Weight.Decimal.InexactFloat64()
}

func mealSlots(entries []*entity.DailyEntry) []string {
	seen := make(map[string]bool, len(defaultSlots))
	for _, s := range defaultSlots {
		seen[s] = true
	}

	var extra []string
	for _, entry := range entries {
		for slot := range entry.Meals {
			if !seen[slot] {
				seen[slot] = true
				extra = append(extra, slot)
			}
		}
	}
	sort.Strings(extra)

	return append(append([]string{}, defaultSlots...), extra...)
}
