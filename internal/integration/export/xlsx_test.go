package export

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/diet-tracker/backend/internal/domain/entity"
)

func TestXLSXExporter_WriteEntries(t *testing.T) {
	notes := "felt good"
	entries := []*entity.DailyEntry{
		{
			ID:     uuid.New(),
			Date:   "2024-01-02",
			Weight: decimal.NewNullDecimal(decimal.RequireFromString("69.5")),
			Notes:  &notes,
			Meals:  map[string]string{"breakfast": "oats", "brunch": "eggs"},
			Habits: map[string]bool{"water": true, "walk": false},
		},
		{
			ID:     uuid.New(),
			Date:   "2024-01-01",
			Meals:  map[string]string{},
			Habits: map[string]bool{},
		},
	}

	var buf bytes.Buffer
	exporter := NewXLSXExporter()
	if err := exporter.WriteEntries(&buf, entries); err != nil {
		t.Fatalf("WriteEntries() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	wantHeader := []string{"Date", "Weight", "Notes", "breakfast", "lunch", "dinner", "snacks", "brunch", "Habits"}
	for i, h := range wantHeader {
		if rows[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], h)
		}
	}

	first := rows[1]
	if first[0] != "2024-01-02" || first[1] != "69.5" || first[2] != "felt good" {
		t.Errorf("unexpected first row: %v", first)
	}
	if first[3] != "oats" || first[7] != "eggs" {
		t.Errorf("unexpected meal cells: %v", first)
	}
	if first[8] != "1/2" {
		t.Errorf("habits = %q, want 1/2", first[8])
	}

	// Trailing empty cells are trimmed by GetRows.
	second := rows[2]
	if second[0] != "2024-01-01" || second[len(second)-1] != "0/0" {
		t.Errorf("unexpected second row: %v", second)
	}
}

func TestXLSXExporter_Metadata(t *testing.T) {
	e := NewXLSXExporter()
	if e.FileExtension() != ".xlsx" {
		t.Errorf("unexpected extension %q", e.FileExtension())
	}
	if e.ContentType() == "" {
		t.Error("expected content type")
	}
}
