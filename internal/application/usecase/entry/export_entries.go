package entry

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
)

// ExportEntriesInput represents the input for exporting entries.
type ExportEntriesInput struct {
	UserID uuid.UUID
}

// ExportEntriesOutput holds the rendered document.
type ExportEntriesOutput struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportEntriesUseCase renders the caller's history as a spreadsheet.
type ExportEntriesUseCase struct {
	store    adapter.DataStore
	exporter adapter.EntryExporter
	now      func() time.Time
}

// NewExportEntriesUseCase creates a new ExportEntriesUseCase instance.
func NewExportEntriesUseCase(store adapter.DataStore, exporter adapter.EntryExporter) *ExportEntriesUseCase {
	return &ExportEntriesUseCase{
		store:    store,
		exporter: exporter,
		now:      time.Now,
	}
}

// Execute performs the export. Rows are ordered newest first.
func (uc *ExportEntriesUseCase) Execute(ctx context.Context, input ExportEntriesInput) (*ExportEntriesOutput, error) {
	entries, err := uc.store.GetEntries(ctx, input.UserID)
	if err != nil {
		return nil, storeError("failed to load entries", err)
	}
	entity.SortEntriesByDateDesc(entries)

	var buf bytes.Buffer
	if err := uc.exporter.WriteEntries(&buf, entries); err != nil {
		return nil, domainerror.NewEntryError(
			domainerror.ErrCodeExportFailed,
			"failed to export entries",
			err,
		)
	}

	return &ExportEntriesOutput{
		Content:     buf.Bytes(),
		ContentType: uc.exporter.ContentType(),
		Filename:    "diet-entries-" + uc.now().UTC().Format(entity.DateLayout) + uc.exporter.FileExtension(),
	}, nil
}
