package adapter

import (
	"io"

	"github.com/diet-tracker/backend/internal/domain/entity"
)

// EntryExporter renders daily entries into a downloadable document.
type EntryExporter interface {
	// WriteEntries writes the entries to w. Entries are written in the given order.
	WriteEntries(w io.Writer, entries []*entity.DailyEntry) error

	// ContentType returns the MIME type of the produced document.
	ContentType() string

	// FileExtension returns the file extension, including the dot.
	FileExtension() string
}
