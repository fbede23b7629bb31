// Package entry contains daily entry use cases.
package entry

import (
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
)

// storeError maps a data store failure to an EntryError.
func storeError(message string, err error) error {
	if domainerror.IsBackendUnavailable(err) {
		return domainerror.NewEntryError(domainerror.ErrCodeEntryStoreUnavailable, "data store unavailable", err)
	}
	return domainerror.NewEntryError(domainerror.ErrCodeEntryStoreFailure, message, err)
}
