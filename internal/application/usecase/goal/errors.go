// Package goal contains weight goal use cases.
package goal

import (
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
)

func storeError(message string, err error) error {
	if domainerror.IsBackendUnavailable(err) {
		return domainerror.NewGoalError(domainerror.ErrCodeGoalStoreUnavailable, "data store unavailable", err)
	}
	return domainerror.NewGoalError(domainerror.ErrCodeGoalStoreFailure, message, err)
}
