package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/diet-tracker/backend/internal/domain/error"
	"github.com/diet-tracker/backend/internal/integration/entrypoint/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	engine := gin.New()
	engine.GET("/", handler)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestHealthController_Check(t *testing.T) {
	t.Run("store reachable", func(t *testing.T) {
		h := NewHealthController(func(context.Context) error { return nil }, "local")
		rec := serve(h.Check)

		require.Equal(t, http.StatusOK, rec.Code)
		var body HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "connected", body.Storage)
		assert.Equal(t, "local", body.Mode)
	})

	t.Run("store down", func(t *testing.T) {
		h := NewHealthController(func(context.Context) error { return errors.New("refused") }, "cloud")
		rec := serve(h.Check)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "degraded", body.Status)
		assert.Equal(t, "disconnected", body.Storage)
	})
}

func TestHandleAuthError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "duplicate email",
			err:        domainerror.NewAuthError(domainerror.ErrCodeEmailExists, "email already registered", domainerror.ErrConflict),
			wantStatus: http.StatusConflict,
			wantCode:   "AUTH-010001",
		},
		{
			name:       "wrapped invalid credentials",
			err:        fmt.Errorf("login: %w", domainerror.NewAuthError(domainerror.ErrCodeInvalidCredentials, "invalid email or password", nil)),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "AUTH-020001",
		},
		{
			name:       "store outage without code",
			err:        domainerror.NewStoreError("get user", domainerror.ErrBackendUnavailable, errors.New("dial tcp")),
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "anything else",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(func(c *gin.Context) { handleAuthError(c, tt.err) })

			require.Equal(t, tt.wantStatus, rec.Code)
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestStatusCodeMappings(t *testing.T) {
	entries := &EntryController{}
	assert.Equal(t, http.StatusBadRequest, entries.getStatusCodeForEntryError(domainerror.ErrCodeInvalidEntryDate))
	assert.Equal(t, http.StatusNotFound, entries.getStatusCodeForEntryError(domainerror.ErrCodeEntryNotFound))
	assert.Equal(t, http.StatusServiceUnavailable, entries.getStatusCodeForEntryError(domainerror.ErrCodeEntryStoreUnavailable))
	assert.Equal(t, http.StatusInternalServerError, entries.getStatusCodeForEntryError(domainerror.ErrCodeExportFailed))

	goals := &GoalController{}
	assert.Equal(t, http.StatusBadRequest, goals.getStatusCodeForGoalError(domainerror.ErrCodeInvalidGoalDate))
	assert.Equal(t, http.StatusServiceUnavailable, goals.getStatusCodeForGoalError(domainerror.ErrCodeGoalStoreUnavailable))

	ai := &AIController{}
	assert.Equal(t, http.StatusBadRequest, ai.getStatusCodeForAIError(domainerror.ErrCodeAIEmptyPrompt))
	assert.Equal(t, http.StatusServiceUnavailable, ai.getStatusCodeForAIError(domainerror.ErrCodeAIDisabled))
	assert.Equal(t, http.StatusTooManyRequests, ai.getStatusCodeForAIError(domainerror.ErrCodeAIRateLimited))
	assert.Equal(t, http.StatusGatewayTimeout, ai.getStatusCodeForAIError(domainerror.ErrCodeAITimeout))
	assert.Equal(t, http.StatusBadGateway, ai.getStatusCodeForAIError(domainerror.ErrCodeAIBadResponse))

	assert.Equal(t, http.StatusUnauthorized, getStatusCodeForAuthError(domainerror.ErrCodeExpiredToken))
	assert.Equal(t, http.StatusBadRequest, getStatusCodeForAuthError(domainerror.ErrCodeInvalidConfirmation))
	assert.Equal(t, http.StatusNotFound, getStatusCodeForAuthError(domainerror.ErrCodeProfileNotFound))
}
