package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/diet-tracker/backend/internal/application/usecase/entry"
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
	"github.com/diet-tracker/backend/internal/integration/entrypoint/dto"
)

// EntryController handles daily entry endpoints.
type EntryController struct {
	listUseCase   *entry.ListEntriesUseCase
	saveUseCase   *entry.SaveEntryUseCase
	deleteUseCase *entry.DeleteEntryUseCase
	exportUseCase *entry.ExportEntriesUseCase
}

// NewEntryController creates a new entry controller instance.
func NewEntryController(
	listUseCase *entry.ListEntriesUseCase,
	saveUseCase *entry.SaveEntryUseCase,
	deleteUseCase *entry.DeleteEntryUseCase,
	exportUseCase *entry.ExportEntriesUseCase,
) *EntryController {
	return &EntryController{
		listUseCase:   listUseCase,
		saveUseCase:   saveUseCase,
		deleteUseCase: deleteUseCase,
		exportUseCase: exportUseCase,
	}
}

// List handles GET /entries requests.
func (c *EntryController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), entry.ListEntriesInput{UserID: userID})
	if err != nil {
		c.handleEntryError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToEntryListResponse(output.Entries))
}

// Save handles PUT /entries requests.
func (c *EntryController) Save(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.SaveEntryRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeMissingEntryDate)) {
		return
	}

	output, err := c.saveUseCase.Execute(ctx.Request.Context(), entry.SaveEntryInput{
		UserID: userID,
		Date:   req.Date,
		Weight: dto.ToNullDecimal(req.Weight),
		Notes:  req.Notes,
		Meals:  req.Meals,
		Habits: req.Habits,
	})
	if err != nil {
		c.handleEntryError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.IDResponse{ID: output.ID.String()})
}

// Delete handles DELETE /entries/:id requests.
func (c *EntryController) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	entryID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		// A malformed id cannot match any entry.
		ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
		return
	}

	output, err := c.deleteUseCase.Execute(ctx.Request.Context(), entry.DeleteEntryInput{
		UserID:  userID,
		EntryID: entryID,
	})
	if err != nil {
		c.handleEntryError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: output.Success})
}

// Export handles GET /entries/export requests.
func (c *EntryController) Export(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.exportUseCase.Execute(ctx.Request.Context(), entry.ExportEntriesInput{UserID: userID})
	if err != nil {
		c.handleEntryError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+output.Filename+`"`)
	ctx.Data(http.StatusOK, output.ContentType, output.Content)
}

// handleEntryError handles entry errors and returns appropriate HTTP responses.
func (c *EntryController) handleEntryError(ctx *gin.Context, err error) {
	var entryErr *domainerror.EntryError
	if errors.As(err, &entryErr) {
		ctx.JSON(c.getStatusCodeForEntryError(entryErr.Code), dto.ErrorResponse{
			Error: entryErr.Message,
			Code:  string(entryErr.Code),
		})
		return
	}

	respondInternalError(ctx, err)
}

// getStatusCodeForEntryError maps entry error codes to HTTP status codes.
func (c *EntryController) getStatusCodeForEntryError(code domainerror.EntryErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidEntryDate,
		domainerror.ErrCodeInvalidWeight,
		domainerror.ErrCodeMissingEntryDate:
		return http.StatusBadRequest
	case domainerror.ErrCodeEntryNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeEntryStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
