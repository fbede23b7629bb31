package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/diet-tracker/backend/internal/application/usecase/goal"
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
	"github.com/diet-tracker/backend/internal/integration/entrypoint/dto"
)

// GoalController handles weight goal endpoints.
type GoalController struct {
	getUseCase  *goal.GetGoalUseCase
	saveUseCase *goal.SaveGoalUseCase
}

// NewGoalController creates a new goal controller instance.
func NewGoalController(getUseCase *goal.GetGoalUseCase, saveUseCase *goal.SaveGoalUseCase) *GoalController {
	return &GoalController{
		getUseCase:  getUseCase,
		saveUseCase: saveUseCase,
	}
}

// Get handles GET /goal requests.
func (c *GoalController) Get(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), goal.GetGoalInput{UserID: userID})
	if err != nil {
		c.handleGoalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToGoalResponse(output.Goal, output.Progress))
}

// Save handles PUT /goal requests.
func (c *GoalController) Save(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.SaveGoalRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeMissingGoalFields)) {
		return
	}

	output, err := c.saveUseCase.Execute(ctx.Request.Context(), goal.SaveGoalInput{
		UserID:       userID,
		StartWeight:  decimal.NewFromFloat(req.StartWeight),
		TargetWeight: decimal.NewFromFloat(req.TargetWeight),
		StartDate:    req.StartDate,
	})
	if err != nil {
		c.handleGoalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: output.Success})
}

// handleGoalError handles goal errors and returns appropriate HTTP responses.
func (c *GoalController) handleGoalError(ctx *gin.Context, err error) {
	var goalErr *domainerror.GoalError
	if errors.As(err, &goalErr) {
		ctx.JSON(c.getStatusCodeForGoalError(goalErr.Code), dto.ErrorResponse{
			Error: goalErr.Message,
			Code:  string(goalErr.Code),
		})
		return
	}

	respondInternalError(ctx, err)
}

// getStatusCodeForGoalError maps goal error codes to HTTP status codes.
func (c *GoalController) getStatusCodeForGoalError(code domainerror.GoalErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidGoalWeight,
		domainerror.ErrCodeInvalidGoalDate,
		domainerror.ErrCodeMissingGoalFields:
		return http.StatusBadRequest
	case domainerror.ErrCodeGoalStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
