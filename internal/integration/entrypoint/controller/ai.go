package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/diet-tracker/backend/internal/application/usecase/coach"
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
	"github.com/diet-tracker/backend/internal/integration/entrypoint/dto"
)

// AIController handles the AI coach endpoints.
type AIController struct {
	parseMealUseCase *coach.ParseMealUseCase
	chatUseCase      *coach.ChatUseCase
}

// NewAIController creates a new AI controller instance.
func NewAIController(parseMealUseCase *coach.ParseMealUseCase, chatUseCase *coach.ChatUseCase) *AIController {
	return &AIController{
		parseMealUseCase: parseMealUseCase,
		chatUseCase:      chatUseCase,
	}
}

// ParseMeal handles POST /ai/parse-meal requests.
func (c *AIController) ParseMeal(ctx *gin.Context) {
	if _, ok := requireUser(ctx); !ok {
		return
	}

	var req dto.ParseMealRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeAIEmptyPrompt)) {
		return
	}

	output, err := c.parseMealUseCase.Execute(ctx.Request.Context(), coach.ParseMealInput{Text: req.Text})
	if err != nil {
		c.handleAIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ParseMealResponse{
		Meals:             output.Meals,
		EstimatedCalories: output.EstimatedCalories,
		Notes:             output.Notes,
	})
}

// Chat handles POST /ai/chat requests.
func (c *AIController) Chat(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.ChatRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeAIEmptyPrompt)) {
		return
	}

	output, err := c.chatUseCase.Execute(ctx.Request.Context(), coach.ChatInput{
		UserID:  userID,
		Message: req.Message,
	})
	if err != nil {
		c.handleAIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ChatResponse{Reply: output.Reply})
}

// handleAIError handles AI errors and returns appropriate HTTP responses.
func (c *AIController) handleAIError(ctx *gin.Context, err error) {
	var aiErr *domainerror.AIError
	if errors.As(err, &aiErr) {
		ctx.JSON(c.getStatusCodeForAIError(aiErr.Code), dto.ErrorResponse{
			Error: aiErr.Message,
			Code:  string(aiErr.Code),
		})
		return
	}

	respondInternalError(ctx, err)
}

// getStatusCodeForAIError maps AI error codes to HTTP status codes.
func (c *AIController) getStatusCodeForAIError(code domainerror.AIErrorCode) int {
	switch code {
	case domainerror.ErrCodeAIEmptyPrompt:
		return http.StatusBadRequest
	case domainerror.ErrCodeAIDisabled, domainerror.ErrCodeAIFailed:
		return http.StatusServiceUnavailable
	case domainerror.ErrCodeAIRateLimited:
		return http.StatusTooManyRequests
	case domainerror.ErrCodeAITimeout:
		return http.StatusGatewayTimeout
	case domainerror.ErrCodeAIBadResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
