package coach

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
)

// HistoryDays is how many of the most recent entries are shared with the coach.
const HistoryDays = 14

// ChatInput represents a question for the coach.
type ChatInput struct {
	UserID  uuid.UUID
	Message string
}

// ChatOutput holds the coach's reply.
type ChatOutput struct {
	Reply string
}

// ChatUseCase answers questions using the user's recent history and goal.
type ChatUseCase struct {
	store adapter.DataStore
	coach adapter.CoachService
}

// NewChatUseCase creates a new ChatUseCase instance.
func NewChatUseCase(store adapter.DataStore, coach adapter.CoachService) *ChatUseCase {
	return &ChatUseCase{
		store: store,
		coach: coach,
	}
}

// Execute performs the chat turn.
func (uc *ChatUseCase) Execute(ctx context.Context, input ChatInput) (*ChatOutput, error) {
	if !uc.coach.IsAvailable() {
		return nil, disabledError()
	}

	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, emptyPromptError()
	}
	if len(message) > maxPromptLength {
		message = message[:maxPromptLength]
	}

	request, err := uc.buildRequest(ctx, input.UserID, message)
	if err != nil {
		return nil, err
	}

	reply, err := uc.coach.Chat(ctx, request)
	if err != nil {
		return nil, classifyError(err)
	}

	return &ChatOutput{Reply: reply}, nil
}

func (uc *ChatUseCase) buildRequest(ctx context.Context, userID uuid.UUID, message string) (*adapter.CoachRequest, error) {
	user, err := uc.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, contextError("user", err)
	}

	entries, err := uc.store.GetEntries(ctx, userID)
	if err != nil {
		return nil, contextError("entries", err)
	}
	entity.SortEntriesByDateDesc(entries)
	if len(entries) > HistoryDays {
		entries = entries[:HistoryDays]
	}

	goal, err := uc.store.GetGoal(ctx, userID)
	if err != nil {
		return nil, contextError("goal", err)
	}

	request := &adapter.CoachRequest{
		Message: message,
		Entries: entries,
		Goal:    goal,
	}
	if user != nil {
		request.UserName = user.Name
	}
	return request, nil
}

func contextError(what string, err error) error {
	if domainerror.IsBackendUnavailable(err) {
		return domainerror.NewAIError(domainerror.ErrCodeAIFailed, "data store unavailable", err)
	}
	return fmt.Errorf("failed to load %s for coach: %w", what, err)
}
