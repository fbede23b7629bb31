package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
)

// GeminiCoach implements adapter.CoachService using Google Gemini.
type GeminiCoach struct {
	apiKey    string
	modelName string
}

// NewGeminiCoach creates a new Gemini coach. An empty key disables the service.
func NewGeminiCoach(apiKey, modelName string) *GeminiCoach {
	if modelName == "" {
		modelName = "gemini-2.5-flash-lite"
	}
	return &GeminiCoach{
		apiKey:    apiKey,
		modelName: modelName,
	}
}

// IsAvailable checks if the Gemini service is properly configured.
func (s *GeminiCoach) IsAvailable() bool {
	return s.apiKey != ""
}

// ParseMeals asks the model to split a free-text description into meal slots.
func (s *GeminiCoach) ParseMeals(ctx context.Context, text string) (*adapter.ParsedMeals, error) {
	reply, err := s.generate(ctx, 0.2, true, buildParseMealsPrompt(text))
	if err != nil {
		return nil, err
	}
	return parseMealsResponse(reply)
}

// Chat answers a question with the user's recent entries and goal as context.
func (s *GeminiCoach) Chat(ctx context.Context, request *adapter.CoachRequest) (string, error) {
	reply, err := s.generate(ctx, 0.7, false, buildChatPrompt(request))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func (s *GeminiCoach) generate(ctx context.Context, temperature float32, jsonOutput bool, prompt string) (string, error) {
	if !s.IsAvailable() {
		return "", fmt.Errorf("gemini service is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.modelName)
	model.SetTemperature(temperature)
	if jsonOutput {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in response")
	}
	return sb.String(), nil
}

func buildParseMealsPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("You are a nutrition assistant. Split the following description of what a person ate today into meal slots.\n")
	sb.WriteString("Use only these slots: breakfast, lunch, dinner, snacks. Omit slots with nothing in them.\n")
	sb.WriteString("Estimate the total calories for the day as an integer.\n\n")
	sb.WriteString("Description:\n")
	sb.WriteString(text)
	sb.WriteString(`

Respond with a single JSON object:
{"meals": {"breakfast": "..."}, "estimated_calories": 0, "notes": "short remark"}
`)
	return sb.String()
}

func buildChatPrompt(request *adapter.CoachRequest) string {
	var sb strings.Builder
	sb.WriteString("You are a friendly, practical diet coach. Answer briefly and base advice on the user's log.\n\n")

	if request.UserName != "" {
		fmt.Fprintf(&sb, "User: %s\n", request.UserName)
	}
	if request.Goal != nil {
		fmt.Fprintf(&sb, "Goal: from %s kg to %s kg, started %s\n",
			request.Goal.StartWeight.String(), request.Goal.TargetWeight.String(), request.Goal.StartDate)
	}

	if len(request.Entries) > 0 {
		sb.WriteString("Recent days:\n")
		for _, e := range request.Entries {
			writeEntryLine(&sb, e)
		}
	}

	sb.WriteString("\nQuestion:\n")
	sb.WriteString(request.Message)
	sb.WriteString("\n")
	return sb.String()
}

func writeEntryLine(sb *strings.Builder, e *entity.DailyEntry) {
	fmt.Fprintf(sb, "- %s", e.Date)
	if e.Weight.Valid {
		fmt.Fprintf(sb, " weight %s kg", e.Weight.Decimal.String())
	}
	for _, slot := range []string{entity.MealSlotBreakfast, entity.MealSlotLunch, entity.MealSlotDinner, entity.MealSlotSnacks} {
		if content := e.Meals[slot]; content != "" {
			fmt.Fprintf(sb, "; %s: %s", slot, content)
		}
	}
	if len(e.Habits) > 0 {
		fmt.Fprintf(sb, "; habits %d/%d", e.CompletedHabits(), len(e.Habits))
	}
	sb.WriteString("\n")
}

type geminiParsedMeals struct {
	Meals             map[string]string `json:"meals"`
	EstimatedCalories int               `json:"estimated_calories"`
	Notes             string            `json:"notes"`
}

// parseMealsResponse decodes the model's JSON, tolerating markdown fences.
func parseMealsResponse(text string) (*adapter.ParsedMeals, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var parsed geminiParsedMeals
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", domainerror.ErrAIBadResponse, err)
	}

	meals := make(map[string]string, len(parsed.Meals))
	for slot, content := range parsed.Meals {
		slot = strings.ToLower(strings.TrimSpace(slot))
		if content = strings.TrimSpace(content); content != "" {
			meals[slot] = content
		}
	}

	return &adapter.ParsedMeals{
		Meals:             meals,
		EstimatedCalories: parsed.EstimatedCalories,
		Notes:             parsed.Notes,
	}, nil
}
