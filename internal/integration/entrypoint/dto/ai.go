package dto

// ParseMealRequest is the body of POST /ai/parse-meal.
type ParseMealRequest struct {
	Text string `json:"text"`
}

// ParseMealResponse holds the text split into meal slots.
type ParseMealResponse struct {
	Meals             map[string]string `json:"meals"`
	EstimatedCalories int               `json:"estimated_calories"`
	Notes             string            `json:"notes,omitempty"`
}

// ChatRequest is the body of POST /ai/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse holds the coach reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}
