package Iservices

import (
	"context"

	"maya-backend/internal/domain/entities"
)

// IChatService covers the four text-generation surfaces of the backend.
// GenerateReply enforces the strict {"messages":[...]} response schema and
// fails hard on violations; the other calls return whatever structure the
// model produced so callers can decide how to degrade.
type IChatService interface {
	// GenerateReply produces the ordered reply messages for one turn, given
	// the full utterance history and the newest transcript.
	GenerateReply(ctx context.Context, userHistory, botHistory []string, transcript string) ([]entities.ReplyMessage, error)

	// UpdatePersona regenerates the persona document from its current state
	// and the newest transcript.
	UpdatePersona(ctx context.Context, persona map[string]any, transcript string) (map[string]any, error)

	// ExtractFormFields derives form-field updates from one question/answer
	// pair. Only the changed fields are returned.
	ExtractFormFields(ctx context.Context, current map[string]string, question, answer string) (map[string]string, error)

	// Recommend runs the search-augmented recommendation call over the
	// geocoded persona document and returns free text.
	Recommend(ctx context.Context, persona map[string]any) (string, error)
}
