package dto

import "maya-backend/internal/domain/entities"

// TranscribeResponse is the payload returned by POST /api/transcribe: the
// ordered, fully enriched reply messages for one turn.
type TranscribeResponse struct {
	Messages []entities.ReplyMessage `json:"messages"`
}

// ErrorDetail mirrors the fatal-failure shape of the transcribe endpoint.
type ErrorDetail struct {
	Detail string `json:"detail"`
}
