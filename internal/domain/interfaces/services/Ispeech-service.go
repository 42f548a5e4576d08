package Iservices

import (
	"context"

	"maya-backend/internal/domain/entities"
)

// ISpeechSynthesizer converts reply text into raw PCM16 mono audio at the
// pipeline sample rate.
type ISpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// IVisemeExtractor derives a timed mouth-shape timeline from a WAV file on
// disk. Implementations may shell out to an external analysis tool.
type IVisemeExtractor interface {
	ExtractVisemes(ctx context.Context, wavPath, outPath string) (*entities.Lipsync, error)
}
