package Iservices

import "context"

// ISpeechToText is implemented by each transcription provider client.
// The language code may be empty, which asks the provider to auto-detect
// the spoken language.
type ISpeechToText interface {
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
}
