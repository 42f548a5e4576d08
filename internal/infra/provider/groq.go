package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"maya-backend/internal/infra/logger"
)

const groqTranscriptionURL = "https://api.groq.com/openai/v1/audio/transcriptions"

// GroqProvider transcribes audio through Groq's whisper endpoint. It covers
// the languages Deepgram's model set does not, plus the auto-detect mode.
type GroqProvider struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	APIKey     string
	BaseURL    string
	Model      string
}

func NewGroqProvider(logger *logger.Logger, httpClient *http.Client, apiKey string) *GroqProvider {
	return &GroqProvider{
		Logger:     logger,
		HttpClient: httpClient,
		APIKey:     apiKey,
		BaseURL:    groqTranscriptionURL,
		Model:      "whisper-large-v3",
	}
}

// Transcribe uploads the audio as multipart form data and returns the
// transcribed text. The language field is omitted entirely when empty so the
// model detects the language itself.
func (gp *GroqProvider) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fw, err := w.CreateFormFile("file", "audio.webm")
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := fw.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio payload: %w", err)
	}
	if err := w.WriteField("model", gp.Model); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}
	if language != "" {
		if err := w.WriteField("language", language); err != nil {
			return "", fmt.Errorf("failed to write language field: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gp.BaseURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+gp.APIKey)
	req.Header.Set("Content-Type", w.FormDataContentType())

	res, err := gp.HttpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("groq request failed: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read groq response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected groq status %d: %s", res.StatusCode, truncate(string(raw), 300))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal groq response: %w", err)
	}

	return parsed.Text, nil
}
