package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"maya-backend/internal/infra/logger"
)

const elevenLabsBaseURL = "https://api.elevenlabs.io/v1/text-to-speech"

// ElevenLabsProvider synthesizes speech as raw PCM16 mono at 44.1 kHz. The
// provider streams the audio in chunks; they are concatenated into one buffer
// before WAV framing happens downstream.
type ElevenLabsProvider struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	APIKey     string
	BaseURL    string
	Model      string
}

func NewElevenLabsProvider(logger *logger.Logger, httpClient *http.Client, apiKey string) *ElevenLabsProvider {
	return &ElevenLabsProvider{
		Logger:     logger,
		HttpClient: httpClient,
		APIKey:     apiKey,
		BaseURL:    elevenLabsBaseURL,
		Model:      "eleven_flash_v2_5",
	}
}

// Synthesize converts text into raw PCM bytes using the given voice.
func (ep *ElevenLabsProvider) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if voiceID == "" {
		return nil, fmt.Errorf("voice id cannot be empty")
	}

	payload, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": ep.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	q := url.Values{}
	q.Set("output_format", "pcm_44100")
	q.Set("optimize_streaming_latency", "4")
	endpoint := fmt.Sprintf("%s/%s/stream?%s", ep.BaseURL, url.PathEscape(voiceID), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("xi-api-key", ep.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := ep.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("unexpected elevenlabs status %d: %s", res.StatusCode, truncate(string(body), 300))
	}

	// Drain chunk by chunk so the streamed response lands in one buffer.
	var audio bytes.Buffer
	chunk := make([]byte, 32*1024)
	for {
		n, err := res.Body.Read(chunk)
		if n > 0 {
			audio.Write(chunk[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read audio stream: %w", err)
		}
	}

	return audio.Bytes(), nil
}
