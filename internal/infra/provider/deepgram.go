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

const deepgramListenURL = "https://api.deepgram.com/v1/listen"

// DeepgramProvider transcribes prerecorded audio through Deepgram's REST API.
type DeepgramProvider struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	APIKey     string
	BaseURL    string
	Model      string
}

func NewDeepgramProvider(logger *logger.Logger, httpClient *http.Client, apiKey string) *DeepgramProvider {
	return &DeepgramProvider{
		Logger:     logger,
		HttpClient: httpClient,
		APIKey:     apiKey,
		BaseURL:    deepgramListenURL,
		Model:      "nova-2-general",
	}
}

// Transcribe sends the audio buffer to Deepgram and returns the transcript of
// the first channel alternative. An empty language enables auto-detection.
func (dp *DeepgramProvider) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	q := url.Values{}
	q.Set("model", dp.Model)
	q.Set("smart_format", "true")
	if language == "" {
		q.Set("detect_language", "true")
	} else {
		q.Set("language", language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dp.BaseURL+"?"+q.Encode(), bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+dp.APIKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	res, err := dp.HttpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepgram request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read deepgram response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected deepgram status %d: %s", res.StatusCode, truncate(string(body), 300))
	}

	var parsed struct {
		Results struct {
			Channels []struct {
				Alternatives []struct {
					Transcript string `json:"transcript"`
				} `json:"alternatives"`
			} `json:"channels"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal deepgram response: %w", err)
	}
	if len(parsed.Results.Channels) == 0 || len(parsed.Results.Channels[0].Alternatives) == 0 {
		return "", fmt.Errorf("deepgram response has no transcript alternatives")
	}

	return parsed.Results.Channels[0].Alternatives[0].Transcript, nil
}
