package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSynthesizeStreamsPCM(t *testing.T) {
	t.Parallel()

	pcm := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "el-key", r.Header.Get("xi-api-key"))
		require.True(t, strings.HasSuffix(r.URL.Path, "/voice-123/stream"))
		require.Equal(t, "pcm_44100", r.URL.Query().Get("output_format"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "hello there", body["text"])
		require.Equal(t, "eleven_flash_v2_5", body["model_id"])

		w.Write(pcm)
	}))
	defer server.Close()

	ep := NewElevenLabsProvider(testLogger(), server.Client(), "el-key")
	ep.BaseURL = server.URL

	audio, err := ep.Synthesize(context.Background(), "hello there", "voice-123")
	require.NoError(t, err)
	require.Equal(t, pcm, audio)
}

func TestSynthesizeRejectsEmptyVoice(t *testing.T) {
	t.Parallel()

	ep := NewElevenLabsProvider(testLogger(), http.DefaultClient, "el-key")
	_, err := ep.Synthesize(context.Background(), "hello", "")
	require.Error(t, err)
}

func TestSynthesizeUpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":{"status":"quota_exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	ep := NewElevenLabsProvider(testLogger(), server.Client(), "el-key")
	ep.BaseURL = server.URL

	_, err := ep.Synthesize(context.Background(), "hello", "voice-123")
	require.ErrorContains(t, err, "429")
}
