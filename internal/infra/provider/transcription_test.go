package provider

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"maya-backend/internal/infra/logger"
)

func testLogger() *logger.Logger {
	return logger.NewLogger(context.Background(), "error", false)
}

func TestDeepgramTranscribe(t *testing.T) {
	t.Parallel()

	var gotAuth, gotLanguage, gotDetect string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotLanguage = r.URL.Query().Get("language")
		gotDetect = r.URL.Query().Get("detect_language")
		gotBody, _ = io.ReadAll(r.Body)
		require.Equal(t, "nova-2-general", r.URL.Query().Get("model"))
		require.Equal(t, "true", r.URL.Query().Get("smart_format"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":"guten tag"}]}]}}`))
	}))
	defer server.Close()

	dp := NewDeepgramProvider(testLogger(), server.Client(), "dg-key")
	dp.BaseURL = server.URL

	text, err := dp.Transcribe(context.Background(), []byte("opus-audio"), "de")
	require.NoError(t, err)
	require.Equal(t, "guten tag", text)
	require.Equal(t, "Token dg-key", gotAuth)
	require.Equal(t, "de", gotLanguage)
	require.Empty(t, gotDetect)
	require.Equal(t, []byte("opus-audio"), gotBody)
}

func TestDeepgramTranscribeAutoDetectsWithoutCode(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "true", r.URL.Query().Get("detect_language"))
		require.Empty(t, r.URL.Query().Get("language"))
		w.Write([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":"hello"}]}]}}`))
	}))
	defer server.Close()

	dp := NewDeepgramProvider(testLogger(), server.Client(), "dg-key")
	dp.BaseURL = server.URL

	text, err := dp.Transcribe(context.Background(), []byte("x"), "")
	require.NoError(t, err)
	require.Equal(t, "hello", text)
}

func TestDeepgramTranscribeUpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"err_code":"INVALID_AUTH"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	dp := NewDeepgramProvider(testLogger(), server.Client(), "bad-key")
	dp.BaseURL = server.URL

	_, err := dp.Transcribe(context.Background(), []byte("x"), "en")
	require.Error(t, err)
}

func TestGroqTranscribeMultipart(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer gq-key", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "whisper-large-v3", r.FormValue("model"))
		require.Equal(t, "ar", r.FormValue("language"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "audio.webm", header.Filename)

		w.Write([]byte(`{"text":"مرحبا"}`))
	}))
	defer server.Close()

	gp := NewGroqProvider(testLogger(), server.Client(), "gq-key")
	gp.BaseURL = server.URL

	text, err := gp.Transcribe(context.Background(), []byte("webm"), "ar")
	require.NoError(t, err)
	require.Equal(t, "مرحبا", text)
}

func TestGroqTranscribeOmitsLanguageForAuto(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, present := r.MultipartForm.Value["language"]
		require.False(t, present, "language field must be omitted for auto-detect")
		w.Write([]byte(`{"text":"hola"}`))
	}))
	defer server.Close()

	gp := NewGroqProvider(testLogger(), server.Client(), "gq-key")
	gp.BaseURL = server.URL

	text, err := gp.Transcribe(context.Background(), []byte("webm"), "")
	require.NoError(t, err)
	require.Equal(t, "hola", text)
}
