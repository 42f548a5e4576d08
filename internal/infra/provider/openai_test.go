package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func chatCompletion(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(body)
}

func TestGenerateReplyParsesMessages(t *testing.T) {
	t.Parallel()

	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(chatCompletion(`{"messages":[{"text":"Hi, I am Maya","facialExpression":"smile","animation":"Talking_1"}]}`)))
	}))
	defer server.Close()

	op := NewOpenAIProvider(testLogger(), server.Client(), "sk-test")
	op.BaseURL = server.URL

	messages, err := op.GenerateReply(context.Background(), []string{"hello"}, nil, "hello")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, "Hi, I am Maya", messages[0].Text)
	require.Equal(t, "smile", messages[0].FacialExpression)

	require.Equal(t, "gpt-4.1", gotReq.Model)
	require.Equal(t, map[string]any{"type": "json_object"}, gotReq.ResponseFormat)
	require.Equal(t, "hello", gotReq.Messages[len(gotReq.Messages)-1].Content)
}

func TestGenerateReplyRejectsMalformedContent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatCompletion(`I am sorry, I cannot produce JSON right now.`)))
	}))
	defer server.Close()

	op := NewOpenAIProvider(testLogger(), server.Client(), "sk-test")
	op.BaseURL = server.URL

	_, err := op.GenerateReply(context.Background(), nil, nil, "hello")
	require.ErrorContains(t, err, "reply violates response schema")
}

func TestGenerateReplyRejectsEmptyMessages(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatCompletion(`{"messages":[]}`)))
	}))
	defer server.Close()

	op := NewOpenAIProvider(testLogger(), server.Client(), "sk-test")
	op.BaseURL = server.URL

	_, err := op.GenerateReply(context.Background(), nil, nil, "hello")
	require.ErrorContains(t, err, "reply violates response schema")
}

func TestUpdatePersonaReturnsFullDocument(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatCompletion(`{"Name":"Omar","Languages":["arabic"]}`)))
	}))
	defer server.Close()

	op := NewOpenAIProvider(testLogger(), server.Client(), "sk-test")
	op.BaseURL = server.URL

	doc, err := op.UpdatePersona(context.Background(), map[string]any{"Name": ""}, "I am Omar")
	require.NoError(t, err)
	require.Equal(t, "Omar", doc["Name"])
}

func TestExtractFormFieldsDropsNonStringValues(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatCompletion(`{"Vorname":"Omar","Alleinerziehende":true,"Im Auftrag":"MayaCode"}`)))
	}))
	defer server.Close()

	op := NewOpenAIProvider(testLogger(), server.Client(), "sk-test")
	op.BaseURL = server.URL

	fields, err := op.ExtractFormFields(context.Background(), map[string]string{}, "What is your name?", "Omar")
	require.NoError(t, err)
	require.Equal(t, "Omar", fields["Vorname"])
	require.Equal(t, "MayaCode", fields["Im Auftrag"])
	_, hasBool := fields["Alleinerziehende"]
	require.False(t, hasBool)
}

func TestRecommendUsesSearchModel(t *testing.T) {
	t.Parallel()

	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(chatCompletion("Here are some opportunities near you.")))
	}))
	defer server.Close()

	op := NewOpenAIProvider(testLogger(), server.Client(), "sk-test")
	op.BaseURL = server.URL

	text, err := op.Recommend(context.Background(), map[string]any{"Country": "Germany", "State": "Berlin"})
	require.NoError(t, err)
	require.Equal(t, "Here are some opportunities near you.", text)

	require.Equal(t, "gpt-4o-mini-search-preview", gotReq.Model)
	require.Equal(t, map[string]any{"search_context_size": "high"}, gotReq.WebSearchOptions)
	require.Zero(t, gotReq.Temperature, "search-preview models reject a temperature parameter")
}
