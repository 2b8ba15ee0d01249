package deepseek

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docai/providers/models"
)

func newTestProvider(baseURL string) *DeepSeekConfig {
	return &DeepSeekConfig{
		BaseURL: baseURL,
		Model:   "deepseek-chat",
		ApiKey:  "test-key",
	}
}

func TestComplete_MissingAPIKeyFailsBeforeNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	provider := &DeepSeekConfig{BaseURL: srv.URL, Model: "deepseek-chat"}

	_, err := provider.Complete(context.Background(), "hello")
	assert.ErrorIs(t, err, models.ErrMissingAPIKey)
	assert.False(t, called)
}

func TestComplete_ReturnsMessageContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"The capture script configures the ADC."}}],"usage":{"prompt_tokens":12,"completion_tokens":8}}`)
	}))
	defer srv.Close()

	provider := newTestProvider(srv.URL)

	answer, err := provider.Complete(context.Background(), "how does capture work?")
	require.NoError(t, err)
	assert.Equal(t, "The capture script configures the ADC.", answer)
}

func TestComplete_UpstreamErrorSurfacesStatusAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Invalid API key"}}`)
	}))
	defer srv.Close()

	provider := newTestProvider(srv.URL)

	_, err := provider.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestChatCompletionRequest_ReframesStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hello\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\" world\\n\"}}]}\n\n")
		fmt.Fprint(w, ": keep-alive comment ignored\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	provider := newTestProvider(srv.URL)

	var events []models.StreamResponse
	for event := range provider.ChatCompletionRequest(context.Background(), "hi") {
		require.NoError(t, event.Err)
		events = append(events, event)
	}

	require.Len(t, events, 3)

	assert.Equal(t, "data: {\"choices\":[{\"delta\":{\"content\":\"Hello\"}}]}\n\n", events[0].Frame)
	assert.Empty(t, events[0].Content)

	assert.Equal(t, "data: {\"choices\":[{\"delta\":{\"content\":\" world\\n\"}}]}\n\n", events[1].Frame)
	assert.Equal(t, "Hello world\n", events[1].Content)

	assert.Equal(t, "data: [DONE]\n\n", events[2].Frame)
	assert.True(t, events[2].Done)
}

func TestChatCompletionRequest_DoneSentinelEmittedOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: [DONE]\n\n")
		// Anything after the sentinel must not be relayed.
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"late\"}}]}\n\n")
	}))
	defer srv.Close()

	provider := newTestProvider(srv.URL)

	var events []models.StreamResponse
	for event := range provider.ChatCompletionRequest(context.Background(), "hi") {
		events = append(events, event)
	}

	require.Len(t, events, 1)
	assert.Equal(t, "data: [DONE]\n\n", events[0].Frame)
	assert.True(t, events[0].Done)
}

func TestChatCompletionRequest_EOFWithoutSentinelFlushesBuffer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n\n")
	}))
	defer srv.Close()

	provider := newTestProvider(srv.URL)

	var events []models.StreamResponse
	for event := range provider.ChatCompletionRequest(context.Background(), "hi") {
		require.NoError(t, event.Err)
		events = append(events, event)
	}

	require.Len(t, events, 2)
	assert.Equal(t, "data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n\n", events[0].Frame)
	assert.Equal(t, "partial", events[1].Content)
	assert.False(t, events[1].Done)
}

func TestChatCompletionRequest_MissingAPIKey(t *testing.T) {
	provider := &DeepSeekConfig{BaseURL: "http://127.0.0.1:0", Model: "deepseek-chat"}

	var events []models.StreamResponse
	for event := range provider.ChatCompletionRequest(context.Background(), "hi") {
		events = append(events, event)
	}

	require.Len(t, events, 1)
	assert.ErrorIs(t, events[0].Err, models.ErrMissingAPIKey)
}

func TestChatCompletionRequest_UpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, "rate limited")
	}))
	defer srv.Close()

	provider := newTestProvider(srv.URL)

	var events []models.StreamResponse
	for event := range provider.ChatCompletionRequest(context.Background(), "hi") {
		events = append(events, event)
	}

	require.Len(t, events, 1)
	require.Error(t, events[0].Err)
	assert.Contains(t, events[0].Err.Error(), "429")
	assert.Contains(t, events[0].Err.Error(), "rate limited")
}

func TestNewDeepSeekChatProvider_Defaults(t *testing.T) {
	provider := NewDeepSeekChatProvider(&DeepSeekConfig{ApiKey: "k"}).(*DeepSeekConfig)

	assert.Equal(t, "https://api.deepseek.com/v1", provider.BaseURL)
	assert.Equal(t, "deepseek-chat", provider.Model)
}
