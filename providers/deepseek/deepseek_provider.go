package deepseek

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"docai/providers/contracts"
	"docai/providers/models"
	contracts2 "docai/token_management/contracts"
)

// DeepSeekConfig implements the chat provider for DeepSeek's
// OpenAI-compatible chat completions API.
type DeepSeekConfig struct {
	BaseURL         string
	Model           string
	ApiKey          string
	Temperature     *float32
	TokenManagement contracts2.ITokenManagement
}

const (
	defaultBaseURL = "https://api.deepseek.com/v1"
	defaultModel   = "deepseek-chat"

	connectTimeout = 10 * time.Second
	readTimeout    = 30 * time.Second

	doneSentinel = "[DONE]"

	systemPrompt = "You are a helpful assistant specialized in radio astronomy and FPGA programming."
)

// NewDeepSeekChatProvider initializes a new provider.
func NewDeepSeekChatProvider(config *DeepSeekConfig) contracts.IChatAIProvider {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := config.Model
	if model == "" {
		model = defaultModel
	}
	return &DeepSeekConfig{
		BaseURL:         baseURL,
		Model:           model,
		ApiKey:          config.ApiKey,
		Temperature:     config.Temperature,
		TokenManagement: config.TokenManagement,
	}
}

// httpClient bounds the connect and read phases separately; the overall
// request has no deadline so long streams are not cut off mid-answer.
func (provider *DeepSeekConfig) httpClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
			TLSHandshakeTimeout:   connectTimeout,
			ResponseHeaderTimeout: readTimeout,
		},
	}
}

func (provider *DeepSeekConfig) newRequest(ctx context.Context, prompt string, stream bool) (*http.Request, error) {
	reqBody := models.ChatCompletionRequest{
		Model: provider.Model,
		Messages: []models.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Stream:      stream,
		Temperature: provider.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error marshalling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/chat/completions", provider.BaseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+provider.ApiKey)
	return req, nil
}

func upstreamError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiError models.AIError
	if err := json.Unmarshal(body, &apiError); err == nil && apiError.Error.Message != "" {
		return fmt.Errorf("API request failed with status code '%d' - %s", resp.StatusCode, apiError.Error.Message)
	}
	return fmt.Errorf("API request failed with status code '%d' - %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

// Complete sends one non-streaming request and returns the answer text.
func (provider *DeepSeekConfig) Complete(ctx context.Context, prompt string) (string, error) {
	if provider.ApiKey == "" {
		return "", models.ErrMissingAPIKey
	}

	req, err := provider.newRequest(ctx, prompt, false)
	if err != nil {
		return "", err
	}

	resp, err := provider.httpClient().Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", fmt.Errorf("request canceled: %w", err)
		}
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", upstreamError(resp)
	}

	var completion models.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}

	if provider.TokenManagement != nil && completion.Usage.PromptTokens > 0 {
		provider.TokenManagement.UsedTokens(completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
	}

	return completion.Choices[0].Message.Content, nil
}

// ChatCompletionRequest sends one streaming request and re-frames the
// vendor's SSE stream into canonical "data: <payload>\n\n" records. The
// channel closes when the vendor signals completion, the transport closes,
// or the context is cancelled. No retry and no reordering.
func (provider *DeepSeekConfig) ChatCompletionRequest(ctx context.Context, prompt string) <-chan models.StreamResponse {
	responseChan := make(chan models.StreamResponse)
	var markdownBuffer strings.Builder
	var fullAnswer strings.Builder
	usageSeen := false

	go func() {
		defer close(responseChan)

		if provider.ApiKey == "" {
			responseChan <- models.StreamResponse{Err: models.ErrMissingAPIKey}
			return
		}

		req, err := provider.newRequest(ctx, prompt, true)
		if err != nil {
			responseChan <- models.StreamResponse{Err: err}
			return
		}
		req.Header.Set("Accept", "text/event-stream")

		resp, err := provider.httpClient().Do(req)
		if err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				responseChan <- models.StreamResponse{Err: fmt.Errorf("request canceled: %w", err)}
				return
			}
			responseChan <- models.StreamResponse{Err: fmt.Errorf("error sending request: %w", err)}
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			responseChan <- models.StreamResponse{Err: upstreamError(resp)}
			return
		}

		reader := bufio.NewReader(resp.Body)

		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					break
				}
				if errors.Is(ctx.Err(), context.Canceled) {
					responseChan <- models.StreamResponse{Err: fmt.Errorf("request canceled: %w", err)}
					return
				}
				responseChan <- models.StreamResponse{Err: fmt.Errorf("error reading stream: %w", err)}
				return
			}

			line = strings.TrimRight(line, "\r\n")
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			payload := strings.TrimPrefix(line, "data: ")

			if strings.TrimSpace(payload) == doneSentinel {
				if markdownBuffer.Len() > 0 {
					responseChan <- models.StreamResponse{Content: markdownBuffer.String()}
					markdownBuffer.Reset()
				}
				if !usageSeen && provider.TokenManagement != nil {
					provider.TokenManagement.UsedTokens(
						provider.TokenManagement.EstimateTokens(prompt),
						provider.TokenManagement.EstimateTokens(fullAnswer.String()),
					)
				}
				responseChan <- models.StreamResponse{Frame: "data: " + doneSentinel + "\n\n", Done: true}
				return
			}

			event := models.StreamResponse{Frame: "data: " + payload + "\n\n"}

			var chunk models.ChatCompletionResponse
			if err := json.Unmarshal([]byte(payload), &chunk); err == nil {
				if chunk.Usage.PromptTokens > 0 && provider.TokenManagement != nil {
					provider.TokenManagement.UsedTokens(chunk.Usage.PromptTokens, chunk.Usage.CompletionTokens)
					usageSeen = true
				}
				if len(chunk.Choices) > 0 {
					content := chunk.Choices[0].Delta.Content
					if content != "" {
						fullAnswer.WriteString(content)
						markdownBuffer.WriteString(content)
						if strings.Contains(content, "\n") {
							event.Content = markdownBuffer.String()
							markdownBuffer.Reset()
						}
					}
				}
			}

			select {
			case responseChan <- event:
			case <-ctx.Done():
				return
			}
		}

		if markdownBuffer.Len() > 0 {
			responseChan <- models.StreamResponse{Content: markdownBuffer.String()}
		}
	}()

	return responseChan
}
