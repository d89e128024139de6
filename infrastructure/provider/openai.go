package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/reelrec/reelrec/internal/config"
)

// callGate enforces a minimum interval between outbound API calls. Each
// provider instance carries its own gate, so the chat and embedding
// endpoints are throttled independently.
type callGate struct {
	mu          sync.Mutex
	minInterval time.Duration
	lastCall    time.Time
}

// wait blocks until the minimum interval since the previous call has
// elapsed, or the context is cancelled.
func (g *callGate) wait(ctx context.Context) error {
	if g.minInterval <= 0 {
		return nil
	}

	g.mu.Lock()
	now := time.Now()
	next := g.lastCall.Add(g.minInterval)
	if next.Before(now) {
		next = now
	}
	g.lastCall = next
	g.mu.Unlock()

	if d := time.Until(next); d > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}
	return nil
}

// OpenAIProvider implements text generation and embedding against any
// OpenAI-compatible API.
type OpenAIProvider struct {
	client            *openai.Client
	chatModel         string
	embeddingModel    string
	maxRetries        int
	retryDelay        time.Duration
	gate              *callGate
	supportsText      bool
	supportsEmbedding bool
}

// OpenAIProviderOption is a functional option for OpenAIProvider.
type OpenAIProviderOption func(*OpenAIProvider)

// WithChatModel sets the chat completion model.
func WithChatModel(model string) OpenAIProviderOption {
	return func(p *OpenAIProvider) {
		p.chatModel = model
		p.supportsText = true
	}
}

// WithEmbeddingModel sets the embedding model.
func WithEmbeddingModel(model string) OpenAIProviderOption {
	return func(p *OpenAIProvider) {
		p.embeddingModel = model
		p.supportsEmbedding = true
	}
}

// WithOpenAIMaxRetries sets the maximum retry count.
func WithOpenAIMaxRetries(n int) OpenAIProviderOption {
	return func(p *OpenAIProvider) { p.maxRetries = n }
}

// WithOpenAIRetryDelay sets the fixed delay between retries.
func WithOpenAIRetryDelay(d time.Duration) OpenAIProviderOption {
	return func(p *OpenAIProvider) { p.retryDelay = d }
}

// WithOpenAIMinInterval sets the minimum interval between outbound calls.
func WithOpenAIMinInterval(d time.Duration) OpenAIProviderOption {
	return func(p *OpenAIProvider) { p.gate.minInterval = d }
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(apiKey string, opts ...OpenAIProviderOption) *OpenAIProvider {
	p := &OpenAIProvider{
		client:            openai.NewClient(apiKey),
		chatModel:         config.DefaultChatModel,
		embeddingModel:    config.DefaultEmbeddingModel,
		maxRetries:        config.DefaultEndpointMaxRetries,
		retryDelay:        config.DefaultEndpointRetryDelay,
		gate:              &callGate{minInterval: config.DefaultEndpointMinInterval},
		supportsText:      true,
		supportsEmbedding: true,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// NewOpenAIProviderFromEndpoint creates a provider from endpoint
// configuration. The endpoint's model is used for both chat completion and
// embedding; wire one provider instance per role.
func NewOpenAIProviderFromEndpoint(endpoint config.Endpoint) (*OpenAIProvider, error) {
	if !endpoint.IsConfigured() {
		return nil, ErrNotConfigured
	}

	cfg := openai.DefaultConfig(endpoint.APIKey())
	if endpoint.BaseURL() != "" {
		cfg.BaseURL = endpoint.BaseURL()
	}
	if endpoint.Timeout() > 0 {
		cfg.HTTPClient = &http.Client{Timeout: endpoint.Timeout()}
	}

	return &OpenAIProvider{
		client:            openai.NewClientWithConfig(cfg),
		chatModel:         endpoint.Model(),
		embeddingModel:    endpoint.Model(),
		maxRetries:        endpoint.MaxRetries(),
		retryDelay:        endpoint.RetryDelay(),
		gate:              &callGate{minInterval: endpoint.MinInterval()},
		supportsText:      true,
		supportsEmbedding: true,
	}, nil
}

// SupportsTextGeneration reports chat completion capability.
func (p *OpenAIProvider) SupportsTextGeneration() bool {
	return p.supportsText
}

// SupportsEmbedding reports embedding capability.
func (p *OpenAIProvider) SupportsEmbedding() bool {
	return p.supportsEmbedding
}

// Close is a no-op for the OpenAI provider.
func (p *OpenAIProvider) Close() error {
	return nil
}

// ChatCompletion generates a chat completion.
func (p *OpenAIProvider) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error) {
	if !p.supportsText {
		return ChatCompletionResponse{}, ErrUnsupportedOperation
	}

	messages := make([]openai.ChatCompletionMessage, len(req.Messages()))
	for i, m := range req.Messages() {
		messages[i] = openai.ChatCompletionMessage{
			Role:    m.Role(),
			Content: m.Content(),
		}
	}

	openaiReq := openai.ChatCompletionRequest{
		Model:    p.chatModel,
		Messages: messages,
	}
	if req.MaxTokens() > 0 {
		openaiReq.MaxTokens = req.MaxTokens()
	}
	if temp, ok := req.Temperature(); ok {
		openaiReq.Temperature = float32(temp)
	}

	var resp openai.ChatCompletionResponse

	err := p.withRetry(ctx, func() error {
		var callErr error
		resp, callErr = p.client.CreateChatCompletion(ctx, openaiReq)
		return callErr
	})
	if err != nil {
		return ChatCompletionResponse{}, p.wrapError("chat_completion", err)
	}

	if len(resp.Choices) == 0 {
		return ChatCompletionResponse{}, NewProviderError(
			"chat_completion", 0, "no choices in response", nil,
		)
	}

	usage := NewUsage(
		resp.Usage.PromptTokens,
		resp.Usage.CompletionTokens,
		resp.Usage.TotalTokens,
	)

	return NewChatCompletionResponse(
		resp.Choices[0].Message.Content,
		string(resp.Choices[0].FinishReason),
		usage,
	), nil
}

// Embed generates embeddings for the given texts.
func (p *OpenAIProvider) Embed(ctx context.Context, req EmbeddingRequest) (EmbeddingResponse, error) {
	if !p.supportsEmbedding {
		return EmbeddingResponse{}, ErrUnsupportedOperation
	}

	texts := req.Texts()
	if len(texts) == 0 {
		return NewEmbeddingResponse([][]float64{}, NewUsage(0, 0, 0)), nil
	}

	openaiReq := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(p.embeddingModel),
		Input: texts,
	}

	var resp openai.EmbeddingResponse

	err := p.withRetry(ctx, func() error {
		var callErr error
		resp, callErr = p.client.CreateEmbeddings(ctx, openaiReq)
		return callErr
	})
	if err != nil {
		return EmbeddingResponse{}, p.wrapError("embedding", err)
	}

	embeddings := make([][]float64, len(resp.Data))
	for i, data := range resp.Data {
		embeddings[i] = make([]float64, len(data.Embedding))
		for j, v := range data.Embedding {
			embeddings[i][j] = float64(v)
		}
	}

	usage := NewUsage(resp.Usage.PromptTokens, 0, resp.Usage.TotalTokens)

	return NewEmbeddingResponse(embeddings, usage), nil
}

// withRetry executes fn with a fixed-delay retry policy, gating every
// attempt through the minimum-interval limiter.
func (p *OpenAIProvider) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if err := p.gate.wait(ctx); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !p.isRetryable(lastErr) {
			return lastErr
		}

		if attempt < p.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.retryDelay):
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// isRetryable determines if an error should be retried.
func (p *OpenAIProvider) isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var reqErr *openai.RequestError
	return errors.As(err, &reqErr)
}

// wrapError wraps an OpenAI error into a ProviderError.
func (p *OpenAIProvider) wrapError(operation string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return NewProviderError(operation, apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return NewProviderError(operation, reqErr.HTTPStatusCode, reqErr.Error(), err)
	}

	return NewProviderError(operation, 0, err.Error(), err)
}

var _ FullProvider = (*OpenAIProvider)(nil)
