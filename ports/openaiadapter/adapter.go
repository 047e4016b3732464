package openaiadapter

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/danja/semem-sub012/ports"
	"github.com/danja/semem-sub012/telemetry"
)

// maxQueryChars bounds the text sent to the chat/embedding endpoints;
// anything longer is truncated before it leaves this adapter.
const maxQueryChars = 8000

const (
	defaultChatModel      = openai.GPT4oMini
	defaultEmbeddingModel = openai.SmallEmbedding3
)

// Option configures an Adapter.
type Option func(*Adapter)

// WithChatModel overrides the chat-completion model (default gpt-4o-mini).
func WithChatModel(model string) Option {
	return func(a *Adapter) { a.chatModel = model }
}

// WithEmbeddingModel overrides the embedding model (default
// text-embedding-3-small).
func WithEmbeddingModel(model openai.EmbeddingModel) Option {
	return func(a *Adapter) { a.embeddingModel = model }
}

// WithLogger attaches a structured logger; the default discards everything.
func WithLogger(l *telemetry.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// Adapter satisfies both ports.Embedder and ports.LLM over a single
// go-openai client.
type Adapter struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	log            *telemetry.Logger
}

var (
	_ ports.Embedder = (*Adapter)(nil)
	_ ports.LLM      = (*Adapter)(nil)
)

// New builds an Adapter from an API key. The key is the caller's
// responsibility to source (environment variable, secret mount, etc.) —
// this package never reads the process environment itself.
func New(apiKey string, opts ...Option) *Adapter {
	a := &Adapter{
		client:         openai.NewClient(apiKey),
		chatModel:      defaultChatModel,
		embeddingModel: defaultEmbeddingModel,
		log:            telemetry.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxQueryChars {
		return text
	}
	return string(runes[:maxQueryChars])
}

// Embed returns the embedding vector for text, truncated to 8000
// characters before it is sent.
func (a *Adapter) Embed(ctx context.Context, text string) ([]float32, error) {
	text = truncate(text)
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: a.embeddingModel,
	})
	if err != nil {
		a.log.Error("openai embedding call failed", "error", err)
		return nil, fmt.Errorf("openaiadapter: embed: %w", err)
	}
	if len(resp.Data) == 0 {
		a.log.Warn("openai returned no embedding data")
		return nil, fmt.Errorf("openaiadapter: embed: no embedding returned")
	}
	return resp.Data[0].Embedding, nil
}

// Generate produces free text from a prompt and a supporting context
// passage, following the ports.LLM contract.
func (a *Adapter) Generate(ctx context.Context, prompt, contextText string, opts ports.GenerateOptions) (string, error) {
	prompt = truncate(prompt)
	contextText = truncate(contextText)

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: "You are a helpful assistant answering from the supplied context."},
	}
	if contextText != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: "Context:\n" + contextText,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	req := openai.ChatCompletionRequest{
		Model:    a.chatModel,
		Messages: messages,
	}
	if opts.MaxTokens > 0 {
		req.MaxCompletionTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		req.Temperature = float32(opts.Temperature)
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		a.log.Error("openai chat completion failed", "error", err)
		return "", fmt.Errorf("openaiadapter: generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		a.log.Warn("openai returned no choices")
		return "", fmt.Errorf("openaiadapter: generate: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
