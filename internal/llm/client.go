package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/cognicore/lexiscore/pkg/lexiscore/prompt"
)

const (
	// DefaultBaseURL is OpenRouter's OpenAI-compatible API root.
	DefaultBaseURL   = "https://openrouter.ai/api/v1/"
	DefaultModel     = "anthropic/claude-3.5-sonnet"
	DefaultMaxTokens = 1024

	defaultReferer = "http://localhost"
	defaultTitle   = "LLM Wordlist Filter"
)

// Client calls an OpenAI-compatible chat completion endpoint. The scoring
// prompt goes out as a system message marked with an ephemeral
// cache_control hint so providers that support prompt caching can reuse it
// across batches. The SDK's automatic retries are disabled: failures are
// returned to the caller as-is.
type Client struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int

	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Complete implements lexiscore.Completer.
func (c *Client) Complete(ctx context.Context, req prompt.Request) (string, error) {
	return c.Chat(ctx, req.Prompt, req.Words)
}

// Chat sends one system+user exchange and returns the first choice's text.
func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	if c.Model == "" {
		return "", fmt.Errorf("llm: model required")
	}

	var messages []openai.ChatCompletionMessageParamUnion
	var opts []option.RequestOption
	if system != "" {
		messages = append(messages, openai.SystemMessage([]openai.ChatCompletionContentPartTextParam{{Text: system}}))
		opts = append(opts, option.WithJSONSet("messages.0.content.0.cache_control", map[string]string{"type": "ephemeral"}))
	}
	messages = append(messages, openai.UserMessage(user))

	params := openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(c.Model),
		MaxTokens: openai.Int(int64(c.maxTokens())),
		Messages:  messages,
	}

	log := c.logger()
	if log.Enabled(ctx, slog.LevelDebug) {
		if body, err := json.Marshal(params); err == nil {
			log.Debug("llm request", slog.String("model", c.Model), slog.String("payload", string(body)))
		}
	}

	client := openai.NewClient(c.clientOptions()...)
	completion, err := client.Chat.Completions.New(ctx, params, opts...)
	if err != nil {
		return "", fmt.Errorf("llm: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}

	content := completion.Choices[0].Message.Content
	log.Debug("llm response",
		slog.String("model", completion.Model),
		slog.Int64("prompt_tokens", completion.Usage.PromptTokens),
		slog.Int64("completion_tokens", completion.Usage.CompletionTokens),
		slog.String("content", content),
	)
	return content, nil
}

func (c *Client) clientOptions() []option.RequestOption {
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
		option.WithHTTPClient(c.httpClient()),
		option.WithHeader("HTTP-Referer", defaultReferer),
		option.WithHeader("X-Title", defaultTitle),
	}
	if c.APIKey != "" {
		opts = append(opts, option.WithAPIKey(c.APIKey))
	}
	return opts
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 2 * time.Minute}
}

func (c *Client) maxTokens() int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return DefaultMaxTokens
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}
