package llm

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/lexiscore/pkg/lexiscore/batch"
	"github.com/cognicore/lexiscore/pkg/lexiscore/prompt"
)

type roundTrip func(*http.Request) *http.Response

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req), nil
}

func jsonResponse(req *http.Request, status int, body string) *http.Response {
	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     header,
		Request:    req,
	}
}

const okBody = `{
	"id": "gen-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "anthropic/claude-3.5-sonnet",
	"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "elma:95\nkalem:90"}}],
	"usage": {"prompt_tokens": 12, "completion_tokens": 6, "total_tokens": 18}
}`

func TestCompleteSuccess(t *testing.T) {
	var captured string
	client := &Client{
		BaseURL: "https://api.test/v1/",
		APIKey:  "sk-test",
		Model:   "anthropic/claude-3.5-sonnet",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				body, _ := io.ReadAll(req.Body)
				captured = string(body)
				assert.Equal(t, "/v1/chat/completions", req.URL.Path)
				assert.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"))
				assert.Equal(t, defaultReferer, req.Header.Get("HTTP-Referer"))
				assert.Equal(t, defaultTitle, req.Header.Get("X-Title"))
				return jsonResponse(req, 200, okBody)
			}),
		},
	}

	req := prompt.Build("Score each word.", batch.Batch{Index: 1, Total: 1, Words: []string{"elma", "kalem"}})
	out, err := client.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "elma:95\nkalem:90", out)

	assert.Contains(t, captured, `"model":"anthropic/claude-3.5-sonnet"`)
	assert.Contains(t, captured, `"max_tokens":1024`)
	assert.Contains(t, captured, "Score each word.")
	assert.Contains(t, captured, `elma\nkalem`)
	assert.Contains(t, captured, `"cache_control":{"type":"ephemeral"}`)
}

func TestChatWithoutSystemHasNoCacheHint(t *testing.T) {
	var captured string
	client := &Client{
		BaseURL: "https://api.test/v1/",
		Model:   "m",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				body, _ := io.ReadAll(req.Body)
				captured = string(body)
				return jsonResponse(req, 200, okBody)
			}),
		},
	}
	_, err := client.Chat(context.Background(), "", "elma")
	require.NoError(t, err)
	assert.NotContains(t, captured, "cache_control")
}

func TestCompleteAPIErrorNotRetried(t *testing.T) {
	calls := 0
	client := &Client{
		BaseURL: "https://api.test/v1/",
		Model:   "m",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				calls++
				return jsonResponse(req, 500, `{"error":{"message":"upstream unavailable"}}`)
			}),
		},
	}
	_, err := client.Chat(context.Background(), "system", "user")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestCompleteEmptyChoices(t *testing.T) {
	client := &Client{
		BaseURL: "https://api.test/v1/",
		Model:   "m",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				return jsonResponse(req, 200, `{"id":"x","object":"chat.completion","created":0,"model":"m","choices":[]}`)
			}),
		},
	}
	_, err := client.Chat(context.Background(), "system", "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestChatRequiresModel(t *testing.T) {
	_, err := (&Client{}).Chat(context.Background(), "s", "u")
	assert.Error(t, err)
}
