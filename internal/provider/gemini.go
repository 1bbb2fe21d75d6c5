package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"
)

const (
	// DefaultModel is used when neither config nor call options name one.
	DefaultModel = "gemini-2.5-flash"

	// minRequestGap spaces out calls to stay polite under free-tier
	// rate limits.
	minRequestGap = 600 * time.Millisecond
)

// APIKeyEnv is the environment variable holding the Gemini credential.
const APIKeyEnv = "GEMINI_API_KEY"

// APIKeyHint explains how to fix a missing credential; surfaced on CLI
// and HTTP error paths.
const APIKeyHint = "set the GEMINI_API_KEY environment variable (get a key from https://ai.google.dev/)"

// GeminiClient implements Provider on the Google GenAI API.
type GeminiClient struct {
	client *genai.Client
	model  string

	mu          sync.Mutex
	lastRequest time.Time
}

// NewGeminiClient creates a Gemini-backed provider. An empty apiKey
// falls back to the GEMINI_API_KEY environment variable; a credential
// is required.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv(APIKeyEnv)
	}
	if apiKey == "" {
		return nil, &Error{
			Kind: KindAuth,
			Op:   "init",
			Err:  fmt.Errorf("%s not set: %s", APIKeyEnv, APIKeyHint),
		}
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: "init", Err: err}
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Model returns the default model for this client.
func (c *GeminiClient) Model() string { return c.model }

// Generate sends the prompt and returns the raw response text.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	c.throttle()

	model := opts.Model
	if model == "" {
		model = c.model
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(opts.Temperature)),
	}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return "", &Error{Kind: classify(err), Op: "generate", Err: err}
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", &Error{Kind: KindResponse, Op: "generate", Err: fmt.Errorf("empty completion from %s", model)}
	}
	return text, nil
}

// throttle enforces a minimum gap between requests.
func (c *GeminiClient) throttle() {
	c.mu.Lock()
	elapsed := time.Since(c.lastRequest)
	if elapsed < minRequestGap {
		time.Sleep(minRequestGap - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()
}

// classify maps an API error onto the provider failure taxonomy.
func classify(err error) Kind {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key") ||
		strings.Contains(msg, "unauthenticated") ||
		strings.Contains(msg, "permission") ||
		strings.Contains(msg, "401") ||
		strings.Contains(msg, "403"):
		return KindAuth
	case strings.Contains(msg, "quota") ||
		strings.Contains(msg, "exhausted") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "429"):
		return KindQuota
	default:
		return KindTransport
	}
}

func asProviderError(err error, target **Error) bool {
	return errors.As(err, target)
}
