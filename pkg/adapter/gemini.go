package adapter

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tripweaver/tripweaver/pkg/utils/logging"
	"google.golang.org/genai"
)

// GeminiClient implements Gateway on top of the Gemini API
type GeminiClient struct {
	client     *genai.Client
	model      string
	maxRetries int
	backoff    time.Duration
}

type GeminiOption func(*GeminiClient)

// WithModel overrides the generative model name
func WithModel(model string) GeminiOption {
	return func(g *GeminiClient) {
		g.model = model
	}
}

// WithMaxRetries sets the attempt limit for transient failures
func WithMaxRetries(n int) GeminiOption {
	return func(g *GeminiClient) {
		g.maxRetries = n
	}
}

// WithBackoff sets the base backoff duration between retries
func WithBackoff(d time.Duration) GeminiOption {
	return func(g *GeminiClient) {
		g.backoff = d
	}
}

// NewGemini creates a Gateway backed by the Gemini API. Either an API key
// or a Vertex AI project/location pair must be provided.
func NewGemini(ctx context.Context, apiKey, projectID, location string, opts ...GeminiOption) (*GeminiClient, error) {
	cfg := &genai.ClientConfig{}
	switch {
	case apiKey != "":
		cfg.APIKey = apiKey
		cfg.Backend = genai.BackendGeminiAPI
	case projectID != "":
		cfg.Project = projectID
		cfg.Location = location
		cfg.Backend = genai.BackendVertexAI
	default:
		return nil, goerr.New("either api key or project must be set")
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	g := &GeminiClient{
		client:     client,
		model:      "gemini-2.0-flash",
		maxRetries: 3,
		backoff:    time.Second,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func (g *GeminiClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "prompt is empty")
	}
	if req.Temperature < 0 || req.Temperature > 1 {
		return nil, goerr.Wrap(ErrInvalidInput, "temperature out of range",
			goerr.V("temperature", req.Temperature))
	}

	temp := req.Temperature
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = req.MaxTokens
	}
	if req.OutputSchema != nil {
		schema, err := convertSchema(req.OutputSchema)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidInput, "invalid output schema", goerr.V("cause", err))
		}
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = schema
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
		if err == nil {
			text := extractText(resp)
			if text == "" {
				return nil, goerr.Wrap(ErrUnexpected, "empty response from model")
			}
			return &GenerateResponse{Text: text, Attempts: attempt}, nil
		}

		kind := classify(err)
		if !errors.Is(kind, ErrTransientUnavailable) {
			return nil, goerr.Wrap(kind, "generation failed", goerr.V("cause", err))
		}

		lastErr = err
		logging.From(ctx).Warn("transient model failure, retrying",
			"attempt", attempt, "max", g.maxRetries, "error", err)

		select {
		case <-ctx.Done():
			return nil, goerr.Wrap(ErrTransientUnavailable, "canceled while retrying",
				goerr.V("cause", ctx.Err()))
		case <-time.After(g.backoff << (attempt - 1)):
		}
	}

	return nil, goerr.Wrap(ErrTransientUnavailable, "generation failed after retries",
		goerr.V("attempts", g.maxRetries), goerr.V("cause", lastErr))
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String())
}

// classify maps an API failure to a gateway failure kind
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusBadRequest:
			return ErrInvalidInput
		case http.StatusUnauthorized, http.StatusForbidden:
			return ErrPermissionDenied
		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return ErrTransientUnavailable
		default:
			return ErrUnexpected
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTransientUnavailable
	}
	return ErrUnexpected
}
