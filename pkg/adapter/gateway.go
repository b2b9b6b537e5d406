package adapter

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/m-mizutani/goerr/v2"
)

// Gateway failure kinds. Callers match with errors.Is; only
// ErrTransientUnavailable is retried, inside the gateway itself.
var (
	ErrInvalidInput         = goerr.New("invalid generation input")
	ErrPermissionDenied     = goerr.New("model access denied")
	ErrTransientUnavailable = goerr.New("model temporarily unavailable")
	ErrUnexpected           = goerr.New("unexpected model failure")
)

// GenerateRequest is one text-generation call. When OutputSchema is set the
// model is asked for JSON conforming to it.
type GenerateRequest struct {
	Prompt       string
	Temperature  float32
	OutputSchema *jsonschema.Schema
	MaxTokens    int32
}

// GenerateResponse carries the generated text and how many attempts the
// call took.
type GenerateResponse struct {
	Text     string
	Attempts int
}

// Gateway wraps a single external text-generation call. Retry for one call
// is the gateway's concern; orchestration above treats the call as "succeeds
// or fails" and never retries on its own.
type Gateway interface {
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
}
