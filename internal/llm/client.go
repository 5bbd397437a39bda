package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
	// JSON asks the server to constrain output to a JSON object when it
	// supports that.
	JSON bool
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the model server is reachable.
	Available(ctx context.Context) bool
}

// NewClient returns the client for cfg.Provider.
func NewClient(cfg LLMConfig, observer Observer) (LLMClient, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderOpenAI, "":
		return NewOpenAIClient(cfg, observer)
	case ProviderOllama:
		return NewOllamaClient(cfg, observer), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// StatusError is a non-200 reply from the model server.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Code, e.Body)
}

// Retryable reports whether repeating the request can help.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: 5 * time.Second,
			}).DialContext,
		},
	}
}

// resolveTask applies per-task defaults to the request overrides.
func resolveTask(cfg LLMConfig, req GenerateRequest) (temp float64, maxTok int) {
	taskCfg := cfg.Tasks[req.Task]
	temp = taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok = taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	return temp, maxTok
}

// generateWithRetry runs do with bounded transport retries, each attempt
// under its own task timeout, reports the call to observer and maps failures
// onto the package sentinels.
func generateWithRetry(
	ctx context.Context,
	cfg LLMConfig,
	observer Observer,
	task TaskType,
	do func(ctx context.Context) (*GenerateResponse, error),
) (*GenerateResponse, error) {
	start := time.Now()
	timeout := time.Duration(cfg.TaskTimeout(task)) * time.Millisecond

	attempts := 0
	resp, err := retry.DoWithData(
		func() (*GenerateResponse, error) {
			attempts++
			attemptCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return do(attemptCtx)
		},
		retry.Context(ctx),
		retry.Attempts(uint(1+max(cfg.MaxRetries, 0))),
		retry.Delay(cfg.RetryDelay()),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			// Don't retry once the caller gave up or the server rejected the request.
			if ctx.Err() != nil {
				return false
			}
			var se *StatusError
			if errors.As(err, &se) {
				return se.Retryable()
			}
			return true
		}),
	)

	latency := time.Since(start).Milliseconds()
	if err == nil {
		observer.OnCallComplete(LLMCallEvent{
			Task:      task,
			Model:     cfg.Model,
			LatencyMs: latency,
			Attempts:  attempts,
			Success:   true,
		})
		resp.LatencyMs = latency
		return resp, nil
	}

	mapped := mapError(ctx, err)
	observer.OnCallComplete(LLMCallEvent{
		Task:      task,
		Model:     cfg.Model,
		LatencyMs: latency,
		Attempts:  attempts,
		Success:   false,
		ErrorCode: errorCode(mapped),
	})
	return nil, mapped
}

func mapError(ctx context.Context, err error) error {
	var se *StatusError
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return ctx.Err()
	case ctx.Err() != nil, errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case errors.As(err, &se) && !se.Retryable():
		return fmt.Errorf("llm request rejected: %w", err)
	default:
		return fmt.Errorf("%w: %w", ErrRetryExhausted, err)
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.As(err, &se):
		return fmt.Sprintf("HTTP_%d", se.Code)
	default:
		return "UNKNOWN"
	}
}
