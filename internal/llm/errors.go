package llm

import "errors"

var (
	// ErrUnavailable indicates the model server could not be reached.
	ErrUnavailable = errors.New("model server unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrMissingAPIKey is returned when the OpenAI provider has no key.
	ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

	// ErrUnknownProvider is returned for a provider name other than openai or ollama.
	ErrUnknownProvider = errors.New("unknown llm provider")
)
