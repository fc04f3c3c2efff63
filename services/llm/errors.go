package llm

import "errors"

var (
	// ErrBackendNotConfigured is returned by NewClientFromEnv when
	// LLM_BACKEND_TYPE is unset. Not a fault; it means the deployment
	// runs without a rewrite backend.
	ErrBackendNotConfigured = errors.New("llm backend not configured")

	// ErrUnknownBackend is returned when LLM_BACKEND_TYPE names a backend
	// this build does not support.
	ErrUnknownBackend = errors.New("unknown llm backend")

	// ErrEmptyCompletion is returned when a backend call succeeded but
	// produced no usable text.
	ErrEmptyCompletion = errors.New("llm returned an empty completion")
)
