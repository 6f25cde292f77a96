// Package llm provides an OpenRouter chat client used to order files that
// carry no sequence signal in their names.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Complete: send a Request of system/user prompts, receive JSON text.
// Client.HealthCheck: verify API key and model availability.
// DecodeLLMJSON: decode a model response, tolerating code fences and prose.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors, empty completions, and
// network timeouts with exponential backoff (base 1s, max 10s, up to 5
// attempts by default). Context cancellation aborts retries immediately.
//
// Failures are tagged with services.ErrExternal or services.ErrTimeout so
// callers can fall back to deterministic behaviour.
package llm
