// Package llm provides an OpenAI-compatible chat client used to write video
// descriptions.
//
// # Entry Points
//
// NewClient: construct a client from Config.
// Client.Complete: send system/user prompts, receive free text.
// Client.HealthCheck: verify API key and model availability.
//
// # Retry Behaviour
//
// Retries for 408/409/429/5xx and connection errors are delegated to the
// openai-go transport (three attempts by default). Context cancellation aborts
// retries immediately.
//
// # Fallback
//
// Callers treat every error as non-fatal and substitute canned text; Summarize
// turns an error into a short log-friendly reason.
package llm
