package domain

import "errors"

// Failure taxonomy for the query pipeline. Every mode except generation
// has a defined degraded continuation; only generation failures abort a
// request.
var (
	// ErrEmbeddingUnavailable marks transport or quota failures of the
	// embedding provider. Callers fold it into ErrRetrievalUnavailable.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrRetrievalUnavailable marks an embedder or index failure. Surfaced
	// to the caller as a degraded-answer flag, never as a request failure.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrGenerationUnavailable marks a generator failure or timeout. Fatal
	// for the request: no meaningful answer exists without the generator.
	ErrGenerationUnavailable = errors.New("generation unavailable")

	// ErrSessionWriteIncomplete marks a session-store write failure after a
	// successful generation. The answer is still delivered; the caller is
	// told history persistence is not guaranteed.
	ErrSessionWriteIncomplete = errors.New("session write incomplete")

	// ErrSessionNotFound is returned by SessionStore.Get for a missing key.
	// First contact with a session id is expected, not exceptional.
	ErrSessionNotFound = errors.New("session not found")
)
