package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database or session store.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, reorder index out of range).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrRateLimited is returned when the generation provider signals
// rate-limiting (HTTP 429). The invoker never retries internally; retry is a
// caller decision. Handlers map this to HTTP 429.
var ErrRateLimited = errors.New("rate limited, retry later")

// ErrPaymentRequired is returned when the generation provider requires
// billing to be configured (HTTP 402). Handlers map this to HTTP 402.
var ErrPaymentRequired = errors.New("payment required")

// ErrProvider is the generic generation provider failure. Wrapping errors
// carry the raw status and body for diagnostics. Handlers map this to 500.
var ErrProvider = errors.New("provider error")

// ErrInvalidOutput is returned by the response validator when the model
// output cannot be parsed into a well-formed recommendation list. The whole
// call fails; there is no partial acceptance.
var ErrInvalidOutput = errors.New("invalid generation output")

// ErrSessionState is returned when an itinerary operation is attempted in a
// session state that does not permit it (e.g. deciding after curation has
// finished). Handlers map this to HTTP 409 Conflict.
var ErrSessionState = errors.New("operation not allowed in current session state")
