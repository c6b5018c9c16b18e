package prompt

import "errors"

var (
	// ErrValidation indicates a malformed request or an accepted value that
	// failed type coercion. Never retried automatically.
	ErrValidation = errors.New("invalid prompt request")
	// ErrTimeout indicates no terminal outcome arrived within the bound.
	ErrTimeout = errors.New("prompt timed out")
	// ErrDeclined indicates the human explicitly declined the prompt.
	ErrDeclined = errors.New("prompt declined")
	// ErrCancelled indicates the human dismissed the prompt.
	ErrCancelled = errors.New("prompt cancelled")
	// ErrHostUnavailable indicates no UI surface is reachable at all.
	ErrHostUnavailable = errors.New("prompt host unavailable")
	// ErrCapability indicates the requested kind is unsupported by the host.
	ErrCapability = errors.New("prompt kind not supported by host")
)
