package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/davrin/loopgate/internal/prompt"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps prompt errors to MCP error codes. Declines and cancellations
// never reach here; they are result statuses, not errors.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, prompt.ErrValidation):
		return &APIError{Code: "VALIDATION_ERROR", Message: err.Error(), RecoveryHint: "Fix the request parameters and retry"}
	case errors.Is(err, prompt.ErrTimeout):
		return &APIError{Code: "TIMEOUT", Message: err.Error(), RecoveryHint: "The human did not respond in time; retry if still needed"}
	case errors.Is(err, prompt.ErrHostUnavailable):
		return &APIError{Code: "HOST_UNAVAILABLE", Message: err.Error(), RecoveryHint: "No surface can reach the human right now"}
	case errors.Is(err, prompt.ErrCapability):
		return &APIError{Code: "CAPABILITY_ERROR", Message: err.Error(), RecoveryHint: "Check health_check for what this host supports"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &APIError{Code: "CALLER_CANCELLED", Message: err.Error()}
	default:
		return &APIError{Code: "INTERNAL", Message: err.Error()}
	}
}
