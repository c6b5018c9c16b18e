package prompt

import (
	"fmt"
	"strings"
)

// Validate checks a request before any prompt is shown. Violations surface as
// ErrValidation and never reach the host.
func Validate(req Request) error {
	if strings.TrimSpace(req.Message) == "" {
		return fmt.Errorf("%w: message is required", ErrValidation)
	}

	switch req.Kind {
	case KindFreeText:
		// No constraints beyond the message.
	case KindTypedValue:
		switch req.ValueType {
		case ValueString, ValueInteger, ValueFloat:
		default:
			return fmt.Errorf("%w: unknown value_type %q", ErrValidation, req.ValueType)
		}
		if req.Default != "" {
			if _, err := Coerce(req.Default, req.ValueType); err != nil {
				return fmt.Errorf("%w: default_value does not match value_type %s", ErrValidation, req.ValueType)
			}
		}
	case KindSingleChoice:
		if len(req.Options) == 0 {
			return fmt.Errorf("%w: options must not be empty", ErrValidation)
		}
		for i, opt := range req.Options {
			if strings.TrimSpace(opt) == "" {
				return fmt.Errorf("%w: option %d is empty", ErrValidation, i)
			}
		}
	case KindConfirmation:
		if len(req.Options) != 2 {
			return fmt.Errorf("%w: confirmation requires exactly two options", ErrValidation)
		}
		if strings.TrimSpace(req.Options[0]) == "" || strings.TrimSpace(req.Options[1]) == "" {
			return fmt.Errorf("%w: confirmation labels must not be empty", ErrValidation)
		}
		if req.Options[0] == req.Options[1] {
			return fmt.Errorf("%w: confirmation labels must differ", ErrValidation)
		}
	case KindNotice:
		switch req.Severity {
		case SeverityInfo, SeverityWarning, SeverityError, SeveritySuccess:
		default:
			return fmt.Errorf("%w: unknown severity %q", ErrValidation, req.Severity)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrValidation, req.Kind)
	}

	return nil
}
