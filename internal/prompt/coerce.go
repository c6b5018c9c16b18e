package prompt

import (
	"fmt"
	"strconv"
	"strings"
)

// Coerce normalizes an accepted value against the declared value type and
// returns its canonical string form. A value that does not parse is an
// ErrValidation, never forwarded uncoerced.
func Coerce(value string, valueType ValueType) (string, error) {
	switch valueType {
	case ValueString, "":
		return value, nil
	case ValueInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return "", fmt.Errorf("%w: %q is not an integer", ErrValidation, value)
		}
		return strconv.FormatInt(n, 10), nil
	case ValueFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return "", fmt.Errorf("%w: %q is not a number", ErrValidation, value)
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: unknown value_type %q", ErrValidation, valueType)
	}
}
