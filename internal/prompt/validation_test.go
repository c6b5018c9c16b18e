package prompt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate_RequiresMessage(t *testing.T) {
	err := Validate(Request{Kind: KindFreeText, Message: "   "})
	require.ErrorIs(t, err, ErrValidation)
}

func TestValidate_TypedValue(t *testing.T) {
	require.NoError(t, Validate(Request{Kind: KindTypedValue, Message: "m", ValueType: ValueInteger}))

	err := Validate(Request{Kind: KindTypedValue, Message: "m", ValueType: "uuid"})
	require.ErrorIs(t, err, ErrValidation)

	// Default must coerce to the declared type before any prompt is shown.
	err = Validate(Request{Kind: KindTypedValue, Message: "m", ValueType: ValueInteger, Default: "abc"})
	require.ErrorIs(t, err, ErrValidation)

	require.NoError(t, Validate(Request{Kind: KindTypedValue, Message: "m", ValueType: ValueInteger, Default: "12"}))
}

func TestValidate_SingleChoice(t *testing.T) {
	err := Validate(Request{Kind: KindSingleChoice, Message: "pick", Options: nil})
	require.ErrorIs(t, err, ErrValidation)

	err = Validate(Request{Kind: KindSingleChoice, Message: "pick", Options: []string{"a", " "}})
	require.ErrorIs(t, err, ErrValidation)

	require.NoError(t, Validate(Request{Kind: KindSingleChoice, Message: "pick", Options: []string{"a", "b"}}))

	// Duplicate option text is permitted (selection is by literal text).
	require.NoError(t, Validate(Request{Kind: KindSingleChoice, Message: "pick", Options: []string{"a", "a"}}))
}

func TestValidate_Confirmation(t *testing.T) {
	require.NoError(t, Validate(Request{Kind: KindConfirmation, Message: "sure?", Options: []string{"Proceed", "Abort"}}))

	err := Validate(Request{Kind: KindConfirmation, Message: "sure?", Options: []string{"Yes"}})
	require.ErrorIs(t, err, ErrValidation)

	err = Validate(Request{Kind: KindConfirmation, Message: "sure?", Options: []string{"Yes", "Yes"}})
	require.ErrorIs(t, err, ErrValidation)
}

func TestValidate_Notice(t *testing.T) {
	require.NoError(t, Validate(Request{Kind: KindNotice, Message: "heads up", Severity: SeverityWarning}))

	err := Validate(Request{Kind: KindNotice, Message: "heads up", Severity: "fatal"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestValidate_UnknownKind(t *testing.T) {
	err := Validate(Request{Kind: "multi_select", Message: "m"})
	require.ErrorIs(t, err, ErrValidation)
}
