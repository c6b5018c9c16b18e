package mcp

// Tool parameter and result shapes. Result statuses are "accepted",
// "declined", or "cancelled"; declined and cancelled are ordinary results so
// callers can tell "user typed nothing" apart from "user backed out".

type RequestTextParams struct {
	Prompt       string `json:"prompt" jsonschema:"The question to show the user"`
	Title        string `json:"title,omitempty" jsonschema:"Optional short caption for the prompt"`
	DefaultValue string `json:"default_value,omitempty" jsonschema:"Optional value to pre-fill"`
	ValueType    string `json:"value_type,omitempty" jsonschema:"Expected value type: string, integer, or float (default string)"`
}

type RequestMultilineTextParams struct {
	Prompt       string `json:"prompt" jsonschema:"The question to show the user"`
	Title        string `json:"title,omitempty" jsonschema:"Optional short caption for the prompt"`
	DefaultValue string `json:"default_value,omitempty" jsonschema:"Optional value to pre-fill"`
}

type RequestChoiceParams struct {
	Prompt      string   `json:"prompt" jsonschema:"The question to show the user"`
	Options     []string `json:"options" jsonschema:"Ordered list of options, presented unaltered"`
	Title       string   `json:"title,omitempty" jsonschema:"Optional short caption for the prompt"`
	MultiSelect bool     `json:"multi_select,omitempty" jsonschema:"Unsupported; requesting it fails with CAPABILITY_ERROR"`
}

type RequestConfirmationParams struct {
	Message          string `json:"message" jsonschema:"The confirmation message to show"`
	Title            string `json:"title,omitempty" jsonschema:"Optional short caption for the prompt"`
	AffirmativeLabel string `json:"affirmative_label,omitempty" jsonschema:"Label for the confirming answer (default Yes)"`
	NegativeLabel    string `json:"negative_label,omitempty" jsonschema:"Label for the rejecting answer (default No)"`
}

type ShowNoticeParams struct {
	Message  string `json:"message" jsonschema:"The message to display"`
	Title    string `json:"title,omitempty" jsonschema:"Optional short caption for the notice"`
	Severity string `json:"severity,omitempty" jsonschema:"Presentation hint: info, warning, error, or success (default info)"`
}

type HealthCheckParams struct{}

type TextResult struct {
	Status string `json:"status"`
	Value  string `json:"value,omitempty"`
}

type ChoiceResult struct {
	Status string `json:"status"`
	Value  string `json:"value,omitempty"`
}

type ConfirmationResult struct {
	Status    string `json:"status"`
	Confirmed bool   `json:"confirmed"`
}

type NoticeResult struct {
	Status       string `json:"status"`
	Acknowledged bool   `json:"acknowledged"`
}

type HealthCheckResult struct {
	Status          string   `json:"status"`
	Version         string   `json:"version"`
	Host            string   `json:"host"`
	Capabilities    []string `json:"capabilities"`
	NativeMultiline bool     `json:"native_multiline"`
	MultiSelect     bool     `json:"multi_select"`
}
