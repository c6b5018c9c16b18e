// Package host provides the prompt-rendering surfaces: the connected MCP
// client (via the elicitation capability) and the local terminal.
package host

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davrin/loopgate/internal/prompt"
)

// Elicitor issues one elicitation round trip to the connected client and
// exposes the client's declared capabilities. *sdkmcp.ServerSession satisfies
// it.
type Elicitor interface {
	Elicit(ctx context.Context, params *sdkmcp.ElicitParams) (*sdkmcp.ElicitResult, error)
	InitializeParams() *sdkmcp.InitializeParams
}

// ElicitHost renders prompts through the MCP client's elicitation capability
// (the editor command-palette path). The client decides the widget; there is
// no native multiline surface, so free_text degrades to a single-line field.
type ElicitHost struct {
	session Elicitor
}

// NewElicitHost wraps the session serving the current tool call.
func NewElicitHost(session Elicitor) *ElicitHost {
	return &ElicitHost{session: session}
}

func (h *ElicitHost) Name() string { return "client" }

// Capabilities reports no kinds at all when the client never declared
// elicitation support, so unavailability is discoverable through health_check
// before any prompt is attempted.
func (h *ElicitHost) Capabilities() prompt.Capabilities {
	if !h.supportsFormElicitation() {
		return prompt.Capabilities{}
	}
	return prompt.Capabilities{
		Kinds:           prompt.AllKinds,
		NativeMultiline: false,
		MultiSelect:     false,
	}
}

// supportsFormElicitation mirrors the gate the session applies on Elicit: the
// client must have declared the elicitation capability, and a URL-only
// declaration cannot render form prompts.
func (h *ElicitHost) supportsFormElicitation() bool {
	init := h.session.InitializeParams()
	if init == nil || init.Capabilities == nil || init.Capabilities.Elicitation == nil {
		return false
	}
	caps := init.Capabilities.Elicitation
	return caps.Form != nil || caps.URL == nil
}

// Show sends one elicitation request and maps the client's action back. A
// transport or capability failure is a host-unavailable condition, distinct
// from the human declining.
func (h *ElicitHost) Show(ctx context.Context, req prompt.Request) (prompt.Outcome, error) {
	result, err := h.session.Elicit(ctx, &sdkmcp.ElicitParams{
		Message:         composeMessage(req),
		RequestedSchema: schemaFor(req),
	})
	if err != nil {
		if ctx.Err() != nil {
			return prompt.Outcome{}, ctx.Err()
		}
		return prompt.Outcome{}, fmt.Errorf("%w: %v", prompt.ErrHostUnavailable, err)
	}

	switch result.Action {
	case "accept":
		return prompt.Outcome{Status: prompt.StatusAccepted, Value: contentValue(result.Content)}, nil
	case "decline":
		return prompt.Outcome{Status: prompt.StatusDeclined}, nil
	default:
		return prompt.Outcome{Status: prompt.StatusCancelled}, nil
	}
}

// composeMessage folds the optional title and notice severity into the
// single message line the elicitation UI shows.
func composeMessage(req prompt.Request) string {
	msg := req.Message
	if req.Title != "" {
		msg = req.Title + ": " + msg
	}
	if req.Kind == prompt.KindNotice {
		msg = severityPrefix(req.Severity) + " " + msg
	}
	return msg
}

// schemaFor builds the requested response schema for one interaction kind.
// Each kind maps to one explicit variant; choices and confirmations constrain
// the reply to the literal option text via an enum.
func schemaFor(req prompt.Request) *jsonschema.Schema {
	if req.Kind == prompt.KindNotice {
		// Acknowledgment only; no input requested.
		return &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		}
	}

	value := &jsonschema.Schema{Description: req.Message}
	switch req.Kind {
	case prompt.KindSingleChoice, prompt.KindConfirmation:
		value.Type = "string"
		value.Enum = make([]any, 0, len(req.Options))
		for _, opt := range req.Options {
			value.Enum = append(value.Enum, opt)
		}
	case prompt.KindTypedValue:
		switch req.ValueType {
		case prompt.ValueInteger:
			value.Type = "integer"
		case prompt.ValueFloat:
			value.Type = "number"
		default:
			value.Type = "string"
		}
		if req.Default != "" {
			value.Default = defaultJSON(req.Default, req.ValueType)
		}
	default: // free_text
		value.Type = "string"
		if req.Default != "" {
			value.Default = defaultJSON(req.Default, prompt.ValueString)
		}
	}

	// No required list: the session validates the result content against this
	// schema even for decline/cancel, where content is empty by design. Value
	// presence on accept is enforced by the broker's coercion and membership
	// checks instead.
	return &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{"value": value},
	}
}

// defaultJSON encodes the pre-fill default in the schema's declared type.
// Validation has already checked that the default coerces.
func defaultJSON(value string, valueType prompt.ValueType) json.RawMessage {
	switch valueType {
	case prompt.ValueInteger:
		if n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			raw, _ := json.Marshal(n)
			return raw
		}
	case prompt.ValueFloat:
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			raw, _ := json.Marshal(f)
			return raw
		}
	}
	raw, _ := json.Marshal(value)
	return raw
}

// contentValue extracts the reply value in string form. JSON numbers arrive
// as float64; type enforcement happens in the broker's coercion step.
func contentValue(content map[string]any) string {
	v, ok := content["value"]
	if !ok || v == nil {
		return ""
	}
	switch tv := v.(type) {
	case string:
		return tv
	case float64:
		return strconv.FormatFloat(tv, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(tv)
	case json.Number:
		return tv.String()
	default:
		raw, _ := json.Marshal(v)
		return string(raw)
	}
}

func severityPrefix(severity prompt.Severity) string {
	switch severity {
	case prompt.SeverityWarning:
		return "[WARNING]"
	case prompt.SeverityError:
		return "[ERROR]"
	case prompt.SeveritySuccess:
		return "[SUCCESS]"
	default:
		return "[INFO]"
	}
}
