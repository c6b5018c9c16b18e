package mcp

import (
	"context"
	"errors"
	"slices"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davrin/loopgate/internal/host"
	"github.com/davrin/loopgate/internal/prompt"
)

// toolHandler binds tool calls to the prompt service and the host surface
// configured for this server.
type toolHandler struct {
	prompts  PromptService
	hostMode string
	terminal prompt.Host
}

// hostFor picks the prompt surface for one call. In client mode the host is
// the calling session itself: each session gets its own elicitation channel.
func (t *toolHandler) hostFor(req *sdkmcp.CallToolRequest) prompt.Host {
	if t.hostMode == HostModeTerminal {
		return t.terminal
	}
	return host.NewElicitHost(req.Session)
}

func registerTools(server *sdkmcp.Server, cfg Config) {
	h := &toolHandler{
		prompts:  cfg.Prompts,
		hostMode: cfg.HostMode,
		terminal: cfg.TerminalHost,
	}

	enabled := func(name string) bool {
		if len(cfg.EnabledTools) == 0 {
			return true
		}
		return slices.Contains(cfg.EnabledTools, name)
	}

	if enabled("request_text") {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "request_text",
			Description: "Ask the human for a single-line value, optionally typed (string, integer, float)",
			Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
		}, h.requestText)
	}
	if enabled("request_multiline_text") {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "request_multiline_text",
			Description: "Ask the human for free-form text; hosts without a multiline surface degrade to a single-line field",
			Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
		}, h.requestMultilineText)
	}
	if enabled("request_choice") {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "request_choice",
			Description: "Ask the human to pick exactly one option; returns the literal option text",
			Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
		}, h.requestChoice)
	}
	if enabled("request_confirmation") {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "request_confirmation",
			Description: "Ask the human a two-option question with configurable labels",
			Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
		}, h.requestConfirmation)
	}
	if enabled("show_notice") {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "show_notice",
			Description: "Show the human a message and wait for acknowledgment",
			Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
		}, h.showNotice)
	}

	// health_check stays registered regardless of the allow-list so callers
	// can always probe capabilities.
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "health_check",
		Description: "Report server status and what the configured host can render; never prompts the human",
		Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true, IdempotentHint: true},
	}, h.healthCheck)
}

func (t *toolHandler) requestText(ctx context.Context, req *sdkmcp.CallToolRequest, in RequestTextParams) (*sdkmcp.CallToolResult, TextResult, error) {
	value, err := t.prompts.Text(ctx, t.hostFor(req), prompt.TextRequest{
		Prompt:    in.Prompt,
		Title:     in.Title,
		Default:   in.DefaultValue,
		ValueType: prompt.ValueType(in.ValueType),
	})
	if status, ok := rejectionStatus(err); ok {
		return nil, TextResult{Status: status}, nil
	}
	if err != nil {
		return nil, TextResult{}, MapError(err)
	}
	return nil, TextResult{Status: "accepted", Value: value}, nil
}

func (t *toolHandler) requestMultilineText(ctx context.Context, req *sdkmcp.CallToolRequest, in RequestMultilineTextParams) (*sdkmcp.CallToolResult, TextResult, error) {
	value, err := t.prompts.Multiline(ctx, t.hostFor(req), prompt.MultilineRequest{
		Prompt:  in.Prompt,
		Title:   in.Title,
		Default: in.DefaultValue,
	})
	if status, ok := rejectionStatus(err); ok {
		return nil, TextResult{Status: status}, nil
	}
	if err != nil {
		return nil, TextResult{}, MapError(err)
	}
	return nil, TextResult{Status: "accepted", Value: value}, nil
}

func (t *toolHandler) requestChoice(ctx context.Context, req *sdkmcp.CallToolRequest, in RequestChoiceParams) (*sdkmcp.CallToolResult, ChoiceResult, error) {
	value, err := t.prompts.Choice(ctx, t.hostFor(req), prompt.ChoiceRequest{
		Prompt:      in.Prompt,
		Title:       in.Title,
		Options:     in.Options,
		MultiSelect: in.MultiSelect,
	})
	if status, ok := rejectionStatus(err); ok {
		return nil, ChoiceResult{Status: status}, nil
	}
	if err != nil {
		return nil, ChoiceResult{}, MapError(err)
	}
	return nil, ChoiceResult{Status: "accepted", Value: value}, nil
}

func (t *toolHandler) requestConfirmation(ctx context.Context, req *sdkmcp.CallToolRequest, in RequestConfirmationParams) (*sdkmcp.CallToolResult, ConfirmationResult, error) {
	confirmed, err := t.prompts.Confirm(ctx, t.hostFor(req), prompt.ConfirmRequest{
		Message:          in.Message,
		Title:            in.Title,
		AffirmativeLabel: in.AffirmativeLabel,
		NegativeLabel:    in.NegativeLabel,
	})
	if status, ok := rejectionStatus(err); ok {
		return nil, ConfirmationResult{Status: status}, nil
	}
	if err != nil {
		return nil, ConfirmationResult{}, MapError(err)
	}
	return nil, ConfirmationResult{Status: "accepted", Confirmed: confirmed}, nil
}

func (t *toolHandler) showNotice(ctx context.Context, req *sdkmcp.CallToolRequest, in ShowNoticeParams) (*sdkmcp.CallToolResult, NoticeResult, error) {
	acknowledged, err := t.prompts.Notice(ctx, t.hostFor(req), prompt.NoticeRequest{
		Message:  in.Message,
		Title:    in.Title,
		Severity: prompt.Severity(in.Severity),
	})
	if status, ok := rejectionStatus(err); ok {
		return nil, NoticeResult{Status: status}, nil
	}
	if err != nil {
		return nil, NoticeResult{}, MapError(err)
	}
	return nil, NoticeResult{Status: "accepted", Acknowledged: acknowledged}, nil
}

func (t *toolHandler) healthCheck(ctx context.Context, req *sdkmcp.CallToolRequest, _ HealthCheckParams) (*sdkmcp.CallToolResult, HealthCheckResult, error) {
	report := t.prompts.Health(ctx, t.hostFor(req))
	kinds := make([]string, 0, len(report.Capabilities))
	for _, k := range report.Capabilities {
		kinds = append(kinds, string(k))
	}
	return nil, HealthCheckResult{
		Status:          report.Status,
		Version:         report.Version,
		Host:            report.Host,
		Capabilities:    kinds,
		NativeMultiline: report.NativeMultiline,
		MultiSelect:     report.MultiSelect,
	}, nil
}

// rejectionStatus turns a human rejection into a result status. Declines and
// cancellations are normal outcomes, not protocol errors.
func rejectionStatus(err error) (string, bool) {
	switch {
	case errors.Is(err, prompt.ErrDeclined):
		return "declined", true
	case errors.Is(err, prompt.ErrCancelled):
		return "cancelled", true
	default:
		return "", false
	}
}
