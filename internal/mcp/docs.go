package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `loopgate puts a human in your loop: each tool shows one prompt and blocks until the human answers, backs out, or the wait times out.

Tools:
- request_text: one typed value (string, integer, float). Integers and floats come back canonicalized ("042" → "42").
- request_multiline_text: free-form text. Check health_check.native_multiline: hosts without a multiline surface degrade to a single-line field.
- request_choice: exactly one of the offered options; the result is the literal option text, never an index.
- request_confirmation: a two-option question; labels are configurable (default Yes/No).
- show_notice: display a message and wait for acknowledgment.
- health_check: server status and host capabilities; never prompts the human.

Rules of engagement:
1) The human is a serial resource. Concurrent prompt calls queue; expect latency, not errors.
2) "declined" and "cancelled" are result statuses, not errors. Declined means the human saw the prompt and refused; do not silently retry with the same wording.
3) TIMEOUT, HOST_UNAVAILABLE, CAPABILITY_ERROR, and VALIDATION_ERROR are protocol errors. Retrying is your decision; the server never re-prompts on its own.
4) Probe with health_check before relying on optional capabilities (multiline, multi-select).

Docs (progressive disclosure):
- loopgate://docs/index (what to read when)
- loopgate://docs/capabilities (capability negotiation and degradation)
- loopgate://docs/workflows (prompting patterns that respect the human)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "loopgate://docs/index",
		Name:        "docs_index",
		Title:       "loopgate docs index",
		Description: "Entry point for agent-facing docs: what exists and what to read when.",
		Content: `# loopgate: Agent Docs Index

This server mediates between you and a human. Keep prompts rare and specific; every call costs the human attention.

## Quick start (no deep docs)

1. ` + "`health_check`" + ` once to learn what the host can render.
2. Prompt with the narrowest tool that fits: prefer ` + "`request_choice`" + ` or ` + "`request_confirmation`" + ` over free text.
3. Treat ` + "`declined`" + ` as an answer, not a failure.

## Docs (read on demand)

- ` + "`loopgate://docs/capabilities`" + ` — capability negotiation, multiline degradation, multi-select.
- ` + "`loopgate://docs/workflows`" + ` — patterns for batching questions and handling timeouts.

## Intentional limitations

- Multi-select is not supported; ` + "`multi_select=true`" + ` fails fast with CAPABILITY_ERROR.
- Prompts are strictly one at a time. There is no queue-depth knob.
- Responses above the five-minute default wait are discarded; a late answer never leaks into a later prompt.
`,
	},
	{
		URI:         "loopgate://docs/capabilities",
		Name:        "docs_capabilities",
		Title:       "Capability negotiation",
		Description: "How to discover what the configured host can render and how degradation works.",
		Content: `# Capability negotiation

` + "`health_check`" + ` reports the host surface and its capability set:

- ` + "`host`" + `: "client" (prompts travel over MCP elicitation to the calling client) or "terminal" (prompts render on the server's own TTY).
- ` + "`capabilities`" + `: the prompt kinds the host can render. Calling a tool whose kind is missing fails with CAPABILITY_ERROR.
- ` + "`native_multiline`" + `: whether ` + "`request_multiline_text`" + ` gets a real multiline editor. When false the prompt still works but degrades to a single-line field; newline-heavy input is a bad fit there.
- ` + "`multi_select`" + `: always false today. ` + "`request_choice`" + ` with ` + "`multi_select=true`" + ` is rejected before the human ever sees it.

The capability set is fixed for a given host configuration, so one probe per session is enough. A host reporting no capabilities at all (for example, terminal mode without a TTY) makes every prompt fail with HOST_UNAVAILABLE; ` + "`health_check`" + ` reports ` + "`status: unavailable`" + ` in that state.
`,
	},
	{
		URI:         "loopgate://docs/workflows",
		Name:        "docs_workflows",
		Title:       "Prompting workflows",
		Description: "Patterns for asking humans questions without wasting their attention.",
		Content: `# Prompting workflows

## Ask less, ask better

- Collapse related questions into one prompt where possible. Five sequential prompts feel like an interrogation.
- Offer options (` + "`request_choice`" + `) instead of open questions when the answer space is known. The result is the literal option text, so your options should be directly usable.
- Pre-fill ` + "`default_value`" + ` with your best guess; accepting a default is the cheapest possible answer.

## Handling outcomes

- ` + "`accepted`" + `: use the value. Typed values are already canonicalized.
- ` + "`declined`" + `: the human refused to answer. Rephrasing once is fine; looping is not.
- ` + "`cancelled`" + `: the human dismissed the prompt without engaging. Usually means "not now".

## Handling errors

- TIMEOUT: the human walked away. Consider whether the question can wait or be defaulted.
- HOST_UNAVAILABLE: nothing can reach the human. Fall back to non-interactive behavior.
- CAPABILITY_ERROR: you asked for a surface this host lacks. Re-check ` + "`health_check`" + ` and reshape the prompt.

## Confirmation labels

` + "`request_confirmation`" + ` maps the selection against your literal labels. With ` + "`affirmative_label: \"Deploy\"`" + ` and ` + "`negative_label: \"Abort\"`" + `, the human sees exactly those words, and ` + "`confirmed: true`" + ` means they chose "Deploy".
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}

const transcriptResourceURI = "loopgate://transcript/recent"

// registerTranscriptResource exposes recent prompt round trips as a JSON
// resource. Entries carry metadata only; accepted values are never stored.
func registerTranscriptResource(server *sdkmcp.Server, transcripts TranscriptLister) {
	server.AddResource(&sdkmcp.Resource{
		URI:         transcriptResourceURI,
		Name:        "transcript_recent",
		Title:       "Recent prompt transcript",
		Description: "The last 50 prompt round trips: kind, message, status, error code, and latency. No answer values.",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
		entries, err := transcripts.ListRecent(ctx, 50)
		if err != nil {
			return nil, fmt.Errorf("failed to read transcript: %w", err)
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode transcript: %w", err)
		}
		uri := transcriptResourceURI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		return &sdkmcp.ReadResourceResult{
			Contents: []*sdkmcp.ResourceContents{{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	})
}
