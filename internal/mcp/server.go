package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davrin/loopgate/internal/prompt"
)

// HostMode selects the surface prompts are rendered on.
const (
	HostModeClient   = "client"
	HostModeTerminal = "terminal"
)

// PromptService defines the prompt operations needed by MCP.
type PromptService interface {
	Text(ctx context.Context, h prompt.Host, req prompt.TextRequest) (string, error)
	Multiline(ctx context.Context, h prompt.Host, req prompt.MultilineRequest) (string, error)
	Choice(ctx context.Context, h prompt.Host, req prompt.ChoiceRequest) (string, error)
	Confirm(ctx context.Context, h prompt.Host, req prompt.ConfirmRequest) (bool, error)
	Notice(ctx context.Context, h prompt.Host, req prompt.NoticeRequest) (bool, error)
	Health(ctx context.Context, h prompt.Host) prompt.HealthReport
}

// TranscriptLister reads recent prompt transcript entries.
type TranscriptLister interface {
	ListRecent(ctx context.Context, limit int) ([]prompt.TranscriptEntry, error)
}

// Config contains server configuration.
type Config struct {
	Prompts PromptService
	// HostMode is "client" (MCP elicitation) or "terminal".
	HostMode string
	// TerminalHost is required when HostMode is "terminal".
	TerminalHost prompt.Host
	// Transcripts is optional; nil disables the transcript resource.
	Transcripts TranscriptLister
	// EnabledTools is a static allow-list; empty enables everything.
	// health_check is always registered.
	EnabledTools []string
	// AuthToken enables bearer auth in HTTP mode when non-empty.
	AuthToken     string
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
	Version       string
}

// NewServer creates and configures an MCP server with all tools, resources,
// and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "loopgate",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)
	if cfg.Transcripts != nil {
		registerTranscriptResource(server, cfg.Transcripts)
	}

	// Stdio mode always runs unauthenticated (local process, no network).
	if cfg.TransportMode != "stdio" && cfg.AuthToken != "" {
		server.AddReceivingMiddleware(authMiddleware(cfg.AuthToken))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg)

	return server
}
