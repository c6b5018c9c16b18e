package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Transport  TransportConfig  `yaml:"transport"`
	Host       HostConfig       `yaml:"host"`
	Prompt     PromptConfig     `yaml:"prompt"`
	Tools      ToolsConfig      `yaml:"tools"`
	Transcript TranscriptConfig `yaml:"transcript"`
	Log        LogConfig        `yaml:"log"`
	Auth       AuthConfig       `yaml:"auth"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TransportConfig selects how MCP clients connect: "stdio" or "http".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

// HostConfig selects where prompts render: "client" sends them over MCP
// elicitation to the calling client, "terminal" renders on the server's TTY.
type HostConfig struct {
	Mode string `yaml:"mode"`
}

type PromptConfig struct {
	// TimeoutSeconds bounds each wait for a human response.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

type ToolsConfig struct {
	// Enabled is an allow-list of tool names; empty enables everything.
	Enabled []string `yaml:"enabled"`
}

type TranscriptConfig struct {
	// Path is the SQLite transcript database; empty disables recording.
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type AuthConfig struct {
	// Token enables static bearer auth on the HTTP transport when non-empty.
	Token string `yaml:"token"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Host: HostConfig{
			Mode: "client",
		},
		Prompt: PromptConfig{
			TimeoutSeconds: 300,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("LOOPGATE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("LOOPGATE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("LOOPGATE_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOOPGATE_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("LOOPGATE_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if mode := os.Getenv("LOOPGATE_HOST_MODE"); mode != "" {
		cfg.Host.Mode = mode
	}
	if secondsStr := os.Getenv("LOOPGATE_TIMEOUT_SECONDS"); secondsStr != "" {
		seconds, err := strconv.Atoi(secondsStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOOPGATE_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Prompt.TimeoutSeconds = seconds
	}
	if tools := os.Getenv("LOOPGATE_ENABLED_TOOLS"); tools != "" {
		cfg.Tools.Enabled = splitList(tools)
	}
	if path := os.Getenv("LOOPGATE_TRANSCRIPT_PATH"); path != "" {
		cfg.Transcript.Path = path
	}
	if level := os.Getenv("LOOPGATE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if token := os.Getenv("LOOPGATE_AUTH_TOKEN"); token != "" {
		cfg.Auth.Token = token
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validate(cfg Config) error {
	switch cfg.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport mode %q: must be stdio or http", cfg.Transport.Mode)
	}
	switch cfg.Host.Mode {
	case "client", "terminal":
	default:
		return fmt.Errorf("invalid host mode %q: must be client or terminal", cfg.Host.Mode)
	}
	// The stdio transport owns stdout for JSON-RPC; terminal forms would write
	// ANSI sequences into the same stream.
	if cfg.Transport.Mode == "stdio" && cfg.Host.Mode == "terminal" {
		return fmt.Errorf("host mode terminal requires the http transport")
	}
	if cfg.Prompt.TimeoutSeconds <= 0 {
		return fmt.Errorf("invalid prompt timeout %d: must be positive", cfg.Prompt.TimeoutSeconds)
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
