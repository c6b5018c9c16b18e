package host

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/davrin/loopgate/internal/prompt"
)

// TerminalHost renders prompts as interactive terminal forms. Unlike the
// client host it has a real multiline editing surface. Requires a TTY on
// stdin and stdout; intended for the HTTP transport, where stdio is not
// claimed by JSON-RPC.
type TerminalHost struct {
	tty bool
}

// NewTerminalHost probes for a usable TTY once; availability does not change
// for the life of the process.
func NewTerminalHost() *TerminalHost {
	return &TerminalHost{
		tty: term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())),
	}
}

func (h *TerminalHost) Name() string { return "terminal" }

func (h *TerminalHost) Capabilities() prompt.Capabilities {
	if !h.tty {
		return prompt.Capabilities{}
	}
	return prompt.Capabilities{
		Kinds:           prompt.AllKinds,
		NativeMultiline: true,
		MultiSelect:     false,
	}
}

// Show renders one form and blocks until the human submits, aborts, or ctx
// is cancelled. Esc/ctrl-c maps to a cancelled outcome.
func (h *TerminalHost) Show(ctx context.Context, req prompt.Request) (prompt.Outcome, error) {
	if !h.tty {
		return prompt.Outcome{}, fmt.Errorf("%w: no TTY on stdin/stdout", prompt.ErrHostUnavailable)
	}

	switch req.Kind {
	case prompt.KindFreeText:
		return h.runText(ctx, req)
	case prompt.KindTypedValue:
		return h.runInput(ctx, req)
	case prompt.KindSingleChoice:
		return h.runSelect(ctx, req)
	case prompt.KindConfirmation:
		return h.runConfirm(ctx, req)
	case prompt.KindNotice:
		return h.runNote(ctx, req)
	default:
		return prompt.Outcome{}, fmt.Errorf("%w: terminal cannot render %s", prompt.ErrCapability, req.Kind)
	}
}

func (h *TerminalHost) runInput(ctx context.Context, req prompt.Request) (prompt.Outcome, error) {
	value := req.Default
	input := huh.NewInput().
		Title(titleOf(req)).
		Description(descriptionOf(req)).
		Value(&value)
	if req.ValueType == prompt.ValueInteger || req.ValueType == prompt.ValueFloat {
		valueType := req.ValueType
		input = input.Validate(func(s string) error {
			_, err := prompt.Coerce(s, valueType)
			return err
		})
	}
	return h.run(ctx, huh.NewForm(huh.NewGroup(input)), &value)
}

func (h *TerminalHost) runText(ctx context.Context, req prompt.Request) (prompt.Outcome, error) {
	value := req.Default
	text := huh.NewText().
		Title(titleOf(req)).
		Description(descriptionOf(req)).
		Value(&value)
	return h.run(ctx, huh.NewForm(huh.NewGroup(text)), &value)
}

func (h *TerminalHost) runSelect(ctx context.Context, req prompt.Request) (prompt.Outcome, error) {
	options := make([]huh.Option[string], 0, len(req.Options))
	for _, opt := range req.Options {
		options = append(options, huh.NewOption(opt, opt))
	}

	var value string
	sel := huh.NewSelect[string]().
		Title(titleOf(req)).
		Description(descriptionOf(req)).
		Options(options...).
		Value(&value)
	return h.run(ctx, huh.NewForm(huh.NewGroup(sel)), &value)
}

func (h *TerminalHost) runConfirm(ctx context.Context, req prompt.Request) (prompt.Outcome, error) {
	var confirmed bool
	confirm := huh.NewConfirm().
		Title(titleOf(req)).
		Description(descriptionOf(req)).
		Affirmative(req.Options[0]).
		Negative(req.Options[1]).
		Value(&confirmed)

	out, err := h.run(ctx, huh.NewForm(huh.NewGroup(confirm)), nil)
	if err != nil || out.Status != prompt.StatusAccepted {
		return out, err
	}
	// The outcome carries the literal label text, never a boolean.
	value := req.Options[1]
	if confirmed {
		value = req.Options[0]
	}
	return prompt.Outcome{Status: prompt.StatusAccepted, Value: value}, nil
}

func (h *TerminalHost) runNote(ctx context.Context, req prompt.Request) (prompt.Outcome, error) {
	note := huh.NewNote().
		Title(severityPrefix(req.Severity) + " " + titleOf(req)).
		Description(req.Message).
		Next(true).
		NextLabel("OK")
	return h.run(ctx, huh.NewForm(huh.NewGroup(note)), nil)
}

func (h *TerminalHost) run(ctx context.Context, form *huh.Form, value *string) (prompt.Outcome, error) {
	if err := form.RunWithContext(ctx); err != nil {
		if ctx.Err() != nil {
			return prompt.Outcome{}, ctx.Err()
		}
		if errors.Is(err, huh.ErrUserAborted) {
			return prompt.Outcome{Status: prompt.StatusCancelled}, nil
		}
		return prompt.Outcome{}, fmt.Errorf("%w: %v", prompt.ErrHostUnavailable, err)
	}

	out := prompt.Outcome{Status: prompt.StatusAccepted}
	if value != nil {
		out.Value = *value
	}
	return out, nil
}

func titleOf(req prompt.Request) string {
	if req.Title != "" {
		return req.Title
	}
	return req.Message
}

// descriptionOf avoids repeating the message when it already serves as the
// title.
func descriptionOf(req prompt.Request) string {
	if req.Title != "" {
		return req.Message
	}
	return ""
}
