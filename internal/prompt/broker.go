package prompt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// DefaultTimeout bounds every wait for a human response.
const DefaultTimeout = 300 * time.Second

// Host renders a Request to the human and returns exactly one correlated
// Outcome. Implementations must honor context cancellation by dismissing the
// prompt and returning promptly.
type Host interface {
	// Name identifies the host surface for health reporting.
	Name() string
	// Capabilities reports what the host can render. Read-only after init.
	Capabilities() Capabilities
	// Show blocks until the human produces a terminal outcome or ctx is done.
	Show(ctx context.Context, req Request) (Outcome, error)
}

// Recorder persists transcript metadata for completed prompt round trips.
type Recorder interface {
	Record(ctx context.Context, entry *TranscriptEntry) error
}

// Options configures a Broker.
type Options struct {
	// Timeout bounds each AwaitingResponse wait. Zero means DefaultTimeout.
	Timeout time.Duration
	// Recorder is optional; nil disables transcript recording.
	Recorder Recorder
	Logger   *slog.Logger
	Version  string
}

// Broker translates operations into prompt requests, shows them through a
// host one at a time, and maps outcomes back. The human is a serial resource:
// concurrent calls queue on an internal gate, first-requested first-shown.
// There is no retry loop here; retries are the calling agent's decision.
type Broker struct {
	timeout  time.Duration
	gate     *semaphore.Weighted
	recorder Recorder
	logger   *slog.Logger
	version  string
}

// NewBroker creates a broker with the given options.
func NewBroker(opts Options) *Broker {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Broker{
		timeout:  timeout,
		gate:     semaphore.NewWeighted(1),
		recorder: opts.Recorder,
		logger:   logger,
		version:  opts.Version,
	}
}

// TextRequest asks for a single value coerced to ValueType.
type TextRequest struct {
	Prompt    string
	Title     string
	Default   string
	ValueType ValueType
}

// MultilineRequest asks for free text. Hosts without a native multiline
// surface degrade to a single-line field; health_check reports which.
type MultilineRequest struct {
	Prompt  string
	Title   string
	Default string
}

// ChoiceRequest asks for exactly one of Options. MultiSelect is carried only
// so it can be rejected fast: no supported host renders it.
type ChoiceRequest struct {
	Prompt      string
	Title       string
	Options     []string
	MultiSelect bool
}

// ConfirmRequest asks a two-option question with caller-supplied labels.
type ConfirmRequest struct {
	Message          string
	Title            string
	AffirmativeLabel string
	NegativeLabel    string
}

// NoticeRequest displays a message and waits for acknowledgment.
type NoticeRequest struct {
	Message  string
	Title    string
	Severity Severity
}

// Text prompts for a typed value. Accepted values are coerced to the declared
// type; declined and cancelled surface as ErrDeclined/ErrCancelled so an
// empty accepted string is never conflated with a rejection.
func (b *Broker) Text(ctx context.Context, h Host, req TextRequest) (string, error) {
	valueType := req.ValueType
	if valueType == "" {
		valueType = ValueString
	}
	out, err := b.dispatch(ctx, h, Request{
		Kind:      KindTypedValue,
		Message:   req.Prompt,
		Title:     req.Title,
		Default:   req.Default,
		ValueType: valueType,
	})
	if err != nil {
		return "", err
	}
	switch out.Status {
	case StatusAccepted:
		return Coerce(out.Value, valueType)
	case StatusDeclined:
		return "", ErrDeclined
	default:
		return "", ErrCancelled
	}
}

// Multiline prompts for free text with the same contract as Text with a
// string value type.
func (b *Broker) Multiline(ctx context.Context, h Host, req MultilineRequest) (string, error) {
	out, err := b.dispatch(ctx, h, Request{
		Kind:    KindFreeText,
		Message: req.Prompt,
		Title:   req.Title,
		Default: req.Default,
	})
	if err != nil {
		return "", err
	}
	switch out.Status {
	case StatusAccepted:
		return out.Value, nil
	case StatusDeclined:
		return "", ErrDeclined
	default:
		return "", ErrCancelled
	}
}

// Choice prompts for exactly one option. The returned value is the literal
// option text the human selected, never an index; a host reply outside the
// option list is a validation failure, not passed through.
func (b *Broker) Choice(ctx context.Context, h Host, req ChoiceRequest) (string, error) {
	if req.MultiSelect {
		return "", fmt.Errorf("%w: multi-select is not supported", ErrCapability)
	}
	out, err := b.dispatch(ctx, h, Request{
		Kind:    KindSingleChoice,
		Message: req.Prompt,
		Title:   req.Title,
		Options: req.Options,
	})
	if err != nil {
		return "", err
	}
	switch out.Status {
	case StatusAccepted:
		for _, opt := range req.Options {
			if out.Value == opt {
				return opt, nil
			}
		}
		return "", fmt.Errorf("%w: host returned %q, not one of the offered options", ErrValidation, out.Value)
	case StatusDeclined:
		return "", ErrDeclined
	default:
		return "", ErrCancelled
	}
}

// Confirm prompts with two caller-supplied labels and maps the selection
// against the literal configured strings.
func (b *Broker) Confirm(ctx context.Context, h Host, req ConfirmRequest) (bool, error) {
	affirmative := req.AffirmativeLabel
	if affirmative == "" {
		affirmative = "Yes"
	}
	negative := req.NegativeLabel
	if negative == "" {
		negative = "No"
	}
	out, err := b.dispatch(ctx, h, Request{
		Kind:    KindConfirmation,
		Message: req.Message,
		Title:   req.Title,
		Options: []string{affirmative, negative},
	})
	if err != nil {
		return false, err
	}
	switch out.Status {
	case StatusAccepted:
		switch out.Value {
		case affirmative:
			return true, nil
		case negative:
			return false, nil
		default:
			return false, fmt.Errorf("%w: host returned %q, expected %q or %q", ErrValidation, out.Value, affirmative, negative)
		}
	case StatusDeclined:
		return false, ErrDeclined
	default:
		return false, ErrCancelled
	}
}

// Notice displays a message. The only valid outcomes are acknowledged
// (accepted) and cancelled.
func (b *Broker) Notice(ctx context.Context, h Host, req NoticeRequest) (bool, error) {
	severity := req.Severity
	if severity == "" {
		severity = SeverityInfo
	}
	out, err := b.dispatch(ctx, h, Request{
		Kind:     KindNotice,
		Message:  req.Message,
		Title:    req.Title,
		Severity: severity,
	})
	if err != nil {
		return false, err
	}
	if out.Status == StatusAccepted {
		return true, nil
	}
	return false, ErrCancelled
}

// Health reports the host's capability set. No human-in-the-loop step; the
// result is stable for a given host.
func (b *Broker) Health(_ context.Context, h Host) HealthReport {
	caps := h.Capabilities()
	status := "healthy"
	if len(caps.Kinds) == 0 {
		status = "unavailable"
	}
	return HealthReport{
		Status:          status,
		Version:         b.version,
		Host:            h.Name(),
		Capabilities:    caps.Kinds,
		NativeMultiline: caps.NativeMultiline,
		MultiSelect:     caps.MultiSelect,
	}
}

// dispatch runs one Idle → AwaitingResponse → terminal cycle: validate,
// gate, show, and bound the wait. Exactly one outcome is consumed per
// request; anything correlated to a stale id is discarded.
func (b *Broker) dispatch(ctx context.Context, h Host, req Request) (Outcome, error) {
	if err := Validate(req); err != nil {
		return Outcome{}, err
	}
	caps := h.Capabilities()
	if len(caps.Kinds) == 0 {
		return Outcome{}, fmt.Errorf("%w: %s reports no renderable kinds", ErrHostUnavailable, h.Name())
	}
	if !caps.Supports(req.Kind) {
		return Outcome{}, fmt.Errorf("%w: %s cannot render %s", ErrCapability, h.Name(), req.Kind)
	}

	req.ID = uuid.NewString()

	if err := b.gate.Acquire(ctx, 1); err != nil {
		return Outcome{}, err
	}

	start := time.Now()
	out, err := b.await(ctx, h, req)
	b.record(req, out, err, time.Since(start))
	return out, err
}

type hostReply struct {
	outcome Outcome
	err     error
}

// await shows the request and waits for its single correlated outcome, the
// timeout, or caller cancellation. The host context is cancelled on every
// exit path so an orphaned prompt is dismissed rather than left dangling.
func (b *Broker) await(ctx context.Context, h Host, req Request) (Outcome, error) {
	hostCtx, dismiss := context.WithCancel(context.Background())
	defer dismiss()

	var stale atomic.Bool
	replies := make(chan hostReply, 1)

	go func() {
		defer b.gate.Release(1)
		out, err := h.Show(hostCtx, req)
		if stale.Load() {
			b.logger.Warn("discarding stale prompt outcome",
				"correlation_id", req.ID, "kind", req.Kind, "status", out.Status)
			return
		}
		replies <- hostReply{outcome: out, err: err}
	}()

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case reply := <-replies:
		if reply.err != nil {
			if errors.Is(reply.err, context.Canceled) && ctx.Err() != nil {
				return Outcome{}, ctx.Err()
			}
			return Outcome{}, reply.err
		}
		return reply.outcome, nil
	case <-timer.C:
		stale.Store(true)
		return Outcome{}, fmt.Errorf("%w: no response within %s", ErrTimeout, b.timeout)
	case <-ctx.Done():
		stale.Store(true)
		return Outcome{}, ctx.Err()
	}
}

func (b *Broker) record(req Request, out Outcome, err error, elapsed time.Duration) {
	if b.recorder == nil {
		return
	}
	entry := &TranscriptEntry{
		CorrelationID: req.ID,
		Kind:          req.Kind,
		Message:       req.Message,
		Title:         req.Title,
		Status:        string(out.Status),
		ElapsedMS:     elapsed.Milliseconds(),
	}
	if err != nil {
		entry.Status = "failed"
		entry.ErrorCode = errorCode(err)
	}

	// Recording is best-effort; a transcript failure never fails the prompt.
	recordCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if recordErr := b.recorder.Record(recordCtx, entry); recordErr != nil {
		b.logger.Error("failed to record prompt transcript",
			"correlation_id", req.ID, "error", recordErr)
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrHostUnavailable):
		return "HOST_UNAVAILABLE"
	case errors.Is(err, ErrCapability):
		return "CAPABILITY_ERROR"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "CALLER_CANCELLED"
	default:
		return "INTERNAL"
	}
}
