package prompt

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// hostStub scripts host behavior per call.
type hostStub struct {
	name   string
	caps   Capabilities
	showFn func(ctx context.Context, req Request) (Outcome, error)

	mu       sync.Mutex
	requests []Request
}

func (h *hostStub) Name() string { return h.name }

func (h *hostStub) Capabilities() Capabilities { return h.caps }

func (h *hostStub) Show(ctx context.Context, req Request) (Outcome, error) {
	h.mu.Lock()
	h.requests = append(h.requests, req)
	h.mu.Unlock()
	return h.showFn(ctx, req)
}

func (h *hostStub) seen() []Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Request(nil), h.requests...)
}

func allKindsCaps() Capabilities {
	return Capabilities{Kinds: AllKinds}
}

func acceptWith(value string) func(context.Context, Request) (Outcome, error) {
	return func(_ context.Context, _ Request) (Outcome, error) {
		return Outcome{Status: StatusAccepted, Value: value}, nil
	}
}

func TestBroker_Text_CoercesAcceptedValue(t *testing.T) {
	host := &hostStub{name: "stub", caps: allKindsCaps(), showFn: acceptWith(" 42 ")}
	broker := NewBroker(Options{Timeout: time.Second})

	got, err := broker.Text(context.Background(), host, TextRequest{Prompt: "How many?", ValueType: ValueInteger})
	require.NoError(t, err)
	require.Equal(t, "42", got)
}

func TestBroker_Text_NonNumericIntegerIsValidationError(t *testing.T) {
	host := &hostStub{name: "stub", caps: allKindsCaps(), showFn: acceptWith("forty-two")}
	broker := NewBroker(Options{Timeout: time.Second})

	_, err := broker.Text(context.Background(), host, TextRequest{Prompt: "How many?", ValueType: ValueInteger})
	require.ErrorIs(t, err, ErrValidation)
}

func TestBroker_Text_EmptyAcceptedIsNotCancelled(t *testing.T) {
	host := &hostStub{name: "stub", caps: allKindsCaps(), showFn: acceptWith("")}
	broker := NewBroker(Options{Timeout: time.Second})

	got, err := broker.Text(context.Background(), host, TextRequest{Prompt: "Anything?"})
	require.NoError(t, err)
	require.Equal(t, "", got)

	host.showFn = func(_ context.Context, _ Request) (Outcome, error) {
		return Outcome{Status: StatusCancelled}, nil
	}
	_, err = broker.Text(context.Background(), host, TextRequest{Prompt: "Anything?"})
	require.ErrorIs(t, err, ErrCancelled)
}

func TestBroker_Text_Declined(t *testing.T) {
	host := &hostStub{name: "stub", caps: allKindsCaps(), showFn: func(_ context.Context, _ Request) (Outcome, error) {
		return Outcome{Status: StatusDeclined}, nil
	}}
	broker := NewBroker(Options{Timeout: time.Second})

	_, err := broker.Text(context.Background(), host, TextRequest{Prompt: "Name?"})
	require.ErrorIs(t, err, ErrDeclined)
}

func TestBroker_Choice_ReturnsLiteralOptionText(t *testing.T) {
	options := []string{"Red", "Green", "Blue"}
	for i, want := range options {
		host := &hostStub{name: "stub", caps: allKindsCaps(), showFn: acceptWith(options[i])}
		broker := NewBroker(Options{Timeout: time.Second})

		got, err := broker.Choice(context.Background(), host, ChoiceRequest{Prompt: "Pick", Options: options})
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestBroker_Choice_RejectsIndexLeak(t *testing.T) {
	// A host replying with a positional index instead of the option text is a
	// correctness failure, never passed through.
	host := &hostStub{name: "stub", caps: allKindsCaps(), showFn: acceptWith("1")}
	broker := NewBroker(Options{Timeout: time.Second})

	_, err := broker.Choice(context.Background(), host, ChoiceRequest{Prompt: "Pick", Options: []string{"Red", "Green"}})
	require.ErrorIs(t, err, ErrValidation)
}

func TestBroker_Choice_EmptyOptionsRejectedBeforeShow(t *testing.T) {
	host := &hostStub{name: "stub", caps: allKindsCaps(), showFn: acceptWith("x")}
	broker := NewBroker(Options{Timeout: time.Second})

	_, err := broker.Choice(context.Background(), host, ChoiceRequest{Prompt: "Pick", Options: nil})
	require.ErrorIs(t, err, ErrValidation)
	require.Empty(t, host.seen(), "no prompt may be shown for a malformed request")
}

func TestBroker_Choice_MultiSelectFailsFast(t *testing.T) {
	host := &hostStub{name: "stub", caps: allKindsCaps(), showFn: acceptWith("Red")}
	broker := NewBroker(Options{Timeout: time.Second})

	_, err := broker.Choice(context.Background(), host, ChoiceRequest{
		Prompt:      "Pick several",
		Options:     []string{"Red", "Green"},
		MultiSelect: true,
	})
	require.ErrorIs(t, err, ErrCapability)
	require.Empty(t, host.seen())
}

func TestBroker_Confirm_CustomLabels(t *testing.T) {
	broker := NewBroker(Options{Timeout: time.Second})
	req := ConfirmRequest{Message: "Deploy?", AffirmativeLabel: "Proceed", NegativeLabel: "Abort"}

	host := &hostStub{name: "stub", caps: allKindsCaps(), showFn: acceptWith("Proceed")}
	confirmed, err := broker.Confirm(context.Background(), host, req)
	require.NoError(t, err)
	require.True(t, confirmed)

	host.showFn = acceptWith("Abort")
	confirmed, err = broker.Confirm(context.Background(), host, req)
	require.NoError(t, err)
	require.False(t, confirmed)

	// No other text is a valid outcome for that request.
	host.showFn = acceptWith("Yes")
	_, err = broker.Confirm(context.Background(), host, req)
	require.ErrorIs(t, err, ErrValidation)
}

func TestBroker_Confirm_LabelsReachHost(t *testing.T) {
	host := &hostStub{name: "stub", caps: allKindsCaps(), showFn: acceptWith("Proceed")}
	broker := NewBroker(Options{Timeout: time.Second})

	_, err := broker.Confirm(context.Background(), host, ConfirmRequest{
		Message:          "Deploy?",
		AffirmativeLabel: "Proceed",
		NegativeLabel:    "Abort",
	})
	require.NoError(t, err)

	seen := host.seen()
	require.Len(t, seen, 1)
	require.Equal(t, []string{"Proceed", "Abort"}, seen[0].Options)
}

func TestBroker_Notice_Acknowledged(t *testing.T) {
	host := &hostStub{name: "stub", caps: allKindsCaps(), showFn: acceptWith("")}
	broker := NewBroker(Options{Timeout: time.Second})

	acked, err := broker.Notice(context.Background(), host, NoticeRequest{Message: "Build finished", Severity: SeveritySuccess})
	require.NoError(t, err)
	require.True(t, acked)

	host.showFn = func(_ context.Context, _ Request) (Outcome, error) {
		return Outcome{Status: StatusCancelled}, nil
	}
	acked, err = broker.Notice(context.Background(), host, NoticeRequest{Message: "Build finished"})
	require.ErrorIs(t, err, ErrCancelled)
	require.False(t, acked)
}

func TestBroker_Timeout_LateOutcomeDiscarded(t *testing.T) {
	released := make(chan struct{})
	host := &hostStub{name: "slow", caps: allKindsCaps(), showFn: func(ctx context.Context, _ Request) (Outcome, error) {
		// Never answer; return only once the broker dismisses the prompt.
		<-ctx.Done()
		close(released)
		return Outcome{Status: StatusAccepted, Value: "too late"}, nil
	}}
	broker := NewBroker(Options{Timeout: 50 * time.Millisecond})

	start := time.Now()
	_, err := broker.Text(context.Background(), host, TextRequest{Prompt: "Name?"})
	require.ErrorIs(t, err, ErrTimeout)
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("host prompt was not dismissed after timeout")
	}

	// The gate must be free and the stale outcome must not leak into a
	// subsequent unrelated call.
	host.showFn = acceptWith("fresh")
	got, err := broker.Text(context.Background(), host, TextRequest{Prompt: "Again?"})
	require.NoError(t, err)
	require.Equal(t, "fresh", got)

	seen := host.seen()
	require.Len(t, seen, 2)
	require.NotEqual(t, seen[0].ID, seen[1].ID, "each request carries a unique correlation id")
}

func TestBroker_CallerCancellationDismissesPrompt(t *testing.T) {
	dismissed := make(chan struct{})
	host := &hostStub{name: "stub", caps: allKindsCaps(), showFn: func(ctx context.Context, _ Request) (Outcome, error) {
		<-ctx.Done()
		close(dismissed)
		return Outcome{}, ctx.Err()
	}}
	broker := NewBroker(Options{Timeout: 5 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := broker.Choice(ctx, host, ChoiceRequest{Prompt: "Pick", Options: []string{"a", "b"}})
	require.ErrorIs(t, err, context.Canceled)

	select {
	case <-dismissed:
	case <-time.After(time.Second):
		t.Fatal("host prompt was not dismissed on caller cancellation")
	}
}

func TestBroker_SerializesConcurrentPrompts(t *testing.T) {
	var (
		mu     sync.Mutex
		active int
		peak   int
	)
	host := &hostStub{name: "stub", caps: allKindsCaps(), showFn: func(_ context.Context, _ Request) (Outcome, error) {
		mu.Lock()
		active++
		if active > peak {
			peak = active
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		active--
		mu.Unlock()
		return Outcome{Status: StatusAccepted, Value: "ok"}, nil
	}}
	broker := NewBroker(Options{Timeout: time.Second})

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := broker.Text(context.Background(), host, TextRequest{Prompt: "Name?"})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Equal(t, 1, peak, "at most one prompt may be outstanding")
	require.Len(t, host.seen(), 5)
}

func TestBroker_CapabilityGate(t *testing.T) {
	host := &hostStub{
		name:   "limited",
		caps:   Capabilities{Kinds: []Kind{KindTypedValue}},
		showFn: acceptWith("ok"),
	}
	broker := NewBroker(Options{Timeout: time.Second})

	_, err := broker.Choice(context.Background(), host, ChoiceRequest{Prompt: "Pick", Options: []string{"a"}})
	require.ErrorIs(t, err, ErrCapability)
}

func TestBroker_HostUnavailable(t *testing.T) {
	host := &hostStub{name: "headless", caps: Capabilities{}, showFn: acceptWith("ok")}
	broker := NewBroker(Options{Timeout: time.Second})

	_, err := broker.Text(context.Background(), host, TextRequest{Prompt: "Name?"})
	require.ErrorIs(t, err, ErrHostUnavailable)
	require.Empty(t, host.seen())
}

func TestBroker_HealthIdempotent(t *testing.T) {
	host := &hostStub{name: "stub", caps: Capabilities{Kinds: AllKinds, NativeMultiline: true}}
	broker := NewBroker(Options{Version: "0.4.0"})

	first := broker.Health(context.Background(), host)
	second := broker.Health(context.Background(), host)
	require.Equal(t, first, second)
	require.Equal(t, "healthy", first.Status)
	require.Equal(t, "0.4.0", first.Version)
	require.ElementsMatch(t, AllKinds, first.Capabilities)
	require.True(t, first.NativeMultiline)
	require.False(t, first.MultiSelect)
}

func TestBroker_HealthUnavailableHost(t *testing.T) {
	host := &hostStub{name: "headless", caps: Capabilities{}}
	broker := NewBroker(Options{Version: "0.4.0"})

	report := broker.Health(context.Background(), host)
	require.Equal(t, "unavailable", report.Status)
	require.Empty(t, report.Capabilities)
}

type recorderStub struct {
	mu      sync.Mutex
	entries []TranscriptEntry
}

func (r *recorderStub) Record(_ context.Context, entry *TranscriptEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func TestBroker_RecordsTranscriptMetadataOnly(t *testing.T) {
	recorder := &recorderStub{}
	host := &hostStub{name: "stub", caps: allKindsCaps(), showFn: acceptWith("s3cret answer")}
	broker := NewBroker(Options{Timeout: time.Second, Recorder: recorder})

	_, err := broker.Text(context.Background(), host, TextRequest{Prompt: "API key name?"})
	require.NoError(t, err)

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	require.Len(t, recorder.entries, 1)
	entry := recorder.entries[0]
	require.Equal(t, string(StatusAccepted), entry.Status)
	require.Equal(t, KindTypedValue, entry.Kind)
	require.NotEmpty(t, entry.CorrelationID)
	require.NotContains(t, entry.Message+entry.Title+entry.ErrorCode, "s3cret")
}
