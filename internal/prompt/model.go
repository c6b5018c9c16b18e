package prompt

import "time"

// Kind identifies the interaction a request asks the host to render.
type Kind string

const (
	// KindFreeText is unconstrained text input, multiline where the host has
	// a native surface for it.
	KindFreeText Kind = "free_text"
	// KindTypedValue is single-line input coerced to a declared value type.
	KindTypedValue Kind = "typed_value"
	// KindSingleChoice picks exactly one entry from an ordered option list.
	KindSingleChoice Kind = "single_choice"
	// KindConfirmation is a fixed two-option choice (affirmative/negative).
	KindConfirmation Kind = "confirmation"
	// KindNotice displays a message and waits for acknowledgment.
	KindNotice Kind = "notice"
)

// AllKinds lists every interaction kind, in presentation order.
var AllKinds = []Kind{KindFreeText, KindTypedValue, KindSingleChoice, KindConfirmation, KindNotice}

// ValueType constrains the accepted value of a typed_value request.
type ValueType string

const (
	ValueString  ValueType = "string"
	ValueInteger ValueType = "integer"
	ValueFloat   ValueType = "float"
)

// Severity only affects notice presentation (prefix/icon), never behavior.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// Status is the terminal state of a prompt round trip.
type Status string

const (
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusCancelled Status = "cancelled"
)

// Request is one prompt sent to the host. It lives for a single
// request/response cycle and is never persisted.
type Request struct {
	// ID is the correlation id binding this request to its outcome.
	// Assigned by the Broker; late outcomes with a stale ID are discarded.
	ID        string
	Kind      Kind
	Message   string
	Title     string
	Default   string
	Options   []string
	ValueType ValueType
	Severity  Severity
}

// Outcome is the host's single reply to a Request. Value is meaningful only
// when Status is accepted; for choices it is the literal option text.
type Outcome struct {
	Status Status
	Value  string
}

// Capabilities describes what a host can actually render. Read-only after
// construction.
type Capabilities struct {
	Kinds           []Kind
	NativeMultiline bool
	MultiSelect     bool
}

// Supports reports whether the host renders the given kind.
func (c Capabilities) Supports(kind Kind) bool {
	for _, k := range c.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// HealthReport is the health_check result: which operations the current host
// actually supports, and how multiline degrades.
type HealthReport struct {
	Status          string
	Version         string
	Host            string
	Capabilities    []Kind
	NativeMultiline bool
	MultiSelect     bool
}

// TranscriptEntry is the audit record of one prompt round trip. It carries
// metadata only; the human's accepted value is never stored.
type TranscriptEntry struct {
	ID            int64     `json:"id"`
	CorrelationID string    `json:"correlation_id"`
	Kind          Kind      `json:"kind"`
	Message       string    `json:"message"`
	Title         string    `json:"title,omitempty"`
	Status        string    `json:"status"`
	ErrorCode     string    `json:"error_code,omitempty"`
	ElapsedMS     int64     `json:"elapsed_ms"`
	CreatedAt     time.Time `json:"created_at"`
}
