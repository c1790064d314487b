package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failed fetch.
type ErrorKind string

const (
	// KindTransport means a request could not be sent or its response read.
	KindTransport ErrorKind = "transport"
	// KindUpstream means the vendor answered the mandatory fetch with a
	// non-success status.
	KindUpstream ErrorKind = "upstream"
	// KindPayload means the vendor answered with a body we cannot trust.
	KindPayload ErrorKind = "payload"
)

// Phase names the step of a vendor call an error came from.
type Phase string

const (
	PhaseHandshake Phase = "handshake"
	PhaseFetch     Phase = "fetch"
	PhaseParse     Phase = "parse"
)

// PayloadReason separates a schema change from a single bad record.
type PayloadReason string

const (
	ReasonContainerMissing PayloadReason = "container_missing"
	ReasonItemMalformed    PayloadReason = "item_malformed"
)

// FetchError carries enough context to diagnose a failed fetch without
// re-running it.
type FetchError struct {
	Vendor  string        `json:"vendor"`
	Phase   Phase         `json:"phase"`
	Kind    ErrorKind     `json:"kind"`
	Message string        `json:"message"`
	Status  int           `json:"status,omitempty"`
	Body    string        `json:"-"`
	Reason  PayloadReason `json:"reason,omitempty"`
	Path    string        `json:"path,omitempty"`
	Field   string        `json:"field,omitempty"`
	Index   int           `json:"index"`
	Cause   error         `json:"-"`
}

func (e *FetchError) Error() string {
	var b strings.Builder
	if e.Vendor != "" {
		b.WriteString(e.Vendor)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)

	switch e.Kind {
	case KindUpstream:
		fmt.Fprintf(&b, ": bad response: %d", e.Status)
	case KindPayload:
		fmt.Fprintf(&b, ": %s", e.Reason)
		if e.Path != "" {
			fmt.Fprintf(&b, " at %q", e.Path)
		}
		if e.Index >= 0 {
			fmt.Fprintf(&b, " item %d", e.Index)
		}
		if e.Field != "" {
			fmt.Fprintf(&b, " field %q", e.Field)
		}
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Canceled reports whether the error stems from context cancellation or a
// deadline.
func (e *FetchError) Canceled() bool {
	return errors.Is(e.Cause, context.Canceled) || errors.Is(e.Cause, context.DeadlineExceeded)
}

func NewTransportError(vendor string, phase Phase, message string, cause error) *FetchError {
	return &FetchError{
		Vendor:  vendor,
		Phase:   phase,
		Kind:    KindTransport,
		Message: message,
		Index:   -1,
		Cause:   cause,
	}
}

func NewUpstreamError(vendor string, phase Phase, message string, status int, body string) *FetchError {
	return &FetchError{
		Vendor:  vendor,
		Phase:   phase,
		Kind:    KindUpstream,
		Message: message,
		Status:  status,
		Body:    body,
		Index:   -1,
	}
}

func NewContainerMissingError(vendor, path string) *FetchError {
	return &FetchError{
		Vendor:  vendor,
		Phase:   PhaseParse,
		Kind:    KindPayload,
		Message: "failed to parse response items",
		Reason:  ReasonContainerMissing,
		Path:    path,
		Index:   -1,
	}
}

// NewItemMalformedError reports an ill-typed value. index is -1 when the
// container itself is malformed.
func NewItemMalformedError(vendor, path string, index int, field string, cause error) *FetchError {
	return &FetchError{
		Vendor:  vendor,
		Phase:   PhaseParse,
		Kind:    KindPayload,
		Message: "failed to parse response items",
		Reason:  ReasonItemMalformed,
		Path:    path,
		Field:   field,
		Index:   index,
		Cause:   cause,
	}
}

// AsFetchError unwraps err to a *FetchError.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func IsKind(err error, kind ErrorKind) bool {
	fe, ok := AsFetchError(err)
	return ok && fe.Kind == kind
}

var (
	// ErrUnknownVendor is returned when no adapter is configured under a name.
	ErrUnknownVendor = errors.New("unknown vendor")
	// ErrMissingLocation is returned when neither the caller nor the
	// configuration names a location.
	ErrMissingLocation = errors.New("missing location")
)
