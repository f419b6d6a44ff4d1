package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// FetchErrorKind classifies why a manifest fetch failed.
type FetchErrorKind int

const (
	// FetchTransport means the manifest host could not be reached or
	// returned an unexpected response. Aborts a resolution scan.
	FetchTransport FetchErrorKind = iota
	// FetchNotPublished means no manifest exists for the requested date.
	// Expected for sparse channels and weekends; the scan moves on.
	FetchNotPublished
	// FetchParse means the manifest document was retrieved but is
	// malformed. Aborts a resolution scan.
	FetchParse
)

// String returns a human-readable label for the error kind.
func (k FetchErrorKind) String() string {
	switch k {
	case FetchNotPublished:
		return "not published"
	case FetchParse:
		return "malformed manifest"
	default:
		return "transport error"
	}
}

// FetchError is a structured error returned when a manifest fetch fails.
type FetchError struct {
	Kind FetchErrorKind
	Date time.Time
	URL  string
	Err  error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	msg := fmt.Sprintf("manifest for %s: %s", e.Date.Format(dateFormat), e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsNotPublished reports whether err is a FetchError of kind
// FetchNotPublished anywhere in its chain.
func IsNotPublished(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == FetchNotPublished
}

// Probe records the outcome of examining one candidate date during a scan.
type Probe struct {
	Date      time.Time
	Published bool
	Missing   []string // component names absent from the manifest, when published
}

// Reason returns a short explanation of why the date did not qualify.
func (p Probe) Reason() string {
	if !p.Published {
		return "not published"
	}
	return "missing: " + strings.Join(p.Missing, ", ")
}

// ExhaustedError is returned when no date in the resolution window had all
// required components. It carries the full per-date trace so callers can
// report exactly why each date was rejected.
type ExhaustedError struct {
	Channel Channel
	Target  string
	Window  int
	Trace   []Probe
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no matching %s toolchain for %s in the last %d days", e.Channel, e.Target, e.Window)
}

// Orchestration step names used in StepError.
const (
	StepQuery     = "query"
	StepInstall   = "install"
	StepUninstall = "uninstall"
	StepRelink    = "relink"
)

// StepError records which orchestration step failed, so an installer failure
// can be told apart from, say, a failed relink during replace.
type StepError struct {
	Step string
	Err  error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s step failed: %v", e.Step, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StepError) Unwrap() error {
	return e.Err
}
