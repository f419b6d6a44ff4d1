package core

// Reporter receives structured progress events from the core. Formatting,
// coloring, and quiet/verbose gating are the implementation's concern;
// internal/status provides the console implementation.
type Reporter interface {
	Infof(format string, args ...any)
	Successf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// nopReporter discards all events.
type nopReporter struct{}

func (nopReporter) Infof(string, ...any)    {}
func (nopReporter) Successf(string, ...any) {}
func (nopReporter) Warnf(string, ...any)    {}
func (nopReporter) Errorf(string, ...any)   {}
