package core

import (
	"fmt"
	"time"
)

// ManifestSource fetches the published manifest for one (channel, date) pair.
// *Client implements it against the real manifest host.
type ManifestSource interface {
	Fetch(channel Channel, date time.Time) (*Manifest, error)
}

// Resolution is the successful outcome of a scan: the most recent date whose
// manifest had every required component, plus the trace of the more recent
// dates that were rejected along the way.
type Resolution struct {
	Toolchain Toolchain
	Trace     []Probe
}

// Resolver scans candidate dates newest-to-oldest until it finds a manifest
// whose component set covers the required one.
type Resolver struct {
	Source   ManifestSource
	Now      func() time.Time // injectable clock; time.Now if nil
	Reporter Reporter         // optional progress events
}

// Resolve examines up to windowDays dates, starting offsetDays before today
// and walking backward one day at a time. The first date whose manifest
// contains every required component wins; no older dates are examined.
//
// Unpublished dates and dates with missing components advance the scan and
// are recorded in the trace. Transport and parse failures abort immediately:
// an unreachable or corrupt manifest source must not be mistaken for a
// missing component. When the window is exhausted the returned error is a
// *ExhaustedError carrying the full trace.
func (r *Resolver) Resolve(channel Channel, target string, required []string, offsetDays, windowDays int) (*Resolution, error) {
	if len(required) == 0 {
		return nil, fmt.Errorf("at least one required component is needed")
	}
	if offsetDays < 0 || windowDays < 0 {
		return nil, fmt.Errorf("offset and window must not be negative")
	}

	now := r.Now
	if now == nil {
		now = time.Now
	}
	start := dayOf(now()).AddDate(0, 0, -offsetDays)

	trace := make([]Probe, 0, windowDays)
	for i := 0; i < windowDays; i++ {
		date := start.AddDate(0, 0, -i)

		manifest, err := r.Source.Fetch(channel, date)
		if err != nil {
			if IsNotPublished(err) {
				r.reporter().Infof("no manifest published for %s; trying previous day", date.Format(dateFormat))
				trace = append(trace, Probe{Date: date})
				continue
			}
			return nil, fmt.Errorf("scanning %s: %w", date.Format(dateFormat), err)
		}

		if missing := manifest.Missing(target, required); len(missing) > 0 {
			r.reporter().Infof("manifest for %s is missing %v; trying previous day", date.Format(dateFormat), missing)
			trace = append(trace, Probe{Date: date, Published: true, Missing: missing})
			continue
		}

		return &Resolution{
			Toolchain: Toolchain{Channel: channel, Date: date, Target: target},
			Trace:     trace,
		}, nil
	}

	return nil, &ExhaustedError{Channel: channel, Target: target, Window: windowDays, Trace: trace}
}

func (r *Resolver) reporter() Reporter {
	if r.Reporter != nil {
		return r.Reporter
	}
	return nopReporter{}
}
