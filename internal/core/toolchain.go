package core

import (
	"fmt"
	"regexp"
	"time"
)

// dateFormat is the day-granularity date layout used in manifest URLs and
// dated toolchain names.
const dateFormat = "2006-01-02"

// Channel is a release train label: stable, beta, nightly, or a pinned
// version string such as "1.74.0".
type Channel string

const (
	ChannelStable  Channel = "stable"
	ChannelBeta    Channel = "beta"
	ChannelNightly Channel = "nightly"
)

// Toolchain identifies an installable or installed toolchain. A zero Date
// means the dateless form, which names the current default snapshot for the
// channel and target rather than a specific published one.
type Toolchain struct {
	Channel Channel
	Date    time.Time
	Target  string
}

// Dated reports whether the toolchain names a specific published snapshot.
func (t Toolchain) Dated() bool {
	return !t.Date.IsZero()
}

// Name returns the canonical rustup name: "<channel>-<target>" for the
// dateless form, "<channel>-<yyyy-mm-dd>-<target>" for the dated form.
func (t Toolchain) Name() string {
	if t.Dated() {
		return fmt.Sprintf("%s-%s-%s", t.Channel, t.Date.Format(dateFormat), t.Target)
	}
	return fmt.Sprintf("%s-%s", t.Channel, t.Target)
}

// String returns the canonical name.
func (t Toolchain) String() string {
	return t.Name()
}

// Dateless returns the dateless form of the toolchain.
func (t Toolchain) Dateless() Toolchain {
	return Toolchain{Channel: t.Channel, Target: t.Target}
}

// toolchainPattern matches "<channel>[-<date>]-<target>". The channel is the
// first dash-separated token, which also covers pinned versions ("1.74.0").
var toolchainPattern = regexp.MustCompile(`^([^-]+)(?:-(\d{4}-\d{2}-\d{2}))?-(.+)$`)

// ParseToolchain parses a rustup toolchain name into its channel, optional
// date, and target triple. It round-trips with Name.
func ParseToolchain(name string) (Toolchain, error) {
	m := toolchainPattern.FindStringSubmatch(name)
	if m == nil {
		return Toolchain{}, fmt.Errorf("invalid toolchain name %q", name)
	}

	tc := Toolchain{Channel: Channel(m[1]), Target: m[3]}
	if m[2] != "" {
		date, err := time.ParseInLocation(dateFormat, m[2], time.UTC)
		if err != nil {
			return Toolchain{}, fmt.Errorf("invalid date in toolchain name %q: %w", name, err)
		}
		tc.Date = date
	}

	return tc, nil
}
