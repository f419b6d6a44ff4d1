package cmd

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/rustup-find/rustup-find/internal/core"
	"github.com/rustup-find/rustup-find/internal/status"
)

// expandPath expands a leading ~ to the user's home directory.
func expandPath(p string) string {
	if p == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if len(p) > 1 && p[0] == '~' && p[1] == '/' {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, p[2:])
	}
	return p
}

// reportResolutionFailure prints the per-date trace of an exhausted scan so
// the operator knows whether to widen the window or adjust the offset. The
// summary line itself is the returned error, printed by main.
func reportResolutionFailure(p *status.Printer, err error) {
	var exhausted *core.ExhaustedError
	if !errors.As(err, &exhausted) {
		return
	}

	for _, probe := range exhausted.Trace {
		p.Warnf("%s: %s", probe.Date.Format("2006-01-02"), probe.Reason())
	}
}
