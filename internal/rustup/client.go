// Package rustup drives the rustup binary. It implements the external
// toolchain-manager surface the core orchestrator depends on.
package rustup

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

const (
	queryTimeout   = 30 * time.Second
	installTimeout = 10 * time.Minute
)

// Markers rustup appends to list output.
const (
	defaultSuffix   = " (default)"
	installedSuffix = " (installed)"
)

// excludedComponents never appear as matchable manifest packages for the
// host target, so they are dropped when deriving required components.
var excludedComponents = map[string]bool{
	"rust-src":                        true,
	"rust-std-wasm32-unknown-unknown": true,
}

// Client invokes the rustup binary. It implements core.ToolchainManager.
type Client struct {
	Bin string // rustup binary; resolved via PATH when not an absolute path

	// run is swapped out in tests; defaults to executing Bin.
	run func(timeout time.Duration, args ...string) (string, error)
}

// NewClient creates a Client for the given rustup binary path.
func NewClient(bin string) *Client {
	if bin == "" {
		bin = "rustup"
	}
	c := &Client{Bin: bin}
	c.run = c.execRustup
	return c
}

// Error is returned when a rustup invocation fails. It carries the command
// arguments and captured output so the failure can be surfaced verbatim.
type Error struct {
	Args   []string
	Output string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("rustup %s: %v", strings.Join(e.Args, " "), e.Err)
	if line := firstLine(e.Output); line != "" {
		msg += ": " + line
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func firstLine(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// InstallToolchain installs the named toolchain.
func (c *Client) InstallToolchain(name string) error {
	_, err := c.run(installTimeout, "toolchain", "install", name)
	return err
}

// UninstallToolchain removes the named toolchain.
func (c *Client) UninstallToolchain(name string) error {
	_, err := c.run(queryTimeout, "toolchain", "uninstall", name)
	return err
}

// LinkToolchain creates a custom toolchain named name backed by the
// toolchain directory at dir.
func (c *Client) LinkToolchain(name, dir string) error {
	_, err := c.run(queryTimeout, "toolchain", "link", name, dir)
	return err
}

// InstalledToolchains returns the names of all installed toolchains.
func (c *Client) InstalledToolchains() ([]string, error) {
	output, err := c.run(queryTimeout, "toolchain", "list")
	if err != nil {
		return nil, err
	}
	return parseToolchainList(output), nil
}

// DefaultToolchain returns the name of the default toolchain.
func (c *Client) DefaultToolchain() (string, error) {
	output, err := c.run(queryTimeout, "toolchain", "list")
	if err != nil {
		return "", err
	}
	name, ok := defaultFromList(output)
	if !ok {
		return "", fmt.Errorf("no default toolchain configured")
	}
	return name, nil
}

// InstalledComponents returns the component names installed under the given
// toolchain, cleaned for manifest matching: the trailing target triple is
// stripped and components that never match a manifest package are dropped.
func (c *Client) InstalledComponents(toolchain, target string) ([]string, error) {
	output, err := c.run(queryTimeout, "component", "list", "--toolchain", toolchain)
	if err != nil {
		return nil, err
	}
	return parseComponentList(output, target), nil
}

// execRustup runs the binary with a timeout, keeping stdout and stderr
// separate so list output can be parsed and failures reported verbatim.
func (c *Client) execRustup(timeout time.Duration, args ...string) (string, error) {
	cmd := exec.Command(c.Bin, args...)
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := runWithTimeout(cmd, timeout); err != nil {
		return "", &Error{Args: args, Output: stderr.String(), Err: err}
	}
	return stdout.String(), nil
}

// runWithTimeout starts the command and kills it if it outlives the timeout.
func runWithTimeout(cmd *exec.Cmd, timeout time.Duration) error {
	if err := cmd.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		<-done
		return fmt.Errorf("command timed out after %s", timeout)
	}
}

// parseToolchainList extracts toolchain names from `rustup toolchain list`
// output, dropping the default marker.
func parseToolchainList(output string) []string {
	var names []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "no installed toolchains" {
			continue
		}
		names = append(names, strings.TrimSuffix(line, defaultSuffix))
	}
	return names
}

// defaultFromList finds the toolchain marked as default in
// `rustup toolchain list` output.
func defaultFromList(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasSuffix(line, defaultSuffix) {
			return strings.TrimSuffix(line, defaultSuffix), true
		}
	}
	return "", false
}

// parseComponentList extracts installed component names from
// `rustup component list` output. Only lines marked installed or default
// count; the trailing "-<target>" suffix is stripped so names match
// manifest package names.
func parseComponentList(output, target string) []string {
	var components []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)

		var name string
		switch {
		case strings.HasSuffix(line, defaultSuffix):
			name = strings.TrimSuffix(line, defaultSuffix)
		case strings.HasSuffix(line, installedSuffix):
			name = strings.TrimSuffix(line, installedSuffix)
		default:
			continue
		}

		name = strings.TrimSuffix(name, "-"+target)
		if excludedComponents[name] {
			continue
		}
		components = append(components, name)
	}
	return components
}
