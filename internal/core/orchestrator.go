package core

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ToolchainManager is the external tool surface the orchestrator drives.
// internal/rustup implements it against the rustup binary; tests use a fake.
type ToolchainManager interface {
	InstallToolchain(name string) error
	UninstallToolchain(name string) error
	LinkToolchain(name, dir string) error
	InstalledToolchains() ([]string, error)
	DefaultToolchain() (string, error)
	InstalledComponents(toolchain, target string) ([]string, error)
}

// Options are the already-validated inputs for one command invocation.
type Options struct {
	Channel       Channel  // empty: derived from the default toolchain
	Target        string   // empty: derived from the default toolchain
	Components    []string // empty: derived from the installed toolchain
	OffsetDays    int
	WindowDays    int
	SkipInstalled bool // install: do nothing if the resolved toolchain is present
}

// Orchestrator composes the resolver with the external toolchain manager to
// implement the find, install, and replace modes. Each mode is a short
// deterministic sequence; nothing is cached between invocations.
type Orchestrator struct {
	Resolver   *Resolver
	Toolchains ToolchainManager
	Reporter   Reporter
	RustupDir  string // rustup home, used to locate toolchain directories for relinking
}

// Find resolves the most recent qualifying date and returns the dated
// toolchain naming it.
func (o *Orchestrator) Find(opts Options) (*Resolution, error) {
	channel, target, err := o.resolveToolchain(opts)
	if err != nil {
		return nil, err
	}

	o.reporter().Infof("channel: %s", channel)
	o.reporter().Infof("target: %s", target)

	required, err := o.requiredComponents(channel, target, opts.Components)
	if err != nil {
		return nil, err
	}
	o.reporter().Infof("required components: %s", strings.Join(required, ", "))

	return o.Resolver.Resolve(channel, target, required, opts.OffsetDays, opts.WindowDays)
}

// Install runs Find, then installs the resolved toolchain unless it is
// already present and opts.SkipInstalled is set. Installer failures are
// surfaced verbatim as a StepError.
func (o *Orchestrator) Install(opts Options) (*Resolution, error) {
	res, err := o.Find(opts)
	if err != nil {
		return nil, err
	}

	name := res.Toolchain.Name()
	o.reporter().Successf("found valid toolchain: %s", name)

	if opts.SkipInstalled {
		installed, err := o.Toolchains.InstalledToolchains()
		if err != nil {
			return nil, &StepError{Step: StepQuery, Err: err}
		}
		if containsName(installed, name) {
			o.reporter().Successf("toolchain %s is already installed", name)
			return res, nil
		}
	}

	o.reporter().Infof("installing toolchain %s...", name)
	if err := o.Toolchains.InstallToolchain(name); err != nil {
		return nil, &StepError{Step: StepInstall, Err: err}
	}
	o.reporter().Successf("installed toolchain %s", name)

	return res, nil
}

// Replace runs Install to completion, then retires the previous dateless
// toolchain and re-aliases its name to the newly installed snapshot.
//
// The uninstall-then-relink sequence is not transactional: if relinking
// fails, the dated toolchain stays installed but no dateless alias exists
// until one is recreated. The relink failure is reported as its own step so
// it cannot be confused with an installer failure.
func (o *Orchestrator) Replace(opts Options) (*Resolution, error) {
	res, err := o.Install(opts)
	if err != nil {
		return nil, err
	}

	dated := res.Toolchain.Name()
	dateless := res.Toolchain.Dateless().Name()

	installed, err := o.Toolchains.InstalledToolchains()
	if err != nil {
		return nil, &StepError{Step: StepQuery, Err: err}
	}

	if containsName(installed, dateless) {
		o.reporter().Infof("removing previous toolchain %s...", dateless)
		if err := o.Toolchains.UninstallToolchain(dateless); err != nil {
			return nil, &StepError{Step: StepUninstall, Err: err}
		}
	}

	dir := filepath.Join(o.RustupDir, "toolchains", dated)
	if err := o.Toolchains.LinkToolchain(dateless, dir); err != nil {
		return nil, &StepError{Step: StepRelink, Err: err}
	}

	o.reporter().Successf("replaced toolchain %s with %s", dateless, dated)
	return res, nil
}

// resolveToolchain fills in the channel and target, asking the external tool
// for its default toolchain when the caller did not supply them.
func (o *Orchestrator) resolveToolchain(opts Options) (Channel, string, error) {
	if opts.Channel != "" && opts.Target != "" {
		return opts.Channel, opts.Target, nil
	}

	name, err := o.Toolchains.DefaultToolchain()
	if err != nil {
		return "", "", &StepError{Step: StepQuery, Err: fmt.Errorf("determining default toolchain: %w", err)}
	}

	tc, err := ParseToolchain(name)
	if err != nil {
		return "", "", fmt.Errorf("parsing default toolchain: %w", err)
	}
	return tc.Channel, tc.Target, nil
}

// requiredComponents returns the explicit component set, or derives it from
// what is installed under the dateless toolchain so that "keep everything I
// already have" is the default behavior.
func (o *Orchestrator) requiredComponents(channel Channel, target string, explicit []string) ([]string, error) {
	if len(explicit) > 0 {
		return dedupe(explicit), nil
	}

	dateless := Toolchain{Channel: channel, Target: target}.Name()
	components, err := o.Toolchains.InstalledComponents(dateless, target)
	if err != nil {
		return nil, &StepError{Step: StepQuery, Err: fmt.Errorf("listing components of %s: %w", dateless, err)}
	}
	if len(components) == 0 {
		return nil, fmt.Errorf("no components installed under %s; pass --components explicitly", dateless)
	}
	return dedupe(components), nil
}

func (o *Orchestrator) reporter() Reporter {
	if o.Reporter != nil {
		return o.Reporter
	}
	return nopReporter{}
}

// dedupe removes duplicate names, keeping first occurrences in order.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
