package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustup-find/rustup-find/internal/core"
	"github.com/rustup-find/rustup-find/internal/rustup"
	"github.com/rustup-find/rustup-find/internal/status"
)

const defaultDistServerHelp = core.DefaultDistServer

// deps holds the wired collaborators for one command invocation.
type deps struct {
	status *status.Printer
	orch   *core.Orchestrator
}

// newDeps builds the collaborators and the resolved options for a command,
// layering command-line flags over the config file over built-in defaults.
func newDeps(cmd *cobra.Command) (*deps, core.Options, error) {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	if !flags.Changed("config") {
		configPath = core.DefaultConfigPath()
	}
	cfg, err := core.LoadConfig(configPath)
	if err != nil {
		return nil, core.Options{}, err
	}

	days, _ := flags.GetInt("days")
	if !flags.Changed("days") && cfg.Days > 0 {
		days = cfg.Days
	}
	offset, _ := flags.GetInt("offset")
	if !flags.Changed("offset") && cfg.Offset > 0 {
		offset = cfg.Offset
	}
	if days < 0 || offset < 0 {
		return nil, core.Options{}, fmt.Errorf("--days and --offset must not be negative")
	}

	components, _ := flags.GetStringArray("components")
	if len(components) == 0 {
		components = cfg.Components
	}

	toolchain, _ := flags.GetString("toolchain")
	if toolchain == "" {
		toolchain = cfg.Toolchain
	}
	var channel core.Channel
	var target string
	if toolchain != "" {
		tc, err := core.ParseToolchain(toolchain)
		if err != nil {
			return nil, core.Options{}, err
		}
		if tc.Dated() {
			return nil, core.Options{}, fmt.Errorf("--toolchain must be dateless, got %q", toolchain)
		}
		channel, target = tc.Channel, tc.Target
	}

	rustupBin, _ := flags.GetString("rustup-bin")
	if !flags.Changed("rustup-bin") && cfg.RustupBin != "" {
		rustupBin = cfg.RustupBin
	}
	rustupDir, _ := flags.GetString("rustup-dir")
	if !flags.Changed("rustup-dir") && cfg.RustupDir != "" {
		rustupDir = cfg.RustupDir
	}

	distServer, _ := flags.GetString("dist-server")
	if distServer == "" {
		distServer = cfg.DistServer
	}
	if distServer == "" {
		distServer = os.Getenv("RUSTUP_DIST_SERVER")
	}

	quiet, _ := flags.GetBool("quiet")
	verbose, _ := flags.GetBool("verbose")
	noColors, _ := flags.GetBool("no-colors")
	printer := status.New(quiet, verbose, noColors)

	skip, _ := flags.GetBool("skip")

	manifests := &core.Client{DistServer: distServer}
	toolchains := rustup.NewClient(expandPath(rustupBin))

	d := &deps{
		status: printer,
		orch: &core.Orchestrator{
			Resolver:   &core.Resolver{Source: manifests, Reporter: printer},
			Toolchains: toolchains,
			Reporter:   printer,
			RustupDir:  expandPath(rustupDir),
		},
	}

	opts := core.Options{
		Channel:       channel,
		Target:        target,
		Components:    components,
		OffsetDays:    offset,
		WindowDays:    days,
		SkipInstalled: skip,
	}

	return d, opts, nil
}
