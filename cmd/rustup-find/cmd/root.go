package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "rustup-find",
	Short: "Find the most recent Rust release that still ships the components you need",
	Long: `rustup-find scans published channel manifests backward from today until it
finds a date whose snapshot contains every required component, then names,
installs, or swaps in that toolchain via rustup.

Components default to whatever is installed under the current toolchain, so
a plain invocation answers "what is the newest nightly I can move to without
losing anything I use?".`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rustup-find %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Log more information than needed")
	pf.BoolP("quiet", "q", false, "Log nothing")
	pf.BoolP("no-colors", "n", false, "Disable colored output")
	pf.IntP("days", "d", 30, "Number of days to check, starting at the given offset")
	pf.IntP("offset", "o", 0, "Number of days before today at which to start checking")
	pf.StringP("toolchain", "t", "", "Target toolchain as <channel>-<target> (default: the rustup default)")
	pf.StringArrayP("components", "c", nil, "Components that must be available for a release to qualify")
	pf.StringP("rustup-bin", "b", "rustup", "Path to the rustup binary")
	pf.StringP("rustup-dir", "r", "~/.rustup", "Path to the rustup home directory")
	pf.String("dist-server", "", "Manifest host (default: $RUSTUP_DIST_SERVER or "+defaultDistServerHelp+")")
	pf.String("config", "", "Path to the config file (default: ~/.config/rustup-find/config.yaml)")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
