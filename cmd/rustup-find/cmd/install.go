package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Find and install the latest release that matches the required components",
	Long: `Run find's resolution, then install the resolved toolchain via rustup.

With --skip, an already-installed toolchain is left alone and the command
still succeeds with the existing name.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, opts, err := newDeps(cmd)
		if err != nil {
			return err
		}

		res, err := d.orch.Install(opts)
		if err != nil {
			reportResolutionFailure(d.status, err)
			return err
		}

		fmt.Fprintln(os.Stdout, res.Toolchain.Name())
		return nil
	},
}

func init() {
	installCmd.Flags().BoolP("skip", "s", false, "Do not install if the resolved toolchain is already present")
	rootCmd.AddCommand(installCmd)
}
