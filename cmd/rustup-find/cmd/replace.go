package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var replaceCmd = &cobra.Command{
	Use:   "replace",
	Short: "Find and install the latest matching release, then make it the default",
	Long: `Run install, then retire the previous dateless toolchain and re-alias its
name to the newly installed snapshot.

The uninstall-then-relink sequence is best effort, not transactional: the
new dated toolchain is guaranteed installed, but an interruption between the
two steps leaves no dateless alias until one is recreated with
"rustup toolchain link".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, opts, err := newDeps(cmd)
		if err != nil {
			return err
		}

		res, err := d.orch.Replace(opts)
		if err != nil {
			reportResolutionFailure(d.status, err)
			return err
		}

		fmt.Fprintln(os.Stdout, res.Toolchain.Name())
		return nil
	},
}

func init() {
	replaceCmd.Flags().BoolP("skip", "s", false, "Do not install if the resolved toolchain is already present")
	rootCmd.AddCommand(replaceCmd)
}
