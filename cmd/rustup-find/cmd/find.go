package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Find the latest release that matches the required components",
	Long: `Find the most recent date whose published manifest contains every required
component and print the dated toolchain name.

Dates are scanned strictly newest-to-oldest, starting --offset days before
today and covering --days dates. Unpublished dates and dates with missing
components are skipped; a broken or unreachable manifest host aborts the
scan instead of being treated as a miss.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, opts, err := newDeps(cmd)
		if err != nil {
			return err
		}

		res, err := d.orch.Find(opts)
		if err != nil {
			reportResolutionFailure(d.status, err)
			return err
		}

		fmt.Fprintln(os.Stdout, res.Toolchain.Name())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
}
