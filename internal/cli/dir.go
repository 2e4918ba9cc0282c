package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dirBin bool

func newDirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dir",
		Short: "Print the tool directory, or the shim directory with --bin",
		Args:  cobra.NoArgs,
		RunE:  runDir,
	}
	cmd.Flags().BoolVar(&dirBin, "bin", false, "Print the directory holding shims")
	return cmd
}

func runDir(cmd *cobra.Command, _ []string) error {
	s, err := openSession(false)
	if err != nil {
		return err
	}
	defer s.Close()

	if dirBin {
		fmt.Fprintln(cmd.OutOrStdout(), s.cfg.BinDir)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), s.cfg.ToolDir)
	return nil
}
