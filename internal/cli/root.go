package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	outputJSON bool

	// version is set at link time.
	version = "dev"
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "toolenv",
		Short:         "Install and list command-line tools in isolated Python environments",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Write debug logs to the log directory")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newInstallCmd())
	cmd.AddCommand(newUninstallCmd())
	cmd.AddCommand(newConfigCmd())

	dirCmd := newDirCmd()
	cmd.AddCommand(dirCmd)
	// dir prints bare paths; json does not apply.
	if f := dirCmd.InheritedFlags().Lookup("json"); f != nil {
		f.Hidden = true
	}

	return cmd
}
