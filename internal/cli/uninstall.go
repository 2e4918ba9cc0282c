package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <name>...",
		Short: "Remove tools and their shims",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runUninstall,
	}
}

func runUninstall(cmd *cobra.Command, args []string) error {
	s, err := openSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	inst := newInstaller(s, s.cfg.Python)
	ctx := commandContext(cmd)

	var errs []error
	for _, name := range args {
		if err := inst.Uninstall(ctx, name); err != nil {
			s.logger.Error("uninstall failed", zap.String("tool", name), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "uninstalled %s\n", name)
	}
	return errors.Join(errs...)
}
