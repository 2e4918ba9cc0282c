package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"toolenv/internal/config"
	"toolenv/internal/installer"
	"toolenv/internal/receipt"
	"toolenv/internal/shim"
	"toolenv/internal/store"
	"toolenv/internal/telemetry"
	"toolenv/internal/tui"
)

var (
	installPython string
	installForce  bool
)

func newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <requirement>...",
		Short: "Install tools into isolated environments",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runInstall,
	}
	cmd.Flags().StringVar(&installPython, "python", "", "Base interpreter used to create environments")
	cmd.Flags().BoolVar(&installForce, "force", false, "Replace an existing environment")
	return cmd
}

type installOutcome struct {
	Requirement string `json:"requirement"`
	Name        string `json:"name,omitempty"`
	Version     string `json:"version,omitempty"`
	Shim        string `json:"shim,omitempty"`
	Error       string `json:"error,omitempty"`
}

func runInstall(cmd *cobra.Command, args []string) error {
	s, err := openSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := checkConfig(cmd, s.cfg); err != nil {
		return err
	}

	request := s.cfg.Python
	if installPython != "" {
		request = installPython
	}

	ctx := commandContext(cmd)
	base, err := findPython(ctx, request)
	if err != nil {
		return err
	}
	s.logger.Info("base interpreter",
		zap.String("request", request),
		zap.String("path", base.Path),
		zap.String("version", base.Version),
	)

	inst := newInstaller(s, base.Path)
	out := cmd.OutOrStdout()

	var (
		outcomes []installOutcome
		errs     []error
	)
	work := func(ctx context.Context, rep installer.Reporter) {
		for _, req := range args {
			if ctx.Err() != nil {
				return
			}
			rec, err := inst.Install(ctx, req, installer.Options{Force: installForce, Reporter: rep})
			outcomes = append(outcomes, outcomeFor(req, rec, err))
			if err != nil {
				s.logger.Error("install failed", zap.String("requirement", req), zap.Error(err))
				errs = append(errs, fmt.Errorf("%s: %w", req, err))
			}
		}
	}

	switch tui.DetectMode(out, outputJSON, os.Getenv) {
	case tui.ModeJSON:
		work(ctx, nil)
		data, err := json.MarshalIndent(outcomes, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case tui.ModeTUI:
		model := tui.NewProgressModel(tui.NewStyles(out), args)
		// RunWithWork returns only after the worker has stopped, so outcomes
		// and errs are safe to read below.
		if err := tui.RunWithWork(ctx, out, model, func(ctx context.Context, send func(tea.Msg)) {
			work(ctx, tui.NewProgramReporter(send))
		}); err != nil {
			if errors.Is(err, tui.ErrInterrupted) {
				s.logger.Warn("install interrupted", zap.Int("finished", len(outcomes)), zap.Int("requested", len(args)))
			}
			return errors.Join(append(errs, err)...)
		}
	default:
		work(ctx, tui.NewLineReporter(out, tui.NewStyles(out)))
	}

	if len(outcomes) < len(args) {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("%w: %v", tui.ErrInterrupted, err))
		}
	}

	if len(errs) < len(args) && !outputJSON {
		warnIfNotOnPath(cmd, s.cfg.BinDir)
	}
	return errors.Join(errs...)
}

func newInstaller(s *session, basePython string) *installer.Installer {
	return installer.New(
		store.New(s.cfg.ToolDir),
		shim.New(s.cfg.BinDir),
		newProvisioner(basePython),
		installer.WithIdentity("toolenv "+version),
		installer.WithLogger(s.logger),
		installer.WithObserver(telemetry.Global()),
	)
}

func outcomeFor(req string, rec receipt.Receipt, err error) installOutcome {
	o := installOutcome{Requirement: req}
	if err != nil {
		o.Error = err.Error()
		return o
	}
	o.Name = rec.Name
	o.Version = rec.Version
	if len(rec.Entrypoints) > 0 {
		o.Shim = rec.Entrypoints[0].Path
	}
	return o
}

// checkConfig reports validation findings on stderr and refuses to continue
// when any is an error.
func checkConfig(cmd *cobra.Command, cfg config.Config) error {
	results := cfg.Validate()
	styles := tui.NewStyles(cmd.ErrOrStderr())
	for _, r := range results {
		if r.Level == "warning" {
			warn(cmd.ErrOrStderr(), styles, r.Message)
		}
	}
	if config.HasErrors(results) {
		var msgs []string
		for _, r := range results {
			if r.Level == "error" {
				msgs = append(msgs, r.Message)
			}
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func warnIfNotOnPath(cmd *cobra.Command, binDir string) {
	path, _ := lookupEnv("PATH")
	for _, dir := range filepath.SplitList(path) {
		if dir != "" && filepath.Clean(dir) == filepath.Clean(binDir) {
			return
		}
	}
	warn(cmd.ErrOrStderr(), tui.NewStyles(cmd.ErrOrStderr()),
		fmt.Sprintf("`%s` is not on your PATH; add it to run installed tools", binDir))
}
