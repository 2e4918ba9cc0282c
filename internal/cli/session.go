package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"toolenv/internal/config"
	"toolenv/internal/installer"
	"toolenv/internal/logx"
	"toolenv/internal/paths"
	"toolenv/internal/python"
)

// Hooks replaced by tests.
var (
	lookupEnv paths.LookupEnv = os.LookupEnv

	newProvisioner = func(basePython string) installer.Provisioner {
		return installer.NewVenvProvisioner(basePython)
	}
	findPython = func(ctx context.Context, request string) (python.Base, error) {
		return python.NewFinder().Find(ctx, request)
	}
)

// session is the per-invocation state shared by commands: the effective
// configuration and the logger.
type session struct {
	cfg    config.Config
	logger *zap.Logger
	closer io.Closer
}

// openSession reads configuration once. A log file is opened when the command
// mutates state or --verbose is set; otherwise logging is discarded.
func openSession(logToFile bool) (*session, error) {
	cfg, err := config.Resolve(configPath, lookupEnv)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, logger: zap.NewNop()}
	if logToFile || verbose {
		logger, closer, err := logx.New(cfg.LogDir, verbose)
		if err != nil {
			return nil, err
		}
		s.logger = logger.With(zap.String("version", version))
		s.closer = closer
	}
	s.logger.Debug("configuration resolved",
		zap.String("source", cfg.Source),
		zap.String("tool_dir", cfg.ToolDir),
		zap.String("bin_dir", cfg.BinDir),
	)
	return s, nil
}

func (s *session) Close() {
	if s.closer != nil {
		_ = s.closer.Close()
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
