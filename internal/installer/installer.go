// Package installer creates and removes tool environments. It is the only
// writer of environments, receipts and shims; listing never mutates them.
package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"toolenv/internal/interpreter"
	"toolenv/internal/logx"
	"toolenv/internal/receipt"
	"toolenv/internal/shim"
	"toolenv/internal/store"
	"toolenv/internal/telemetry"
)

var (
	// ErrAlreadyInstalled is returned when the environment exists and Force
	// is not set.
	ErrAlreadyInstalled = errors.New("tool already installed")

	// ErrNotInstalled is returned when uninstalling an unknown tool.
	ErrNotInstalled = errors.New("tool not installed")
)

// Stage names a step of a single install.
type Stage string

const (
	StageCreating   Stage = "creating"
	StageInstalling Stage = "installing"
	StageLinking    Stage = "linking"
	StageInstalled  Stage = "installed"
	StageFailed     Stage = "failed"
)

// Reporter receives install progress keyed by the requested requirement.
// Detail carries the resolved version once known, or the error text.
type Reporter interface {
	Stage(requirement string, stage Stage, detail string)
}

// Options configures a single install.
type Options struct {
	// Force replaces an existing environment.
	Force bool
	// Reporter, when set, is told about each stage.
	Reporter Reporter
}

func (o Options) report(requirement string, stage Stage, detail string) {
	if o.Reporter != nil {
		o.Reporter.Stage(requirement, stage, detail)
	}
}

// Installer provisions environments under a store's root and exposes them
// through a shim registry.
type Installer struct {
	store    *store.Store
	shims    *shim.Registry
	prov     Provisioner
	identity string
	logger   *zap.Logger
	observer *telemetry.Observer
	now      func() time.Time
}

// Option configures an Installer.
type Option func(*Installer)

// WithIdentity sets the installer marker written into receipts.
func WithIdentity(id string) Option {
	return func(i *Installer) { i.identity = id }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(i *Installer) { i.logger = logx.OrNop(l) }
}

// WithObserver sets the telemetry observer.
func WithObserver(o *telemetry.Observer) Option {
	return func(i *Installer) { i.observer = o }
}

// WithClock overrides the install timestamp source.
func WithClock(now func() time.Time) Option {
	return func(i *Installer) { i.now = now }
}

// New returns an installer writing into st and shims.
func New(st *store.Store, shims *shim.Registry, prov Provisioner, opts ...Option) *Installer {
	i := &Installer{
		store:    st,
		shims:    shims,
		prov:     prov,
		identity: "toolenv",
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Install creates an environment for requirement, installs the package,
// places the shim and finally writes the receipt. Nothing is left behind on
// failure.
func (i *Installer) Install(ctx context.Context, requirement string, opts Options) (rec receipt.Receipt, err error) {
	ctx, span := i.observer.Start(ctx, "toolenv.install", attribute.String("requirement", requirement))
	defer func() {
		i.observer.Operation(ctx, "install", err)
		telemetry.End(span, err)
		if err != nil {
			opts.report(requirement, StageFailed, err.Error())
		}
	}()

	name, err := ParseRequirement(requirement)
	if err != nil {
		return receipt.Receipt{}, err
	}

	exists, err := i.store.Exists(name)
	if err != nil {
		return receipt.Receipt{}, fmt.Errorf("check environment %s: %w", name, err)
	}
	if exists {
		if !opts.Force {
			return receipt.Receipt{}, fmt.Errorf("%w: %s", ErrAlreadyInstalled, name)
		}
		i.logger.Info("replacing environment", zap.String("tool", name))
		if err := i.remove(name); err != nil {
			return receipt.Receipt{}, err
		}
	}

	root := i.store.EnvironmentRoot(name)
	if err := os.MkdirAll(filepath.Dir(root), 0o755); err != nil {
		return receipt.Receipt{}, fmt.Errorf("prepare tool directory: %w", err)
	}

	committed := false
	shimPlaced := false
	defer func() {
		if committed {
			return
		}
		if shimPlaced {
			_ = i.shims.Remove(name)
		}
		_ = os.RemoveAll(root)
	}()

	i.logger.Info("creating environment", zap.String("tool", name), zap.String("root", root))
	opts.report(requirement, StageCreating, "")
	if err := i.prov.CreateEnvironment(ctx, root); err != nil {
		return receipt.Receipt{}, err
	}

	interp, err := interpreter.Resolve(root)
	if err != nil {
		return receipt.Receipt{}, fmt.Errorf("new environment: %w", err)
	}
	opts.report(requirement, StageInstalling, "")
	if err := i.prov.InstallPackage(ctx, interp, requirement); err != nil {
		return receipt.Receipt{}, err
	}

	version, err := i.prov.PackageVersion(ctx, interp, name)
	if err != nil {
		return receipt.Receipt{}, err
	}
	pyVersion, err := i.prov.PythonVersion(ctx, interp)
	if err != nil {
		return receipt.Receipt{}, err
	}

	opts.report(requirement, StageLinking, version)
	shimPath, err := i.shims.Place(name, interp)
	if err != nil {
		return receipt.Receipt{}, err
	}
	shimPlaced = true

	rec = receipt.Receipt{
		Name:          name,
		Requirement:   requirement,
		Version:       version,
		PythonVersion: pyVersion,
		Installer:     i.identity,
		InstalledAt:   i.now().UTC().Truncate(time.Second),
		Entrypoints:   []receipt.Entrypoint{{Name: name, Path: shimPath}},
	}
	if err := writeReceipt(i.store.ReceiptPath(name), rec); err != nil {
		return receipt.Receipt{}, err
	}
	committed = true
	opts.report(requirement, StageInstalled, version)

	i.logger.Info("installed tool",
		zap.String("tool", name),
		zap.String("version", version),
		zap.String("python", pyVersion),
		zap.String("shim", shimPath),
	)
	return rec, nil
}

// Uninstall removes the tool's shims and environment. Shims recorded in the
// receipt are removed too when the receipt can still be read. Names that are
// not a single directory under the tool root fail with store.ErrInvalidName.
func (i *Installer) Uninstall(ctx context.Context, name string) (err error) {
	ctx, span := i.observer.Start(ctx, "toolenv.uninstall", attribute.String("tool", name))
	defer func() {
		i.observer.Operation(ctx, "uninstall", err)
		telemetry.End(span, err)
	}()

	if err := store.ValidateName(name); err != nil {
		return err
	}
	exists, err := i.store.Exists(name)
	if err != nil {
		return fmt.Errorf("check environment %s: %w", name, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotInstalled, name)
	}
	if err := i.remove(name); err != nil {
		return err
	}
	i.logger.Info("uninstalled tool", zap.String("tool", name))
	return nil
}

func (i *Installer) remove(name string) error {
	if err := store.ValidateName(name); err != nil {
		return err
	}
	if rec, err := i.store.LoadReceipt(name); err == nil {
		for _, ep := range rec.Entrypoints {
			if filepath.Dir(ep.Path) != i.shims.Dir() {
				i.logger.Warn("skipping shim outside bin directory", zap.String("path", ep.Path))
				continue
			}
			if err := os.Remove(ep.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("remove shim %s: %w", ep.Path, err)
			}
		}
	} else {
		i.logger.Debug("receipt unavailable during removal", zap.String("tool", name), zap.Error(err))
	}

	if err := i.shims.Remove(name); err != nil {
		return err
	}
	if err := os.RemoveAll(i.store.EnvironmentRoot(name)); err != nil {
		return fmt.Errorf("remove environment %s: %w", name, err)
	}
	return nil
}

func writeReceipt(path string, r receipt.Receipt) error {
	buf, err := receipt.Encode(r)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "receipt-*.toml")
	if err != nil {
		return fmt.Errorf("create temp receipt: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return fmt.Errorf("write receipt temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close receipt temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace receipt: %w", err)
	}
	return nil
}
