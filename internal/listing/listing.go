// Package listing produces the sorted view of installed tools, reporting
// broken entries as diagnostics instead of failing the whole listing.
package listing

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"toolenv/internal/interpreter"
	"toolenv/internal/logx"
	"toolenv/internal/receipt"
	"toolenv/internal/store"
	"toolenv/internal/telemetry"
)

// evalConcurrency bounds how many environments are inspected at once.
const evalConcurrency = 8

// NoToolsMessage is reported when nothing qualifies for the listing.
const NoToolsMessage = "no tools installed"

// Store is the read side of the environment store used by the listing.
type Store interface {
	Enumerate() ([]string, error)
	LoadReceipt(name string) (receipt.Receipt, error)
	EnvironmentRoot(name string) string
	Root() string
}

// ProbeFunc resolves the interpreter of an environment root.
type ProbeFunc func(envRoot string) (string, error)

// Tool is one successfully listed environment.
type Tool struct {
	Name        string
	Version     string
	Root        string
	Interpreter string
	Receipt     receipt.Receipt
}

// Result holds the listed tools in name order and the diagnostics in the
// order they were discovered.
type Result struct {
	Tools       []Tool
	Diagnostics []Diagnostic
}

// Empty reports the "no tools installed" state.
func (r Result) Empty() bool {
	return len(r.Tools) == 0
}

// Service lists tools from a store.
type Service struct {
	store    Store
	probe    ProbeFunc
	logger   *zap.Logger
	observer *telemetry.Observer
}

// Option configures a Service.
type Option func(*Service)

// WithProbe replaces the interpreter probe.
func WithProbe(p ProbeFunc) Option {
	return func(s *Service) { s.probe = p }
}

// WithLogger sets the logger used for per-entry debug output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = logx.OrNop(l) }
}

// WithObserver sets the telemetry observer.
func WithObserver(o *telemetry.Observer) Option {
	return func(s *Service) { s.observer = o }
}

// New returns a listing service over st.
func New(st Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		probe:  interpreter.Resolve,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List evaluates every environment independently. It fails only when the
// store is unavailable or ctx is done; per-entry problems become diagnostics.
func (s *Service) List(ctx context.Context) (res Result, err error) {
	ctx, span := s.observer.Start(ctx, "toolenv.list")
	defer func() { telemetry.End(span, err) }()

	names, err := s.store.Enumerate()
	if err != nil {
		if errors.Is(err, store.ErrStoreUnavailable) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}
	sort.Strings(names)

	// Entries are independent; evaluate them concurrently and collect in
	// name order.
	type outcome struct {
		tool Tool
		diag *Diagnostic
	}
	outcomes := make([]outcome, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(evalConcurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tool, diag := s.evaluate(name)
			outcomes[i] = outcome{tool: tool, diag: diag}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	for i, name := range names {
		tool, diag := outcomes[i].tool, outcomes[i].diag
		if diag != nil {
			res.Diagnostics = append(res.Diagnostics, *diag)
			s.observer.Entry(ctx, string(diag.Kind))
			s.logger.Debug("excluded tool",
				zap.String("tool", name),
				zap.String("kind", string(diag.Kind)),
				zap.Error(diag.Err),
			)
			continue
		}
		res.Tools = append(res.Tools, tool)
		s.observer.Entry(ctx, "listed")
		s.logger.Debug("listed tool", zap.String("tool", name), zap.String("version", tool.Version))
	}

	span.SetAttributes(
		attribute.Int("toolenv.listed", len(res.Tools)),
		attribute.Int("toolenv.diagnostics", len(res.Diagnostics)),
	)
	s.logger.Info("listed tools",
		zap.String("tool_dir", s.store.Root()),
		zap.Int("candidates", len(names)),
		zap.Int("listed", len(res.Tools)),
		zap.Int("diagnostics", len(res.Diagnostics)),
	)
	return res, nil
}

// evaluate checks the receipt before the interpreter; the first failure
// decides the diagnostic.
func (s *Service) evaluate(name string) (Tool, *Diagnostic) {
	rec, err := s.store.LoadReceipt(name)
	if err != nil {
		kind := MalformedReceipt
		if errors.Is(err, store.ErrReceiptMissing) {
			kind = MissingReceipt
		}
		return Tool{}, &Diagnostic{Kind: kind, Tool: name, Err: err}
	}

	root := s.store.EnvironmentRoot(name)
	interp, err := s.probe(root)
	if err != nil {
		path := interpreter.Path(root)
		var notFound *interpreter.NotFoundError
		if errors.As(err, &notFound) {
			path = notFound.Path
		}
		return Tool{}, &Diagnostic{Kind: BrokenInterpreter, Tool: name, Path: path, Err: err}
	}

	return Tool{
		Name:        name,
		Version:     rec.Version,
		Root:        root,
		Interpreter: interp,
		Receipt:     rec,
	}, nil
}
