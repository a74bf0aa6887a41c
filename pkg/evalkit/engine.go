package evalkit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/evalkit/pkg/evalkit/cache"
	"github.com/randalmurphal/evalkit/pkg/evalkit/config"
	"github.com/randalmurphal/evalkit/pkg/evalkit/expr"
	"github.com/randalmurphal/evalkit/pkg/evalkit/library"
	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
	"github.com/randalmurphal/evalkit/pkg/evalkit/observability"
	"github.com/randalmurphal/evalkit/pkg/evalkit/snapshot"
	"github.com/randalmurphal/evalkit/pkg/evalkit/template"
)

// Engine compiles and evaluates expressions for a host.
//
// It adds a compiled-tree cache, a depth limit, structured logging,
// metrics, tracing and context snapshots around the expr package.
// An Engine is safe for concurrent use; the expression contexts passed to
// it are not, unless the host synchronizes them.
type Engine[I numeric.Integer[I, F], F numeric.Float[F]] struct {
	cfg       engineConfig
	trees     *cache.Cache[*expr.Node[I, F]]
	expander  *template.Expander[I, F]
	functions *library.Library[I, F]
	seed      map[string]expr.Value[I, F]
	ownsStore bool
}

// DefaultEngine uses the default numeric types.
type DefaultEngine = Engine[numeric.Int64, numeric.Float64]

// New creates an Engine with the given options.
func New[I numeric.Integer[I, F], F numeric.Float[F]](opts ...Option) *Engine[I, F] {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine[I, F]{cfg: cfg, functions: library.New[I, F]()}
	if cfg.cacheSize > 0 {
		e.trees = cache.New[*expr.Node[I, F]](cfg.cacheSize, cfg.cacheMaxAge)
	}
	e.expander = template.NewExpander(func(source string) (*expr.Node[I, F], error) {
		return e.Compile(context.Background(), source)
	}, template.WithErrorAction(template.ErrorFail))
	return e
}

// NewDefault creates an Engine over the default numeric types.
func NewDefault(opts ...Option) *DefaultEngine {
	return New[numeric.Int64, numeric.Float64](opts...)
}

// NewFromConfig creates an Engine from configuration keys. A snapshot_path
// opens a SQLite snapshot store that Close releases. Options are applied
// after the configuration and take precedence.
func NewFromConfig[I numeric.Integer[I, F], F numeric.Float[F]](cfg config.Config, opts ...Option) (*Engine[I, F], error) {
	settings := cfg.Settings()

	seed, err := config.Variables[I, F](cfg)
	if err != nil {
		return nil, fmt.Errorf("load variables: %w", err)
	}

	base := []Option{
		WithCacheSize(settings.CacheSize),
		WithCacheMaxAge(settings.CacheMaxAge),
		WithMaxDepth(settings.MaxDepth),
		WithBuiltinsDisabled(settings.DisableBuiltins),
		WithMetrics(settings.Metrics),
		WithTracing(settings.Tracing),
	}

	var store *snapshot.SQLiteStore
	if settings.SnapshotPath != "" {
		store, err = snapshot.NewSQLiteStore(settings.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("open snapshot store: %w", err)
		}
		base = append(base, WithSnapshotStore(store))
	}

	e := New[I, F](append(base, opts...)...)
	e.seed = seed
	e.ownsStore = store != nil && e.cfg.store == snapshot.Store(store)
	if store != nil && !e.ownsStore {
		store.Close()
	}
	return e, nil
}

// Library returns the host functions installed in every context the
// engine creates. Register functions before creating contexts.
func (e *Engine[I, F]) Library() *library.Library[I, F] {
	return e.functions
}

// NewContext returns a fresh context holding the configured seed variables
// and the engine's library functions.
func (e *Engine[I, F]) NewContext() *expr.MapContext[I, F] {
	c := expr.NewMapContext[I, F]()
	c.SetBuiltinsDisabled(e.cfg.disableBuiltins)
	for _, name := range slices.Sorted(maps.Keys(e.seed)) {
		c.MustSetVariable(name, e.seed[name])
	}
	// MapContext never refuses a binding.
	_ = e.functions.Install(c)
	return c
}

// Compile builds the operator tree for source, reusing a cached tree when
// the same source was compiled before.
func (e *Engine[I, F]) Compile(ctx context.Context, source string) (*expr.Node[I, F], error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return e.compile(ctx, source, e.cfg.logger)
}

func (e *Engine[I, F]) compile(ctx context.Context, source string, logger *slog.Logger) (*expr.Node[I, F], error) {
	if e.trees == nil {
		return e.build(ctx, source, logger)
	}

	start := time.Now()
	tree, hit, err := e.trees.GetOrCreate(source, func() (*expr.Node[I, F], error) {
		return e.build(ctx, source, logger)
	})
	if hit {
		observability.LogCacheHit(logger, source)
		e.cfg.spans.AddSpanEvent(ctx, "compile.cache_hit")
		e.cfg.metrics.RecordCompile(ctx, time.Since(start), true, nil)
	}
	return tree, err
}

// build parses source and enforces the depth limit.
func (e *Engine[I, F]) build(ctx context.Context, source string, logger *slog.Logger) (tree *expr.Node[I, F], err error) {
	start := time.Now()
	spanCtx, span := e.cfg.spans.StartCompileSpan(ctx, source)
	defer func() {
		e.cfg.spans.EndSpanWithError(span, err)
		e.cfg.metrics.RecordCompile(spanCtx, time.Since(start), false, err)
	}()

	limit := e.cfg.maxDepth
	if limit <= 0 || limit > expr.DefaultMaxDepth {
		limit = expr.DefaultMaxDepth
	}
	tree, err = expr.BuildTreeWithMaxDepth[I, F](source, limit)
	if errors.Is(err, expr.ErrTreeTooDeep) {
		return nil, &DepthError{Depth: limit + 1, Max: limit, Err: err}
	}
	if err != nil {
		return nil, err
	}

	observability.LogCompile(logger, source, float64(time.Since(start).Microseconds())/1000, tree.Depth())
	return tree, nil
}

// Evaluate compiles source and evaluates it against c. A nil c evaluates
// against a fresh context from NewContext.
//
// Evaluation errors are returned unwrapped, so expr.KindOf and errors.Is
// work on them directly. The context.Context is checked once before
// evaluation starts; evaluation itself is not interruptible.
//
// Example:
//
//	engine := evalkit.NewDefault(evalkit.WithLogger(slog.Default()))
//	c := engine.NewContext()
//	v, err := engine.Evaluate(ctx, "a = 2; a * 21", c)
func (e *Engine[I, F]) Evaluate(ctx context.Context, source string, c expr.Context[I, F]) (result expr.Value[I, F], err error) {
	return e.run(ctx, source, c, func(runCtx context.Context, logger *slog.Logger) (*expr.Node[I, F], error) {
		return e.compile(runCtx, source, logger)
	})
}

// EvaluateTree evaluates an already compiled tree against c with the same
// logging, metrics and tracing as Evaluate.
func (e *Engine[I, F]) EvaluateTree(ctx context.Context, tree *expr.Node[I, F], c expr.Context[I, F]) (expr.Value[I, F], error) {
	if tree == nil {
		return expr.Value[I, F]{}, fmt.Errorf("evaluate: nil tree")
	}
	return e.run(ctx, tree.String(), c, func(context.Context, *slog.Logger) (*expr.Node[I, F], error) {
		return tree, nil
	})
}

func (e *Engine[I, F]) run(
	ctx context.Context,
	source string,
	c expr.Context[I, F],
	tree func(context.Context, *slog.Logger) (*expr.Node[I, F], error),
) (result expr.Value[I, F], err error) {
	if ctx == nil {
		return result, ErrNilContext
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if c == nil {
		c = e.NewContext()
	}

	evalID := uuid.NewString()
	logger := observability.EnrichLogger(e.cfg.logger, evalID, source)
	observability.LogEvalStart(logger, evalID)

	start := time.Now()
	done := observability.TimedOperation()

	runCtx, span := e.cfg.spans.StartEvalSpan(ctx, evalID, source)
	defer func() {
		e.cfg.spans.EndSpanWithError(span, err)
	}()

	n, err := tree(runCtx, logger)
	if err == nil {
		result, err = n.EvalWithContext(c)
	}

	e.cfg.metrics.RecordEvaluation(runCtx, time.Since(start), err)
	if err != nil {
		observability.LogEvalError(logger, evalID, err, done())
		return expr.Value[I, F]{}, err
	}

	e.cfg.spans.AddSpanEvent(runCtx, "evaluate.result",
		attribute.String("result.type", result.Type().String()))
	observability.LogEvalComplete(logger, evalID, done(), result.Type())
	return result, nil
}

// EvaluateBoolean evaluates source and requires a boolean result, the
// common case for hosts using expressions as conditions.
func (e *Engine[I, F]) EvaluateBoolean(ctx context.Context, source string, c expr.Context[I, F]) (bool, error) {
	v, err := e.Evaluate(ctx, source, c)
	if err != nil {
		return false, err
	}
	return v.AsBoolean()
}

// Expand replaces ${expression} placeholders in s with their values in c,
// compiling through the engine cache. Any failing placeholder makes it
// return a *template.EvalError.
func (e *Engine[I, F]) Expand(ctx context.Context, s string, c expr.Context[I, F]) (string, error) {
	if ctx == nil {
		return "", ErrNilContext
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c == nil {
		c = e.NewContext()
	}
	return e.expander.Expand(s, c)
}

// SaveContext persists the variables of c under name. Errors are wrapped
// in a *SnapshotError with Op "save".
func (e *Engine[I, F]) SaveContext(ctx context.Context, name string, c *expr.MapContext[I, F]) (*snapshot.Snapshot, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if e.cfg.store == nil {
		return nil, ErrNoSnapshotStore
	}

	snap, err := snapshot.SaveContext(e.cfg.store, name, c)
	if err != nil {
		return nil, e.snapshotError("save", name, err)
	}

	observability.LogSnapshot(e.cfg.logger, "saved", name, c.Len(), len(snap.Variables))
	e.cfg.metrics.RecordSnapshot(ctx, "save", int64(len(snap.Variables)))
	return snap, nil
}

// LoadContext restores the snapshot called name into c. Variables of c
// that the snapshot does not mention are kept. Errors are wrapped in a
// *SnapshotError with Op "load".
func (e *Engine[I, F]) LoadContext(ctx context.Context, name string, c *expr.MapContext[I, F]) (*snapshot.Snapshot, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if e.cfg.store == nil {
		return nil, ErrNoSnapshotStore
	}

	snap, err := snapshot.LoadContext(e.cfg.store, name, c)
	if err != nil {
		return nil, e.snapshotError("load", name, err)
	}

	observability.LogSnapshot(e.cfg.logger, "loaded", name, c.Len(), len(snap.Variables))
	e.cfg.metrics.RecordSnapshot(ctx, "load", int64(len(snap.Variables)))
	return snap, nil
}

// Snapshots lists the stored snapshots.
func (e *Engine[I, F]) Snapshots() ([]snapshot.Info, error) {
	if e.cfg.store == nil {
		return nil, ErrNoSnapshotStore
	}
	return e.cfg.store.List()
}

func (e *Engine[I, F]) snapshotError(op, name string, err error) error {
	observability.LogSnapshotError(e.cfg.logger, op, name, err)
	return &SnapshotError{Name: name, Op: op, Err: err}
}

// CacheStats returns the compiled-tree cache counters. They are zero when
// the cache is disabled.
func (e *Engine[I, F]) CacheStats() cache.Stats {
	if e.trees == nil {
		return cache.Stats{}
	}
	return e.trees.Stats()
}

// Close releases a snapshot store opened by NewFromConfig.
func (e *Engine[I, F]) Close() error {
	if e.ownsStore {
		e.ownsStore = false
		return e.cfg.store.Close()
	}
	return nil
}
