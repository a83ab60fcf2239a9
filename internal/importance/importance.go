// Package importance is the perturbation-and-aggregation engine: it
// estimates, for a trained model and a reference dataset, how much each
// input feature drives the model's output. One feature at a time is
// perturbed with plausible replacement values, the data is re-scored, and
// the movement in predictions (or in a labeled score) is aggregated into a
// per-feature distribution summing to 1.
package importance

import (
	"context"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"featimp/internal/dataset"
	"featimp/internal/model"
	"featimp/internal/progress"
)

// MetricsSink is the narrow metrics surface the engine reports to. A nil
// sink disables instrumentation.
type MetricsSink interface {
	ImportanceRunsInc()
	ImportanceRunFailuresInc()
	PoolFallbacksInc()
	FeatureTaskDuration(seconds float64)
	BaselineRowsSet(rows int)
}

// Interpreter carries the state shared by all interpretation calls: the
// dataset handle, optional training labels, the logger, and the metrics
// sink. It replaces ambient global state with an explicit context object.
type Interpreter struct {
	data    *dataset.Dataset
	labels  []float64
	log     zerolog.Logger
	metrics MetricsSink
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLabels supplies ground-truth labels, positionally aligned with the
// dataset. Required for the conditional-permutation method.
func WithLabels(labels []float64) Option {
	return func(in *Interpreter) { in.labels = labels }
}

// WithLogger sets the logger used for warnings and diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(in *Interpreter) { in.log = log }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m MetricsSink) Option {
	return func(in *Interpreter) { in.metrics = m }
}

// New builds an Interpreter over a dataset.
func New(data *dataset.Dataset, opts ...Option) *Interpreter {
	in := &Interpreter{
		data: data,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Options control one FeatureImportance run.
type Options struct {
	// Ascending orders the returned scores smallest-first when true.
	Ascending bool
	// FilterClasses restricts classification runs to a subset of the
	// model's target classes. Must be a subset of Model.TargetNames.
	FilterClasses []string
	// Workers bounds the parallel trials. Zero or negative means all
	// available CPUs; exactly 1 forces sequential execution and never
	// touches the worker pool.
	Workers int
	// Progress, when non-nil, is ticked once per completed feature, in
	// completion order. Reporting adds measurable overhead.
	Progress progress.Reporter
	// NSamples caps the number of rows used as the shared baseline. The
	// full dataset is used when it has at most this many rows. Defaults
	// to 5000.
	NSamples int
	// Method selects the scoring method. Defaults to output-variance.
	Method Method
	// Scorer overrides the model's default scorer for
	// conditional-permutation.
	Scorer *model.Scorer
	// UseScaling weights each row's contribution by the strength of its
	// perturbation.
	UseScaling bool
	// Seed fixes the sampling RNG for reproducible runs. Zero draws a
	// seed from the clock.
	Seed int64
}

// Score is one entry of the final importance distribution.
type Score struct {
	Feature string
	Value   float64
}

const defaultNSamples = 5000

// FeatureImportance computes the importance of every feature in the
// dataset for the given model and returns the normalized distribution,
// ordered by value. Per-feature trials run on a bounded worker set; any
// parallel failure triggers one full sequential re-run before an error is
// surfaced.
func (in *Interpreter) FeatureImportance(ctx context.Context, m model.Model, opts Options) ([]Score, error) {
	if opts.Method == "" {
		opts.Method = MethodOutputVariance
	}
	if opts.NSamples <= 0 {
		opts.NSamples = defaultNSamples
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	raw, err := in.rawImportances(ctx, m, opts)
	if err != nil {
		if in.metrics != nil {
			in.metrics.ImportanceRunFailuresInc()
		}
		return nil, err
	}

	var sum float64
	for _, v := range raw {
		sum += v
	}
	if !(sum > 0) {
		in.log.Debug().Interface("raw_importances", raw).Msg("importances failed the positivity check")
		if in.metrics != nil {
			in.metrics.ImportanceRunFailuresInc()
		}
		return nil, &ComputationError{
			Reason: "importances do not sum to a positive value; possible causes: " +
				"zero or infinite divisions, perturbed values equal to original values, or a constant feature",
			Raw: raw,
		}
	}

	scores := make([]Score, 0, len(raw))
	for id, v := range raw {
		scores = append(scores, Score{Feature: id, Value: divideZeroSafe(v, sum)})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Value == scores[j].Value {
			return scores[i].Feature < scores[j].Feature
		}
		if opts.Ascending {
			return scores[i].Value < scores[j].Value
		}
		return scores[i].Value > scores[j].Value
	})

	if in.metrics != nil {
		in.metrics.ImportanceRunsInc()
	}
	return scores, nil
}

// rawImportances validates the request, computes the baseline once, and
// runs one trial per feature, returning the unnormalized mapping.
func (in *Interpreter) rawImportances(ctx context.Context, m model.Model, opts Options) (map[string]float64, error) {
	if len(opts.FilterClasses) > 0 {
		known := make(map[string]struct{})
		for _, c := range m.TargetNames() {
			known[c] = struct{}{}
		}
		for _, c := range opts.FilterClasses {
			if _, ok := known[c]; !ok {
				return nil, validationErrorf("filter class %q is not one of the model's target classes %v", c, m.TargetNames())
			}
		}
	}

	// Checked before any sampling or prediction, so a misconfigured run
	// costs nothing.
	if opts.Method == MethodConditionalPermutation && in.labels == nil {
		return nil, configErrorf("conditional-permutation requires training labels; " +
			"supply them with WithLabels or use a method that needs no ground truth")
	}
	if in.labels != nil && len(in.labels) != in.data.NRows() {
		return nil, validationErrorf("%d labels for %d dataset rows", len(in.labels), in.data.NRows())
	}

	var scorer *model.Scorer
	if opts.Method == MethodConditionalPermutation {
		scorer = opts.Scorer
		if scorer == nil {
			scorer = m.Scorers().Default()
		}
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	inputs := in.data
	labels := in.labels
	if in.data.NRows() > opts.NSamples {
		sampled, picked, err := in.data.SampleRows(opts.NSamples, rng)
		if err != nil {
			return nil, err
		}
		inputs = sampled
		// Labels are subsampled by the same indices, keeping positional
		// alignment by construction.
		if labels != nil && picked != nil {
			sub := make([]float64, len(picked))
			for i, r := range picked {
				sub[i] = labels[r]
			}
			labels = sub
		}
	}

	if in.metrics != nil {
		in.metrics.BaselineRowsSet(inputs.NRows())
	}

	baselinePreds, err := m.Predict(inputs.Rows())
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	features := inputs.Features()
	tick := func() {}
	var reporter *safeReporter
	if opts.Progress != nil {
		in.log.Warn().Msg("progress reporting slows importance runs measurably; disable it for slightly faster runs")
		reporter = &safeReporter{r: opts.Progress, log: in.log}
		reporter.Start(len(features))
		tick = reporter.Tick
		defer reporter.Done()
	}

	tasks := make([]task, len(features))
	for i, f := range features {
		f := f
		// Each trial gets its own deterministically derived RNG, so the
		// parallel and sequential paths produce identical results.
		seed := opts.Seed + int64(i) + 1
		tasks[i] = task{
			feature: f.ID,
			run: func() (float64, error) {
				start := time.Now()
				taskRNG := rand.New(rand.NewSource(seed))
				v, err := computeFeatureImportance(m, inputs, baselinePreds, f, labels, opts.Method, opts.UseScaling, scorer, taskRNG)
				if in.metrics != nil {
					in.metrics.FeatureTaskDuration(time.Since(start).Seconds())
				}
				return v, err
			},
		}
	}

	// Workers == 1 is the documented escape hatch: sequential execution in
	// the current goroutine, no pool, no fallback.
	if workers == 1 {
		return runSequential(ctx, tasks, tick)
	}

	raw, err := runParallel(ctx, workers, tasks, tick)
	if err != nil {
		// Caller cancellation is not pool breakage: a sequential re-run
		// would fail the same way, so propagate it directly.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// Partial results from the failed attempt are discarded: pool
		// failures are assumed to indicate pool-wide breakage, and the
		// sequential re-run recomputes every feature. If a single trial
		// is genuinely broken, the re-run surfaces its error attributed
		// to the feature.
		in.log.Warn().Err(err).Msg("parallel importance run failed, falling back to sequential execution")
		if in.metrics != nil {
			in.metrics.PoolFallbacksInc()
		}
		if reporter != nil {
			reporter.Start(len(features))
		}
		return runSequential(ctx, tasks, tick)
	}
	return raw, nil
}

// divideZeroSafe returns a/b, treating 0/0 as 0 instead of NaN.
func divideZeroSafe(a, b float64) float64 {
	if a == 0 && b == 0 {
		return 0
	}
	return a / b
}

// safeReporter shields a run from a broken Reporter: a panic in any
// reporter method is logged and contained, never aborting the computation
// it observes.
type safeReporter struct {
	r   progress.Reporter
	log zerolog.Logger
}

func (s *safeReporter) guard(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn().Interface("panic", r).Msg("progress reporter failed")
		}
	}()
	fn()
}

func (s *safeReporter) Start(total int) { s.guard(func() { s.r.Start(total) }) }

func (s *safeReporter) Tick() { s.guard(s.r.Tick) }

func (s *safeReporter) Done() { s.guard(s.r.Done) }
