// Package progress provides tick-based progress reporting for long
// importance runs. Reporters are advisory: their absence or failure never
// aborts the computation they observe.
package progress

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Reporter observes a batch of tasks. Start announces the batch size, Tick
// records exactly one completed task (in completion order), Done marks the
// batch finished. Tick must not block the caller.
type Reporter interface {
	Start(total int)
	Tick()
	Done()
}

// LogReporter writes progress to a zerolog logger, one line every `every`
// completions plus a final line.
type LogReporter struct {
	log   zerolog.Logger
	every int64
	total atomic.Int64
	done  atomic.Int64
}

// NewLogReporter builds a LogReporter logging every completion. every
// values below 1 are clamped to 1.
func NewLogReporter(log zerolog.Logger, every int) *LogReporter {
	if every < 1 {
		every = 1
	}
	return &LogReporter{log: log, every: int64(every)}
}

// Start resets the counter for a new batch.
func (r *LogReporter) Start(total int) {
	r.total.Store(int64(total))
	r.done.Store(0)
}

// Tick records one completion.
func (r *LogReporter) Tick() {
	n := r.done.Add(1)
	if n%r.every == 0 {
		r.log.Info().
			Int64("completed", n).
			Int64("total", r.total.Load()).
			Msg("feature importance progress")
	}
}

// Done logs the final count.
func (r *LogReporter) Done() {
	r.log.Info().
		Int64("completed", r.done.Load()).
		Int64("total", r.total.Load()).
		Msg("feature importance finished")
}
