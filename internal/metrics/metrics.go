package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/studyace/studyace-server/internal/llm"
)

// Store accumulates relay call statistics, overall and per task.
type Store struct {
	totalCalls        int64
	totalErrors       int64
	totalInputTokens  int64
	totalOutputTokens int64
	totalDurationMs   int64

	mu     sync.Mutex
	byTask map[string]*taskCounters
}

type taskCounters struct {
	calls  int64
	errors int64
}

// NewStore creates an empty statistics store.
func NewStore() *Store {
	return &Store{byTask: make(map[string]*taskCounters)}
}

// RecordSuccess records one successful relay call.
func (s *Store) RecordSuccess(task string, duration time.Duration, usage llm.Usage) {
	atomic.AddInt64(&s.totalCalls, 1)
	atomic.AddInt64(&s.totalInputTokens, int64(usage.InputTokens))
	atomic.AddInt64(&s.totalOutputTokens, int64(usage.OutputTokens))
	atomic.AddInt64(&s.totalDurationMs, duration.Milliseconds())
	s.taskCounters(task).addCall()
}

// RecordError records one failed relay call.
func (s *Store) RecordError(task string, duration time.Duration) {
	atomic.AddInt64(&s.totalCalls, 1)
	atomic.AddInt64(&s.totalErrors, 1)
	atomic.AddInt64(&s.totalDurationMs, duration.Milliseconds())
	counters := s.taskCounters(task)
	counters.addCall()
	counters.addError()
}

func (s *Store) taskCounters(task string) *taskCounters {
	s.mu.Lock()
	defer s.mu.Unlock()
	counters, ok := s.byTask[task]
	if !ok {
		counters = &taskCounters{}
		s.byTask[task] = counters
	}
	return counters
}

func (c *taskCounters) addCall()  { atomic.AddInt64(&c.calls, 1) }
func (c *taskCounters) addError() { atomic.AddInt64(&c.errors, 1) }

// UsageTotals returns the accumulated token usage.
func (s *Store) UsageTotals() llm.Usage {
	input := atomic.LoadInt64(&s.totalInputTokens)
	output := atomic.LoadInt64(&s.totalOutputTokens)
	return llm.Usage{
		InputTokens:  int(input),
		OutputTokens: int(output),
		TotalTokens:  int(input + output),
	}
}

// Snapshot returns a point-in-time view of the statistics.
func (s *Store) Snapshot() map[string]any {
	totalCalls := atomic.LoadInt64(&s.totalCalls)
	totalErrors := atomic.LoadInt64(&s.totalErrors)
	input := atomic.LoadInt64(&s.totalInputTokens)
	output := atomic.LoadInt64(&s.totalOutputTokens)
	durationMs := atomic.LoadInt64(&s.totalDurationMs)

	avgDuration := 0.0
	if totalCalls > 0 {
		avgDuration = float64(durationMs) / float64(totalCalls)
	}

	tasks := make(map[string]map[string]int64)
	s.mu.Lock()
	for task, counters := range s.byTask {
		tasks[task] = map[string]int64{
			"calls":  atomic.LoadInt64(&counters.calls),
			"errors": atomic.LoadInt64(&counters.errors),
		}
	}
	s.mu.Unlock()

	return map[string]any{
		"total_calls":         totalCalls,
		"total_errors":        totalErrors,
		"total_input_tokens":  input,
		"total_output_tokens": output,
		"total_tokens":        input + output,
		"total_duration_ms":   durationMs,
		"avg_duration_ms":     avgDuration,
		"tasks":               tasks,
	}
}
