// Package schedule runs periodic housekeeping tasks.
//
//	s := schedule.New()
//	s.Daily().Name("carts.purge").WithoutOverlapping().Run(purge)
//	s.Cron("*/15 * * * *").Name("report").Run(report)
//	go s.Start(ctx)
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/honeyshop/pkg/logger"
)

// Task is a scheduled unit of work.
type Task func(ctx context.Context) error

type entry struct {
	id        string
	interval  time.Duration
	cronExpr  string
	task      Task
	noOverlap bool

	mu      sync.Mutex
	lastRun time.Time
	running bool
}

// Scheduler holds the registered tasks.
type Scheduler struct {
	mu      sync.Mutex
	entries []*entry
	wg      sync.WaitGroup
}

func New() *Scheduler { return &Scheduler{} }

// Schedule is a fluent builder for one entry.
type Schedule struct {
	s *Scheduler
	e *entry
}

type Frequency struct {
	s *Scheduler
	n int
}

func (s *Scheduler) Every(n int) *Frequency { return &Frequency{s: s, n: n} }
func (s *Scheduler) EveryMinute() *Schedule { return s.Every(1).Minutes() }
func (s *Scheduler) Hourly() *Schedule      { return s.Every(1).Hours() }
func (s *Scheduler) Daily() *Schedule       { return s.Every(24).Hours() }

// Cron schedules with a 5-field expression: minute hour day month weekday.
// Fields accept *, */step, a-b, a and comma lists of those.
func (s *Scheduler) Cron(expr string) *Schedule {
	return &Schedule{s: s, e: &entry{cronExpr: expr}}
}

func (f *Frequency) every(unit time.Duration) *Schedule {
	return &Schedule{s: f.s, e: &entry{interval: time.Duration(f.n) * unit}}
}

func (f *Frequency) Seconds() *Schedule { return f.every(time.Second) }
func (f *Frequency) Minutes() *Schedule { return f.every(time.Minute) }
func (f *Frequency) Hours() *Schedule   { return f.every(time.Hour) }
func (f *Frequency) Days() *Schedule    { return f.every(24 * time.Hour) }

// WithoutOverlapping skips a run while the previous one is still going.
func (sc *Schedule) WithoutOverlapping() *Schedule {
	sc.e.noOverlap = true
	return sc
}

func (sc *Schedule) Name(id string) *Schedule {
	sc.e.id = id
	return sc
}

// Run registers the task. A malformed cron expression is rejected here.
func (sc *Schedule) Run(task Task) error {
	if sc.e.cronExpr != "" {
		if err := validateCron(sc.e.cronExpr); err != nil {
			return err
		}
	}
	sc.e.task = task

	sc.s.mu.Lock()
	defer sc.s.mu.Unlock()
	if sc.e.id == "" {
		sc.e.id = fmt.Sprintf("task-%d", len(sc.s.entries)+1)
	}
	sc.s.entries = append(sc.s.entries, sc.e)
	return nil
}

// Start ticks every second until ctx is done, then waits for running tasks.
func (s *Scheduler) Start(ctx context.Context) {
	logger.Info("schedule: started", "tasks", len(s.snapshot()))
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			logger.Info("schedule: stopped")
			return
		case now := <-ticker.C:
			s.dispatchDue(ctx, now)
		}
	}
}

// RunDue starts every task due at now and waits for them to finish.
func (s *Scheduler) RunDue(ctx context.Context, now time.Time) int {
	n := s.dispatchDue(ctx, now)
	s.wg.Wait()
	return n
}

func (s *Scheduler) snapshot() []*entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entry(nil), s.entries...)
}

func (s *Scheduler) dispatchDue(ctx context.Context, now time.Time) int {
	started := 0
	for _, e := range s.snapshot() {
		if s.dispatch(ctx, e, now) {
			started++
		}
	}
	return started
}

func (e *entry) due(now time.Time) bool {
	if e.cronExpr != "" {
		// once per matching minute
		if !e.lastRun.IsZero() && e.lastRun.Truncate(time.Minute).Equal(now.Truncate(time.Minute)) {
			return false
		}
		return matchCron(e.cronExpr, now)
	}
	return e.lastRun.IsZero() || now.Sub(e.lastRun) >= e.interval
}

func (s *Scheduler) dispatch(ctx context.Context, e *entry, now time.Time) bool {
	e.mu.Lock()
	if !e.due(now) {
		e.mu.Unlock()
		return false
	}
	if e.noOverlap && e.running {
		e.mu.Unlock()
		logger.Warn("schedule: skipping overlapping task", "id", e.id)
		return false
	}
	e.running = true
	e.lastRun = now
	e.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
			if r := recover(); r != nil {
				logger.Error("schedule: task panicked", "id", e.id, "panic", r)
			}
		}()

		start := time.Now()
		if err := e.task(ctx); err != nil {
			logger.Error("schedule: task failed", "id", e.id, "error", err)
			return
		}
		logger.Info("schedule: task done", "id", e.id, "duration", time.Since(start).String())
	}()
	return true
}

// List describes the registered tasks.
func (s *Scheduler) List() []string {
	entries := s.snapshot()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		freq := e.cronExpr
		if freq == "" {
			freq = "every " + e.interval.String()
		}
		out = append(out, fmt.Sprintf("%s  [%s]", e.id, freq))
	}
	return out
}

// ─── cron ───────────────────────────────────────────────────────────────────

var cronBounds = [5][2]int{{0, 59}, {0, 23}, {1, 31}, {1, 12}, {0, 6}}

func validateCron(expr string) error {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return fmt.Errorf("schedule: cron %q needs 5 fields", expr)
	}
	for i, f := range fields {
		for _, part := range strings.Split(f, ",") {
			if _, err := parsePart(part, cronBounds[i][0], cronBounds[i][1]); err != nil {
				return fmt.Errorf("schedule: cron %q: %w", expr, err)
			}
		}
	}
	return nil
}

func matchCron(expr string, t time.Time) bool {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return false
	}
	values := [5]int{t.Minute(), t.Hour(), t.Day(), int(t.Month()), int(t.Weekday())}
	for i, f := range fields {
		if !matchField(f, values[i], cronBounds[i][0], cronBounds[i][1]) {
			return false
		}
	}
	return true
}

func matchField(field string, val, lo, hi int) bool {
	for _, part := range strings.Split(field, ",") {
		m, err := parsePart(part, lo, hi)
		if err == nil && m(val) {
			return true
		}
	}
	return false
}

func parsePart(part string, lo, hi int) (func(int) bool, error) {
	switch {
	case part == "*":
		return func(int) bool { return true }, nil
	case strings.HasPrefix(part, "*/"):
		step, err := strconv.Atoi(part[2:])
		if err != nil || step <= 0 {
			return nil, fmt.Errorf("bad step %q", part)
		}
		return func(v int) bool { return (v-lo)%step == 0 }, nil
	case strings.Contains(part, "-"):
		a, b, _ := strings.Cut(part, "-")
		from, err1 := strconv.Atoi(a)
		to, err2 := strconv.Atoi(b)
		if err1 != nil || err2 != nil || from < lo || to > hi || from > to {
			return nil, fmt.Errorf("bad range %q", part)
		}
		return func(v int) bool { return v >= from && v <= to }, nil
	default:
		n, err := strconv.Atoi(part)
		if err != nil || n < lo || n > hi {
			return nil, fmt.Errorf("bad value %q", part)
		}
		return func(v int) bool { return v == n }, nil
	}
}
