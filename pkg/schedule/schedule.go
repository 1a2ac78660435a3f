// Package schedule runs recurring maintenance tasks.
//
//	schedule.Every(15).Minutes().Name("carts.prune").Run(pruneStaleCarts)
//	schedule.Daily().Name("stock.scan").Run(scanLowStock)
//	schedule.Cron("0 3 * * *").Name("orders.report").Run(buildDailyReport)
//
//	schedule.Start(ctx)
package schedule

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nikhilverma/shopline/pkg/logger"
)

// Task is a scheduled unit of work.
type Task func()

type entry struct {
	mu        sync.Mutex
	name      string
	interval  time.Duration
	cronExpr  string
	task      Task
	lastRun   time.Time
	running   bool
	noOverlap bool
}

// Builder configures a single entry before registration.
type Builder struct {
	e *entry
}

var (
	regMu   sync.Mutex
	entries []*entry
)

// Every starts a builder for an interval of n units.
func Every(n int) *unitBuilder { return &unitBuilder{n: n} }

// EveryMinute runs the task once a minute.
func EveryMinute() *Builder { return Every(1).Minutes() }

// Hourly runs the task once an hour.
func Hourly() *Builder { return Every(1).Hours() }

// Daily runs the task once every 24 hours.
func Daily() *Builder { return Every(24).Hours() }

// Cron schedules with a 5-field expression: minute hour dom month dow.
// Fields accept *, a number, */step, or lo-hi ranges.
func Cron(expr string) *Builder {
	return &Builder{e: &entry{cronExpr: expr}}
}

type unitBuilder struct{ n int }

func (u *unitBuilder) Seconds() *Builder {
	return &Builder{e: &entry{interval: time.Duration(u.n) * time.Second}}
}

func (u *unitBuilder) Minutes() *Builder {
	return &Builder{e: &entry{interval: time.Duration(u.n) * time.Minute}}
}

func (u *unitBuilder) Hours() *Builder {
	return &Builder{e: &entry{interval: time.Duration(u.n) * time.Hour}}
}

// WithoutOverlapping skips a firing while the previous run is still going.
func (b *Builder) WithoutOverlapping() *Builder {
	b.e.noOverlap = true
	return b
}

// Name labels the entry for logs and the CLI listing.
func (b *Builder) Name(name string) *Builder {
	b.e.name = name
	return b
}

// Run registers the task. The scheduler must be started with Start.
func (b *Builder) Run(fn Task) {
	b.e.task = fn
	regMu.Lock()
	if b.e.name == "" {
		b.e.name = fmt.Sprintf("task-%d", len(entries)+1)
	}
	entries = append(entries, b.e)
	regMu.Unlock()
}

// Start launches the scheduler loop. It checks due entries once per second
// and exits when ctx is cancelled.
func Start(ctx context.Context) {
	go loop(ctx)
	logger.Info("schedule: started", "entries", len(entries))
}

func loop(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("schedule: stopped")
			return
		case now := <-ticker.C:
			regMu.Lock()
			snapshot := make([]*entry, len(entries))
			copy(snapshot, entries)
			regMu.Unlock()

			for _, e := range snapshot {
				if e.due(now) {
					e.fire()
				}
			}
		}
	}
}

func (e *entry) due(now time.Time) bool {
	if e.cronExpr != "" {
		// Cron entries fire at most once per minute.
		if !e.lastRun.IsZero() && now.Sub(e.lastRun) < time.Minute {
			return false
		}
		return cronMatch(e.cronExpr, now)
	}
	if e.lastRun.IsZero() {
		return true
	}
	return now.Sub(e.lastRun) >= e.interval
}

func (e *entry) fire() {
	e.mu.Lock()
	if e.noOverlap && e.running {
		e.mu.Unlock()
		logger.Warn("schedule: run still in progress, skipping", "task", e.name)
		return
	}
	e.running = true
	e.lastRun = time.Now()
	e.mu.Unlock()

	go func() {
		defer func() {
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
			if r := recover(); r != nil {
				logger.Error("schedule: task panicked", "task", e.name, "panic", r)
			}
		}()
		logger.Info("schedule: running", "task", e.name)
		e.task()
	}()
}

func cronMatch(expr string, t time.Time) bool {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return false
	}
	vals := []int{t.Minute(), t.Hour(), t.Day(), int(t.Month()), int(t.Weekday())}
	for i, f := range fields {
		if !fieldMatch(f, vals[i]) {
			return false
		}
	}
	return true
}

func fieldMatch(field string, val int) bool {
	switch {
	case field == "*":
		return true
	case strings.HasPrefix(field, "*/"):
		var step int
		fmt.Sscanf(field[2:], "%d", &step)
		return step > 0 && val%step == 0
	case strings.Contains(field, "-"):
		var lo, hi int
		fmt.Sscanf(field, "%d-%d", &lo, &hi)
		return val >= lo && val <= hi
	default:
		var n int
		fmt.Sscanf(field, "%d", &n)
		return n == val
	}
}

// List describes registered entries for the schedule:list command.
func List() []string {
	regMu.Lock()
	defer regMu.Unlock()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		freq := e.cronExpr
		if freq == "" {
			freq = e.interval.String()
		}
		out = append(out, fmt.Sprintf("%-30s %s", e.name, freq))
	}
	return out
}
