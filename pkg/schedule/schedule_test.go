package schedule

import (
	"testing"
	"time"
)

func at(hour, min int, weekday time.Weekday) time.Time {
	// 2025-06-01 is a Sunday; walk forward to the wanted weekday.
	t := time.Date(2025, 6, 1, hour, min, 0, 0, time.UTC)
	for t.Weekday() != weekday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

func TestCronMatch(t *testing.T) {
	cases := []struct {
		expr string
		at   time.Time
		want bool
	}{
		{"* * * * *", at(9, 30, time.Monday), true},
		{"30 9 * * *", at(9, 30, time.Monday), true},
		{"30 9 * * *", at(9, 31, time.Monday), false},
		{"0 0 * * *", at(0, 0, time.Friday), true},
		{"*/15 * * * *", at(12, 45, time.Tuesday), true},
		{"*/15 * * * *", at(12, 50, time.Tuesday), false},
		{"0 9-17 * * *", at(13, 0, time.Wednesday), true},
		{"0 9-17 * * *", at(20, 0, time.Wednesday), false},
		{"0 8 * * 1", at(8, 0, time.Monday), true},
		{"0 8 * * 1", at(8, 0, time.Tuesday), false},
		{"bad expr", at(8, 0, time.Monday), false},
	}

	for _, c := range cases {
		if got := cronMatch(c.expr, c.at); got != c.want {
			t.Errorf("cronMatch(%q, %s): got %v, want %v", c.expr, c.at, got, c.want)
		}
	}
}

func TestIntervalDue(t *testing.T) {
	e := &entry{interval: 5 * time.Minute}
	now := time.Now()

	if !e.due(now) {
		t.Fatal("entry with no prior run should be due")
	}

	e.lastRun = now.Add(-time.Minute)
	if e.due(now) {
		t.Error("entry should not be due one minute after running")
	}

	e.lastRun = now.Add(-6 * time.Minute)
	if !e.due(now) {
		t.Error("entry should be due after its interval elapses")
	}
}

func TestCronDueAtMostOncePerMinute(t *testing.T) {
	e := &entry{cronExpr: "* * * * *"}
	now := time.Now()

	if !e.due(now) {
		t.Fatal("wildcard cron should match")
	}

	e.lastRun = now.Add(-10 * time.Second)
	if e.due(now) {
		t.Error("cron entry re-fired within the same minute")
	}
}

func TestBuilderRegistration(t *testing.T) {
	before := len(List())
	Every(10).Minutes().Name("test.tick").WithoutOverlapping().Run(func() {})

	entriesList := List()
	if len(entriesList) != before+1 {
		t.Fatalf("expected %d entries, got %d", before+1, len(entriesList))
	}
}
