package queue_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nikhilverma/shopline/pkg/queue"
)

var (
	echoCalls atomic.Int32
	failCalls atomic.Int32
)

type echoJob struct {
	Val string `json:"val"`
}

func (j *echoJob) Handle() error {
	echoCalls.Add(1)
	return nil
}

type failJob struct{}

func (j *failJob) Handle() error {
	failCalls.Add(1)
	return errors.New("always fails")
}

func init() {
	queue.Register("*queue_test.echoJob", func() queue.Job { return &echoJob{} })
	queue.Register("*queue_test.failJob", func() queue.Job { return &failJob{} })

	ctx := context.Background()
	queue.StartWorkers(ctx, 2)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestDispatchAndProcess(t *testing.T) {
	before := echoCalls.Load()
	if err := queue.Dispatch(&echoJob{Val: "hello"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return echoCalls.Load() > before })
}

func TestFailedJobGoesToFailedList(t *testing.T) {
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	before := len(queue.FailedJobs())
	if err := queue.Dispatch(&failJob{}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	waitFor(t, 3*time.Second, func() bool { return len(queue.FailedJobs()) > before })
}

func TestDispatchAfterDelays(t *testing.T) {
	before := echoCalls.Load()
	queue.DispatchAfter(&echoJob{Val: "later"}, 50*time.Millisecond)

	if echoCalls.Load() > before {
		t.Error("job ran before its delay")
	}
	waitFor(t, 2*time.Second, func() bool { return echoCalls.Load() > before })
}
