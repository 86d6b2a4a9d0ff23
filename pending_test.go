package skycity

import (
	"testing"
	"time"
)

func TestPendingJobDeliversResult(t *testing.T) {
	var job PendingJob[int]
	job.Launch(func() int { return 42 })

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if v, ok := job.TryTake(); ok {
			if v != 42 {
				t.Fatalf("TryTake = %d, want 42", v)
			}
			if job.IsOutstanding() {
				t.Fatal("job still outstanding after take")
			}
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("result never arrived")
}

func TestPendingJobTryTakeBeforeLaunch(t *testing.T) {
	var job PendingJob[string]
	if _, ok := job.TryTake(); ok {
		t.Fatal("TryTake succeeded with no job launched")
	}
	if job.IsOutstanding() {
		t.Fatal("fresh job reports outstanding")
	}
}

func TestPendingJobTryTakeWhileRunning(t *testing.T) {
	release := make(chan struct{})
	var job PendingJob[int]
	job.Launch(func() int {
		<-release
		return 1
	})

	if _, ok := job.TryTake(); ok {
		t.Fatal("TryTake returned before the job finished")
	}
	if !job.IsOutstanding() {
		t.Fatal("running job not reported outstanding")
	}
	close(release)
}

func TestPendingJobDoubleLaunchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("double launch did not panic")
		}
	}()

	release := make(chan struct{})
	defer close(release)

	var job PendingJob[int]
	job.Launch(func() int { <-release; return 1 })
	job.Launch(func() int { return 2 })
}

func TestPendingJobRelaunchAfterTake(t *testing.T) {
	var job PendingJob[int]
	for want := 0; want < 5; want++ {
		job.Launch(func() int { return want })
		got, ok := 0, false
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			if got, ok = job.TryTake(); ok {
				break
			}
			time.Sleep(time.Millisecond)
		}
		if !ok || got != want {
			t.Fatalf("round %d: got (%d, %v)", want, got, ok)
		}
	}
}
