package skycity

// PendingJob runs one unit of work on its own goroutine and delivers the
// result through a non-blocking poll. At most one job should be outstanding
// per consumer; launch the next only after TryTake has returned the
// previous result. There is no cancellation: a launched job always runs to
// completion.
type PendingJob[T any] struct {
	result      chan T
	outstanding bool
}

// Launch starts fn on a new goroutine and marks the job outstanding.
// Launching while a job is still outstanding panics: the caller has broken
// the at-most-one invariant.
func (j *PendingJob[T]) Launch(fn func() T) {
	if j.outstanding {
		panic("skycity: PendingJob launched while a job is outstanding")
	}
	j.result = make(chan T, 1)
	j.outstanding = true
	go func(out chan<- T) {
		out <- fn()
	}(j.result)
}

// TryTake returns the completed result without blocking. ok is false while
// the job is still running or none was launched.
func (j *PendingJob[T]) TryTake() (value T, ok bool) {
	if !j.outstanding {
		return value, false
	}
	select {
	case v := <-j.result:
		j.outstanding = false
		return v, true
	default:
		return value, false
	}
}

// IsOutstanding reports whether a launched job has not been taken yet.
func (j *PendingJob[T]) IsOutstanding() bool {
	return j.outstanding
}
