package download

import "sync"

// CancelToken is a one-shot cancellation signal owned by a single job.
// Callers only ever Cancel it; the worker observes Done.
type CancelToken struct {
	once sync.Once
	done chan struct{}
}

// NewCancelToken returns an unset token
func NewCancelToken() *CancelToken {
	return &CancelToken{done: make(chan struct{})}
}

// Cancel sets the token. Repeated calls are no-ops.
func (t *CancelToken) Cancel() {
	t.once.Do(func() { close(t.done) })
}

// Done is closed once the token is set
func (t *CancelToken) Done() <-chan struct{} {
	return t.done
}

// Cancelled reports whether Cancel was called
func (t *CancelToken) Cancelled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
