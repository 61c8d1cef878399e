package monitor

import "sync"

// resolver is a single-fire completion gate. A wait can be resolved by the
// terminal-state path and by an independent error path; only the first
// resolution sticks, later ones are ignored.
type resolver struct {
	once     sync.Once
	finalErr error
}

func newResolver() *resolver {
	return &resolver{}
}

func (r *resolver) resolve(err error) {
	r.once.Do(func() {
		r.finalErr = err
	})
}

func (r *resolver) err() error {
	return r.finalErr
}
