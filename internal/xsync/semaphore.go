// Package xsync implements small synchronization helpers shared across the
// library.
package xsync

// Semaphore bounds how many goroutines perform some work at the same time,
// e.g. parallel corpus file reads. A capacity <= 0 means no limit.
type Semaphore struct {
	slots chan struct{}
}

// NewSemaphore returns a Semaphore that allows at most capacity simultaneous
// acquisitions.
func NewSemaphore(capacity int) *Semaphore {
	s := &Semaphore{}
	if capacity > 0 {
		s.slots = make(chan struct{}, capacity)
	}
	return s
}

// Acquire a slot, blocking while the semaphore is at capacity. It must be
// matched by exactly one call to Release.
func (s *Semaphore) Acquire() {
	if s.slots != nil {
		s.slots <- struct{}{}
	}
}

// Release a slot previously taken with Acquire.
func (s *Semaphore) Release() {
	if s.slots != nil {
		<-s.slots
	}
}
