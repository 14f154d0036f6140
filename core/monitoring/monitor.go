// Package monitoring reports errors and panics to an external tracker. The
// process wide monitor defaults to a no-op.
package monitoring

import (
	"fmt"
	"sync"
	"time"
)

// Monitor receives errors worth tracking outside the logs.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Flush(time.Duration)                       {}

var (
	mu      sync.RWMutex
	current Monitor = NopMonitor{}
)

// Init installs m as the process wide monitor. Nil restores the no-op.
func Init(m Monitor) {
	if m == nil {
		m = NopMonitor{}
	}
	mu.Lock()
	current = m
	mu.Unlock()
}

func get() Monitor {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// CaptureException records err with optional tags. Nil errors are ignored.
func CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	get().CaptureException(err, tags)
}

// Recover reports a panic in progress to the current monitor and panics
// again. It must be deferred directly.
func Recover() {
	if r := recover(); r != nil {
		get().CaptureException(panicError{r}, map[string]string{"panic": "true"})
		get().Flush(2 * time.Second)
		panic(r)
	}
}

// Flush waits for buffered events.
func Flush(d time.Duration) { get().Flush(d) }

type panicError struct{ v any }

func (p panicError) Error() string {
	if err, ok := p.v.(error); ok {
		return "panic: " + err.Error()
	}
	return fmt.Sprintf("panic: %v", p.v)
}

func (p panicError) Unwrap() error {
	err, _ := p.v.(error)
	return err
}
