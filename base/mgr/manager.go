// Package mgr provides a small module manager: just enough lifecycle
// (a cancelable context and a supervised-goroutine helper) for the
// settings module to expose Start/Stop semantics and emit events. There
// is no recurring task scheduler; the resolver is only ever invoked
// explicitly via LoadAll.
package mgr

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/plpmyanmar/terminal/base/log"
)

// Manager owns a cancelable context and supervises goroutines launched
// through Go, recovering and logging any panics so a single faulty
// worker can never bring down the caller.
type Manager struct {
	name string

	ctx       context.Context
	cancelCtx context.CancelFunc

	wg sync.WaitGroup
}

// New returns a new, named Manager.
func New(name string) *Manager {
	m := &Manager{name: name}
	m.ctx, m.cancelCtx = context.WithCancel(context.Background())
	return m
}

// Name returns the manager's name.
func (m *Manager) Name() string {
	return m.name
}

// Ctx returns the manager's context, canceled by Cancel.
func (m *Manager) Ctx() context.Context {
	return m.ctx
}

// Cancel cancels the manager's context.
func (m *Manager) Cancel() {
	m.cancelCtx()
}

// Go launches fn in a new goroutine, recovering any panic and logging it
// with the manager and worker names instead of crashing the process.
func (m *Manager) Go(workerName string, fn func(ctx context.Context) error) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Criticalf("%s: worker %q panicked: %v\n%s", m.name, workerName, r, debug.Stack())
			}
		}()

		if err := fn(m.ctx); err != nil {
			log.Warningf("%s: worker %q returned error: %s", m.name, workerName, err)
		}
	}()
}

// Wait blocks until all goroutines launched via Go have returned.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// String returns a human-readable description of the manager for
// tests and diagnostics.
func (m *Manager) String() string {
	return fmt.Sprintf("manager(%s)", m.name)
}
