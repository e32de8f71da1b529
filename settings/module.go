package settings

import (
	"sync"

	"github.com/plpmyanmar/terminal/base/log"
	"github.com/plpmyanmar/terminal/base/mgr"
)

// Events published by Module.
const (
	// ReloadedEvent fires after a successful (re-)resolution, carrying
	// the fresh Resolution.
	ReloadedEvent = "settings reloaded"
)

// Module wraps the resolver as a named, event-publishing subsystem: a Start/Stop lifecycle plus a generic EventMgr a UI or
// CLI can subscribe to instead of polling Current.
type Module struct {
	mgr *mgr.Manager
	cfg Config

	EventReloaded *mgr.EventMgr[*Resolution]

	mu      sync.RWMutex
	current *Resolution
}

// NewModule returns a Module configured to resolve with cfg. Start must
// be called before Current returns anything useful.
func NewModule(cfg Config) *Module {
	return &Module{
		mgr:           mgr.New("settings"),
		cfg:           cfg,
		EventReloaded: mgr.NewEventMgr[*Resolution]("settings/reloaded"),
	}
}

// Manager returns the module's lifecycle manager.
func (m *Module) Manager() *mgr.Manager {
	return m.mgr
}

// Start performs the initial resolution. A fatal resolution error is
// returned to the caller, which should fall back to built-in
// defaults only.
func (m *Module) Start() error {
	return m.Reload()
}

// Stop cancels the module's manager context and waits for any
// in-flight supervised goroutine to return.
func (m *Module) Stop() error {
	m.mgr.Cancel()
	m.mgr.Wait()
	return nil
}

// Reload re-runs LoadAll, stores the result, and publishes it on
// EventReloaded. Safe to call repeatedly (e.g. in response to a
// user-triggered "reload settings" action); live file-watching itself
// is out of scope.
func (m *Module) Reload() error {
	res, err := LoadAll(m.cfg)
	if err != nil {
		log.Errorf("settings: reload failed: %s", err)
		return err
	}

	m.mu.Lock()
	m.current = res
	m.mu.Unlock()

	for _, w := range res.Warnings {
		log.Warningf("settings: %s", w)
	}

	m.EventReloaded.Submit(res)
	return nil
}

// Current returns the most recently resolved state, or nil if Start/
// Reload has never completed successfully.
func (m *Module) Current() *Resolution {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}
