package common

import "errors"

var (
	ErrModulePaused  = errors.New("module paused")
	ErrReentrantCall = errors.New("reentrant call")
)

// PauseView exposes the module-level circuit breaker consulted by every
// mutating entry point.
type PauseView interface {
	IsPaused(module string) bool
}

// Guard rejects the call when the named module is paused. A nil view or empty
// module name disables the check.
func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}

// ReentrancyGuard models the busy flag protecting balance-affecting entry
// points. The execution model is single threaded; the guard only has to catch
// synchronous re-invocation through an external collaborator callback.
type ReentrancyGuard struct {
	busy bool
}

// Enter acquires the guard and returns the release function. Every exit path
// of the caller must invoke the release; releasing twice is a no-op.
func (g *ReentrancyGuard) Enter() (func(), error) {
	if g == nil {
		return func() {}, nil
	}
	if g.busy {
		return nil, ErrReentrantCall
	}
	g.busy = true
	released := false
	return func() {
		if !released {
			released = true
			g.busy = false
		}
	}, nil
}

// Held reports whether the guard is currently taken.
func (g *ReentrancyGuard) Held() bool {
	return g != nil && g.busy
}
