// Package subscription decides which observers of a shared state must redo
// work after a change.
//
// Every Update bumps a version counter. Observers stamp the version they last
// rendered at, so an observer already re-rendered for the current version
// (for example by a parent observer) is not notified twice. Observers that
// supply a dependency selector are only notified when one of the selected
// values changed, compared element by element with strict equality.
//
// The engine calls notify synchronously and makes no assumption about how
// the host schedules the actual render: the only guarantee is that every
// observer ends up notified at most once per version and consistent with the
// latest state.
package subscription

import (
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-formstate/internal/equal"
)

// Handle identifies a subscription. Handles are unique within one engine and
// never reused.
type Handle uint64

// Options configures a subscription.
type Options[S any] struct {
	// Deps selects the values the observer depends on. Without it the
	// observer is notified on every Update. Selectors must not panic; a
	// panic aborts the broadcast and is not recovered.
	Deps func(state S) []any
	// OnUnsubscribed runs once when an Observer is closed.
	OnUnsubscribed func()
}

type entry[S any] struct {
	notify      func()
	deps        func(S) []any
	snapshot    []any
	lastVersion atomic.Uint64
}

// Engine tracks the observers of a state value of type S.
//
// The entry table is guarded so observers may come and go from any
// goroutine. Update itself is expected to be called from one goroutine at a
// time; notify callbacks and selectors run outside the lock and may
// subscribe, unsubscribe or stamp renders.
type Engine[S any] struct {
	state   S
	version atomic.Uint64

	mu      sync.RWMutex
	last    Handle
	order   []Handle
	entries map[Handle]*entry[S]
}

// New builds an engine over state. The state is handed to dependency
// selectors as is.
func New[S any](state S) *Engine[S] {
	return &Engine[S]{
		state:   state,
		entries: make(map[Handle]*entry[S]),
	}
}

// State returns the observed state.
func (e *Engine[S]) State() S {
	return e.state
}

// Version returns the current version. It starts at zero and grows by one on
// every Update.
func (e *Engine[S]) Version() uint64 {
	return e.version.Load()
}

// Len returns the number of live subscriptions.
func (e *Engine[S]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.entries)
}

// Subscribe registers notify. The dependency snapshot is taken immediately
// and the entry is stamped with the current version.
func (e *Engine[S]) Subscribe(notify func(), opts Options[S]) Handle {
	ent := &entry[S]{notify: notify, deps: opts.Deps}
	if opts.Deps != nil {
		ent.snapshot = opts.Deps(e.state)
	}
	ent.lastVersion.Store(e.version.Load())

	e.mu.Lock()
	defer e.mu.Unlock()
	e.last++
	handle := e.last
	e.entries[handle] = ent
	e.order = append(e.order, handle)
	return handle
}

// Unsubscribe removes the entry behind handle. Unknown handles are ignored.
// OnUnsubscribed is not called here; see Observer.Close.
func (e *Engine[S]) Unsubscribe(handle Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.entries[handle]; !ok {
		return
	}
	delete(e.entries, handle)
	for idx, h := range e.order {
		if h == handle {
			e.order = append(e.order[:idx], e.order[idx+1:]...)
			break
		}
	}
}

// Rendered stamps handle with the current version. Call it on every render
// of the observer, including the first one.
func (e *Engine[S]) Rendered(handle Handle) {
	e.mu.RLock()
	ent, ok := e.entries[handle]
	e.mu.RUnlock()
	if ok {
		ent.lastVersion.Store(e.version.Load())
	}
}

// Update bumps the version and notifies every observer that is behind it and
// whose dependencies changed. Observers are visited in subscription order.
// Observers added during the broadcast wait for the next one; observers
// removed during it are skipped.
func (e *Engine[S]) Update() {
	version := e.version.Add(1)

	e.mu.RLock()
	pending := append([]Handle(nil), e.order...)
	e.mu.RUnlock()

	for _, handle := range pending {
		e.mu.RLock()
		ent, ok := e.entries[handle]
		e.mu.RUnlock()
		if !ok {
			continue
		}
		if ent.lastVersion.Load() >= version {
			continue
		}
		if ent.deps != nil {
			next := ent.deps(e.state)
			if len(next) == 0 && len(ent.snapshot) == 0 {
				continue
			}
			if equal.Snapshots(ent.snapshot, next) {
				continue
			}
			ent.snapshot = next
		}
		if ent.notify != nil {
			ent.notify()
		}
	}
}
