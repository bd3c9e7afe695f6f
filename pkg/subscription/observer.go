package subscription

import "sync"

// Observer ties one rendering unit to an engine for its whole lifetime: it
// subscribes on creation, stamps every render and unsubscribes on Close.
type Observer[S any] struct {
	engine         *Engine[S]
	handle         Handle
	onUnsubscribed func()
	closeOnce      sync.Once
}

// Observe subscribes notify and records the first render.
func (e *Engine[S]) Observe(notify func(), opts Options[S]) *Observer[S] {
	o := &Observer[S]{
		engine:         e,
		handle:         e.Subscribe(notify, opts),
		onUnsubscribed: opts.OnUnsubscribed,
	}
	o.Render()
	return o
}

// Handle returns the subscription handle.
func (o *Observer[S]) Handle() Handle {
	return o.handle
}

// Render stamps the observer with the engine's current version. Call it
// whenever the observer renders.
func (o *Observer[S]) Render() {
	o.engine.Rendered(o.handle)
}

// Close unsubscribes and runs OnUnsubscribed. Only the first call has any
// effect.
func (o *Observer[S]) Close() {
	o.closeOnce.Do(func() {
		o.engine.Unsubscribe(o.handle)
		if o.onUnsubscribed != nil {
			o.onUnsubscribed()
		}
	})
}
