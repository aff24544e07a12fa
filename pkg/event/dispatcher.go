package event

import (
	"context"
	"errors"
)

// Dispatcher fans a received event out to every handler registered for its
// type. Handlers run sequentially, so a slow handler delays the next one and
// per-queue ordering is preserved.
type Dispatcher struct {
	handlers map[EventType][]HandlerFunc
}

func MakeDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[EventType][]HandlerFunc),
	}
}

// Register adds handler for each of eTypes.
// Not thread safe, meant to be called at the composition root.
func (d *Dispatcher) Register(handler HandlerFunc, eTypes ...EventType) {
	for _, eType := range eTypes {
		d.handlers[eType] = append(d.handlers[eType], handler)
	}
}

// Dispatch invokes registered handlers in registration order and joins their
// errors. Events of an unknown type are ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) error {
	var errs []error
	for _, handler := range d.handlers[e.Type] {
		if err := handler(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
