package facade

import "github.com/google/uuid"

// ListenerID identifies a registered listener so it can be removed later.
type ListenerID uuid.UUID

func (id ListenerID) String() string {
	return uuid.UUID(id).String()
}

type listener struct {
	id ListenerID
	fn func()
}

// emitter calls zero-argument listeners synchronously, in the order they
// were registered.
type emitter struct {
	listeners []listener
}

func (e *emitter) add(fn func()) ListenerID {
	id := ListenerID(uuid.New())
	e.listeners = append(e.listeners, listener{id: id, fn: fn})
	return id
}

func (e *emitter) remove(id ListenerID) bool {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// emit calls every listener registered when emit was called. Listeners added
// or removed by a listener take effect on the next emit.
func (e *emitter) emit() {
	ls := e.listeners
	for _, l := range ls {
		l.fn()
	}
}
