// Package server coordinates connection registration, message fan-out, and
// cleanup for the relay via the Registry type.
package server

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Registry maps connection identities to their outbound sinks. Every
// operation, including the whole of a broadcast, runs under one mutex, so no
// caller ever observes a half-updated set.
type Registry struct {
	mu    sync.Mutex
	sinks map[uuid.UUID]Sink
}

// NewRegistry returns an empty Registry ready for use.
func NewRegistry() *Registry {
	return &Registry{
		sinks: make(map[uuid.UUID]Sink),
	}
}

// Register makes sink reachable by every subsequent Broadcast until id is
// unregistered.
func (r *Registry) Register(id uuid.UUID, sink Sink) {
	r.mu.Lock()
	prev, clash := r.sinks[id]
	r.sinks[id] = sink
	count := len(r.sinks)
	r.mu.Unlock()

	if clash && prev != sink {
		log.Printf("Identity %s registered twice; replacing previous sink", id)
		closeSink(id, prev)
	}
	log.Printf("Client %s registered. Total clients: %d", id, count)
}

// Unregister removes id and closes its sink. It reports whether an entry was
// present; removing an absent id is a no-op.
func (r *Registry) Unregister(id uuid.UUID) bool {
	r.mu.Lock()
	sink, ok := r.sinks[id]
	if ok {
		delete(r.sinks, id)
	}
	count := len(r.sinks)
	r.mu.Unlock()

	if !ok {
		return false
	}

	// Close after releasing the lock
	closeSink(id, sink)
	log.Printf("Client %s unregistered. Total clients: %d", id, count)
	return true
}

// Broadcast offers msg to every registered sink, the sender's included, and
// returns how many accepted it. A failing sink does not stop delivery to the
// others.
func (r *Registry) Broadcast(msg []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	delivered := 0
	for id, sink := range r.sinks {
		if err := sink.Send(msg); err != nil {
			log.Printf("Dropping message for %s: %v", id, err)
			continue
		}
		delivered++
	}
	return delivered
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sinks)
}

// CloseAll unregisters every connection and closes its sink. It returns the
// number of connections closed.
func (r *Registry) CloseAll() int {
	r.mu.Lock()
	sinks := r.sinks
	r.sinks = make(map[uuid.UUID]Sink)
	r.mu.Unlock()

	for id, sink := range sinks {
		closeSink(id, sink)
	}

	log.Printf("Closed %d client connections", len(sinks))
	return len(sinks)
}

func closeSink(id uuid.UUID, sink Sink) {
	if err := sink.Close(); err != nil && !isExpectedCloseError(err) {
		log.Printf("Error closing sink for %s: %v", id, err)
	}
}
