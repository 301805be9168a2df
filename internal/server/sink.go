// Package server implements the outbound half of a relay connection: a
// per-connection FIFO drained by a single writer goroutine.
package server

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/eapache/queue"
	"github.com/gorilla/websocket"
)

var (
	// ErrSinkClosed is returned by Send after the sink has been closed.
	ErrSinkClosed = errors.New("sink closed")
	// ErrSinkBroken is returned by Send once a write to the peer has failed.
	ErrSinkBroken = errors.New("sink broken by earlier write failure")
)

// Sink accepts outbound frames for exactly one connection.
type Sink interface {
	Send(msg []byte) error
	Close() error
}

// frameWriter is the subset of *websocket.Conn a connSink needs.
type frameWriter interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// connSink queues frames without touching the network, so Send is safe to
// call while the registry lock is held. Frames are written in the order they
// were queued.
type connSink struct {
	conn         frameWriter
	addr         string
	writeTimeout time.Duration

	mu      sync.Mutex
	cond    *sync.Cond
	pending *queue.Queue
	closed  bool
	broken  bool

	closeOnce sync.Once
	done      chan struct{}
}

func newConnSink(conn frameWriter, addr string, writeTimeout time.Duration) *connSink {
	s := &connSink{
		conn:         conn,
		addr:         addr,
		writeTimeout: writeTimeout,
		pending:      queue.New(),
		done:         make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)

	go s.writeLoop()
	return s
}

// Send queues msg for delivery. It never blocks on the peer.
func (s *connSink) Send(msg []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}
	if s.broken {
		return ErrSinkBroken
	}

	s.pending.Add(msg)
	s.cond.Signal()
	return nil
}

// Close stops the writer, drops undelivered frames and closes the
// connection. Only the first call has any effect.
func (s *connSink) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.pending = queue.New()
		s.cond.Broadcast()
		s.mu.Unlock()

		err = s.conn.Close()
		<-s.done
	})
	return err
}

// queued reports the number of frames waiting to be written.
func (s *connSink) queued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.Length()
}

func (s *connSink) writeLoop() {
	defer close(s.done)

	for {
		msg, ok := s.next()
		if !ok {
			return
		}

		if err := s.write(msg); err != nil {
			if !isExpectedCloseError(err) {
				log.Printf("Error writing message to %s: %v", s.addr, err)
			}
			s.markBroken()
			return
		}
	}
}

// next blocks until a frame is queued or the sink is closed.
func (s *connSink) next() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.pending.Length() == 0 && !s.closed {
		s.cond.Wait()
	}
	if s.closed {
		return nil, false
	}

	return s.pending.Remove().([]byte), true
}

func (s *connSink) write(msg []byte) error {
	if s.writeTimeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
			return err
		}
	}
	return s.conn.WriteMessage(websocket.TextMessage, msg)
}

func (s *connSink) markBroken() {
	s.mu.Lock()
	s.broken = true
	s.pending = queue.New()
	s.mu.Unlock()
}
