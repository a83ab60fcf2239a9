package progress

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// writeWait bounds how long the writer goroutine may spend on one slow
// subscriber before that subscriber is dropped.
const writeWait = 100 * time.Millisecond

// eventBuffer is the broadcast queue depth. Events beyond it are dropped
// rather than blocking the worker that produced them.
const eventBuffer = 256

// Event is one progress update pushed to websocket subscribers.
type Event struct {
	Event     string `json:"event"` // start, tick, done
	Completed int64  `json:"completed"`
	Total     int64  `json:"total"`
}

// Hub is a Reporter that broadcasts progress events to websocket
// subscribers. Reporter calls only enqueue; a single writer goroutine fans
// the events out, so a slow subscriber never blocks the computation and
// delays other subscribers at most writeWait. Slow or broken subscribers
// are dropped.
type Hub struct {
	upgrader websocket.Upgrader

	mu   sync.Mutex
	subs map[*websocket.Conn]struct{}

	events    chan Event
	quit      chan struct{}
	closeOnce sync.Once

	total atomic.Int64
	done  atomic.Int64
}

// NewHub builds an empty hub and starts its writer.
func NewHub() *Hub {
	h := &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  512,
			WriteBufferSize: 512,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		subs:   make(map[*websocket.Conn]struct{}),
		events: make(chan Event, eventBuffer),
		quit:   make(chan struct{}),
	}
	go h.writePump()
	return h
}

// ServeHTTP upgrades the request to a websocket and registers it as a
// subscriber until the peer closes the connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("progress websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.subs[conn] = struct{}{}
	h.mu.Unlock()

	// Read pump: discard inbound frames, detect peer close.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.subs, conn)
	h.mu.Unlock()
	conn.Close()
}

// writePump is the hub's only frame writer. It drains the event queue in
// order until Close.
func (h *Hub) writePump() {
	for {
		select {
		case <-h.quit:
			return
		case ev := <-h.events:
			h.mu.Lock()
			conns := make([]*websocket.Conn, 0, len(h.subs))
			for c := range h.subs {
				conns = append(conns, c)
			}
			h.mu.Unlock()

			for _, c := range conns {
				c.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.WriteJSON(ev); err != nil {
					h.drop(c)
				}
			}
		}
	}
}

// broadcast enqueues one event without ever blocking the caller. A full
// queue or a closed hub drops the event.
func (h *Hub) broadcast(event string) {
	ev := Event{
		Event:     event,
		Completed: h.done.Load(),
		Total:     h.total.Load(),
	}
	select {
	case <-h.quit:
	case h.events <- ev:
	default:
	}
}

// Start announces a new batch to all subscribers.
func (h *Hub) Start(total int) {
	h.total.Store(int64(total))
	h.done.Store(0)
	h.broadcast("start")
}

// Tick records one completion and broadcasts it.
func (h *Hub) Tick() {
	h.done.Add(1)
	h.broadcast("tick")
}

// Done broadcasts batch completion.
func (h *Hub) Done() {
	h.broadcast("done")
}

// Close stops the writer and disconnects all subscribers.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.quit) })

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.subs))
	for c := range h.subs {
		conns = append(conns, c)
	}
	h.subs = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}
