// Package sse implements a Server-Sent Events broker for live note updates.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Event types sent to clients.
const (
	TypeNoteCreated       = "note.created"
	TypeNoteUpdated       = "note.updated"
	TypeNoteDeleted       = "note.deleted"
	TypeCountsUpdated     = "counts.updated"
	TypeCollectionChanged = "collection.changed"
)

// Event represents an SSE event to broadcast.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// CountsFunc returns the payload of a counts.updated event.
type CountsFunc func() any

// Broker fans events out to connected clients.
//
// One goroutine owns the client set and the counts throttle; every public
// method talks to it over channels.
type Broker struct {
	countsEvery time.Duration
	counts      CountsFunc

	join    chan chan []byte
	leave   chan chan []byte
	events  chan Event
	notes   chan Event
	sizeReq chan chan int

	quit    chan struct{}
	done    chan struct{}
	stopped atomic.Bool
}

// NewBroker starts a broker that emits counts.updated at most once per
// countsEvery. Note events inside the window are folded into one trailing
// counts.updated at its end. counts supplies the event payload; nil sends {}.
func NewBroker(countsEvery time.Duration, counts CountsFunc) *Broker {
	if countsEvery <= 0 {
		countsEvery = 2 * time.Second
	}
	b := &Broker{
		countsEvery: countsEvery,
		counts:      counts,
		join:        make(chan chan []byte),
		leave:       make(chan chan []byte),
		events:      make(chan Event, 256),
		notes:       make(chan Event, 256),
		sizeReq:     make(chan chan int),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	go b.loop()
	return b
}

func encode(e Event) ([]byte, bool) {
	payload, err := json.Marshal(e.Data)
	if err != nil {
		return nil, false
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", e.Type, payload)), true
}

func (b *Broker) loop() {
	defer close(b.done)

	clients := make(map[chan []byte]struct{})
	var (
		lastCounts time.Time
		trailing   <-chan time.Time
	)

	send := func(e Event) {
		msg, ok := encode(e)
		if !ok {
			return
		}
		for ch := range clients {
			select {
			case ch <- msg:
			default:
				// slow client; drop rather than stall the loop
			}
		}
	}

	for {
		select {
		case <-b.quit:
			for ch := range clients {
				close(ch)
			}
			return
		case ch := <-b.join:
			clients[ch] = struct{}{}
		case ch := <-b.leave:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}
		case e := <-b.events:
			send(e)
		case e := <-b.notes:
			send(e)
			if trailing != nil {
				break
			}
			if wait := b.countsEvery - time.Since(lastCounts); wait > 0 {
				trailing = time.After(wait)
			} else {
				lastCounts = time.Now()
				send(b.countsEvent())
			}
		case <-trailing:
			trailing = nil
			lastCounts = time.Now()
			send(b.countsEvent())
		case resp := <-b.sizeReq:
			resp <- len(clients)
		}
	}
}

func (b *Broker) countsEvent() Event {
	var data any = struct{}{}
	if b.counts != nil {
		data = b.counts()
	}
	return Event{Type: TypeCountsUpdated, Data: data}
}

// Close stops the loop and closes every client channel. It is safe to call twice.
func (b *Broker) Close() {
	if b.stopped.CompareAndSwap(false, true) {
		close(b.quit)
	}
	<-b.done
}

// Subscribe registers a client.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.stopped.Load() {
		close(ch)
		return ch
	}
	select {
	case b.join <- ch:
	case <-b.done:
		close(ch)
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.stopped.Load() {
		return
	}
	select {
	case b.leave <- ch:
	case <-b.done:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.stopped.Load() {
		return 0
	}
	resp := make(chan int, 1)
	select {
	case b.sizeReq <- resp:
	case <-b.done:
		return 0
	}
	select {
	case n := <-resp:
		return n
	case <-b.done:
		return 0
	}
}

// Publish broadcasts an arbitrary event.
func (b *Broker) Publish(e Event) {
	b.enqueue(b.events, e)
}

// PublishNoteEvent broadcasts a note mutation (kind is created, updated or
// deleted) and schedules a throttled counts.updated.
func (b *Broker) PublishNoteEvent(kind, id string) {
	var typ string
	switch kind {
	case "created":
		typ = TypeNoteCreated
	case "updated":
		typ = TypeNoteUpdated
	case "deleted":
		typ = TypeNoteDeleted
	default:
		return
	}
	b.enqueue(b.notes, Event{Type: typ, Data: map[string]string{"id": id}})
}

func (b *Broker) enqueue(ch chan Event, e Event) {
	if b.stopped.Load() {
		return
	}
	select {
	case ch <- e:
	case <-b.done:
	}
}

// ServeHTTP is the SSE endpoint handler (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
