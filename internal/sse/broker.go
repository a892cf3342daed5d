// Package sse streams component catalog changes to browsers as
// Server-Sent Events.
//
// Two event types are sent:
//
//	component.<kind>  {"kind","filename","name"} for every watched file change
//	catalog.updated   {"components","count"}     the same body as GET /components
//
// A catalog snapshot is sent to each client on connect and again one throttle
// window after the first file change of a burst.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Event types.
const (
	TypeCatalogUpdated  = "catalog.updated"
	typeComponentPrefix = "component."
)

const (
	clientBuffer      = 32
	snapshotTimeout   = 5 * time.Second
	keepAliveInterval = 30 * time.Second
)

// CatalogSource returns the current sorted component names.
type CatalogSource func(ctx context.Context) ([]string, error)

// ComponentChange is the payload of a component.<kind> event.
type ComponentChange struct {
	Kind     string `json:"kind"`
	Filename string `json:"filename"`
	Name     string `json:"name"`
}

// CatalogSnapshot is the payload of a catalog.updated event.
type CatalogSnapshot struct {
	Components []string `json:"components"`
	Count      int      `json:"count"`
}

// Broker fans catalog events out to connected SSE clients.
type Broker struct {
	source   CatalogSource
	throttle time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[chan []byte]struct{}
	nextID  uint64
	refresh *time.Timer
	closed  bool
}

// NewBroker creates a Broker that reads snapshots from source. throttle is the
// minimum spacing of catalog.updated events caused by file changes.
func NewBroker(source CatalogSource, throttle time.Duration, logger *slog.Logger) *Broker {
	if throttle <= 0 {
		throttle = 2 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{
		source:   source,
		throttle: throttle,
		logger:   logger,
		clients:  make(map[chan []byte]struct{}),
	}
}

// NotifyChange broadcasts a component.<kind> event and schedules a catalog
// snapshot one throttle window later. Changes arriving inside the window share
// that snapshot, so it reflects the last of them.
func (b *Broker) NotifyChange(kind, filename, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	b.broadcastLocked(typeComponentPrefix+kind, ComponentChange{Kind: kind, Filename: filename, Name: name})

	if b.refresh == nil {
		b.refresh = time.AfterFunc(b.throttle, b.publishSnapshot)
	}
}

func (b *Broker) publishSnapshot() {
	snap, err := b.snapshot()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh = nil
	if b.closed {
		return
	}
	if err != nil {
		b.logger.Warn("sse: catalog snapshot failed", slog.String("error", err.Error()))
		return
	}
	b.broadcastLocked(TypeCatalogUpdated, snap)
}

func (b *Broker) snapshot() (CatalogSnapshot, error) {
	if b.source == nil {
		return CatalogSnapshot{Components: []string{}}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	names, err := b.source(ctx)
	if err != nil {
		return CatalogSnapshot{}, err
	}
	if names == nil {
		names = []string{}
	}
	return CatalogSnapshot{Components: names, Count: len(names)}, nil
}

// frameLocked encodes one SSE frame and assigns it the next event id.
func (b *Broker) frameLocked(typ string, data any) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	b.nextID++
	return []byte(fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", b.nextID, typ, payload)), nil
}

func (b *Broker) broadcastLocked(typ string, data any) {
	frame, err := b.frameLocked(typ, data)
	if err != nil {
		b.logger.Error("sse: encode event", slog.String("type", typ), slog.String("error", err.Error()))
		return
	}
	for ch := range b.clients {
		select {
		case ch <- frame:
		default:
			b.logger.Debug("sse: client too slow, event dropped", slog.String("type", typ))
		}
	}
}

// subscribe registers a client and queues the current catalog for it.
func (b *Broker) subscribe() (chan []byte, bool) {
	snap, snapErr := b.snapshot()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, false
	}
	ch := make(chan []byte, clientBuffer)
	b.clients[ch] = struct{}{}
	if snapErr != nil {
		b.logger.Warn("sse: initial snapshot failed", slog.String("error", snapErr.Error()))
	} else if frame, err := b.frameLocked(TypeCatalogUpdated, snap); err == nil {
		ch <- frame
	}
	return ch, true
}

func (b *Broker) unsubscribe(ch chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[ch]; ok {
		delete(b.clients, ch)
		close(ch)
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Close disconnects every client and drops any pending snapshot.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	if b.refresh != nil {
		b.refresh.Stop()
		b.refresh = nil
	}
	for ch := range b.clients {
		delete(b.clients, ch)
		close(ch)
	}
}

// ServeHTTP is the SSE endpoint handler (GET /events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch, ok := b.subscribe()
	if !ok {
		http.Error(w, "event stream closed", http.StatusServiceUnavailable)
		return
	}
	defer b.unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keep-alive\n\n"))
			flusher.Flush()
		case frame, ok := <-ch:
			if !ok {
				return
			}
			if _, err := w.Write(frame); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
