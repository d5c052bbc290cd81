package server

import (
	"context"
	"log"
	"time"

	"github.com/chathub-io/chathub/internal/config"
	"github.com/chathub-io/chathub/internal/database"
	"github.com/chathub-io/chathub/internal/stats"
)

type stopReq struct {
	done chan struct{}
}

type inboundEvent struct {
	client *Client
	event  ClientEvent
}

// Hub owns the connection registry and the room membership index. All
// mutations and membership snapshots happen on the Run goroutine, which is the
// single consistency boundary for both structures.
type Hub struct {
	log               *log.Logger
	db                database.ChatRepository
	stats             stats.StatsProvider
	registry          *connRegistry
	members           *membershipIndex
	historyLimit      int
	heartbeatInterval time.Duration
	idleTimeout       time.Duration
	registerChan      chan *Client
	deregisterChan    chan *Client
	eventChan         chan *inboundEvent
	stop              chan stopReq
	done              chan struct{}
}

func NewHub(logger *log.Logger, db database.ChatRepository, sp stats.StatsProvider, cfg *config.Config) (*Hub, error) {
	h := &Hub{
		log:               logger,
		db:                db,
		stats:             sp,
		registry:          newConnRegistry(),
		members:           newMembershipIndex(),
		historyLimit:      cfg.HistoryLimit,
		heartbeatInterval: cfg.HeartbeatInterval,
		idleTimeout:       cfg.IdleTimeout,
		registerChan:      make(chan *Client),
		deregisterChan:    make(chan *Client, 256),
		eventChan:         make(chan *inboundEvent, 256),
		stop:              make(chan stopReq),
		done:              make(chan struct{}),
	}

	for _, name := range []string{
		stats.NumConnections,
		stats.NumActiveRooms,
		stats.MessagesBroadcast,
		stats.ConnectionsEvicted,
	} {
		sp.RegisterMetric(name)
	}

	return h, nil
}

func (h *Hub) Run() {
	ticker := time.NewTicker(h.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case c := <-h.registerChan:
			h.addConnection(c)
		case c := <-h.deregisterChan:
			h.removeConnection(c)
		case ev := <-h.eventChan:
			h.dispatch(ev.client, ev.event)
		case <-ticker.C:
			h.evictIdle()
		case req := <-h.stop:
			h.log.Println("shutting down hub")
			close(h.done)
			for _, c := range h.registry.all() {
				c.stopClient()
			}
			close(req.done)
			return
		}
	}
}

// RegisterClient hands a freshly upgraded connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.registerChan <- c:
	case <-h.done:
	}
}

// DeregisterClient requests removal of a connection. It is the entry point
// for clean closes, read failures and broadcast send failures alike.
func (h *Hub) DeregisterClient(c *Client) {
	select {
	case h.deregisterChan <- c:
	case <-h.done:
	}
}

// Submit queues one inbound event for dispatch. Events are dispatched in the
// order they are submitted, which is the system's per-room ordering guarantee.
func (h *Hub) Submit(c *Client, ev ClientEvent) {
	select {
	case h.eventChan <- &inboundEvent{client: c, event: ev}:
	case <-h.done:
	}
}

func (h *Hub) Shutdown(ctx context.Context) error {
	req := stopReq{done: make(chan struct{})}

	select {
	case h.stop <- req:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) addConnection(c *Client) {
	h.log.Printf("adding connection %s from %q", c.id, c.user.Username)
	h.registry.add(c)
	h.stats.Incr(stats.NumConnections)
	c.queueEvent(newConnectionEstablished(c.id, c.user))
}

// removeConnection is the single removal path: it atomically vacates every
// joined room, retires the connection id and notifies the vacated rooms.
// Removing an unknown connection is a no-op.
func (h *Hub) removeConnection(c *Client) {
	if !h.registry.has(c.id) {
		return
	}

	h.log.Printf("removing connection %s from %q", c.id, c.user.Username)

	roomsBefore := h.members.activeRooms()
	vacated := h.members.removeAll(c.id)
	h.registry.remove(c.id)

	for _, roomId := range vacated {
		h.broadcastToRoom(roomId, newUserDisconnected(roomId, c.user), nil)
	}

	for i := h.members.activeRooms(); i < roomsBefore; i++ {
		h.stats.Decr(stats.NumActiveRooms)
	}
	h.stats.Decr(stats.NumConnections)

	c.stopClient()
}

// evictIdle reclaims connections that produced no inbound activity within the
// idle timeout. Eviction funnels through removeConnection so vacated rooms
// get exactly one disconnect notification.
func (h *Hub) evictIdle() {
	cutoff := time.Now().Add(-h.idleTimeout)
	for _, c := range h.registry.all() {
		if c.lastActivity().Before(cutoff) {
			h.log.Printf("evicting idle connection %s (%q)", c.id, c.user.Username)
			h.stats.Incr(stats.ConnectionsEvicted)
			h.removeConnection(c)
		}
	}
}
