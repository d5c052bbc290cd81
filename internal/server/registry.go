package server

import "errors"

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrNotAMember     = errors.New("not a member of room")
	ErrMalformedEvent = errors.New("invalid message format")
)

// connRegistry tracks every live connection by id. It is owned by the hub
// goroutine and must only be touched from there.
type connRegistry struct {
	conns map[string]*Client
}

func newConnRegistry() *connRegistry {
	return &connRegistry{
		conns: make(map[string]*Client),
	}
}

func (r *connRegistry) add(c *Client) {
	r.conns[c.id] = c
}

func (r *connRegistry) get(id string) (*Client, bool) {
	c, ok := r.conns[id]
	return c, ok
}

func (r *connRegistry) has(id string) bool {
	_, ok := r.conns[id]
	return ok
}

// remove retires a connection id. Removing an absent id is a no-op.
func (r *connRegistry) remove(id string) bool {
	if _, ok := r.conns[id]; !ok {
		return false
	}
	delete(r.conns, id)
	return true
}

func (r *connRegistry) len() int {
	return len(r.conns)
}

// all returns a snapshot of the registered connections, used by the heartbeat
// scan so evictions can mutate the registry mid-iteration.
func (r *connRegistry) all() []*Client {
	clients := make([]*Client, 0, len(r.conns))
	for _, c := range r.conns {
		clients = append(clients, c)
	}
	return clients
}
