package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chathub-io/chathub/internal/database"
	"github.com/chathub-io/chathub/internal/types"
)

func Test_broadcastToRoom(t *testing.T) {
	t.Run("delivers to every member", func(t *testing.T) {
		h := newTestHub(t, &database.MockChatRepository{}, nil)
		c1 := newTestClient(t, types.User{Id: 1, Username: "alice"})
		c2 := newTestClient(t, types.User{Id: 2, Username: "bob"})
		h.registry.add(c1)
		h.registry.add(c2)
		h.members.join(7, c1.id)
		h.members.join(7, c2.id)

		ev := newPong()
		h.broadcastToRoom(7, ev, nil)

		for _, c := range []*Client{c1, c2} {
			evs := queuedEvents(c)
			assert.Len(t, evs, 1, "expected one delivery per member")
			assert.Equal(t, ev, evs[0], "expected the broadcast event")
		}
	})

	t.Run("skips the excluded connection", func(t *testing.T) {
		h := newTestHub(t, &database.MockChatRepository{}, nil)
		c1 := newTestClient(t, types.User{Id: 1, Username: "alice"})
		c2 := newTestClient(t, types.User{Id: 2, Username: "bob"})
		h.registry.add(c1)
		h.registry.add(c2)
		h.members.join(7, c1.id)
		h.members.join(7, c2.id)

		h.broadcastToRoom(7, newPong(), c1)

		assert.Empty(t, queuedEvents(c1), "expected no delivery to excluded connection")
		assert.Len(t, queuedEvents(c2), 1, "expected delivery to the other member")
	})

	t.Run("skips retired connection ids", func(t *testing.T) {
		h := newTestHub(t, &database.MockChatRepository{}, nil)
		c1 := newTestClient(t, types.User{Id: 1, Username: "alice"})
		c2 := newTestClient(t, types.User{Id: 2, Username: "bob"})
		h.registry.add(c2)
		// c1 is in the index but no longer registered
		h.members.join(7, c1.id)
		h.members.join(7, c2.id)

		h.broadcastToRoom(7, newPong(), nil)

		assert.Empty(t, queuedEvents(c1), "expected no delivery to retired connection")
		assert.Len(t, queuedEvents(c2), 1, "expected delivery to the registered member")
	})

	t.Run("no-op for a room with no members", func(t *testing.T) {
		h := newTestHub(t, &database.MockChatRepository{}, nil)
		c := newTestClient(t, types.User{Id: 1, Username: "alice"})
		h.registry.add(c)

		h.broadcastToRoom(42, newPong(), nil)
		assert.Empty(t, queuedEvents(c), "expected no delivery for an empty room")
	})

	t.Run("stalled recipient is queued for removal", func(t *testing.T) {
		h := newTestHub(t, &database.MockChatRepository{}, nil)
		stalled := newTestClient(t, types.User{Id: 1, Username: "alice"})
		stalled.send = make(chan *ServerEvent) // no reader, no buffer
		healthy := newTestClient(t, types.User{Id: 2, Username: "bob"})
		h.registry.add(stalled)
		h.registry.add(healthy)
		h.members.join(7, stalled.id)
		h.members.join(7, healthy.id)

		h.broadcastToRoom(7, newPong(), nil)

		assert.Len(t, queuedEvents(healthy), 1, "expected fanout to continue past the stalled recipient")

		select {
		case c := <-h.deregisterChan:
			assert.Equal(t, stalled, c, "expected the stalled connection to be queued for removal")
		case <-time.After(time.Second):
			t.Error("expected a deregister request for the stalled connection")
		}
	})
}
