package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chathub-io/chathub/internal/types"
)

func Test_connRegistry(t *testing.T) {
	r := newConnRegistry()
	assert.Equal(t, 0, r.len(), "expected empty registry")

	c := &Client{id: "c1", user: types.User{Id: 1, Username: "testuser"}}
	r.add(c)
	assert.True(t, r.has("c1"), "expected c1 to be registered")
	assert.Equal(t, 1, r.len(), "expected one registered connection")

	got, ok := r.get("c1")
	assert.True(t, ok, "expected to retrieve c1")
	assert.Equal(t, c, got, "expected retrieved client to match")

	assert.True(t, r.remove("c1"), "expected removal of a registered id to report true")
	assert.False(t, r.has("c1"), "expected c1 to be retired")

	// removing an absent id is a no-op
	assert.False(t, r.remove("c1"), "expected removal of an absent id to be a no-op")
}

func Test_connRegistry_all(t *testing.T) {
	r := newConnRegistry()
	c1 := &Client{id: "c1"}
	c2 := &Client{id: "c2"}
	r.add(c1)
	r.add(c2)

	clients := r.all()
	assert.Len(t, clients, 2, "expected snapshot of both connections")
	assert.Contains(t, clients, c1, "expected snapshot to contain c1")
	assert.Contains(t, clients, c2, "expected snapshot to contain c2")

	// snapshot is unaffected by later removal
	r.remove("c1")
	assert.Len(t, clients, 2, "expected snapshot to be unaffected by removal")
}
