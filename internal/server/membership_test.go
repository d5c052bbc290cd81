package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_membershipIndex_joinLeave(t *testing.T) {
	mi := newMembershipIndex()

	existing := mi.join(1, "c1")
	assert.Empty(t, existing, "expected no existing members on first join")
	assert.True(t, mi.isMember(1, "c1"), "expected c1 to be a member after join")

	existing = mi.join(1, "c2")
	assert.Equal(t, []string{"c1"}, existing, "expected snapshot of members present before c2")

	// joining twice is a no-op
	existing = mi.join(1, "c2")
	assert.Equal(t, []string{"c1"}, existing, "expected duplicate join to be a no-op")
	assert.Equal(t, []string{"c1", "c2"}, mi.members(1), "expected members in join order")

	mi.leave(1, "c1")
	assert.False(t, mi.isMember(1, "c1"), "expected c1 to no longer be a member")
	assert.Equal(t, []string{"c2"}, mi.members(1), "expected only c2 to remain")

	// leaving a room the connection is not in is a no-op
	mi.leave(1, "c1")
	mi.leave(99, "c2")
	assert.Equal(t, []string{"c2"}, mi.members(1), "expected membership unchanged")

	mi.leave(1, "c2")
	assert.Equal(t, 0, mi.activeRooms(), "expected empty room to be dropped")
}

func Test_membershipIndex_joinThenLeaveRestoresPriorState(t *testing.T) {
	mi := newMembershipIndex()
	mi.join(1, "c1")

	mi.join(2, "c1")
	mi.leave(2, "c1")

	assert.Equal(t, []int{1}, mi.joinedRooms("c1"), "expected joined rooms to match prior state")
	assert.Equal(t, 1, mi.activeRooms(), "expected room 2 to be dropped again")
	assert.False(t, mi.isMember(2, "c1"), "expected c1 not to be a member of room 2")
}

func Test_membershipIndex_removeAll(t *testing.T) {
	mi := newMembershipIndex()
	mi.join(1, "c1")
	mi.join(2, "c1")
	mi.join(2, "c2")

	vacated := mi.removeAll("c1")
	assert.Equal(t, []int{1, 2}, vacated, "expected vacated rooms in join order")
	assert.Empty(t, mi.joinedRooms("c1"), "expected c1 to belong to no rooms")
	assert.Equal(t, []string{"c2"}, mi.members(2), "expected c2 to remain in room 2")
	assert.Equal(t, 1, mi.activeRooms(), "expected room 1 to be dropped")

	// removing an absent connection is a no-op
	assert.Empty(t, mi.removeAll("c1"), "expected no vacated rooms for retired connection")
}

func Test_membershipIndex_snapshotIsImmutable(t *testing.T) {
	mi := newMembershipIndex()
	mi.join(1, "c1")
	mi.join(1, "c2")

	snapshot := mi.members(1)
	mi.leave(1, "c2")
	mi.join(1, "c3")

	assert.Equal(t, []string{"c1", "c2"}, snapshot, "expected snapshot to be unaffected by later mutation")
}

// Both directions of the index must agree after any sequence of mutations.
func Test_membershipIndex_consistency(t *testing.T) {
	mi := newMembershipIndex()

	mi.join(1, "c1")
	mi.join(1, "c2")
	mi.join(2, "c1")
	mi.join(3, "c2")
	mi.leave(1, "c1")
	mi.removeAll("c2")
	mi.join(2, "c3")
	mi.leave(2, "c3")

	for roomId, rm := range mi.rooms {
		for connId := range rm.set {
			assert.Containsf(t, mi.joinedRooms(connId), roomId,
				"room %d lists %s but the connection does not list the room", roomId, connId)
		}
	}
	for connId, rooms := range mi.byConn {
		for _, roomId := range rooms {
			assert.Truef(t, mi.isMember(roomId, connId),
				"%s lists room %d but the room does not list the connection", connId, roomId)
		}
	}
}
