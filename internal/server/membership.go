package server

// roomMembers holds one room's member connection ids in join order.
type roomMembers struct {
	order []string
	set   map[string]struct{}
}

// membershipIndex is the bidirectional room/connection mapping. Like the
// registry it is owned by the hub goroutine; both directions are mutated
// together so they can never disagree.
type membershipIndex struct {
	rooms  map[int]*roomMembers
	byConn map[string][]int
}

func newMembershipIndex() *membershipIndex {
	return &membershipIndex{
		rooms:  make(map[int]*roomMembers),
		byConn: make(map[string][]int),
	}
}

// join adds a connection to a room and returns a snapshot of the members that
// were present before it. Joining a room twice is a no-op.
func (mi *membershipIndex) join(roomId int, connId string) []string {
	rm, ok := mi.rooms[roomId]
	if !ok {
		rm = &roomMembers{set: make(map[string]struct{})}
		mi.rooms[roomId] = rm
	}

	existing := make([]string, 0, len(rm.order))
	for _, id := range rm.order {
		if id != connId {
			existing = append(existing, id)
		}
	}
	if _, ok := rm.set[connId]; ok {
		return existing
	}

	rm.set[connId] = struct{}{}
	rm.order = append(rm.order, connId)
	mi.byConn[connId] = append(mi.byConn[connId], roomId)

	return existing
}

// leave removes a connection from a room. A non-member is a no-op. The room
// entry is dropped once its last member leaves.
func (mi *membershipIndex) leave(roomId int, connId string) {
	rm, ok := mi.rooms[roomId]
	if !ok {
		return
	}
	if _, ok := rm.set[connId]; !ok {
		return
	}

	delete(rm.set, connId)
	for i, id := range rm.order {
		if id == connId {
			rm.order = append(rm.order[:i], rm.order[i+1:]...)
			break
		}
	}
	if len(rm.set) == 0 {
		delete(mi.rooms, roomId)
	}

	joined := mi.byConn[connId]
	for i, id := range joined {
		if id == roomId {
			joined = append(joined[:i], joined[i+1:]...)
			break
		}
	}
	if len(joined) == 0 {
		delete(mi.byConn, connId)
	} else {
		mi.byConn[connId] = joined
	}
}

func (mi *membershipIndex) isMember(roomId int, connId string) bool {
	rm, ok := mi.rooms[roomId]
	if !ok {
		return false
	}
	_, ok = rm.set[connId]
	return ok
}

// members returns an immutable snapshot of a room's member connection ids in
// join order. Broadcasts iterate the snapshot, never the live structure.
func (mi *membershipIndex) members(roomId int) []string {
	rm, ok := mi.rooms[roomId]
	if !ok {
		return nil
	}
	return append([]string(nil), rm.order...)
}

// joinedRooms returns the rooms a connection belongs to, in join order.
func (mi *membershipIndex) joinedRooms(connId string) []int {
	return append([]int(nil), mi.byConn[connId]...)
}

// removeAll drops a connection from every room it belongs to and returns the
// vacated room ids in join order.
func (mi *membershipIndex) removeAll(connId string) []int {
	vacated := mi.joinedRooms(connId)
	for _, roomId := range vacated {
		mi.leave(roomId, connId)
	}
	return vacated
}

func (mi *membershipIndex) activeRooms() int {
	return len(mi.rooms)
}
