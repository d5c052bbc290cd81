package server

// broadcastToRoom delivers an event to every member of a room, optionally
// excluding one connection. The membership snapshot is taken inside the hub's
// consistency boundary; delivery to each recipient is independent, and a
// recipient whose send queue has stalled is removed asynchronously through
// the single removal path rather than aborting the fanout.
func (h *Hub) broadcastToRoom(roomId int, ev *ServerEvent, exclude *Client) {
	snapshot := h.members.members(roomId)
	for _, id := range snapshot {
		member, ok := h.registry.get(id)
		if !ok {
			continue
		}
		if member == exclude {
			continue
		}

		if !member.queueEvent(ev) {
			h.log.Printf("dropping connection %s, send queue full", member.id)
			go h.DeregisterClient(member)
		}
	}
}
