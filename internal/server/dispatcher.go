package server

import (
	"github.com/chathub-io/chathub/internal/database"
	"github.com/chathub-io/chathub/internal/stats"
	"github.com/chathub-io/chathub/internal/types"
)

// dispatch interprets one inbound event. Failures are converted into an error
// reply to the sender only; no event can affect another connection's state.
func (h *Hub) dispatch(c *Client, ev ClientEvent) {
	if !h.registry.has(c.id) {
		// event raced with removal, the id is retired
		return
	}

	switch ev.Type {
	case EventMessage:
		h.handleMessage(c, ev)
	case EventJoinRoom:
		h.handleJoinRoom(c, ev)
	case EventLeaveRoom:
		h.handleLeaveRoom(c, ev)
	case EventTyping:
		h.handleTyping(c, ev)
	case EventPing:
		c.queueEvent(newPong())
	default:
		c.queueEvent(newErrorEvent("unknown event type: " + ev.Type))
	}
}

func (h *Hub) handleMessage(c *Client, ev ClientEvent) {
	if ev.Content == "" {
		c.queueEvent(newErrorEvent("missing content"))
		return
	}

	if !h.members.isMember(ev.RoomId, c.id) {
		c.queueEvent(newErrorEvent(ErrNotAMember.Error()))
		return
	}

	dbMsg, err := h.db.CreateMessage(database.CreateMessageParams{
		RoomId:  ev.RoomId,
		UserId:  c.user.Id,
		Content: ev.Content,
	})
	if err != nil {
		h.log.Println("CreateMessage:", err)
		c.queueEvent(newErrorEvent("internal server error"))
		return
	}

	h.broadcastToRoom(ev.RoomId, newMessageEvent(types.Message{
		Id:        dbMsg.Id,
		RoomId:    dbMsg.RoomId,
		UserId:    dbMsg.UserId,
		Username:  c.user.Username,
		Content:   dbMsg.Content,
		Timestamp: dbMsg.CreatedAt,
	}), nil)
	h.stats.Incr(stats.MessagesBroadcast)
}

func (h *Hub) handleJoinRoom(c *Client, ev ClientEvent) {
	dbRoom, err := h.db.GetRoomById(ev.RoomId)
	if err != nil {
		h.log.Printf("GetRoomById %d: %v", ev.RoomId, err)
		c.queueEvent(newErrorEvent(ErrRoomNotFound.Error()))
		return
	}

	room := types.Room{
		Id:          dbRoom.Id,
		ExternalId:  dbRoom.ExternalId,
		Name:        dbRoom.Name,
		Description: dbRoom.Description,
	}

	if h.members.isMember(room.Id, c.id) {
		// already a member, ack without replaying history
		c.queueEvent(newRoomJoined(room))
		return
	}

	if err := h.db.AddRoomMember(c.user.Id, room.Id); err != nil {
		h.log.Println("AddRoomMember:", err)
		c.queueEvent(newErrorEvent("internal server error"))
		return
	}

	wasActive := len(h.members.members(room.Id)) > 0
	h.members.join(room.Id, c.id)
	if !wasActive {
		h.stats.Incr(stats.NumActiveRooms)
	}

	c.queueEvent(newRoomJoined(room))

	history, err := h.db.GetMessages(room.Id, 0, h.historyLimit)
	if err != nil {
		// the join itself stands; an empty history frame would be
		// indistinguishable from an empty room
		h.log.Println("GetMessages:", err)
		c.queueEvent(newErrorEvent("failed to load message history"))
	} else {
		messages := make([]types.Message, 0, len(history))
		for _, msg := range history {
			messages = append(messages, types.Message{
				Id:        msg.Id,
				RoomId:    msg.RoomId,
				UserId:    msg.UserId,
				Username:  msg.Username,
				Content:   msg.Content,
				Timestamp: msg.CreatedAt,
			})
		}
		c.queueEvent(newMessageHistory(room.Id, messages))
	}

	h.broadcastToRoom(room.Id, newUserJoined(room.Id, c.user), c)
}

func (h *Hub) handleLeaveRoom(c *Client, ev ClientEvent) {
	if !h.members.isMember(ev.RoomId, c.id) {
		c.queueEvent(newErrorEvent(ErrNotAMember.Error()))
		return
	}

	h.members.leave(ev.RoomId, c.id)
	if len(h.members.members(ev.RoomId)) == 0 {
		h.stats.Decr(stats.NumActiveRooms)
	}

	// durable membership record is best-effort on leave
	if err := h.db.RemoveRoomMember(c.user.Id, ev.RoomId); err != nil {
		h.log.Println("RemoveRoomMember:", err)
	}

	c.queueEvent(newRoomLeft(ev.RoomId))
	h.broadcastToRoom(ev.RoomId, newUserLeft(ev.RoomId, c.user), c)
}

func (h *Hub) handleTyping(c *Client, ev ClientEvent) {
	if !h.members.isMember(ev.RoomId, c.id) {
		// nothing worth failing on
		return
	}

	h.broadcastToRoom(ev.RoomId, newUserTyping(ev.RoomId, c.user), c)
}
