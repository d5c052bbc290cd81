package server

import (
	"time"

	"github.com/chathub-io/chathub/internal/types"
)

// Inbound event types accepted by the dispatcher.
const (
	EventMessage   = "message"
	EventJoinRoom  = "join_room"
	EventLeaveRoom = "leave_room"
	EventTyping    = "typing"
	EventPing      = "ping"
)

// Outbound event types emitted by the hub.
const (
	EventConnectionEstablished = "connection_established"
	EventMessageHistory        = "message_history"
	EventRoomJoined            = "room_joined"
	EventRoomLeft              = "room_left"
	EventUserJoined            = "user_joined"
	EventUserLeft              = "user_left"
	EventUserTyping            = "user_typing"
	EventUserDisconnected      = "user_disconnected"
	EventPong                  = "pong"
	EventError                 = "error"
)

// ClientEvent is one inbound frame, tagged by Type.
type ClientEvent struct {
	Type    string `json:"type"`
	RoomId  int    `json:"room_id,omitempty"`
	Content string `json:"content,omitempty"`
}

// ServerEvent is one outbound frame. Instances are only created through the
// constructors below so the set of emitted shapes stays closed.
type ServerEvent struct {
	Type         string          `json:"type"`
	Id           int             `json:"id,omitempty"`
	RoomId       int             `json:"room_id,omitempty"`
	RoomName     string          `json:"room_name,omitempty"`
	UserId       int             `json:"user_id,omitempty"`
	Username     string          `json:"username,omitempty"`
	ConnectionId string          `json:"connection_id,omitempty"`
	Content      string          `json:"content,omitempty"`
	Messages     []types.Message `json:"messages,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

func newConnectionEstablished(connId string, user types.User) *ServerEvent {
	return &ServerEvent{
		Type:         EventConnectionEstablished,
		ConnectionId: connId,
		UserId:       user.Id,
		Username:     user.Username,
		Timestamp:    Now(),
	}
}

func newMessageEvent(msg types.Message) *ServerEvent {
	return &ServerEvent{
		Type:      EventMessage,
		Id:        msg.Id,
		RoomId:    msg.RoomId,
		UserId:    msg.UserId,
		Username:  msg.Username,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
	}
}

func newMessageHistory(roomId int, messages []types.Message) *ServerEvent {
	return &ServerEvent{
		Type:      EventMessageHistory,
		RoomId:    roomId,
		Messages:  messages,
		Timestamp: Now(),
	}
}

func newRoomJoined(room types.Room) *ServerEvent {
	return &ServerEvent{
		Type:      EventRoomJoined,
		RoomId:    room.Id,
		RoomName:  room.Name,
		Timestamp: Now(),
	}
}

func newRoomLeft(roomId int) *ServerEvent {
	return &ServerEvent{
		Type:      EventRoomLeft,
		RoomId:    roomId,
		Timestamp: Now(),
	}
}

func newUserJoined(roomId int, user types.User) *ServerEvent {
	return &ServerEvent{
		Type:      EventUserJoined,
		RoomId:    roomId,
		UserId:    user.Id,
		Username:  user.Username,
		Timestamp: Now(),
	}
}

func newUserLeft(roomId int, user types.User) *ServerEvent {
	return &ServerEvent{
		Type:      EventUserLeft,
		RoomId:    roomId,
		UserId:    user.Id,
		Username:  user.Username,
		Timestamp: Now(),
	}
}

func newUserTyping(roomId int, user types.User) *ServerEvent {
	return &ServerEvent{
		Type:      EventUserTyping,
		RoomId:    roomId,
		UserId:    user.Id,
		Username:  user.Username,
		Timestamp: Now(),
	}
}

func newUserDisconnected(roomId int, user types.User) *ServerEvent {
	return &ServerEvent{
		Type:      EventUserDisconnected,
		RoomId:    roomId,
		UserId:    user.Id,
		Username:  user.Username,
		Timestamp: Now(),
	}
}

func newPong() *ServerEvent {
	return &ServerEvent{
		Type:      EventPong,
		Timestamp: Now(),
	}
}

func newErrorEvent(content string) *ServerEvent {
	return &ServerEvent{
		Type:      EventError,
		Content:   content,
		Timestamp: Now(),
	}
}

func Now() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}
