package database

// ChatRepository is the persistence contract the server depends on: account
// lookup for the authentication gate, the room directory consulted on join,
// and the durable message store.
type ChatRepository interface {
	Ping() error
	CreateAccount(params CreateAccountParams) (User, error)
	UpdateAccount(params UpdateAccountParams) (User, error)
	GetAccountById(accountId int) (User, error)
	GetAccountByEmail(email string) (User, error)
	CreateRoom(params CreateRoomParams) (Room, error)
	GetRoomById(roomId int) (Room, error)
	GetRoomByExternalId(externalId string) (Room, error)
	ListRooms() ([]Room, error)
	DeleteRoom(roomId int) error
	AddRoomMember(accountId, roomId int) error
	RemoveRoomMember(accountId, roomId int) error
	IsRoomMember(accountId, roomId int) bool
	CreateMessage(params CreateMessageParams) (Message, error)
	GetMessages(roomId, before, limit int) ([]Message, error)
}
