package enums

const (
	SOCKET_EVENT_SEND_MESSAGE      = "send_message"
	SOCKET_EVENT_JOIN_CONVERSATION = "join_conversation"
	SOCKET_EVENT_MARK_READ         = "mark_read"
	SOCKET_EVENT_NEW_MESSAGE       = "new_message"
	SOCKET_EVENT_CONVERSATION_READ = "conversation_read"
	SOCKET_EVENT_ERROR             = "error"
)
