package msgs

const (
	MsgOperationSuccessful      = "operation successful"
	MsgOperationFailed          = "operation failed"
	MsgYouMustLoginFirst        = "you must login first"
	MsgConversationMarkedAsRead = "conversation marked as read"
)
