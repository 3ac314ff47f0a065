package sdk

// Conversation types
const (
	ConvTypeUserHost = "user_host"
	ConvTypeDirect   = "direct"
	ConvTypeSupport  = "support"
)

// WebSocket request identifiers
const (
	WSSendMsg      = 1001
	WSPullHistory  = 1002
	WSMarkRead     = 1003
	WSWatchConv    = 1004
	WSUnwatchConv  = 1005
	WSWatchInbox   = 1006
	WSUnwatchInbox = 1007
)

// WebSocket push identifiers
const (
	WSPushMsg      = 2001
	WSInboxChanged = 2002
	WSKickOnline   = 2003
)
