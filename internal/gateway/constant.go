package gateway

import "time"

// WebSocket protocol constants
const (
	// Request identifiers
	WSSendMsg      = 1001 // Send a message
	WSPullHistory  = 1002 // Pull conversation history
	WSMarkRead     = 1003 // Mark a conversation read
	WSWatchConv    = 1004 // Start watching a conversation
	WSUnwatchConv  = 1005 // Stop watching a conversation
	WSWatchInbox   = 1006 // Start watching inbox changes
	WSUnwatchInbox = 1007 // Stop watching inbox changes

	// Push identifiers
	WSPushMsg      = 2001 // Server push of a new message
	WSInboxChanged = 2002 // Inbox may have changed, refetch
	WSKickOnline   = 2003 // Kick connection offline
)

// Timeout constants
const (
	// WriteWait is time allowed to write a message to the peer
	WriteWait = 10 * time.Second

	// PongWait is time allowed to read the next pong message from the peer
	PongWait = 30 * time.Second

	// PingPeriod is period between pings. Must be less than PongWait
	PingPeriod = (PongWait * 9) / 10

	// MaxMessageSize is maximum message size allowed from peer
	MaxMessageSize = 51200
)

// Query parameter keys
const (
	QueryToken       = "token"
	QuerySendId      = "send_id"
	QueryOperationId = "operation_id"
	QuerySDKType     = "sdk_type"
)

// SDK types
const (
	SDKTypeGo = "go"
	SDKTypeJS = "js"
)
