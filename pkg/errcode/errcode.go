package errcode

import "fmt"

// Error represents a business error
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("errcode: %d, msg: %s", e.Code, e.Msg)
}

// New creates a new error with code and message
func New(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Wrap wraps an error with additional context
func (e *Error) Wrap(err error) *Error {
	if err == nil {
		return e
	}
	return &Error{
		Code: e.Code,
		Msg:  fmt.Sprintf("%s: %v", e.Msg, err),
	}
}

// Common error codes
var (
	// Success
	ErrSuccess = New(0, "success")

	// Common errors (1xxx)
	ErrInvalidParam    = New(1001, "invalid parameter")
	ErrInternalServer  = New(1002, "internal server error")
	ErrUnauthorized    = New(1003, "unauthorized")
	ErrForbidden       = New(1004, "forbidden")
	ErrNotFound        = New(1005, "not found")
	ErrTooManyRequests = New(1006, "too many requests")

	// Session errors (2xxx)
	ErrTokenInvalid     = New(2001, "token invalid")
	ErrTokenExpired     = New(2002, "token expired")
	ErrTokenMissing     = New(2003, "token missing")
	ErrIdentityNotFound = New(2004, "identity not found")

	// Listing errors (3xxx)
	ErrListingNotFound = New(3001, "listing not found")
	ErrHostMismatch    = New(3002, "host does not own this listing")

	// Conversation/message errors (4xxx)
	ErrConvNotFound      = New(4001, "conversation not found")
	ErrSelfConversation  = New(4002, "cannot start a conversation with yourself")
	ErrNotParticipant    = New(4003, "you are not a participant of this conversation")
	ErrEmptyBody         = New(4004, "message body is empty")
	ErrSendFailed        = New(4005, "message send failed")
	ErrHistoryLoadFailed = New(4006, "message history load failed")
	ErrConvCreateFailed  = New(4007, "conversation create failed")

	// WebSocket errors (5xxx)
	ErrConnOverLimit   = New(5001, "connection over max limit")
	ErrConnClosed      = New(5002, "connection closed")
	ErrInvalidProtocol = New(5003, "invalid protocol")
	ErrPushFailed      = New(5004, "push message failed")
)
