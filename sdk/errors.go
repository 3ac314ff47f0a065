package sdk

import "fmt"

// Error represents an API error
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("code: %d, msg: %s", e.Code, e.Msg)
}

// NewError creates a new error
func NewError(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// IsSuccess checks if the error code indicates success
func (e *Error) IsSuccess() bool {
	return e.Code == 0
}

// Common error codes
const (
	// Success
	CodeSuccess = 0

	// Common errors (1xxx)
	CodeInvalidParam    = 1001
	CodeInternalServer  = 1002
	CodeUnauthorized    = 1003
	CodeForbidden       = 1004
	CodeNotFound        = 1005
	CodeTooManyRequests = 1006

	// Auth errors (2xxx)
	CodeTokenInvalid     = 2001
	CodeTokenExpired     = 2002
	CodeTokenMissing     = 2003
	CodeIdentityNotFound = 2004

	// Listing errors (3xxx)
	CodeListingNotFound = 3001
	CodeHostMismatch    = 3002

	// Conversation errors (4xxx)
	CodeConvNotFound      = 4001
	CodeSelfConversation  = 4002
	CodeNotParticipant    = 4003
	CodeEmptyBody         = 4004
	CodeSendFailed        = 4005
	CodeHistoryLoadFailed = 4006
	CodeConvCreateFailed  = 4007

	// WebSocket errors (5xxx)
	CodeConnOverLimit   = 5001
	CodeConnClosed      = 5002
	CodeInvalidProtocol = 5003
	CodePushFailed      = 5004
)

// Predefined errors
var (
	ErrInvalidParam    = NewError(CodeInvalidParam, "invalid parameter")
	ErrInternalServer  = NewError(CodeInternalServer, "internal server error")
	ErrUnauthorized    = NewError(CodeUnauthorized, "unauthorized")
	ErrForbidden       = NewError(CodeForbidden, "forbidden")
	ErrNotFound        = NewError(CodeNotFound, "not found")
	ErrTooManyRequests = NewError(CodeTooManyRequests, "too many requests")

	ErrTokenInvalid     = NewError(CodeTokenInvalid, "token invalid")
	ErrTokenExpired     = NewError(CodeTokenExpired, "token expired")
	ErrTokenMissing     = NewError(CodeTokenMissing, "token missing")
	ErrIdentityNotFound = NewError(CodeIdentityNotFound, "identity not found")

	ErrListingNotFound = NewError(CodeListingNotFound, "listing not found")
	ErrHostMismatch    = NewError(CodeHostMismatch, "host does not own this listing")

	ErrConvNotFound     = NewError(CodeConvNotFound, "conversation not found")
	ErrSelfConversation = NewError(CodeSelfConversation, "cannot converse with yourself")
	ErrNotParticipant   = NewError(CodeNotParticipant, "not a participant of this conversation")
	ErrEmptyBody        = NewError(CodeEmptyBody, "message body is empty")
)
