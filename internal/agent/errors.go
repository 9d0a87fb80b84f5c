package agent

import "fmt"

// Client-facing messages. Internal causes are logged, never returned.
const (
	MsgRateLimited      = "Rate limit reached. Please try again in a moment."
	MsgPaymentRequired  = "AI service requires payment. Please contact support."
	MsgUnavailable      = "AI service temporarily unavailable. Please try again."
	MsgAuthRequired     = "Authentication required to create offers or requests"
	MsgInvalidToken     = "Invalid authentication token"
	MsgOfferFailed      = "Failed to create transport offer. Please try again."
	MsgRequestFailed    = "Failed to create shipping request. Please try again."
	MsgGeneric          = "Unable to process your request. Please try again later."
	msgUnknownFunction  = "unknown function called"
	msgMalformedToolArg = "malformed tool arguments"
)

// UserError carries a message that is safe to show the caller and the
// internal cause behind it.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *UserError) Unwrap() error { return e.Err }

func userError(msg string, cause error) *UserError {
	return &UserError{Message: msg, Err: cause}
}
