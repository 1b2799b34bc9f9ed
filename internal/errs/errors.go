package errs

import (
	"errors"
	"net/http"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidRequestBody    = Error("invalid request body")
	ErrInvalidConversationId = Error("invalid conversation id")
	ErrInvalidLimit          = Error("limit must be a positive integer")
	ErrEmptyMessageContent   = Error("message content must not be empty")
	ErrSelfConversation      = Error("cannot start a conversation with yourself")
	ErrConversationNotFound  = Error("conversation not found")
	ErrConversationConflict  = Error("conversation already exists")
	ErrUnauthorized          = Error("unauthorized")
	ErrInvalidToken          = Error("invalid token")
)

// HttpStatus maps a domain error to the status its REST surface answers with.
// Unknown errors are treated as server faults.
func HttpStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequestBody),
		errors.Is(err, ErrInvalidConversationId),
		errors.Is(err, ErrInvalidLimit),
		errors.Is(err, ErrEmptyMessageContent),
		errors.Is(err, ErrSelfConversation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConversationNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrConversationConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// HttpStatusFromAll classifies the first recognizable error in a batch.
func HttpStatusFromAll(errs []error) int {
	for _, err := range errs {
		if status := HttpStatus(err); status != http.StatusInternalServerError {
			return status
		}
	}
	return http.StatusInternalServerError
}
