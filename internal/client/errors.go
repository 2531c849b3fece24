package client

import "errors"

var (
	// ErrNoConversation is returned when sending with nothing selected.
	ErrNoConversation = errors.New("no conversation selected")
	// ErrReadOnlyRole is returned when a view-only role tries to send.
	ErrReadOnlyRole = errors.New("role is view-only")
	// ErrEmptyMessage is returned for a send with no text and no attachment.
	ErrEmptyMessage = errors.New("empty message")
)
