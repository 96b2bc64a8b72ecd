package domain

import "errors"

var (
	ErrValidation      = errors.New("invalid poll input")
	ErrDelivery        = errors.New("message delivery failed")
	ErrReaction        = errors.New("reaction failed")
	ErrLookup          = errors.New("message lookup failed")
	ErrStore           = errors.New("poll result store failed")
	ErrPollClosed      = errors.New("poll is already closed")
	ErrPollNotFound    = errors.New("poll not found")
	ErrResultNotFound  = errors.New("poll result not found")
	ErrInvalidResultID = errors.New("invalid poll result id")
	ErrResultLost      = errors.New("poll closed without saving its result")
)
