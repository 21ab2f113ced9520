package callout

import "errors"

// Sentinel kinds for callout errors.
var (
	ErrInvalidCall             = errors.New("invalid call")
	ErrUnknownZeroRun          = errors.New("unknown zero-run reason")
	ErrUnknownQuickMessage     = errors.New("unknown quick message")
	ErrDriverNeedsQuickMessage = errors.New("driver must pick a quick message")
	ErrSpotterQuickMessage     = errors.New("quick messages are for drivers")
	ErrUnknownSender           = errors.New("unknown sender role")
	ErrEmptyCallout            = errors.New("empty callout")
)
