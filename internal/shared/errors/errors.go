package errors

import "errors"

// Domain errors
var (
	// Scan errors
	ErrInvalidURL        = errors.New("invalid url: must be a well-formed http or https address")
	ErrNavigationTimeout = errors.New("navigation timeout")
	ErrBrowserLaunch     = errors.New("browser launch failed")

	// API errors
	ErrMissingURL = errors.New("url is required")
)
