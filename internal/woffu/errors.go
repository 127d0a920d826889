package woffu

import "errors"

var (
	// ErrAuthentication is returned when the login is rejected
	ErrAuthentication = errors.New("authentication failed")
	// ErrRemoteQuery is returned when a read fails or returns an unexpected shape
	ErrRemoteQuery = errors.New("remote query failed")
	// ErrRemoteMutation is returned when a sign submission fails
	ErrRemoteMutation = errors.New("remote mutation failed")
)
