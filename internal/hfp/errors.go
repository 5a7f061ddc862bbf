package hfp

import "errors"

// Sentinel errors for the AT-command parser, the connection registry, and
// the connection lifecycle FSM.
var (
	// ErrLineTooLong indicates a token exceeded MaxLineLength before a
	// separator was seen. The token is truncated in place and parsing
	// continues; the caller may log this for diagnostics.
	ErrLineTooLong = errors.New("hfp: AT line token exceeds maximum length")

	// ErrUnsupportedOperatorFormat indicates an AT+COPS=<mode> line asked
	// for a network-operator name format other than 3 (spec.md §4.3:
	// "only format 3 is supported"). The line's effects are discarded.
	ErrUnsupportedOperatorFormat = errors.New("hfp: unsupported network operator format")

	// ErrUnknownCommand indicates the header token did not match any
	// entry in the command table. The line is dropped; no session
	// mutation occurs (spec.md §7, Parse error).
	ErrUnknownCommand = errors.New("hfp: unrecognized AT command header")

	// ErrSessionExists indicates Registry.Create was called for a peer
	// address that already has a live session.
	ErrSessionExists = errors.New("hfp: session already exists for peer address")

	// ErrSessionNotFound indicates no session matched the requested key.
	ErrSessionNotFound = errors.New("hfp: no session for key")

	// ErrCIDInUse indicates the RFCOMM channel id is already bound to a
	// different live session (spec.md §3 invariant).
	ErrCIDInUse = errors.New("hfp: rfcomm cid already bound to another session")

	// ErrHandleInUse indicates the HCI connection handle is already bound
	// to a different live session (spec.md §3 invariant).
	ErrHandleInUse = errors.New("hfp: connection handle already bound to another session")

	// ErrInvalidTransition indicates a lifecycle operation was invoked in
	// a state that has no transition for it. The FSM silently ignores
	// these per spec.md §4.6; this error is returned only by the
	// convenience wrappers that callers may treat as fatal for a single
	// request.
	ErrInvalidTransition = errors.New("hfp: no transition for event in current state")
)
