// Package hfp implements the shared core of the Bluetooth Hands-Free
// Profile (HFP): the AT-command line parser, per-peer session state, the
// connection lifecycle state machine, and the connection registry.
//
// The package does not talk to RFCOMM, HCI, or SDP itself. Those are
// external collaborators, supplied by the caller through the RFCOMM and
// SDP interfaces this package declares and internal/transport
// implements; hfp only decides what the session state should become
// given a parsed line or a transport event, and queues the actions a
// command scheduler (also external) is expected to drain.
package hfp
