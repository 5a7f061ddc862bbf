package hfp

// RFCOMM is the downward RFCOMM collaborator the lifecycle FSM drives
// (spec.md §6 "Downward (consumed)"). Implementations live outside this
// core; a real one talks to a Bluetooth stack, a test one can be a plain
// in-memory fake.
type RFCOMM interface {
	RegisterService(channelNr uint8, mtu uint16) error
	CreateChannel(addr Addr, channelNr uint8) error
	Accept(cid uint16) error
	Send(cid uint16, data []byte) error
}

// SDP is the downward SDP collaborator used to resolve a peer's RFCOMM
// server channel for a service UUID (spec.md §6).
type SDP interface {
	QueryRFCOMMChannelForUUID(addr Addr, uuid ServiceUUID) error
}

// EventEmitter delivers a packed event to whatever observes session
// lifecycle and indicator changes (spec.md §4.7, C7). It is the Go
// analogue of the original single-callback boundary; spec.md §9 flags the
// 4-byte packing as wire-boundary-only, so Manager also exposes typed
// StateChange values for in-process observers (see event.go) and calls
// EventEmitter only to preserve the external, wire-visible shape.
type EventEmitter func(data []byte)
