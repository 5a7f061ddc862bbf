package hfp

// EventSubtype identifies the kind of event carried in an emitted packet
// (spec.md §4.7).
type EventSubtype uint8

const (
	EventSLCEstablished EventSubtype = iota + 1
	EventSLCReleased
	EventAudioConnectionComplete
	EventAGIndicatorStatusChanged
	EventNetworkOperatorChanged
	EventExtendedAudioGatewayError
	EventComplete
)

func (e EventSubtype) String() string {
	switch e {
	case EventSLCEstablished:
		return "SLC_ESTABLISHED"
	case EventSLCReleased:
		return "SLC_RELEASED"
	case EventAudioConnectionComplete:
		return "AUDIO_CONNECTION_COMPLETE"
	case EventAGIndicatorStatusChanged:
		return "AG_INDICATOR_STATUS_CHANGED"
	case EventNetworkOperatorChanged:
		return "NETWORK_OPERATOR_CHANGED"
	case EventExtendedAudioGatewayError:
		return "EXTENDED_AUDIO_GATEWAY_ERROR"
	case EventComplete:
		return "COMPLETE"
	default:
		return "UNKNOWN"
	}
}

// hfpMetaOpcode is the single HCI-event-style opcode every emitted packet
// starts with, matching the original boundary's event framing
// (spec.md §4.7).
const hfpMetaOpcode = 0x86

// StateChange is the typed, in-process form of an emitted event. It
// exists alongside the packed wire form so in-process observers (the
// scheduler, a CLI, a test) never need to unpack bytes to learn what
// happened (spec.md §9: "reframe as a typed event variant ... eliminate
// the 4-byte packing except at the external boundary where it is
// wire-visible").
type StateChange struct {
	Addr    Addr
	Subtype EventSubtype
	Status  uint8

	// IndicatorIndex and IndicatorStatus are set for
	// EventAGIndicatorStatusChanged.
	IndicatorIndex  int
	IndicatorStatus int

	// Operator is set for EventNetworkOperatorChanged.
	Operator NetworkOperator

	// Error is set for EventExtendedAudioGatewayError.
	Error uint8
}

// StateCallback receives every StateChange a Manager produces, in the
// order the underlying transport events arrived (spec.md §5 ordering
// guarantee). Implementations must not block: the manager calls it
// synchronously from the single event-processing path.
type StateCallback func(change StateChange)

// pack renders a minimal event into the 4-byte-header wire form
// (spec.md §4.7): [opcode, payload_len, subtype, value, ...extra].
func pack(subtype EventSubtype, extra ...byte) []byte {
	out := make([]byte, 0, 3+len(extra))
	out = append(out, hfpMetaOpcode, byte(1+len(extra)), byte(subtype))
	out = append(out, extra...)
	return out
}
