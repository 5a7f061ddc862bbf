package hfp

// Codec identifies the voice codec negotiated for the synchronous
// (SCO/eSCO) audio link. The core only records the negotiated identifier;
// codec implementation itself is out of scope (spec.md §1 Non-goals).
type Codec uint8

// Codec identifiers as advertised over AT+BAC / AT+BCS (Bluetooth HFP
// Assigned Numbers).
const (
	CodecCVSD Codec = 0x01
	CodecMSBC Codec = 0x02
)

// String returns the human-readable codec name.
func (c Codec) String() string {
	switch c {
	case CodecCVSD:
		return "CVSD"
	case CodecMSBC:
		return "mSBC"
	default:
		return "Unknown"
	}
}

// applyAvailableCodec folds one advertised codec value into the session's
// monotonically increasing negotiated codec (spec.md §3 invariant:
// negotiated_codec never decreases).
//
// spec.md §9 flags the original stride-based scan ("pos += 8" per
// advertised byte) as unclear; this reads one codec value per list
// element, which is the behavior the spec directs implementers to build.
func (s *Session) applyAvailableCodec(value uint8) {
	if Codec(value) > s.NegotiatedCodec {
		s.NegotiatedCodec = Codec(value)
	}
}
