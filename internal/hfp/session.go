package hfp

// Session holds all per-peer state the parser writes and the scheduler
// reads (spec.md §3, C4). Besides the fields it carries the AT line parser
// (Feed, in parser.go), ResetFlags, and the request setters below.
type Session struct {
	RemoteAddr      Addr
	ServiceUUID     ServiceUUID
	RFCOMMChannelNr uint8

	RFCOMMCid uint16
	ConHandle uint16
	ScoHandle uint16

	State       State
	ParserState ParserState
	Command     Command

	lineBuffer    [MaxLineLength]byte
	lineSize      int
	KeepSeparator bool

	// isHandsFreeSide records which side emitted the line most recently
	// recognized by C2 (spec.md §4.2): true when we parsed something the
	// AG would have sent (a response), false when we parsed an "AT"
	// command (something the HF would have sent).
	isHandsFreeSide bool

	RemoteSupportedFeatures uint32

	RemoteCodecs   []uint8
	RemoteCodecsNr int

	RemoteCallServices   []string
	RemoteCallServicesNr int

	NegotiatedCodec Codec

	AGIndicators   []AGIndicator
	AGIndicatorsNr int

	GenericStatusIndicators   []GenericStatusIndicator
	GenericStatusIndicatorsNr int

	NetworkOperator NetworkOperator

	EnableExtendedAudioGatewayErrorReport bool
	ExtendedAudioGatewayError             uint8
	// ExtendedAudioGatewayErrorChanged latches when a +CME ERROR line sets
	// ExtendedAudioGatewayError, mirroring AGIndicator.StatusChanged: a
	// plain value-arrived flag, not a scheduler action (spec.md §7 error
	// kind 3).
	ExtendedAudioGatewayErrorChanged bool

	// Actions is the pending-actions set the parser inserts into and the
	// scheduler drains (spec.md §9 design note; see actions.go).
	Actions ActionSet

	// RemoteCodecReceived carries the codec value reported by the most
	// recent AT+BCS confirmation. Unlike the Action bits, this is a
	// value slot, not a flag: ActionRemoteCodecReceived tells the
	// scheduler a new value is waiting here (grounded on the original
	// source's overloaded use of the field as both trigger and payload).
	RemoteCodecReceived uint8

	// EnableStatusUpdateForAGIndicators is EnableStatusUpdateUnset until
	// an AT+CMER line sets it.
	EnableStatusUpdateForAGIndicators uint8

	// ParserItemIndex is the positional index within a multi-valued AT
	// argument list (spec.md §3, §4.3).
	ParserItemIndex int

	// pendingSLCUUID remembers the service UUID an establish_slc call
	// targeted (the address is RemoteAddr), so a
	// W4_RFCOMM_DISCONNECTED_AND_RESTART cycle can re-issue it without the
	// caller repeating itself (spec.md §4.6, scenario 6).
	pendingSLCUUID ServiceUUID

	// insideQuotes tracks whether the byte classifier is currently
	// between a pair of '"' separators, so spaces inside a quoted
	// operator name survive the value-position space-skip rule
	// (spec.md §4.1, §4.3).
	insideQuotes bool
}

// NewSession constructs a session in its initial, unbound state
// (spec.md §3: state == IDLE ⇔ no live transport binding).
func NewSession(addr Addr) *Session {
	return &Session{
		RemoteAddr:                         addr,
		State:                              StateIdle,
		ParserState:                        ParserHeader,
		NegotiatedCodec:                    CodecCVSD,
		EnableStatusUpdateForAGIndicators:  EnableStatusUpdateUnset,
	}
}

// ResetFlags clears all action flags and transient parse state to zero
// while preserving identity: address, transport handles, and the
// capability history accumulated so far (spec.md §4.4).
func (s *Session) ResetFlags() {
	s.Actions.Reset()
	s.ParserState = ParserHeader
	s.lineSize = 0
	s.KeepSeparator = false
	s.insideQuotes = false
	s.ParserItemIndex = 0
	s.ExtendedAudioGatewayError = 0
	s.ExtendedAudioGatewayErrorChanged = false
}

// IsHandsFreeSide reports which side emitted the most recently recognized
// line (spec.md §4.2).
func (s *Session) IsHandsFreeSide() bool { return s.isHandsFreeSide }

// SetCodecs records the codec list an AT+BAC line advertised and notifies
// the scheduler that new codecs are available (spec.md §6 upward
// interface: set_codecs).
func (s *Session) SetCodecs(codecs []uint8) {
	s.RemoteCodecs = append([]uint8(nil), codecs...)
	s.RemoteCodecsNr = len(codecs)
	for _, c := range codecs {
		s.applyAvailableCodec(c)
	}
	s.setAction(ActionNotifyAGOnNewCodecs)
}

// SetGenericStatusIndicators replaces the generic status indicator table
// (spec.md §6 upward interface: set_generic_status_indicators).
func (s *Session) SetGenericStatusIndicators(indicators []GenericStatusIndicator) {
	s.GenericStatusIndicators = append([]GenericStatusIndicator(nil), indicators...)
	s.GenericStatusIndicatorsNr = len(indicators)
}

// QueryOperatorSelection requests the AG's current network operator
// (spec.md §6 upward interface: query_operator_selection).
func (s *Session) QueryOperatorSelection() {
	s.setAction(ActionOperatorName)
}

// EnableStatusUpdateForAGIndicatorsRequest toggles AT+CMER-style
// notification of AG indicator changes (spec.md §6 upward interface).
func (s *Session) EnableStatusUpdateForAGIndicatorsRequest(enable bool) {
	if enable {
		s.EnableStatusUpdateForAGIndicators = 1
	} else {
		s.EnableStatusUpdateForAGIndicators = 0
	}
}

// EnableStatusUpdateForIndividualAGIndicators applies an AT+BIA bitmap,
// one bit per non-mandatory indicator in table order (spec.md §6 upward
// interface, §4.3 ENABLE_INDIVIDUAL_AG_INDICATOR_STATUS_UPDATE).
func (s *Session) EnableStatusUpdateForIndividualAGIndicators(bitmap uint32) {
	idx := 0
	for i := range s.AGIndicators {
		if s.AGIndicators[i].Mandatory {
			continue
		}
		s.AGIndicators[i].Enabled = GetBit(bitmap, idx) != 0
		idx++
	}
	s.setAction(ActionChangeStatusUpdateForIndividualAGIndicators)
}

// EnableReportExtendedAudioGatewayErrorResultCode toggles AT+CMEE
// (spec.md §6 upward interface).
func (s *Session) EnableReportExtendedAudioGatewayErrorResultCode(enable bool) {
	s.EnableExtendedAudioGatewayErrorReport = enable
	s.setAction(ActionSendOK)
	s.ExtendedAudioGatewayError = 0
}
