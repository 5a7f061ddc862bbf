package hfp

// State is a connection lifecycle state (spec.md §4.6).
type State uint8

const (
	StateIdle State = iota
	StateW4SDPQueryComplete
	StateW4RFCOMMConnected
	StateExchangeSupportedFeatures
	StateServiceLevelConnectionEstablished
	StateAudioConnectionEstablished
	StateW2DisconnectRFCOMM
	StateW4ConnectionEstablishedToShutdown
	StateW2DisconnectSCO
	StateW4RFCOMMDisconnected
	StateW4RFCOMMDisconnectedAndRestart
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateW4SDPQueryComplete:
		return "W4_SDP_QUERY_COMPLETE"
	case StateW4RFCOMMConnected:
		return "W4_RFCOMM_CONNECTED"
	case StateExchangeSupportedFeatures:
		return "EXCHANGE_SUPPORTED_FEATURES"
	case StateServiceLevelConnectionEstablished:
		return "SERVICE_LEVEL_CONNECTION_ESTABLISHED"
	case StateAudioConnectionEstablished:
		return "AUDIO_CONNECTION_ESTABLISHED"
	case StateW2DisconnectRFCOMM:
		return "W2_DISCONNECT_RFCOMM"
	case StateW4ConnectionEstablishedToShutdown:
		return "W4_CONNECTION_ESTABLISHED_TO_SHUTDOWN"
	case StateW2DisconnectSCO:
		return "W2_DISCONNECT_SCO"
	case StateW4RFCOMMDisconnected:
		return "W4_RFCOMM_DISCONNECTED"
	case StateW4RFCOMMDisconnectedAndRestart:
		return "W4_RFCOMM_DISCONNECTED_AND_RESTART"
	default:
		return "UNKNOWN"
	}
}

// ParserState is a position within the AT argument state machine (spec.md §4.3).
type ParserState uint8

const (
	ParserHeader ParserState = iota
	ParserSequence
	ParserSecondItem
	ParserThirdItem
)

func (p ParserState) String() string {
	switch p {
	case ParserHeader:
		return "HEADER"
	case ParserSequence:
		return "SEQUENCE"
	case ParserSecondItem:
		return "SECOND_ITEM"
	case ParserThirdItem:
		return "THIRD_ITEM"
	default:
		return "UNKNOWN"
	}
}
