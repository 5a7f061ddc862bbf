package hfp

import "strings"

// Command is a decoded AT command tag (spec.md §4.2).
type Command uint8

const (
	CommandNone Command = iota
	CommandError
	CommandOK
	CommandSupportedFeatures
	CommandIndicator
	CommandAvailableCodecs
	CommandEnableIndicatorStatusUpdate
	CommandSupportCallHoldAndMultipartyServices
	CommandGenericStatusIndicator
	CommandEnableIndividualAGIndicatorStatusUpdate
	CommandQueryOperatorSelection
	CommandTransferAGIndicatorStatus
	CommandExtendedAudioGatewayError
	CommandEnableExtendedAudioGatewayError
	CommandTriggerCodecConnectionSetup
	CommandConfirmCommonCodec
)

func (c Command) String() string {
	switch c {
	case CommandNone:
		return "NONE"
	case CommandError:
		return "ERROR"
	case CommandOK:
		return "OK"
	case CommandSupportedFeatures:
		return "SUPPORTED_FEATURES"
	case CommandIndicator:
		return "INDICATOR"
	case CommandAvailableCodecs:
		return "AVAILABLE_CODECS"
	case CommandEnableIndicatorStatusUpdate:
		return "ENABLE_INDICATOR_STATUS_UPDATE"
	case CommandSupportCallHoldAndMultipartyServices:
		return "SUPPORT_CALL_HOLD_AND_MULTIPARTY_SERVICES"
	case CommandGenericStatusIndicator:
		return "GENERIC_STATUS_INDICATOR"
	case CommandEnableIndividualAGIndicatorStatusUpdate:
		return "ENABLE_INDIVIDUAL_AG_INDICATOR_STATUS_UPDATE"
	case CommandQueryOperatorSelection:
		return "QUERY_OPERATOR_SELECTION"
	case CommandTransferAGIndicatorStatus:
		return "TRANSFER_AG_INDICATOR_STATUS"
	case CommandExtendedAudioGatewayError:
		return "EXTENDED_AUDIO_GATEWAY_ERROR"
	case CommandEnableExtendedAudioGatewayError:
		return "ENABLE_EXTENDED_AUDIO_GATEWAY_ERROR"
	case CommandTriggerCodecConnectionSetup:
		return "TRIGGER_CODEC_CONNECTION_SETUP"
	case CommandConfirmCommonCodec:
		return "CONFIRM_COMMON_CODEC"
	default:
		return "UNKNOWN"
	}
}

// commandTableEntry maps one AT token prefix to its command tag.
type commandTableEntry struct {
	token string
	tag   Command
}

// commandTable drives header recognition. Order matters only in that a
// longer, more specific token ("+CME ERROR") must be tried before a
// shorter one that could also prefix-match; none of the HFP tokens
// actually collide, so a single linear scan is sufficient (spec.md §9
// suggests a trie/perfect-hash as an equivalent, clearer-dispatch
// alternative — not needed at this table size).
var commandTable = []commandTableEntry{
	{"ERROR", CommandError},
	{"OK", CommandOK},
	{"+BRSF", CommandSupportedFeatures},
	{"+CIND", CommandIndicator},
	{"+BAC", CommandAvailableCodecs},
	{"+CMER", CommandEnableIndicatorStatusUpdate},
	{"+CHLD", CommandSupportCallHoldAndMultipartyServices},
	{"+BIND", CommandGenericStatusIndicator},
	{"+BIA", CommandEnableIndividualAGIndicatorStatusUpdate},
	{"+COPS", CommandQueryOperatorSelection},
	{"+CIEV", CommandTransferAGIndicatorStatus},
	{"+CME ERROR", CommandExtendedAudioGatewayError},
	{"+CMEE", CommandEnableExtendedAudioGatewayError},
	{"+BCC", CommandTriggerCodecConnectionSetup},
	{"+BCS", CommandConfirmCommonCodec},
}

// recognizeHeader implements C2: it detects the AT/response side, matches
// the command table, and sets the session's retrieval/mode flags for the
// commands whose wire form is ambiguous without a trailing terminator.
// header is the full accumulated header token, including any trailing
// '=', '?' or "=?" the byte classifier folded into it — the same text
// the wire carried, which is why matching against it is a prefix/suffix
// check rather than a separately-tracked mode value.
func recognizeHeader(s *Session, header string) {
	isHandsFreeSide := true
	matchable := header
	if strings.HasPrefix(matchable, "AT") {
		matchable = matchable[2:]
		isHandsFreeSide = false
	}
	s.isHandsFreeSide = isHandsFreeSide

	tag := CommandNone
	var rest string
	for _, entry := range commandTable {
		if strings.HasPrefix(matchable, entry.token) {
			tag = entry.tag
			rest = matchable[len(entry.token):]
			break
		}
	}
	s.Command = tag

	switch tag {
	case CommandIndicator:
		if !isHandsFreeSide {
			if strings.HasPrefix(rest, "?") {
				s.setAction(ActionRetrieveAGIndicatorsStatus)
			} else {
				s.setAction(ActionRetrieveAGIndicators)
			}
		}
	case CommandGenericStatusIndicator:
		if !isHandsFreeSide {
			switch {
			case strings.HasPrefix(rest, "=?"):
				s.setAction(ActionRetrieveGenericStatusIndicators)
			case strings.HasPrefix(rest, "="):
				s.setAction(ActionListGenericStatusIndicators)
			default:
				s.setAction(ActionRetrieveGenericStatusIndicatorsState)
			}
		}
	case CommandQueryOperatorSelection:
		// An AG-side "AT+COPS=" line sets the name format; every other
		// +COPS line (a response, or a bare "AT+COPS?" query) asks for the
		// operator name.
		if !isHandsFreeSide && strings.HasPrefix(rest, "=") {
			s.setAction(ActionOperatorNameFormat)
		} else {
			s.setAction(ActionOperatorName)
		}
	case CommandTriggerCodecConnectionSetup:
		s.setAction(ActionTriggerCodecConnectionSetup)
	}
}
