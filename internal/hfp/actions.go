package hfp

// Action names one pending item the AT-command scheduler (out of scope,
// spec.md §1) must act on. The parser only ever inserts into a session's
// ActionSet; the scheduler drains it and clears what it has issued
// (spec.md §3 invariant, §9 design note: "reframe [the flags] as a
// pending-actions set whose elements name the AT command to issue next").
type Action uint32

const (
	ActionRetrieveAGIndicators Action = 1 << iota
	ActionRetrieveAGIndicatorsStatus
	ActionListGenericStatusIndicators
	ActionRetrieveGenericStatusIndicators
	ActionRetrieveGenericStatusIndicatorsState
	ActionChangeStatusUpdateForIndividualAGIndicators
	ActionOperatorNameFormat
	ActionOperatorName
	ActionOperatorNameChanged
	ActionNotifyAGOnNewCodecs
	ActionTriggerCodecConnectionSetup
	ActionRemoteCodecReceived
	ActionEstablishAudioConnection
	ActionReleaseAudioConnection
	ActionSendOK
	ActionSendError
	ActionWaitOK
)

var actionNames = map[Action]string{
	ActionRetrieveAGIndicators:                         "retrieve_ag_indicators",
	ActionRetrieveAGIndicatorsStatus:                   "retrieve_ag_indicators_status",
	ActionListGenericStatusIndicators:                  "list_generic_status_indicators",
	ActionRetrieveGenericStatusIndicators:              "retrieve_generic_status_indicators",
	ActionRetrieveGenericStatusIndicatorsState:         "retrieve_generic_status_indicators_state",
	ActionChangeStatusUpdateForIndividualAGIndicators:  "change_status_update_for_individual_ag_indicators",
	ActionOperatorNameFormat:                           "operator_name_format",
	ActionOperatorName:                                 "operator_name",
	ActionOperatorNameChanged:                          "operator_name_changed",
	ActionNotifyAGOnNewCodecs:                          "notify_ag_on_new_codecs",
	ActionTriggerCodecConnectionSetup:                  "trigger_codec_connection_setup",
	ActionRemoteCodecReceived:                          "remote_codec_received",
	ActionEstablishAudioConnection:                     "establish_audio_connection",
	ActionReleaseAudioConnection:                       "release_audio_connection",
	ActionSendOK:                                       "send_ok",
	ActionSendError:                                    "send_error",
	ActionWaitOK:                                       "wait_ok",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ActionSet is a bitset of pending Actions. The zero value is the empty set.
type ActionSet uint32

// Set adds a to the set.
func (s *ActionSet) Set(a Action) { *s |= ActionSet(a) }

// Clear removes a from the set. This is the only operation the scheduler
// should use once it has issued the command a names (spec.md §3 invariant:
// "an action flag is cleared only after the action it describes has been
// issued").
func (s *ActionSet) Clear(a Action) { *s &^= ActionSet(a) }

// Has reports whether a is pending.
func (s ActionSet) Has(a Action) bool { return s&ActionSet(a) != 0 }

// Reset clears every pending action.
func (s *ActionSet) Reset() { *s = 0 }

// Pending returns the set's members in declaration order, for logging and
// for a scheduler that wants a deterministic drain order.
func (s ActionSet) Pending() []Action {
	var out []Action
	for a := Action(1); a != 0; a <<= 1 {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s *Session) setAction(a Action) { s.Actions.Set(a) }
