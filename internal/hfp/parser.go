package hfp

import "strconv"

// IsEndOfLine reports whether b terminates an AT line (spec.md §4.1).
func IsEndOfLine(b byte) bool { return b == '\n' || b == '\r' }

// IsEndOfHeader reports whether b terminates a command header
// (spec.md §4.1).
func IsEndOfHeader(b byte) bool { return IsEndOfLine(b) || b == ':' || b == '?' }

// IsSeparator reports whether b is in the separator set (spec.md §4.1).
func IsSeparator(b byte) bool {
	switch b {
	case ',', '\n', '\r', ')', '(', ':', '-', '"', '?', '=':
		return true
	default:
		return false
	}
}

// IsEmpty reports whether the line buffer currently holds no bytes.
func (s *Session) IsEmpty() bool { return s.lineSize == 0 }

// store appends b to the line buffer, bounded by MaxLineLength. Bytes past
// the bound are dropped and ErrLineTooLong is reported; the buffered
// prefix is kept so command recognition still runs on a truncated header.
func (s *Session) store(b byte) error {
	if s.lineSize >= len(s.lineBuffer) {
		return ErrLineTooLong
	}
	s.lineBuffer[s.lineSize] = b
	s.lineSize++
	return nil
}

func (s *Session) token() string {
	return string(s.lineBuffer[:s.lineSize])
}

func (s *Session) clearToken() {
	s.lineSize = 0
}

// Feed parses one incoming byte, mutating session state per the line
// buffer, command recognizer, and argument parser rules of spec.md §4.1-4.3.
// An unknown header (ErrUnknownCommand), an unsupported operator format
// (ErrUnsupportedOperatorFormat) and a line overflow (ErrLineTooLong) are
// reported to the caller for logging. After an unknown header or an
// unsupported operator format the rest of the line is ignored; after an
// overflow the truncated token is still applied. A value that does not
// parse as a number where one is expected is skipped without an error and
// the rest of the line is still applied.
//
// The control flow mirrors the byte classifier this was ported from: a
// byte that doesn't close a token is stored and nothing else happens: a
// byte that does close one (including a forced close via KeepSeparator,
// the mechanism that lets a header's trailing '=' swallow the byte right
// after it so "=?" can still be told apart from "=<value>") runs the
// per-parser-state switch below against whatever token is buffered, and
// only afterward does advanceState move the parser on. A separator byte
// arriving against an empty buffer is dropped before either step runs, so
// adjacent structural bytes in a bracketed list ("(",",",")") never
// recognize a header or apply an empty value.
func (s *Session) Feed(b byte) error {
	if b == '"' {
		s.insideQuotes = !s.insideQuotes
	}

	if b == ' ' && s.ParserState != ParserHeader && !s.insideQuotes {
		return nil
	}

	if !s.KeepSeparator && !IsSeparator(b) {
		return s.store(b)
	}

	if IsEndOfLine(b) && s.IsEmpty() {
		s.ParserState = ParserHeader
		s.ParserItemIndex = 0
		s.insideQuotes = false
	}
	if s.IsEmpty() {
		return nil
	}

	var err error
	switch s.ParserState {
	case ParserHeader:
		switch {
		case b == '=':
			s.KeepSeparator = true
			return s.store(b)
		case b == '?':
			s.KeepSeparator = false
			return s.store(b)
		case IsEndOfHeader(b) || s.KeepSeparator:
			recognizeHeader(s, s.token())
			if s.Command == CommandNone {
				err = ErrUnknownCommand
			}
		}
	default:
		err = s.consumeArgumentToken(s.token())
	}

	s.advanceState(b)
	return err
}

// advanceState clears the line buffer and moves the parser to its next
// state for the byte that just closed a token (spec.md §4.1, §4.3). End
// of line always returns to the header state; the header-to-sequence
// transition restores a byte swallowed by KeepSeparator as the first byte
// of the new token, so "AT+BCS=2" hands "2" to the sequence state instead
// of losing it.
func (s *Session) advanceState(b byte) {
	s.clearToken()

	if IsEndOfLine(b) {
		s.ParserItemIndex = 0
		s.ParserState = ParserHeader
		s.insideQuotes = false
		return
	}

	switch s.ParserState {
	case ParserHeader:
		s.ParserState = ParserSequence
		if s.KeepSeparator {
			s.KeepSeparator = false
			_ = s.store(b)
		}
	case ParserSequence:
		s.ParserState = s.nextArgumentState(ParserSequence)
	case ParserSecondItem:
		s.ParserState = ParserThirdItem
	case ParserThirdItem:
		s.ParserState = s.nextArgumentState(ParserThirdItem)
	}
}

// consumeArgumentToken applies the per-command token semantics of
// spec.md §4.3 to the token just closed by a separator. It only mutates
// session fields; advanceState is solely responsible for clearing the
// token buffer and moving ParserState on afterward.
func (s *Session) consumeArgumentToken(tok string) error {
	pos := s.ParserState

	switch s.Command {
	case CommandSupportedFeatures:
		if v, ok := parseUint(tok); ok {
			s.RemoteSupportedFeatures = uint32(v)
		}

	case CommandAvailableCodecs:
		if v, ok := parseUint(tok); ok {
			s.growRemoteCodecs(s.ParserItemIndex + 1)
			s.RemoteCodecs[s.ParserItemIndex] = uint8(v)
			s.ParserItemIndex++
			s.RemoteCodecsNr = s.ParserItemIndex
			s.applyAvailableCodec(uint8(v))
		}

	case CommandIndicator:
		if s.Actions.Has(ActionRetrieveAGIndicators) {
			idx := s.ParserItemIndex
			s.growAGIndicators(idx + 1)
			switch pos {
			case ParserSequence:
				s.AGIndicators[idx].Name = tok
				s.AGIndicators[idx].Index = idx + 1
			case ParserSecondItem:
				if v, ok := parseInt(tok); ok {
					s.AGIndicators[idx].MinRange = v
				}
			case ParserThirdItem:
				if v, ok := parseInt(tok); ok {
					s.AGIndicators[idx].MaxRange = v
				}
				s.ParserItemIndex++
				s.AGIndicatorsNr = s.ParserItemIndex
			}
		} else if s.Actions.Has(ActionRetrieveAGIndicatorsStatus) {
			idx := s.ParserItemIndex
			if v, ok := parseInt(tok); ok && idx < len(s.AGIndicators) {
				s.AGIndicators[idx].Status = v
			}
			s.ParserItemIndex++
		}

	case CommandEnableIndicatorStatusUpdate:
		s.ParserItemIndex++
		if s.ParserItemIndex == 4 {
			if v, ok := parseUint(tok); ok {
				s.EnableStatusUpdateForAGIndicators = uint8(v)
			}
		}

	case CommandSupportCallHoldAndMultipartyServices:
		if len(tok) <= 2 {
			s.RemoteCallServices = append(s.RemoteCallServices, tok)
			s.RemoteCallServicesNr++
		}

	case CommandGenericStatusIndicator:
		idx := s.ParserItemIndex
		switch {
		case s.Actions.Has(ActionRetrieveGenericStatusIndicatorsState):
			// "+BIND: <index>,<state>" reports one existing indicator's
			// current state: the first value is a direct position into
			// the already-populated table, not a fresh list entry
			// (spec.md §4.3; original_source/src/hfp.c's
			// HFP_CMD_GENERIC_STATUS_INDICATOR/retrieve_generic_status_indicators_state
			// branch assigns parser_item_index from the raw value rather
			// than appending).
			switch pos {
			case ParserSequence:
				if v, ok := parseUint(tok); ok {
					s.ParserItemIndex = int(v)
				}
			case ParserSecondItem:
				if v, ok := parseUint(tok); ok && s.ParserItemIndex >= 0 && s.ParserItemIndex < len(s.GenericStatusIndicators) {
					s.GenericStatusIndicators[s.ParserItemIndex].State = uint8(v)
				}
			}
		default:
			switch pos {
			case ParserSequence:
				if v, ok := parseUint(tok); ok {
					s.growGenericStatusIndicators(idx + 1)
					s.GenericStatusIndicators[idx].UUID = uint16(v)
					s.ParserItemIndex++
					s.GenericStatusIndicatorsNr = s.ParserItemIndex
				}
			case ParserSecondItem:
				if v, ok := parseUint(tok); ok && idx-1 >= 0 && idx-1 < len(s.GenericStatusIndicators) {
					s.GenericStatusIndicators[idx-1].State = uint8(v)
				}
			}
		}

	case CommandEnableIndividualAGIndicatorStatusUpdate:
		idx := s.ParserItemIndex
		if v, ok := parseUint(tok); ok && idx < len(s.AGIndicators) {
			if !s.AGIndicators[idx].Mandatory {
				s.AGIndicators[idx].Enabled = v != 0
			}
		}
		s.ParserItemIndex++

	case CommandTransferAGIndicatorStatus:
		switch pos {
		case ParserSequence:
			if v, ok := parseInt(tok); ok {
				s.ParserItemIndex = v - 1
			}
		case ParserSecondItem:
			if v, ok := parseInt(tok); ok && s.ParserItemIndex >= 0 && s.ParserItemIndex < len(s.AGIndicators) {
				s.AGIndicators[s.ParserItemIndex].Status = v
				s.AGIndicators[s.ParserItemIndex].StatusChanged = true
			}
		}

	case CommandQueryOperatorSelection:
		if s.Actions.Has(ActionOperatorNameFormat) {
			switch pos {
			case ParserSequence:
				if tok != "3" {
					// Drop the rest of the line: no later token of it
					// reaches the session.
					s.Actions.Clear(ActionOperatorNameFormat)
					s.Command = CommandNone
					return ErrUnsupportedOperatorFormat
				}
			case ParserSecondItem:
				if v, ok := parseInt(tok); ok {
					s.NetworkOperator.Format = v
				}
			}
		} else {
			switch pos {
			case ParserSequence:
				if v, ok := parseInt(tok); ok {
					s.NetworkOperator.Mode = v
				}
			case ParserSecondItem:
				if v, ok := parseInt(tok); ok {
					s.NetworkOperator.Format = v
				}
			case ParserThirdItem:
				s.NetworkOperator.Name = tok
				s.setAction(ActionOperatorNameChanged)
			}
		}

	case CommandConfirmCommonCodec:
		if v, ok := parseUint(tok); ok {
			s.RemoteCodecReceived = uint8(v)
			s.setAction(ActionRemoteCodecReceived)
		}

	case CommandExtendedAudioGatewayError:
		if v, ok := parseUint(tok); ok {
			s.ExtendedAudioGatewayError = uint8(v)
			s.ExtendedAudioGatewayErrorChanged = true
		}

	case CommandEnableExtendedAudioGatewayError:
		if v, ok := parseUint(tok); ok {
			s.EnableExtendedAudioGatewayErrorReport = v != 0
		}
		s.setAction(ActionSendOK)
		s.ExtendedAudioGatewayError = 0
	}

	return nil
}

// nextArgumentState implements the SEQUENCE/SECOND_ITEM/THIRD_ITEM cycle
// of spec.md §4.3.
func (s *Session) nextArgumentState(pos ParserState) ParserState {
	switch pos {
	case ParserSequence:
		switch s.Command {
		case CommandTransferAGIndicatorStatus, CommandQueryOperatorSelection:
			return ParserSecondItem
		case CommandIndicator:
			if s.Actions.Has(ActionRetrieveAGIndicators) {
				return ParserSecondItem
			}
		case CommandGenericStatusIndicator:
			if s.Actions.Has(ActionRetrieveGenericStatusIndicatorsState) {
				return ParserSecondItem
			}
		}
		return ParserSequence
	case ParserSecondItem:
		return ParserThirdItem
	case ParserThirdItem:
		if s.Command == CommandIndicator && s.Actions.Has(ActionRetrieveAGIndicators) {
			return ParserSequence
		}
		return ParserHeader
	default:
		return ParserHeader
	}
}

func (s *Session) growRemoteCodecs(n int) {
	for len(s.RemoteCodecs) < n {
		s.RemoteCodecs = append(s.RemoteCodecs, 0)
	}
}

func (s *Session) growAGIndicators(n int) {
	for len(s.AGIndicators) < n {
		s.AGIndicators = append(s.AGIndicators, AGIndicator{})
	}
}

func (s *Session) growGenericStatusIndicators(n int) {
	for len(s.GenericStatusIndicators) < n {
		s.GenericStatusIndicators = append(s.GenericStatusIndicators, GenericStatusIndicator{})
	}
}

func parseInt(tok string) (int, bool) {
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseUint(tok string) (uint64, bool) {
	v, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
