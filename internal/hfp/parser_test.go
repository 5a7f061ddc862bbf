package hfp_test

import (
	"testing"

	"github.com/hfpstack/gohfp/internal/hfp"
)

func feedString(t *testing.T, s *hfp.Session, line string) {
	t.Helper()
	for i := 0; i < len(line); i++ {
		if err := s.Feed(line[i]); err != nil {
			t.Fatalf("Feed(%q) at byte %d (%q): %v", line, i, line[i], err)
		}
	}
}

func newAGSession() *hfp.Session {
	return hfp.NewSession(hfp.Addr{0, 1, 2, 3, 4, 5})
}

// TestFeedSupportedFeaturesRoundTrip exercises the AT+BRSF request/response
// dialog: an HF line announcing its own features, followed by the AG's
// response and a terminating OK.
func TestFeedSupportedFeaturesRoundTrip(t *testing.T) {
	t.Parallel()

	s := newAGSession()
	feedString(t, s, "AT+BRSF=438\r")

	if s.Command != hfp.CommandSupportedFeatures {
		t.Fatalf("Command = %v, want SUPPORTED_FEATURES", s.Command)
	}
	if s.ParserState != hfp.ParserHeader {
		t.Fatalf("ParserState = %v, want HEADER after EOL", s.ParserState)
	}
	if s.IsHandsFreeSide() {
		t.Fatalf("IsHandsFreeSide = true, want false (line had an AT prefix)")
	}

	feedString(t, s, "\r\n+BRSF: 4095\r\n")
	if s.RemoteSupportedFeatures != 4095 {
		t.Fatalf("RemoteSupportedFeatures = %d, want 4095", s.RemoteSupportedFeatures)
	}

	feedString(t, s, "\r\nOK\r\n")
	if s.Command != hfp.CommandOK {
		t.Fatalf("Command = %v, want OK", s.Command)
	}
	if s.ParserState != hfp.ParserHeader {
		t.Fatalf("ParserState = %v, want HEADER after EOL", s.ParserState)
	}
}

// TestFeedIndicatorListParse exercises AT+CIND=? and the AG's
// parenthesized indicator-definition response.
func TestFeedIndicatorListParse(t *testing.T) {
	t.Parallel()

	s := newAGSession()
	feedString(t, s, "AT+CIND=?\r")

	if !s.Actions.Has(hfp.ActionRetrieveAGIndicators) {
		t.Fatalf("ActionRetrieveAGIndicators not set after AT+CIND=?")
	}

	feedString(t, s, `+CIND: ("service",(0,1)),("call",(0,1)),("callsetup",(0,3))`+"\r\n")

	if got := len(s.AGIndicators); got != 3 {
		t.Fatalf("len(AGIndicators) = %d, want 3", got)
	}
	want := []struct {
		name           string
		index, lo, hi  int
	}{
		{"service", 1, 0, 1},
		{"call", 2, 0, 1},
		{"callsetup", 3, 0, 3},
	}
	for i, w := range want {
		ind := s.AGIndicators[i]
		if ind.Name != w.name || ind.Index != w.index || ind.MinRange != w.lo || ind.MaxRange != w.hi {
			t.Errorf("AGIndicators[%d] = %+v, want name=%s index=%d range=[%d,%d]", i, ind, w.name, w.index, w.lo, w.hi)
		}
	}
}

// TestFeedIndicatorStatusParse exercises AT+CIND? and the AG's
// comma-separated status-values response, pre-loading the indicator table
// and letting the AT+CIND? line set the retrieval action, the way a session
// driving its own outstanding request would.
func TestFeedIndicatorStatusParse(t *testing.T) {
	t.Parallel()

	s := newAGSession()
	s.AGIndicators = hfp.DefaultAGIndicators()
	feedString(t, s, "AT+CIND?\r")

	if !s.Actions.Has(hfp.ActionRetrieveAGIndicatorsStatus) {
		t.Fatalf("ActionRetrieveAGIndicatorsStatus not set after AT+CIND?")
	}

	feedString(t, s, "+CIND: 1,0,0,0,5,0,5\r\n")

	wantStatus := []int{1, 0, 0, 0, 5, 0, 5}
	for i, want := range wantStatus {
		if got := s.AGIndicators[i].Status; got != want {
			t.Errorf("AGIndicators[%d].Status = %d, want %d", i, got, want)
		}
	}
}

// TestFeedOperatorParse exercises AT+COPS? and the AG's quoted
// operator-name response, including the space inside the quoted string
// (spec.md's scenario 4 example).
func TestFeedOperatorParse(t *testing.T) {
	t.Parallel()

	s := newAGSession()
	feedString(t, s, "AT+COPS?\r")
	if !s.Actions.Has(hfp.ActionOperatorName) {
		t.Fatalf("ActionOperatorName not set after AT+COPS?")
	}

	feedString(t, s, `+COPS: 0,0,"T Mobile"`+"\r\n")

	if s.NetworkOperator.Mode != 0 {
		t.Errorf("NetworkOperator.Mode = %d, want 0", s.NetworkOperator.Mode)
	}
	if s.NetworkOperator.Format != 0 {
		t.Errorf("NetworkOperator.Format = %d, want 0", s.NetworkOperator.Format)
	}
	if s.NetworkOperator.Name != "T Mobile" {
		t.Errorf("NetworkOperator.Name = %q, want %q (space must survive inside quotes)", s.NetworkOperator.Name, "T Mobile")
	}
	if !s.Actions.Has(hfp.ActionOperatorNameChanged) {
		t.Errorf("ActionOperatorNameChanged not set after operator name parsed")
	}
}

// TestFeedOperatorSetFormat exercises AT+COPS=3,0, the set-format dialog
// that only accepts format 3.
func TestFeedOperatorSetFormat(t *testing.T) {
	t.Parallel()

	s := newAGSession()
	feedString(t, s, "AT+COPS=3,0\r")

	if !s.Actions.Has(hfp.ActionOperatorNameFormat) {
		t.Fatalf("ActionOperatorNameFormat not set after AT+COPS=")
	}
	if s.NetworkOperator.Format != 0 {
		t.Errorf("NetworkOperator.Format = %d, want 0", s.NetworkOperator.Format)
	}
}

// TestFeedOperatorSetFormatRejectsNonThree verifies the only-format-3 rule:
// the error surfaces as soon as the offending token's separator arrives,
// at the comma following the format value, not at end of line.
func TestFeedOperatorSetFormatRejectsNonThree(t *testing.T) {
	t.Parallel()

	s := newAGSession()
	var lastErr error
	for i, b := range []byte("AT+COPS=5,0\r") {
		if err := s.Feed(b); err != nil {
			lastErr = err
			if b != ',' {
				t.Fatalf("byte %d (%q): unexpected error %v", i, b, err)
			}
			break
		}
	}
	if lastErr != hfp.ErrUnsupportedOperatorFormat {
		t.Fatalf("err = %v, want ErrUnsupportedOperatorFormat", lastErr)
	}
}

// TestFeedAvailableCodecs exercises AT+BAC and verifies the negotiated
// codec rises monotonically to the highest advertised value.
func TestFeedAvailableCodecs(t *testing.T) {
	t.Parallel()

	s := newAGSession()
	if s.NegotiatedCodec != hfp.CodecCVSD {
		t.Fatalf("NegotiatedCodec = %v, want CVSD at session start", s.NegotiatedCodec)
	}

	feedString(t, s, "AT+BAC=1,2\r")

	if got := s.RemoteCodecsNr; got != 2 {
		t.Fatalf("RemoteCodecsNr = %d, want 2", got)
	}
	if s.RemoteCodecs[0] != 1 || s.RemoteCodecs[1] != 2 {
		t.Fatalf("RemoteCodecs = %v, want [1 2]", s.RemoteCodecs)
	}
	if s.NegotiatedCodec != hfp.CodecMSBC {
		t.Fatalf("NegotiatedCodec = %v, want mSBC after advertising {1,2}", s.NegotiatedCodec)
	}

	// spec.md §8 scenario 5: a later, narrower advertisement must never
	// pull the negotiated codec back down.
	feedString(t, s, "AT+BAC=1\r")
	if s.NegotiatedCodec != hfp.CodecMSBC {
		t.Fatalf("NegotiatedCodec = %v, want mSBC to remain after re-advertising {1}", s.NegotiatedCodec)
	}
}

// TestFeedConfirmCommonCodec exercises AT+BCS=<codec>, the codec
// connection-setup confirmation.
func TestFeedConfirmCommonCodec(t *testing.T) {
	t.Parallel()

	s := newAGSession()
	feedString(t, s, "AT+BCS=2\r")

	if s.RemoteCodecReceived != 2 {
		t.Fatalf("RemoteCodecReceived = %d, want 2", s.RemoteCodecReceived)
	}
	if !s.Actions.Has(hfp.ActionRemoteCodecReceived) {
		t.Fatalf("ActionRemoteCodecReceived not set")
	}
}

// TestFeedGenericStatusIndicatorTest exercises AT+BIND=? and the AG's
// supported-UUID-list response.
func TestFeedGenericStatusIndicatorTest(t *testing.T) {
	t.Parallel()

	s := newAGSession()
	feedString(t, s, "AT+BIND=?\r")

	if !s.Actions.Has(hfp.ActionRetrieveGenericStatusIndicators) {
		t.Fatalf("ActionRetrieveGenericStatusIndicators not set after AT+BIND=?")
	}

	feedString(t, s, "+BIND: (1,2)\r\n")

	if got := len(s.GenericStatusIndicators); got != 2 {
		t.Fatalf("len(GenericStatusIndicators) = %d, want 2", got)
	}
	if s.GenericStatusIndicators[0].UUID != 1 || s.GenericStatusIndicators[1].UUID != 2 {
		t.Fatalf("GenericStatusIndicators UUIDs = %+v, want [1 2]", s.GenericStatusIndicators)
	}
}

// TestFeedGenericStatusIndicatorState exercises a bare AT+BIND? query and
// the AG's index/state pair response: the first value addresses an
// existing table slot directly, mirroring the original implementation's
// parser_item_index assignment for this one command/action combination.
func TestFeedGenericStatusIndicatorState(t *testing.T) {
	t.Parallel()

	s := newAGSession()
	s.GenericStatusIndicators = hfp.DefaultGenericStatusIndicators()
	feedString(t, s, "AT+BIND?\r")

	if !s.Actions.Has(hfp.ActionRetrieveGenericStatusIndicatorsState) {
		t.Fatalf("ActionRetrieveGenericStatusIndicatorsState not set after bare AT+BIND?")
	}

	feedString(t, s, "+BIND: 1,1\r\n")

	if s.GenericStatusIndicators[1].State != 1 {
		t.Fatalf("GenericStatusIndicators[1].State = %d, want 1", s.GenericStatusIndicators[1].State)
	}
}

// TestFeedTransferAGIndicatorStatus exercises +CIEV unsolicited indicator
// status change notifications.
func TestFeedTransferAGIndicatorStatus(t *testing.T) {
	t.Parallel()

	s := newAGSession()
	s.AGIndicators = hfp.DefaultAGIndicators()
	feedString(t, s, "+CIEV: 2,1\r\n")

	call := s.AGIndicators[1]
	if call.Status != 1 {
		t.Fatalf("AGIndicators[1].Status = %d, want 1", call.Status)
	}
	if !call.StatusChanged {
		t.Fatalf("AGIndicators[1].StatusChanged = false, want true")
	}
}

// TestFeedExtendedAudioGatewayError exercises AT+CMEE=1 followed by a
// +CME ERROR response.
func TestFeedExtendedAudioGatewayError(t *testing.T) {
	t.Parallel()

	s := newAGSession()
	feedString(t, s, "AT+CMEE=1\r")
	if !s.EnableExtendedAudioGatewayErrorReport {
		t.Fatalf("EnableExtendedAudioGatewayErrorReport = false, want true")
	}
	if !s.Actions.Has(hfp.ActionSendOK) {
		t.Fatalf("ActionSendOK not set after AT+CMEE=1")
	}

	feedString(t, s, "+CME ERROR: 3\r\n")
	if s.ExtendedAudioGatewayError != 3 {
		t.Fatalf("ExtendedAudioGatewayError = %d, want 3", s.ExtendedAudioGatewayError)
	}
}

// TestFeedTriggerCodecConnectionSetup exercises the bare AT+BCC trigger.
func TestFeedTriggerCodecConnectionSetup(t *testing.T) {
	t.Parallel()

	s := newAGSession()
	feedString(t, s, "AT+BCC\r")
	if !s.Actions.Has(hfp.ActionTriggerCodecConnectionSetup) {
		t.Fatalf("ActionTriggerCodecConnectionSetup not set after AT+BCC")
	}
}

// TestFeedEnableIndividualAGIndicatorStatusUpdate exercises AT+BIA, which
// must skip mandatory indicators per spec.md §4.3.
func TestFeedEnableIndividualAGIndicatorStatusUpdate(t *testing.T) {
	t.Parallel()

	s := newAGSession()
	s.AGIndicators = hfp.DefaultAGIndicators()
	feedString(t, s, "AT+BIA=1,1,1,0,0,0,0\r")

	// index 0..2 are mandatory (service, call, callsetup): untouched.
	for i := 0; i < 3; i++ {
		if !s.AGIndicators[i].Enabled {
			t.Errorf("AGIndicators[%d] (mandatory) disabled, want untouched/enabled", i)
		}
	}
	// index 3..6 are optional, positions 3..6 in the argument list set them
	// directly (one value per indicator, not one per non-mandatory slot).
	wantEnabled := []bool{false, false, false, false}
	for i, want := range wantEnabled {
		got := s.AGIndicators[3+i].Enabled
		if got != want {
			t.Errorf("AGIndicators[%d].Enabled = %v, want %v", 3+i, got, want)
		}
	}
}

// TestLineTooLong verifies the bounded line buffer reports ErrLineTooLong
// instead of overflowing.
func TestLineTooLong(t *testing.T) {
	t.Parallel()

	s := newAGSession()
	var err error
	for i := 0; i < hfp.MaxLineLength+1; i++ {
		if e := s.Feed('A'); e != nil {
			err = e
			break
		}
	}
	if err != hfp.ErrLineTooLong {
		t.Fatalf("err = %v, want ErrLineTooLong", err)
	}
}

// TestParserStateReturnsToHeaderAfterEOL is the parser_state invariant from
// spec.md §3: parser_state == HEADER after any end-of-line byte.
func TestParserStateReturnsToHeaderAfterEOL(t *testing.T) {
	t.Parallel()

	lines := []string{
		"AT+BRSF=438\r",
		"+CIND: (\"service\",(0,1))\r\n",
		"OK\r\n",
	}
	s := newAGSession()
	for _, line := range lines {
		feedString(t, s, line)
		if s.ParserState != hfp.ParserHeader {
			t.Fatalf("after %q: ParserState = %v, want HEADER", line, s.ParserState)
		}
	}
}

func TestIsSeparatorAndEndOfLine(t *testing.T) {
	t.Parallel()

	for _, b := range []byte{',', '\n', '\r', ')', '(', ':', '-', '"', '?', '='} {
		if !hfp.IsSeparator(b) {
			t.Errorf("IsSeparator(%q) = false, want true", b)
		}
	}
	for _, b := range []byte{'A', '1', ' ', '+'} {
		if hfp.IsSeparator(b) {
			t.Errorf("IsSeparator(%q) = true, want false", b)
		}
	}
	if !hfp.IsEndOfLine('\n') || !hfp.IsEndOfLine('\r') {
		t.Errorf("IsEndOfLine should report true for both CR and LF")
	}
	if hfp.IsEndOfLine('A') {
		t.Errorf("IsEndOfLine('A') = true, want false")
	}
}
