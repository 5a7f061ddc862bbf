package hfp_test

import (
	"testing"

	"github.com/hfpstack/gohfp/internal/hfp"
)

// fakeRFCOMM and fakeSDP record every call for assertion, the same
// recorder shape internal/transport.Loopback uses, but kept local so
// these tests exercise the Manager's own dispatch logic against
// collaborators this package controls directly.
type fakeRFCOMM struct {
	createChannelCalls []struct {
		addr      hfp.Addr
		channelNr uint8
	}
	acceptCalls []uint16
}

func (f *fakeRFCOMM) RegisterService(uint8, uint16) error { return nil }

func (f *fakeRFCOMM) CreateChannel(addr hfp.Addr, channelNr uint8) error {
	f.createChannelCalls = append(f.createChannelCalls, struct {
		addr      hfp.Addr
		channelNr uint8
	}{addr, channelNr})
	return nil
}

func (f *fakeRFCOMM) Accept(cid uint16) error {
	f.acceptCalls = append(f.acceptCalls, cid)
	return nil
}

func (f *fakeRFCOMM) Send(uint16, []byte) error { return nil }

type fakeSDP struct {
	queries []struct {
		addr hfp.Addr
		uuid hfp.ServiceUUID
	}
}

func (f *fakeSDP) QueryRFCOMMChannelForUUID(addr hfp.Addr, uuid hfp.ServiceUUID) error {
	f.queries = append(f.queries, struct {
		addr hfp.Addr
		uuid hfp.ServiceUUID
	}{addr, uuid})
	return nil
}

func newTestManager() (*hfp.Manager, *fakeRFCOMM, *fakeSDP) {
	rfcomm := &fakeRFCOMM{}
	sdp := &fakeSDP{}
	mgr := hfp.NewManager(rfcomm, sdp)
	return mgr, rfcomm, sdp
}

// TestEstablishSLCViaSDP exercises spec.md §8 scenario 1: establish_slc
// from IDLE issues an SDP query, and feeding the SDP result plus query
// completion transitions the session to W4_RFCOMM_CONNECTED and requests
// the discovered channel.
func TestEstablishSLCViaSDP(t *testing.T) {
	t.Parallel()

	mgr, rfcomm, sdp := newTestManager()
	addr := hfp.Addr{0, 1, 2, 3, 4, 5}

	if err := mgr.EstablishSLC(addr, hfp.ServiceClassHandsfreeAudioGW); err != nil {
		t.Fatalf("EstablishSLC: %v", err)
	}
	if len(sdp.queries) != 1 {
		t.Fatalf("len(sdp.queries) = %d, want 1", len(sdp.queries))
	}
	if sdp.queries[0].addr != addr || sdp.queries[0].uuid != hfp.ServiceClassHandsfreeAudioGW {
		t.Fatalf("sdp query = %+v, want addr=%s uuid=0x%04x", sdp.queries[0], addr, hfp.ServiceClassHandsfreeAudioGW)
	}

	s, ok := mgr.Registry().ByAddr(addr)
	if !ok {
		t.Fatalf("no session for %s after EstablishSLC", addr)
	}
	if s.State != hfp.StateW4SDPQueryComplete {
		t.Fatalf("State = %v, want W4_SDP_QUERY_COMPLETE", s.State)
	}
	if _, inFlight := mgr.Registry().SDPQueryInFlight(); !inFlight {
		t.Fatalf("SDPQueryInFlight() = false, want true after EstablishSLC")
	}

	mgr.HandleSDPChannelResult(addr, 3)
	if err := mgr.HandleSDPQueryComplete(addr, 0); err != nil {
		t.Fatalf("HandleSDPQueryComplete: %v", err)
	}

	if s.State != hfp.StateW4RFCOMMConnected {
		t.Fatalf("State = %v, want W4_RFCOMM_CONNECTED", s.State)
	}
	if len(rfcomm.createChannelCalls) != 1 {
		t.Fatalf("len(createChannelCalls) = %d, want 1", len(rfcomm.createChannelCalls))
	}
	if got := rfcomm.createChannelCalls[0]; got.addr != addr || got.channelNr != 3 {
		t.Fatalf("CreateChannel call = %+v, want addr=%s channel=3", got, addr)
	}
	if _, inFlight := mgr.Registry().SDPQueryInFlight(); inFlight {
		t.Fatalf("SDPQueryInFlight() = true, want false after query completed")
	}
}

// TestEstablishSLCFullHandshake drives the handshake all the way to
// SERVICE_LEVEL_CONNECTION_ESTABLISHED and checks the emitted event.
func TestEstablishSLCFullHandshake(t *testing.T) {
	t.Parallel()

	addr := hfp.Addr{9, 9, 9, 9, 9, 9}
	var got []hfp.StateChange
	mgr := hfp.NewManager(&fakeRFCOMM{}, &fakeSDP{}, hfp.WithStateCallback(func(c hfp.StateChange) {
		got = append(got, c)
	}))

	if err := mgr.EstablishSLC(addr, hfp.ServiceClassHandsfreeAudioGW); err != nil {
		t.Fatalf("EstablishSLC: %v", err)
	}
	mgr.HandleSDPChannelResult(addr, 5)
	if err := mgr.HandleSDPQueryComplete(addr, 0); err != nil {
		t.Fatalf("HandleSDPQueryComplete: %v", err)
	}
	cid := uint16(42)
	mgr.HandleRFCOMMOpenComplete(addr, cid, 0)

	s, ok := mgr.Registry().ByAddr(addr)
	if !ok {
		t.Fatalf("no session for %s", addr)
	}
	if s.State != hfp.StateExchangeSupportedFeatures {
		t.Fatalf("State = %v, want EXCHANGE_SUPPORTED_FEATURES", s.State)
	}
	if s.RFCOMMCid != cid {
		t.Fatalf("RFCOMMCid = %d, want %d", s.RFCOMMCid, cid)
	}
	if bound, ok := mgr.Registry().ByCid(cid); !ok || bound != s {
		t.Fatalf("ByCid(%d) did not return the bound session", cid)
	}

	mgr.CompleteServiceLevelConnection(addr)
	if s.State != hfp.StateServiceLevelConnectionEstablished {
		t.Fatalf("State = %v, want SERVICE_LEVEL_CONNECTION_ESTABLISHED", s.State)
	}

	var sawSLCEstablished bool
	for _, c := range got {
		if c.Subtype == hfp.EventSLCEstablished && c.Status == 0 {
			sawSLCEstablished = true
		}
	}
	if !sawSLCEstablished {
		t.Fatalf("events %+v, want an EventSLCEstablished with status 0", got)
	}
}

// TestRestartOnDisconnect exercises spec.md §8 scenario 6: a session in
// W4_RFCOMM_DISCONNECTED_AND_RESTART returns to IDLE and re-issues
// establish_slc with the stored (addr, service_uuid) on RFCOMM channel
// closure, without emitting SLC_RELEASED.
func TestRestartOnDisconnect(t *testing.T) {
	t.Parallel()

	sdp := &fakeSDP{}
	var got []hfp.StateChange
	mgr := hfp.NewManager(&fakeRFCOMM{}, sdp, hfp.WithStateCallback(func(c hfp.StateChange) {
		got = append(got, c)
	}))

	addr := hfp.Addr{1, 1, 1, 1, 1, 1}
	uuid := hfp.ServiceClassHandsfree

	if err := mgr.EstablishSLC(addr, uuid); err != nil {
		t.Fatalf("EstablishSLC: %v", err)
	}
	if len(sdp.queries) != 1 {
		t.Fatalf("len(sdp.queries) = %d, want 1 before restart", len(sdp.queries))
	}

	s, ok := mgr.Registry().ByAddr(addr)
	if !ok {
		t.Fatalf("no session for %s", addr)
	}
	s.State = hfp.StateW4RFCOMMDisconnected

	if err := mgr.EstablishSLC(addr, uuid); err != nil {
		t.Fatalf("EstablishSLC (restart request): %v", err)
	}
	if s.State != hfp.StateW4RFCOMMDisconnectedAndRestart {
		t.Fatalf("State = %v, want W4_RFCOMM_DISCONNECTED_AND_RESTART", s.State)
	}

	mgr.HandleRFCOMMChannelClosed(addr)

	s2, ok := mgr.Registry().ByAddr(addr)
	if !ok {
		t.Fatalf("session for %s vanished across restart", addr)
	}
	if s2.State != hfp.StateW4SDPQueryComplete {
		t.Fatalf("State = %v, want W4_SDP_QUERY_COMPLETE after restart re-issues establish_slc", s2.State)
	}
	if len(sdp.queries) != 2 {
		t.Fatalf("len(sdp.queries) = %d, want 2 after restart re-issued the SDP query", len(sdp.queries))
	}

	for _, c := range got {
		if c.Subtype == hfp.EventSLCReleased {
			t.Fatalf("got EventSLCReleased during a programmed restart, want none")
		}
	}
}

// TestReleaseSLCThenDisconnect checks the non-restart disconnect path
// still emits SLC_RELEASED and removes the session.
func TestReleaseSLCThenDisconnect(t *testing.T) {
	t.Parallel()

	var got []hfp.StateChange
	mgr := hfp.NewManager(&fakeRFCOMM{}, &fakeSDP{}, hfp.WithStateCallback(func(c hfp.StateChange) {
		got = append(got, c)
	}))

	addr := hfp.Addr{2, 2, 2, 2, 2, 2}
	if err := mgr.EstablishSLC(addr, hfp.ServiceClassHandsfree); err != nil {
		t.Fatalf("EstablishSLC: %v", err)
	}
	s, _ := mgr.Registry().ByAddr(addr)
	s.State = hfp.StateServiceLevelConnectionEstablished

	if err := mgr.ReleaseSLC(addr); err != nil {
		t.Fatalf("ReleaseSLC: %v", err)
	}
	if s.State != hfp.StateW2DisconnectRFCOMM {
		t.Fatalf("State = %v, want W2_DISCONNECT_RFCOMM", s.State)
	}

	mgr.HandleRFCOMMChannelClosed(addr)
	if _, ok := mgr.Registry().ByAddr(addr); ok {
		t.Fatalf("session for %s still present after non-restart disconnect", addr)
	}

	var sawReleased bool
	for _, c := range got {
		if c.Subtype == hfp.EventSLCReleased {
			sawReleased = true
		}
	}
	if !sawReleased {
		t.Fatalf("events %+v, want an EventSLCReleased", got)
	}
}

// TestNotifyIndicatorStatusChanged checks the drain-and-clear contract of
// the Manager method that surfaces AT+CIEV updates as events.
func TestNotifyIndicatorStatusChanged(t *testing.T) {
	t.Parallel()

	var got []hfp.StateChange
	mgr := hfp.NewManager(&fakeRFCOMM{}, &fakeSDP{}, hfp.WithStateCallback(func(c hfp.StateChange) {
		got = append(got, c)
	}))

	addr := hfp.Addr{3, 3, 3, 3, 3, 3}
	s := mgr.Registry().Provide(addr)
	s.AGIndicators = hfp.DefaultAGIndicators()
	s.AGIndicators[1].Status = 1
	s.AGIndicators[1].StatusChanged = true

	mgr.NotifyIndicatorStatusChanged(addr)

	if len(got) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(got))
	}
	if got[0].Subtype != hfp.EventAGIndicatorStatusChanged || got[0].IndicatorIndex != 2 || got[0].IndicatorStatus != 1 {
		t.Fatalf("event = %+v, want AG_INDICATOR_STATUS_CHANGED index=2 status=1", got[0])
	}
	if s.AGIndicators[1].StatusChanged {
		t.Fatalf("StatusChanged still set after NotifyIndicatorStatusChanged drained it")
	}

	got = nil
	mgr.NotifyIndicatorStatusChanged(addr)
	if len(got) != 0 {
		t.Fatalf("second drain raised %d events, want 0 (nothing changed since)", len(got))
	}
}
