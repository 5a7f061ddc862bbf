// Package transport provides RFCOMM and SDP collaborators for
// internal/hfp's connection lifecycle FSM: an in-memory Loopback for tests
// and demos, and a BlueZ-backed implementation for a real adapter.
package transport

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hfpstack/gohfp/internal/hfp"
)

// -------------------------------------------------------------------------
// Loopback — in-memory RFCOMM/SDP fake
// -------------------------------------------------------------------------

// Loopback is an in-memory hfp.RFCOMM and hfp.SDP implementation. It never
// touches the network: CreateChannel and QueryRFCOMMChannelForUUID
// immediately record the call and let a test or demo driver decide when
// and how to resolve them by calling the Manager's Handle* methods
// directly. It exists so internal/hfp's lifecycle FSM can be exercised
// end-to-end without a Bluetooth controller.
type Loopback struct {
	mu sync.Mutex

	registeredChannel uint8
	registeredMTU     uint16

	createChannelCalls []CreateChannelCall
	sdpQueryCalls      []SDPQueryCall
	sent               []SentFrame

	nextCid uint16

	// sdpQueryNotify and createChannelNotify, when non-nil, receive a copy
	// of every QueryRFCOMMChannelForUUID/CreateChannel call as it happens,
	// so a goroutine driving the simulated AG side of RunDemoSLC can react
	// to it as soon as it arrives instead of polling the recorded-calls
	// snapshots above.
	sdpQueryNotify      chan SDPQueryCall
	createChannelNotify chan CreateChannelCall
}

// CreateChannelCall records one CreateChannel invocation.
type CreateChannelCall struct {
	Addr       hfp.Addr
	ChannelNr  uint8
}

// SDPQueryCall records one QueryRFCOMMChannelForUUID invocation.
type SDPQueryCall struct {
	Addr hfp.Addr
	UUID hfp.ServiceUUID
}

// SentFrame records one Send invocation.
type SentFrame struct {
	Cid  uint16
	Data []byte
}

// NewLoopback returns a ready-to-use Loopback transport.
func NewLoopback() *Loopback {
	return &Loopback{nextCid: 1}
}

func (l *Loopback) RegisterService(channelNr uint8, mtu uint16) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.registeredChannel = channelNr
	l.registeredMTU = mtu
	return nil
}

func (l *Loopback) CreateChannel(addr hfp.Addr, channelNr uint8) error {
	l.mu.Lock()
	call := CreateChannelCall{addr, channelNr}
	l.createChannelCalls = append(l.createChannelCalls, call)
	notify := l.createChannelNotify
	l.mu.Unlock()

	if notify != nil {
		notify <- call
	}
	return nil
}

func (l *Loopback) Accept(cid uint16) error {
	return nil
}

func (l *Loopback) Send(cid uint16, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := append([]byte(nil), data...)
	l.sent = append(l.sent, SentFrame{cid, cp})
	return nil
}

func (l *Loopback) QueryRFCOMMChannelForUUID(addr hfp.Addr, uuid hfp.ServiceUUID) error {
	l.mu.Lock()
	call := SDPQueryCall{addr, uuid}
	l.sdpQueryCalls = append(l.sdpQueryCalls, call)
	notify := l.sdpQueryNotify
	l.mu.Unlock()

	if notify != nil {
		notify <- call
	}
	return nil
}

// NextCid allocates the next loopback RFCOMM channel id, for a driver
// simulating RFCOMM_EVENT_INCOMING_CONNECTION or
// RFCOMM_EVENT_OPEN_CHANNEL_COMPLETE.
func (l *Loopback) NextCid() uint16 {
	l.mu.Lock()
	defer l.mu.Unlock()
	cid := l.nextCid
	l.nextCid++
	return cid
}

// CreateChannelCalls returns a snapshot of recorded CreateChannel calls.
func (l *Loopback) CreateChannelCalls() []CreateChannelCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]CreateChannelCall(nil), l.createChannelCalls...)
}

// SDPQueryCalls returns a snapshot of recorded SDP query calls.
func (l *Loopback) SDPQueryCalls() []SDPQueryCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]SDPQueryCall(nil), l.sdpQueryCalls...)
}

// SentFrames returns a snapshot of recorded Send calls.
func (l *Loopback) SentFrames() []SentFrame {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]SentFrame(nil), l.sent...)
}

// -------------------------------------------------------------------------
// RunDemoSLC — concurrent HF/AG demo harness
// -------------------------------------------------------------------------

// RunDemoSLC drives a complete SLC handshake (spec.md §4.6, §8 scenario 1)
// over a fresh Loopback, running the simulated HF side and the simulated
// AG side concurrently under an errgroup.Group, the same run-group
// pattern cmd/gohfpd/main.go uses for its server goroutines. The HF
// goroutine issues establish_slc and returns once the request has been
// dispatched; the AG goroutine reacts to the SDP query and RFCOMM channel
// request as each arrives on the wire and resolves them, rather than one
// caller hand-sequencing both halves on a single goroutine.
//
// It returns every StateChange the Manager raised, in arrival order, and
// the session's final lifecycle state.
func RunDemoSLC(ctx context.Context, addr hfp.Addr, uuid hfp.ServiceUUID, channelNr uint8) ([]hfp.StateChange, hfp.State, error) {
	lb := NewLoopback()
	lb.sdpQueryNotify = make(chan SDPQueryCall, 1)
	lb.createChannelNotify = make(chan CreateChannelCall, 1)

	var mu sync.Mutex
	var events []hfp.StateChange

	mgr := hfp.NewManager(lb, lb, hfp.WithStateCallback(func(change hfp.StateChange) {
		mu.Lock()
		events = append(events, change)
		mu.Unlock()
	}))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := mgr.EstablishSLC(addr, uuid); err != nil {
			return fmt.Errorf("hf side: establish slc: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		select {
		case <-gCtx.Done():
			return gCtx.Err()
		case call := <-lb.sdpQueryNotify:
			mgr.HandleSDPChannelResult(call.Addr, channelNr)
			if err := mgr.HandleSDPQueryComplete(call.Addr, 0); err != nil {
				return fmt.Errorf("ag side: sdp query complete: %w", err)
			}
		}

		select {
		case <-gCtx.Done():
			return gCtx.Err()
		case call := <-lb.createChannelNotify:
			cid := lb.NextCid()
			mgr.HandleRFCOMMOpenComplete(call.Addr, cid, 0)
			mgr.CompleteServiceLevelConnection(call.Addr)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, hfp.StateIdle, err
	}

	s, ok := mgr.Registry().ByAddr(addr)
	if !ok {
		return nil, hfp.StateIdle, fmt.Errorf("session vanished for %s", addr)
	}

	mu.Lock()
	defer mu.Unlock()
	return append([]hfp.StateChange(nil), events...), s.State, nil
}
