package hfp

// Event is a lifecycle trigger recognized by the connection FSM
// (spec.md §4.6, C6).
type Event uint8

const (
	EventEstablishSLC Event = iota
	EventReleaseSLC
	EventSDPChannelResult
	EventSDPQueryComplete
	EventRFCOMMIncomingConnection
	EventRFCOMMOpenComplete
	EventRFCOMMChannelClosed
	EventHCIDisconnectionComplete
	EventSynchronousConnectionComplete
)

func (e Event) String() string {
	switch e {
	case EventEstablishSLC:
		return "establish_slc"
	case EventReleaseSLC:
		return "release_slc"
	case EventSDPChannelResult:
		return "sdp_channel_result"
	case EventSDPQueryComplete:
		return "sdp_query_complete"
	case EventRFCOMMIncomingConnection:
		return "rfcomm_incoming_connection"
	case EventRFCOMMOpenComplete:
		return "rfcomm_open_complete"
	case EventRFCOMMChannelClosed:
		return "rfcomm_channel_closed"
	case EventHCIDisconnectionComplete:
		return "hci_disconnection_complete"
	case EventSynchronousConnectionComplete:
		return "synchronous_connection_complete"
	default:
		return "unknown"
	}
}

// stateEvent keys the table of guard-free transitions: those whose next
// state depends only on (current state, event), not on any payload.
type stateEvent struct {
	state State
	event Event
}

// slcRestartTable holds the two guard-free establish_slc transitions from
// spec.md §4.6: a disconnect already in flight gets redirected instead of
// starting a fresh SDP query.
var slcRestartTable = map[stateEvent]State{
	{StateW4RFCOMMDisconnected, EventEstablishSLC}: StateW4RFCOMMDisconnectedAndRestart,
	{StateW2DisconnectRFCOMM, EventEstablishSLC}:   StateServiceLevelConnectionEstablished,
}

// releaseSLCTable holds the two release_slc transitions, which are also
// guard-free (spec.md §4.6).
var releaseSLCTable = map[stateEvent]State{
	{StateServiceLevelConnectionEstablished, EventReleaseSLC}: StateW2DisconnectRFCOMM,
	{StateW4RFCOMMConnected, EventReleaseSLC}:                 StateW4ConnectionEstablishedToShutdown,
}

// Manager owns the connection registry and drives the lifecycle FSM from
// RFCOMM/SDP/HCI events, per spec.md §4.6. It is the single entry point
// transport collaborators call into and the single place session state is
// mutated outside of AT-line parsing (spec.md §5: all mutation happens on
// one cooperative event thread; Manager does not itself introduce
// concurrency, it only makes the call sites explicit).
type Manager struct {
	registry *Registry
	rfcomm   RFCOMM
	sdp      SDP
	emit     EventEmitter
	notify   StateCallback
}

// ManagerOption configures optional Manager collaborators, following the
// functional-options shape used throughout this module's ambient stack.
type ManagerOption func(*Manager)

// WithEventEmitter sets the wire-boundary event sink (spec.md §4.7).
func WithEventEmitter(emit EventEmitter) ManagerOption {
	return func(m *Manager) { m.emit = emit }
}

// WithStateCallback sets the in-process typed observer (spec.md §9).
func WithStateCallback(cb StateCallback) ManagerOption {
	return func(m *Manager) { m.notify = cb }
}

// NewManager constructs a Manager over rfcomm and sdp collaborators.
func NewManager(rfcomm RFCOMM, sdp SDP, opts ...ManagerOption) *Manager {
	m := &Manager{
		registry: NewRegistry(),
		rfcomm:   rfcomm,
		sdp:      sdp,
		emit:     func([]byte) {},
		notify:   func(StateChange) {},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registry exposes the underlying connection registry (spec.md §4.5) for
// lookups by callers that need them (e.g. the AT line reader choosing
// which session a byte stream belongs to).
func (m *Manager) Registry() *Registry { return m.registry }

func (m *Manager) raise(change StateChange, data []byte) {
	m.notify(change)
	m.emit(data)
}

// EstablishSLC implements the establish_slc(addr, uuid) operation
// (spec.md §4.6). It is idempotent-safe to call repeatedly for the same
// peer: a session already mid-teardown is redirected rather than
// double-started.
func (m *Manager) EstablishSLC(addr Addr, uuid ServiceUUID) error {
	s := m.registry.Provide(addr)
	if next, ok := slcRestartTable[stateEvent{s.State, EventEstablishSLC}]; ok {
		s.State = next
		return nil
	}
	if s.State != StateIdle {
		return nil
	}
	s.ServiceUUID = uuid
	s.pendingSLCUUID = uuid
	s.State = StateW4SDPQueryComplete
	m.registry.MarkSDPQueryInFlight(s)
	return m.sdp.QueryRFCOMMChannelForUUID(addr, uuid)
}

// ReleaseSLC implements the release_slc() operation (spec.md §4.6).
func (m *Manager) ReleaseSLC(addr Addr) error {
	s, ok := m.registry.ByAddr(addr)
	if !ok {
		return ErrSessionNotFound
	}
	next, ok := releaseSLCTable[stateEvent{s.State, EventReleaseSLC}]
	if !ok {
		return ErrInvalidTransition
	}
	s.State = next
	return nil
}

// HandleSDPChannelResult records a discovered RFCOMM server channel for
// addr (spec.md §4.6: "SDP result channel_nr received → store on
// session").
func (m *Manager) HandleSDPChannelResult(addr Addr, channelNr uint8) {
	s, ok := m.registry.ByAddr(addr)
	if !ok {
		return
	}
	s.RFCOMMChannelNr = channelNr
}

// HandleSDPQueryComplete advances a session past its SDP query
// (spec.md §4.6).
func (m *Manager) HandleSDPQueryComplete(addr Addr, status uint8) error {
	s, ok := m.registry.ByAddr(addr)
	if !ok {
		return ErrSessionNotFound
	}
	m.registry.ClearSDPQueryInFlight()
	if s.State != StateW4SDPQueryComplete {
		return nil
	}
	if status != 0 || s.RFCOMMChannelNr == 0 {
		return nil
	}
	s.State = StateW4RFCOMMConnected
	return m.rfcomm.CreateChannel(addr, s.RFCOMMChannelNr)
}

// HandleRFCOMMIncomingConnection accepts an inbound RFCOMM connection for
// a peer currently IDLE (spec.md §4.6).
func (m *Manager) HandleRFCOMMIncomingConnection(addr Addr, cid uint16) error {
	s := m.registry.Provide(addr)
	if s.State != StateIdle {
		return nil
	}
	if err := m.registry.BindCid(addr, cid); err != nil {
		return err
	}
	s.State = StateW4RFCOMMConnected
	return m.rfcomm.Accept(cid)
}

// HandleRFCOMMOpenComplete processes RFCOMM_EVENT_OPEN_CHANNEL_COMPLETE
// (spec.md §4.6).
func (m *Manager) HandleRFCOMMOpenComplete(addr Addr, cid uint16, status uint8) {
	s, ok := m.registry.ByAddr(addr)
	if !ok {
		return
	}
	if status != 0 {
		m.raise(StateChange{Addr: addr, Subtype: EventSLCEstablished, Status: status}, pack(EventSLCEstablished, status))
		m.registry.Remove(addr)
		return
	}
	_ = m.registry.BindCid(addr, cid)
	switch s.State {
	case StateW4RFCOMMConnected:
		s.State = StateExchangeSupportedFeatures
	case StateW4ConnectionEstablishedToShutdown:
		s.State = StateW2DisconnectRFCOMM
	}
}

// HandleRFCOMMChannelClosed processes RFCOMM_EVENT_CHANNEL_CLOSED
// (spec.md §4.6, scenario 6).
func (m *Manager) HandleRFCOMMChannelClosed(addr Addr) {
	s, ok := m.registry.ByAddr(addr)
	if !ok {
		return
	}
	if s.State == StateW4RFCOMMDisconnectedAndRestart {
		uuid := s.pendingSLCUUID
		s.State = StateIdle
		s.ResetFlags()
		_ = m.EstablishSLC(addr, uuid)
		return
	}
	m.registry.Remove(addr)
	m.raise(StateChange{Addr: addr, Subtype: EventSLCReleased}, pack(EventSLCReleased, 0))
}

// HandleHCIDisconnectionComplete mirrors HandleRFCOMMChannelClosed,
// keyed by con_handle instead of address (spec.md §4.6).
func (m *Manager) HandleHCIDisconnectionComplete(handle uint16) {
	s, ok := m.registry.ByHandle(handle)
	if !ok {
		return
	}
	m.HandleRFCOMMChannelClosed(s.RemoteAddr)
}

// CompleteServiceLevelConnection transitions a session out of
// EXCHANGE_SUPPORTED_FEATURES once the AT-command dialog that exchanges
// features and indicators has finished (spec.md §4.6 names this state
// but, consistently with the scheduler being out of scope per §1, leaves
// the trigger that drains it to the caller: the scheduler calls this once
// it has observed the handshake's terminal OK). It is the one SLC
// transition the core cannot trigger on its own, since recognizing "the
// dialog is done" is scheduler policy, not parser or FSM state.
func (m *Manager) CompleteServiceLevelConnection(addr Addr) {
	s, ok := m.registry.ByAddr(addr)
	if !ok || s.State != StateExchangeSupportedFeatures {
		return
	}
	s.State = StateServiceLevelConnectionEstablished
	m.raise(StateChange{Addr: addr, Subtype: EventSLCEstablished, Status: 0}, pack(EventSLCEstablished, 0))
}

// NotifyIndicatorStatusChanged raises EventAGIndicatorStatusChanged for
// every AG indicator the parser has marked changed since the last drain
// (spec.md §4.7: AG_INDICATOR_STATUS_CHANGED carries the indicator index
// and its new status). Like CompleteServiceLevelConnection, this is a
// transition the core cannot trigger on its own: the caller invokes it
// once it has observed a +CIEV line finish parsing.
func (m *Manager) NotifyIndicatorStatusChanged(addr Addr) {
	s, ok := m.registry.ByAddr(addr)
	if !ok {
		return
	}
	for i := range s.AGIndicators {
		ind := &s.AGIndicators[i]
		if !ind.StatusChanged {
			continue
		}
		m.raise(StateChange{
			Addr:            addr,
			Subtype:         EventAGIndicatorStatusChanged,
			IndicatorIndex:  ind.Index,
			IndicatorStatus: ind.Status,
		}, pack(EventAGIndicatorStatusChanged, byte(ind.Index), byte(ind.Status)))
		ind.StatusChanged = false
	}
}

// NotifyNetworkOperatorChanged raises EventNetworkOperatorChanged once the
// caller has observed a completed +COPS response line that changed
// network_operator.name (spec.md §4.7). The pending
// ActionOperatorNameChanged flag is cleared here because issuing this
// notification is the action it names (spec.md §3 invariant: the flag is
// cleared only after the action it describes has been issued).
func (m *Manager) NotifyNetworkOperatorChanged(addr Addr) {
	s, ok := m.registry.ByAddr(addr)
	if !ok || !s.Actions.Has(ActionOperatorNameChanged) {
		return
	}
	s.Actions.Clear(ActionOperatorNameChanged)
	m.raise(StateChange{
		Addr:     addr,
		Subtype:  EventNetworkOperatorChanged,
		Operator: s.NetworkOperator,
	}, pack(EventNetworkOperatorChanged, byte(s.NetworkOperator.Mode), byte(s.NetworkOperator.Format)))
}

// NotifyExtendedAudioGatewayError raises EventExtendedAudioGatewayError for
// the most recently parsed +CME ERROR line (spec.md §7 error kind 3).
func (m *Manager) NotifyExtendedAudioGatewayError(addr Addr) {
	s, ok := m.registry.ByAddr(addr)
	if !ok || !s.ExtendedAudioGatewayErrorChanged {
		return
	}
	s.ExtendedAudioGatewayErrorChanged = false
	m.raise(StateChange{
		Addr:    addr,
		Subtype: EventExtendedAudioGatewayError,
		Error:   s.ExtendedAudioGatewayError,
	}, pack(EventExtendedAudioGatewayError, s.ExtendedAudioGatewayError))
}

// NotifyComplete raises the generic COMPLETE event the original boundary
// emits once the scheduler's own request (not an SLC/audio/indicator
// transition the core already reports) has finished, e.g. the AG's OK to
// an AT+BIA or AT+CMER line the caller just issued (spec.md §4.7,
// §9 design note's PTS test "HFP_SUBEVENT_COMPLETE" usage).
func (m *Manager) NotifyComplete(addr Addr, status uint8) {
	m.raise(StateChange{Addr: addr, Subtype: EventComplete, Status: status}, pack(EventComplete, status))
}

// HandleSynchronousConnectionComplete processes
// HCI_EVENT_SYNCHRONOUS_CONNECTION_COMPLETE (spec.md §4.6, §6).
func (m *Manager) HandleSynchronousConnectionComplete(addr Addr, status uint8, scoHandle uint16) {
	s, ok := m.registry.ByAddr(addr)
	if !ok {
		return
	}
	if status != 0 {
		return
	}
	if s.State == StateW4ConnectionEstablishedToShutdown {
		s.State = StateW2DisconnectSCO
		return
	}
	s.ScoHandle = scoHandle
	s.State = StateAudioConnectionEstablished
	m.raise(StateChange{Addr: addr, Subtype: EventAudioConnectionComplete, Status: 0}, pack(EventAudioConnectionComplete, 0))
}
