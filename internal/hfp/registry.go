package hfp

import "sync"

// Registry is the connection registry (spec.md §4.5, C5): a set of
// sessions with three lookup paths. It is the Go-native replacement for
// the original's intrusive linked list (spec.md §9 design note), using an
// address-keyed map plus auxiliary indexes for cid/handle lookup — a
// linear scan would do given the tiny N a real deployment sees, but the
// indexes keep the common-path lookups O(1) without complicating the call
// sites that already know their key.
//
// Registry owns no goroutines; spec.md §5 places this core on a single
// cooperative event thread, so the mutex here exists only to let a single
// Manager be shared safely by callers that do choose to run one goroutine
// per peer at the transport layer, not to support genuine concurrent
// mutation of one session.
type Registry struct {
	mu        sync.Mutex
	byAddr    map[Addr]*Session
	byCid     map[uint16]*Session
	byHandle  map[uint16]*Session
	sdpQuery  *Session // the SDP-query-in-flight singleton (spec.md §4.6)
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byAddr:   make(map[Addr]*Session),
		byCid:    make(map[uint16]*Session),
		byHandle: make(map[uint16]*Session),
	}
}

// Provide returns the existing session for addr, or creates and inserts
// one. It is idempotent (spec.md §4.5).
func (r *Registry) Provide(addr Addr) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byAddr[addr]; ok {
		return s
	}
	s := NewSession(addr)
	r.byAddr[addr] = s
	return s
}

// Create inserts a new session for addr, failing if one already exists
// (spec.md §3 invariant: exactly one session per remote_addr).
func (r *Registry) Create(addr Addr) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byAddr[addr]; ok {
		return nil, ErrSessionExists
	}
	s := NewSession(addr)
	r.byAddr[addr] = s
	return s, nil
}

// ByAddr looks up a session by its peer address.
func (r *Registry) ByAddr(addr Addr) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byAddr[addr]
	return s, ok
}

// ByCid looks up a session by its bound RFCOMM channel id.
func (r *Registry) ByCid(cid uint16) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byCid[cid]
	return s, ok
}

// ByHandle looks up a session by its bound HCI connection handle.
func (r *Registry) ByHandle(handle uint16) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byHandle[handle]
	return s, ok
}

// BindCid associates cid with the session for addr, failing if the cid is
// already bound to a different session (spec.md §3 invariant).
func (r *Registry) BindCid(addr Addr, cid uint16) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byAddr[addr]
	if !ok {
		return ErrSessionNotFound
	}
	if existing, ok := r.byCid[cid]; ok && existing != s {
		return ErrCIDInUse
	}
	s.RFCOMMCid = cid
	r.byCid[cid] = s
	return nil
}

// BindHandle associates handle with the session for addr, failing if the
// handle is already bound to a different session (spec.md §3 invariant).
func (r *Registry) BindHandle(addr Addr, handle uint16) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byAddr[addr]
	if !ok {
		return ErrSessionNotFound
	}
	if existing, ok := r.byHandle[handle]; ok && existing != s {
		return ErrHandleInUse
	}
	s.ConHandle = handle
	r.byHandle[handle] = s
	return nil
}

// Remove deletes the session for addr from every index (spec.md §4.5:
// "removal on lifecycle terminal states").
func (r *Registry) Remove(addr Addr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byAddr[addr]
	if !ok {
		return
	}
	delete(r.byAddr, addr)
	if s.RFCOMMCid != 0 {
		delete(r.byCid, s.RFCOMMCid)
	}
	if s.ConHandle != 0 {
		delete(r.byHandle, s.ConHandle)
	}
	if r.sdpQuery == s {
		r.sdpQuery = nil
	}
}

// MarkSDPQueryInFlight records s as the global outstanding-SDP-query
// singleton (spec.md §4.6, §5: "the SDP-query-in-flight slot is global").
func (r *Registry) MarkSDPQueryInFlight(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sdpQuery = s
}

// ClearSDPQueryInFlight clears the outstanding-query singleton.
func (r *Registry) ClearSDPQueryInFlight() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sdpQuery = nil
}

// SDPQueryInFlight returns the session with an outstanding SDP query, if
// any.
func (r *Registry) SDPQueryInFlight() (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sdpQuery == nil {
		return nil, false
	}
	return r.sdpQuery, true
}
