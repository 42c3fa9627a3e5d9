package bot

import "sync"

// State is the pending step of a user's conversation.
type State string

// Conversation states. Idle users have no stored session.
const (
	StateIdle                  State = "idle"
	StateAwaitingKind          State = "awaiting_kind"
	StateAwaitingCreatePayload State = "awaiting_create_payload"
	StateAwaitingLookupPK      State = "awaiting_lookup_pk"
	StateAwaitingUpdatePayload State = "awaiting_update_payload"
)

type session struct {
	state State
	gen   uint64
	busy  bool
}

// Sessions maps user ids to their pending state. Every Enter bumps a
// generation counter; a call begun under an older generation can no longer
// clear the session, so a late response never clobbers a newer selection.
//
// Sessions is safe for concurrent use. It holds no lock while a catalog
// call is in flight.
type Sessions struct {
	mu  sync.Mutex
	m   map[string]*session
	gen uint64
}

// NewSessions returns an empty session table.
func NewSessions() *Sessions {
	return &Sessions{m: make(map[string]*session)}
}

// Enter moves user into state, discarding whatever was pending.
func (s *Sessions) Enter(user string, state State) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.m[user] = &session{state: state, gen: s.gen}
	return s.gen
}

// Current returns the user's state and its generation. Users with a call in
// flight report busy=true.
func (s *Sessions) Current(user string) (state State, gen uint64, busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss, ok := s.m[user]
	if !ok {
		return StateIdle, 0, false
	}
	return ss.state, ss.gen, ss.busy
}

// Begin marks the session of generation gen as having a call in flight.
// It fails when the session moved on or a call is already pending.
func (s *Sessions) Begin(user string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss, ok := s.m[user]
	if !ok || ss.gen != gen || ss.busy {
		return false
	}
	ss.busy = true
	return true
}

// Finish clears the session back to idle if it is still at generation gen.
// It reports whether the session was cleared.
func (s *Sessions) Finish(user string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss, ok := s.m[user]
	if !ok || ss.gen != gen {
		return false
	}
	delete(s.m, user)
	return true
}

// Len returns the number of non-idle sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}
