package conversation

import (
	"sync"
)

// State is the closed set of "waiting for the user's next message" markers.
// Each concrete type carries only the fields its flow needs, so a type switch
// over State handles every case the tracker can hold.
//
// There is no state for a fresh topic submission: a message that arrives with
// no pending state is one.
type State interface {
	conversationState()
}

// AwaitingReply waits for the reply text to a topic.
type AwaitingReply struct {
	TopicID uint
}

// AwaitingUsername waits for a new display name. This is the one flow whose
// validation failures keep the state pending so the user can retry.
type AwaitingUsername struct{}

// AwaitingReportReason waits for the report reason for a topic.
type AwaitingReportReason struct {
	TopicID uint
}

// AwaitingBanReason waits for the ban reason an admin types. ReportID links
// back to the report being acted on when the flow started there.
type AwaitingBanReason struct {
	TargetID int64
	ReportID *uint
	Days     int
}

// AwaitingDeleteReason waits for the reason an admin gives when hard-deleting
// a topic.
type AwaitingDeleteReason struct {
	TopicID  uint
	ReportID *uint
}

func (AwaitingReply) conversationState()        {}
func (AwaitingUsername) conversationState()     {}
func (AwaitingReportReason) conversationState() {}
func (AwaitingBanReason) conversationState()    {}
func (AwaitingDeleteReason) conversationState() {}

// Tracker maps a user to at most one pending state. It is purely in-memory:
// a restart drops all in-flight conversations and the next message from an
// affected user is treated as a fresh topic submission.
type Tracker struct {
	mu     sync.Mutex
	states map[int64]State
}

func NewTracker() *Tracker {
	return &Tracker{states: make(map[int64]State)}
}

// Set installs a pending state, silently replacing any previous one.
func (t *Tracker) Set(userID int64, s State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[userID] = s
}

// Take removes and returns the pending state. The caller re-Sets it for the
// retry cases that keep a flow alive.
func (t *Tracker) Take(userID int64) (State, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.states[userID]
	if ok {
		delete(t.states, userID)
	}
	return s, ok
}

// Clear drops any pending state; clearing an absent one is a no-op.
func (t *Tracker) Clear(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.states, userID)
}

// Len reports how many users have a pending state.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.states)
}
