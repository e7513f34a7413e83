package chainstream

import (
	"encoding/json"
	"time"
)

// connPhase is the lifecycle phase of the underlying socket.
type connPhase int

const (
	phaseIdle connPhase = iota
	phaseConnecting
	phaseOpen
	phaseClosed
)

// subscriptionState tracks the query fallback protocol for one established
// socket: which candidate query is active, the id of the last subscribe
// request sent, and whether the node confirmed it.
type subscriptionState struct {
	cursor        int
	lastRequestID uint64
	confirmed     bool
}

// connState is the full connection state. Transitions are pure: they take a
// state by value and return the successor plus the effects the driver must
// perform, which keeps the reconnection and fallback logic testable without
// a socket.
//
// requestSeq never resets, so subscribe request ids increase strictly across
// reconnects for the lifetime of the service.
type connState struct {
	phase      connPhase
	queries    []string
	requestSeq uint64
	attempt    int
	sub        subscriptionState
}

// effect is an action the driver performs as a result of a transition.
type effect interface{ isEffect() }

// sendSubscribe instructs the driver to send one subscribe request frame.
type sendSubscribe struct {
	query     string
	requestID uint64
}

// startHeartbeat instructs the driver to begin the ping/staleness loop for
// the current socket.
type startHeartbeat struct{}

// stopHeartbeat instructs the driver to stop the ping/staleness loop.
type stopHeartbeat struct{}

// scheduleReconnect instructs the driver to wait out the backoff delay for
// the given attempt and then redial.
type scheduleReconnect struct {
	attempt int
}

func (sendSubscribe) isEffect()     {}
func (startHeartbeat) isEffect()    {}
func (stopHeartbeat) isEffect()     {}
func (scheduleReconnect) isEffect() {}

func newConnState(queries []string) connState {
	return connState{
		phase:   phaseIdle,
		queries: queries,
	}
}

func (s connState) connecting() connState {
	s.phase = phaseConnecting
	return s
}

// opened enters the Open phase: the backoff attempt counter resets, the
// subscription restarts from the first candidate query, and the driver is
// told to send the subscribe request and start the heartbeat.
func (s connState) opened() (connState, []effect) {
	s.phase = phaseOpen
	s.attempt = 0
	s.sub = subscriptionState{}

	var effects []effect
	if len(s.queries) > 0 {
		s.requestSeq++
		s.sub.lastRequestID = s.requestSeq
		effects = append(effects, sendSubscribe{
			query:     s.queries[0],
			requestID: s.requestSeq,
		})
	}
	effects = append(effects, startHeartbeat{})

	return s, effects
}

// disconnected enters the Closed phase. An unintentional disconnect
// schedules a reconnect and bumps the attempt counter; an intentional one
// only stops the heartbeat.
func (s connState) disconnected(intentional bool) (connState, []effect) {
	s.phase = phaseClosed
	s.sub.confirmed = false

	effects := []effect{stopHeartbeat{}}
	if !intentional {
		effects = append(effects, scheduleReconnect{attempt: s.attempt})
		s.attempt++
	}

	return s, effects
}

// subscribeReply is the slice of an inbound frame the subscription layer
// inspects: a request id with either a result or an error.
type subscribeReply struct {
	ID     *uint64         `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// onFrame advances the subscription protocol for one inbound frame. Frames
// that are not a reply to the last subscribe request leave the state
// untouched; a rejection falls back linearly to the next candidate query,
// never retrying one that already failed. Every frame, handled or not, is
// still delivered to the consumer by the driver.
func (s connState) onFrame(frame []byte) (connState, []effect) {
	if s.phase != phaseOpen {
		return s, nil
	}

	var reply subscribeReply
	if err := json.Unmarshal(frame, &reply); err != nil {
		return s, nil
	}
	if reply.ID == nil || *reply.ID != s.sub.lastRequestID {
		return s, nil
	}

	switch {
	case reply.Error != nil:
		s.sub.confirmed = false
		next := s.sub.cursor + 1
		if next >= len(s.queries) {
			return s, nil
		}

		s.sub.cursor = next
		s.requestSeq++
		s.sub.lastRequestID = s.requestSeq
		return s, []effect{sendSubscribe{
			query:     s.queries[next],
			requestID: s.requestSeq,
		}}
	case reply.Result != nil:
		s.sub.confirmed = true
		return s, nil
	}

	return s, nil
}

// reconnectFloor is the jitter-free backoff delay for the given attempt:
// base doubled per attempt, capped at max.
func reconnectFloor(base, max time.Duration, attempt int) time.Duration {
	delay := base
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= max {
			return max
		}
	}
	return min(delay, max)
}
