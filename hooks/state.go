// Package hooks wraps the API client in stateful resource hooks. Each hook
// exposes the last fetched data, a shared loading/error slot pair, and
// per-call request state keyed by call signature.
//
// Every action follows the same contract: it marks the request as loading and
// clears the previous error, calls the service, and then either stores the
// result or stores a human-readable error message and returns an
// *ActionError. Loading is reset in both cases before the action returns.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"planetpath/client"
)

// RequestState is a loading/error slot pair. An empty Error means no error.
type RequestState struct {
	IsLoading bool
	Error     string
}

// ActionError is returned by every failed hook action, including one whose
// service panicked. Its Error() is the same message the hook stored in its state.
type ActionError struct {
	Action  string
	Message string
	Err     error
}

func (e *ActionError) Error() string { return e.Message }

func (e *ActionError) Unwrap() error { return e.Err }

// ErrorMessage picks the message to show for err. An API error shows its own
// message, or fallback when it has none; any other error shows its text, or
// fallback when that is empty.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// store holds the request bookkeeping shared by all hooks. mu also guards the
// data slots of the hook embedding it.
type store struct {
	mu       sync.RWMutex
	shared   RequestState
	requests map[string]RequestState
	inflight map[string]int
}

func newStore() store {
	return store{
		requests: make(map[string]RequestState),
		inflight: make(map[string]int),
	}
}

// State returns the shared slot pair. With concurrent calls on one hook the
// last call to settle wins; use Request to follow a single call.
func (s *store) State() RequestState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shared
}

// Request returns the state of the most recent call with the given key.
// It stays loading while any call with that key is in flight.
func (s *store) Request(key string) (RequestState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.requests[key]
	return state, ok
}

func (s *store) begin(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shared = RequestState{IsLoading: true}
	s.inflight[key]++
	s.requests[key] = RequestState{IsLoading: true}
}

// settle records the outcome of a call. commit, when non-nil, runs under the
// lock so readers never see new data paired with a stale error.
func (s *store) settle(key, errMsg string, commit func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if commit != nil {
		commit()
	}
	s.shared = RequestState{Error: errMsg}

	s.inflight[key]--
	pending := s.inflight[key] > 0
	if !pending {
		delete(s.inflight, key)
	}
	s.requests[key] = RequestState{IsLoading: pending, Error: errMsg}
}

// run drives one action through the request contract. A panicking call is
// reported like any other failure, with the action's fallback message.
func run[T any](ctx context.Context, s *store, action, key, fallback string,
	call func(context.Context) (T, error), commit func(T)) (res T, err error) {

	s.begin(key)
	defer func() {
		if r := recover(); r != nil {
			s.settle(key, fallback, nil)
			var zero T
			res, err = zero, &ActionError{Action: action, Message: fallback, Err: fmt.Errorf("%s panicked: %v", action, r)}
		}
	}()

	res, err = call(ctx)
	if err != nil {
		msg := ErrorMessage(err, fallback)
		s.settle(key, msg, nil)
		var zero T
		return zero, &ActionError{Action: action, Message: msg, Err: err}
	}

	s.settle(key, "", func() { commit(res) })
	return res, nil
}
