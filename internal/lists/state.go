package lists

import (
	"errors"
	"fmt"

	"github.com/devlongs/swapsync/internal/tokenlist"
)

var ErrNoPendingUpdate = errors.New("accept list update called without pending update")

// ListState is the local copy of one remote list
type ListState struct {
	Current          *tokenlist.TokenList `json:"current"`
	PendingUpdate    *tokenlist.TokenList `json:"pendingUpdate"`
	LoadingRequestID string               `json:"loadingRequestId,omitempty"`
	Error            string               `json:"error,omitempty"`
}

// Status names the state machine position of a list
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusCurrent Status = "current"
	StatusPending Status = "pending"
)

// Status reports where the list sits in the Idle → Loading → Current/Error cycle
func (s *ListState) Status() Status {
	switch {
	case s.LoadingRequestID != "":
		return StatusLoading
	case s.Error != "":
		return StatusError
	case s.Current != nil && s.PendingUpdate != nil:
		return StatusPending
	case s.Current != nil:
		return StatusCurrent
	}
	return StatusIdle
}

// NeedsFetch reports whether the list has nothing loaded, loading or failed
func (s *ListState) NeedsFetch() bool {
	return s.Current == nil && s.LoadingRequestID == "" && s.Error == ""
}

// State holds every known list keyed by URL
type State struct {
	ByURL          map[string]*ListState `json:"byUrl"`
	ActiveListURLs []string              `json:"activeListUrls"`
}

func newState() State {
	return State{ByURL: make(map[string]*ListState)}
}

func (s State) clone() State {
	out := State{
		ByURL:          make(map[string]*ListState, len(s.ByURL)),
		ActiveListURLs: append([]string(nil), s.ActiveListURLs...),
	}
	for url, ls := range s.ByURL {
		cp := *ls
		out.ByURL[url] = &cp
	}
	return out
}

func (s *State) isActive(url string) bool {
	for _, u := range s.ActiveListURLs {
		if u == url {
			return true
		}
	}
	return false
}

func (s *State) activate(url string) {
	if !s.isActive(url) {
		s.ActiveListURLs = append(s.ActiveListURLs, url)
	}
}

func (s *State) deactivate(url string) {
	out := s.ActiveListURLs[:0]
	for _, u := range s.ActiveListURLs {
		if u != url {
			out = append(out, u)
		}
	}
	s.ActiveListURLs = out
}

// Action is a single state transition
type Action interface {
	apply(s *State, defaultActive map[string]bool) (changed bool, err error)
}

// AddList starts tracking a list
type AddList struct{ URL string }

// RemoveList stops tracking a list
type RemoveList struct{ URL string }

// EnableList marks a list active
type EnableList struct{ URL string }

// DisableList marks a list inactive
type DisableList struct{ URL string }

// FetchPending records an in-flight fetch
type FetchPending struct {
	URL       string
	RequestID string
}

// FetchFulfilled records a downloaded list
type FetchFulfilled struct {
	URL       string
	RequestID string
	List      *tokenlist.TokenList
}

// FetchRejected records a failed fetch
type FetchRejected struct {
	URL          string
	RequestID    string
	ErrorMessage string
}

// AcceptListUpdate promotes the pending version of a list to current
type AcceptListUpdate struct{ URL string }

func (a AddList) apply(s *State, _ map[string]bool) (bool, error) {
	if _, ok := s.ByURL[a.URL]; ok {
		return false, nil
	}
	s.ByURL[a.URL] = &ListState{}
	return true, nil
}

func (a RemoveList) apply(s *State, _ map[string]bool) (bool, error) {
	if _, ok := s.ByURL[a.URL]; !ok {
		return false, nil
	}
	delete(s.ByURL, a.URL)
	s.deactivate(a.URL)
	return true, nil
}

func (a EnableList) apply(s *State, _ map[string]bool) (bool, error) {
	if _, ok := s.ByURL[a.URL]; !ok {
		s.ByURL[a.URL] = &ListState{}
	}
	if s.isActive(a.URL) {
		return false, nil
	}
	s.activate(a.URL)
	return true, nil
}

func (a DisableList) apply(s *State, _ map[string]bool) (bool, error) {
	if !s.isActive(a.URL) {
		return false, nil
	}
	s.deactivate(a.URL)
	return true, nil
}

func (a FetchPending) apply(s *State, _ map[string]bool) (bool, error) {
	ls, ok := s.ByURL[a.URL]
	if !ok {
		ls = &ListState{}
		s.ByURL[a.URL] = ls
	}
	ls.LoadingRequestID = a.RequestID
	ls.Error = ""
	return true, nil
}

func (a FetchFulfilled) apply(s *State, defaultActive map[string]bool) (bool, error) {
	ls, ok := s.ByURL[a.URL]
	if !ok {
		ls = &ListState{}
		s.ByURL[a.URL] = ls
	}
	// Only the latest request may land
	if ls.LoadingRequestID != "" && ls.LoadingRequestID != a.RequestID {
		return false, nil
	}

	if ls.Current != nil {
		ls.LoadingRequestID = ""
		ls.Error = ""
		if tokenlist.GetVersionUpgrade(ls.Current.Version, a.List.Version) == tokenlist.VersionUpgradeNone {
			return true, nil
		}
		ls.PendingUpdate = a.List
		return true, nil
	}

	if defaultActive[a.URL] {
		s.activate(a.URL)
	}
	*ls = ListState{Current: a.List}
	return true, nil
}

func (a FetchRejected) apply(s *State, _ map[string]bool) (bool, error) {
	ls, ok := s.ByURL[a.URL]
	if !ok || ls.LoadingRequestID != a.RequestID {
		return false, nil
	}
	*ls = ListState{Error: a.ErrorMessage}
	return true, nil
}

func (a AcceptListUpdate) apply(s *State, _ map[string]bool) (bool, error) {
	ls, ok := s.ByURL[a.URL]
	if !ok || ls.PendingUpdate == nil {
		return false, fmt.Errorf("%w: %s", ErrNoPendingUpdate, a.URL)
	}
	ls.Current = ls.PendingUpdate
	ls.PendingUpdate = nil
	return true, nil
}
