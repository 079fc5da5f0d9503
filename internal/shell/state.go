// README: Presentation shell states and the allowed transitions between them.
package shell

import (
	"encoding/json"
	"fmt"
	"time"

	"tripgenie/internal/trip"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// AllowedTransitions represents the shell flow as code.
var AllowedTransitions = map[Status][]Status{
	StatusIdle:    {StatusIdle, StatusLoading},
	StatusLoading: {StatusSuccess, StatusFailed},
	StatusSuccess: {StatusIdle},
	StatusFailed:  {StatusIdle},
}

func CanTransition(from, to Status) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// State is one of Idle, Loading, Success or Failed.
type State interface {
	Status() Status
	sealed()
}

// Idle shows the form. Problems is set when the last submission was rejected.
type Idle struct {
	Form     trip.Preferences    `json:"form"`
	Problems []trip.FieldProblem `json:"problems,omitempty"`
}

// Loading waits on the generation identified by RequestID.
type Loading struct {
	RequestID   string           `json:"request_id"`
	Preferences trip.Preferences `json:"preferences"`
	StartedAt   time.Time        `json:"started_at"`
}

type Success struct {
	Itinerary trip.Itinerary `json:"itinerary"`
	Sources   []trip.Source  `json:"sources"`
}

type Failed struct {
	Message string `json:"message"`
}

func (Idle) Status() Status    { return StatusIdle }
func (Loading) Status() Status { return StatusLoading }
func (Success) Status() Status { return StatusSuccess }
func (Failed) Status() Status  { return StatusFailed }

func (Idle) sealed()    {}
func (Loading) sealed() {}
func (Success) sealed() {}
func (Failed) sealed()  {}

// NewIdle returns the state of a fresh session.
func NewIdle() Idle {
	return Idle{Form: trip.DefaultPreferences()}
}

type envelope struct {
	Status  Status   `json:"status"`
	Idle    *Idle    `json:"idle,omitempty"`
	Loading *Loading `json:"loading,omitempty"`
	Success *Success `json:"success,omitempty"`
	Failed  *Failed  `json:"failed,omitempty"`
}

// MarshalState encodes a state with its status tag.
func MarshalState(s State) ([]byte, error) {
	env := envelope{}
	switch v := s.(type) {
	case Idle:
		env.Status, env.Idle = StatusIdle, &v
	case Loading:
		env.Status, env.Loading = StatusLoading, &v
	case Success:
		env.Status, env.Success = StatusSuccess, &v
	case Failed:
		env.Status, env.Failed = StatusFailed, &v
	default:
		return nil, fmt.Errorf("marshal state: unknown type %T", s)
	}
	return json.Marshal(env)
}

// UnmarshalState decodes what MarshalState produced.
func UnmarshalState(b []byte) (State, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	switch {
	case env.Status == StatusIdle && env.Idle != nil:
		return *env.Idle, nil
	case env.Status == StatusLoading && env.Loading != nil:
		return *env.Loading, nil
	case env.Status == StatusSuccess && env.Success != nil:
		return *env.Success, nil
	case env.Status == StatusFailed && env.Failed != nil:
		return *env.Failed, nil
	default:
		return nil, fmt.Errorf("unmarshal state: bad status %q", env.Status)
	}
}
