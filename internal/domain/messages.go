// Package domain holds the wire-level and cross-component types shared by
// the FSM, the search driver, and the websocket transport: request/status
// messages, the processing job description, and the live processing state
// snapshot. Types here are serialized directly onto the duplex websocket,
// so field names and tagged-variant shapes must stay stable.
package domain

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/ssgier/momonc-service/internal/algo"
)

// ProcessingJobData describes everything needed to start a processing job:
// how to invoke the objective function, where to find the parameter spec,
// and the algorithm configuration to drive the search with.
type ProcessingJobData struct {
	Program   string          `json:"program"`
	Args      []string        `json:"args"`
	SpecFile  string          `json:"spec_file"`
	AlgoConf  algo.Config     `json:"algo_conf"`
}

// DefaultJob is the persisted job used to pre-populate the client UI while
// the controller is Idle. It is distinct from ProcessingJobData only to make
// its role (a cached recollection, not a live job) explicit at the type level.
type DefaultJob struct {
	ProcessingJobData
}

// RequestMessage is a tagged-variant request from the client, exactly one of
// StartProcessing or StopProcessing is non-nil.
type RequestMessage struct {
	StartProcessing *ProcessingJobData `json:"StartProcessing,omitempty"`
	StopProcessing  *struct{}          `json:"StopProcessing,omitempty"`
}

// UnmarshalJSON treats the presence of the StopProcessing key as a stop
// request, whatever its payload, so {"StopProcessing": null} decodes with
// StopProcessing non-nil.
func (r *RequestMessage) UnmarshalJSON(data []byte) error {
	var raw map[string]*ProcessingJobData
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = RequestMessage{StartProcessing: raw["StartProcessing"]}
	if _, ok := raw["StopProcessing"]; ok {
		r.StopProcessing = &struct{}{}
	}
	return nil
}

// DomainState is a tagged-variant snapshot of the controller's FSM state:
// exactly one of Idle, Processing, Terminal, or Error is set at a time.
type DomainState struct {
	Idle       *DefaultJob      `json:"Idle,omitempty"`
	Processing *ProcessingState `json:"Processing,omitempty"`
	Terminal   bool             `json:"-"`
	Error      bool             `json:"-"`
}

// MarshalJSON renders Terminal/Error as their bare string-variant form
// ("Terminal"/"Error") and Idle/Processing as single-key objects, matching
// a tagged-enum wire format.
func (d DomainState) MarshalJSON() ([]byte, error) {
	switch {
	case d.Terminal:
		return []byte(`"Terminal"`), nil
	case d.Error:
		return []byte(`"Error"`), nil
	case d.Idle != nil:
		return sonic.Marshal(struct {
			Idle *DefaultJob `json:"Idle"`
		}{d.Idle})
	case d.Processing != nil:
		return sonic.Marshal(struct {
			Processing *ProcessingState `json:"Processing"`
		}{d.Processing})
	default:
		return nil, fmt.Errorf("domain state has no populated variant")
	}
}

// UnmarshalJSON accepts either a bare string variant ("Terminal"/"Error") or
// a single-key object ({"Idle":...} / {"Processing":...}).
func (d *DomainState) UnmarshalJSON(data []byte) error {
	var asString string
	if err := sonic.Unmarshal(data, &asString); err == nil {
		switch asString {
		case "Terminal":
			*d = DomainState{Terminal: true}
			return nil
		case "Error":
			*d = DomainState{Error: true}
			return nil
		default:
			return fmt.Errorf("unrecognized domain state %q", asString)
		}
	}

	var asObject struct {
		Idle       *DefaultJob      `json:"Idle"`
		Processing *ProcessingState `json:"Processing"`
	}
	if err := sonic.Unmarshal(data, &asObject); err != nil {
		return err
	}
	*d = DomainState{Idle: asObject.Idle, Processing: asObject.Processing}
	return nil
}

// StatusMessage is a tagged-variant service-to-client message: exactly one
// of DomainState, CandidateEvalReport, or Time is populated.
type StatusMessage struct {
	DomainState        *DomainState        `json:"DomainState,omitempty"`
	CandidateEvalReport *CandidateEvalReport `json:"CandidateEvalReport,omitempty"`
	Time               *float64            `json:"Time,omitempty"`
}

// NewDomainStateMessage wraps a DomainState as a StatusMessage.
func NewDomainStateMessage(state DomainState) StatusMessage {
	return StatusMessage{DomainState: &state}
}

// NewCandidateEvalReportMessage wraps a report as a StatusMessage.
func NewCandidateEvalReportMessage(report CandidateEvalReport) StatusMessage {
	return StatusMessage{CandidateEvalReport: &report}
}

// NewTimeMessage wraps an elapsed-seconds value as a StatusMessage.
func NewTimeMessage(seconds float64) StatusMessage {
	return StatusMessage{Time: &seconds}
}

// IsReport reports whether this status message carries a CandidateEvalReport.
func (s StatusMessage) IsReport() bool {
	return s.CandidateEvalReport != nil
}
