package progress

import "time"

// Stage is a pipeline lifecycle phase.
type Stage string

// Stage constants, in emission order.
const (
	StageUnderstanding Stage = "understanding"
	StageSearching     Stage = "searching"
	StageAnalyzing     Stage = "analyzing"
	StageAssembling    Stage = "assembling"
	StageDone          Stage = "done"
	StageError         Stage = "error"
)

// IsValid checks if the stage is one of the supported values.
func (s Stage) IsValid() bool {
	switch s {
	case StageUnderstanding, StageSearching, StageAnalyzing, StageAssembling, StageDone, StageError:
		return true
	}
	return false
}

// IsTerminal reports whether the stage ends the stream.
func (s Stage) IsTerminal() bool { return s == StageDone || s == StageError }

// Event is a single progress update. Events for a request are delivered
// strictly in stage order; the terminal event carries the full assembled
// response in Data so non-streaming callers can ignore everything else.
type Event struct {
	Stage     Stage     `json:"stage"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}
