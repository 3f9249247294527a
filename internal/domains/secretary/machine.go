package secretary

import (
	"context"

	"github.com/looplab/fsm"
	"github.com/xpanvictor/meetsec/pkg/Logger"
)

// Run states.
const (
	StateIdle         = "idle"
	StateTranscribing = "transcribing"
	StateExtracting   = "extracting"
	StateAssembling   = "assembling"
	StatePublishing   = "publishing"
	StateDone         = "done"
	StateFailed       = "failed"
)

const (
	evTranscribe = "transcribe"
	evExtract    = "extract"
	evAssemble   = "assemble"
	evPublish    = "publish"
	evFinish     = "finish"
	evFail       = "fail"
)

var working = []string{StateTranscribing, StateExtracting, StateAssembling, StatePublishing}

// newMachine builds the per-run state machine:
//
//	idle -> transcribing -> extracting -> assembling -> (publishing) -> done
//
// and any working state -> failed. Partial flows start from idle at the
// stage they need.
func newMachine(logger *Logger.Logger) *fsm.FSM {
	return fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: evTranscribe, Src: []string{StateIdle}, Dst: StateTranscribing},
			{Name: evExtract, Src: []string{StateIdle, StateTranscribing}, Dst: StateExtracting},
			{Name: evAssemble, Src: []string{StateIdle, StateExtracting}, Dst: StateAssembling},
			{Name: evPublish, Src: []string{StateIdle, StateExtracting, StateAssembling}, Dst: StatePublishing},
			{Name: evFinish, Src: working, Dst: StateDone},
			{Name: evFail, Src: append([]string{StateIdle}, working...), Dst: StateFailed},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				logger.Debugf("run state %s -> %s", e.Src, e.Dst)
			},
		},
	)
}
