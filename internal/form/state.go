// internal/form/state.go
//
// Contact form – submission state machine.
//
// Context
//   SubmissionState is the only gate on the submit trigger.  Transition is
//   a pure function so the lifecycle can be tested without a controller:
//
//      Idle|Success|Error --Invalid-->   Error
//      Idle|Success|Error --Submit-->    Submitting
//      Submitting         --Succeeded--> Success
//      Submitting         --Failed-->    Error
//
//   Every other pair is rejected.  In particular Submit while Submitting is
//   refused, which is how a double click becomes a no-op.
//
//------------------------------------------------------------------------------

package form

// State is the lifecycle position of one form instance.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText renders State as its lowercase name in JSON.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Event drives a Transition.
type Event int

const (
	EventInvalid   Event = iota // validation failed
	EventSubmit                 // validation passed, request about to start
	EventSucceeded              // request (or local-only sink) succeeded
	EventFailed                 // request failed
)

// Transition returns the next state and whether the event is allowed from
// the current one.  A refused event leaves the state unchanged.
func Transition(from State, ev Event) (State, bool) {
	if from == StateSubmitting {
		switch ev {
		case EventSucceeded:
			return StateSuccess, true
		case EventFailed:
			return StateError, true
		default:
			return from, false
		}
	}

	switch ev {
	case EventInvalid:
		return StateError, true
	case EventSubmit:
		return StateSubmitting, true
	default:
		return from, false
	}
}
