package client

import (
	"fmt"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/protocol"
)

// StepStatus is the client-local feedback state of one solution step.
type StepStatus string

const (
	StepNone       StepStatus = "none"
	StepTried      StepStatus = "tried"
	StepNotTried   StepStatus = "not_tried"
	StepHelpful    StepStatus = "helpful"
	StepNotHelpful StepStatus = "not_helpful"
)

// Feedback tracks the two feedback sub-protocols: the per-step two-stage
// widget and the one-shot star rating. A fresh solutions_with_feedback list
// from the server resets every step; a fresh star-rating affordance re-arms
// the one-shot.
type Feedback struct {
	steps      map[int]StepStatus
	ratingSent bool
}

// resetSteps replaces the step set for a new presentation.
func (f *Feedback) resetSteps(steps []protocol.SolutionStep) {
	f.steps = make(map[int]StepStatus, len(steps))
	for _, s := range steps {
		f.steps[s.Index] = StepNone
	}
}

// armRating re-enables the one-shot star rating for a new presentation.
func (f *Feedback) armRating() { f.ratingSent = false }

// StepStatusOf returns the recorded status for a step index.
func (f *Feedback) StepStatusOf(index int) StepStatus {
	if s, ok := f.steps[index]; ok {
		return s
	}
	return StepNone
}

// resolveStep advances one step through the two-stage machine:
// none -> tried|not_tried, tried -> helpful|not_helpful. Every other
// transition is rejected; not_tried, helpful and not_helpful are terminal
// within one presentation.
func (f *Feedback) resolveStep(index int, status StepStatus) error {
	current, ok := f.steps[index]
	if !ok {
		return fmt.Errorf("no solution step %d in the current presentation", index)
	}

	switch current {
	case StepNone:
		if status != StepTried && status != StepNotTried {
			return fmt.Errorf("step %d: first answer must be tried or not_tried", index)
		}
	case StepTried:
		if status != StepHelpful && status != StepNotHelpful {
			return fmt.Errorf("step %d: follow-up must be helpful or not_helpful", index)
		}
	default:
		return fmt.Errorf("step %d already resolved as %s", index, current)
	}

	f.steps[index] = status
	return nil
}

// takeRating claims the one-shot star rating. It returns false if a rating
// was already submitted for the current presentation.
func (f *Feedback) takeRating() bool {
	if f.ratingSent {
		return false
	}
	f.ratingSent = true
	return true
}
