package client

import (
	"testing"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/protocol"
)

func newStepSet(n int) *Feedback {
	f := &Feedback{}
	steps := make([]protocol.SolutionStep, n)
	for i := range steps {
		steps[i] = protocol.SolutionStep{Index: i + 1, Text: "step"}
	}
	f.resetSteps(steps)
	return f
}

func TestStepFeedbackStaging(t *testing.T) {
	t.Parallel()
	f := newStepSet(2)

	// Stage 2 answers are unreachable before stage 1.
	if err := f.resolveStep(1, StepHelpful); err == nil {
		t.Error("helpful accepted before tried")
	}
	if err := f.resolveStep(1, StepNotHelpful); err == nil {
		t.Error("not_helpful accepted before tried")
	}

	if err := f.resolveStep(1, StepTried); err != nil {
		t.Fatalf("tried rejected: %v", err)
	}
	if err := f.resolveStep(1, StepTried); err == nil {
		t.Error("tried accepted twice")
	}
	if err := f.resolveStep(1, StepNotHelpful); err != nil {
		t.Fatalf("not_helpful rejected after tried: %v", err)
	}
	if err := f.resolveStep(1, StepHelpful); err == nil {
		t.Error("step changed after terminal status")
	}
	if got := f.StepStatusOf(1); got != StepNotHelpful {
		t.Errorf("status = %s, want not_helpful", got)
	}
}

func TestStepNotTriedIsTerminal(t *testing.T) {
	t.Parallel()
	f := newStepSet(1)

	if err := f.resolveStep(1, StepNotTried); err != nil {
		t.Fatalf("not_tried rejected: %v", err)
	}
	for _, status := range []StepStatus{StepTried, StepHelpful, StepNotHelpful} {
		if err := f.resolveStep(1, status); err == nil {
			t.Errorf("%s accepted after not_tried", status)
		}
	}
}

func TestStepUnknownIndexRejected(t *testing.T) {
	t.Parallel()
	f := newStepSet(1)
	if err := f.resolveStep(7, StepTried); err == nil {
		t.Error("feedback accepted for a step not in the presentation")
	}
}

func TestNewStepListResetsAllSteps(t *testing.T) {
	t.Parallel()
	f := newStepSet(1)
	if err := f.resolveStep(1, StepNotTried); err != nil {
		t.Fatalf("not_tried rejected: %v", err)
	}

	f.resetSteps([]protocol.SolutionStep{{Index: 1, Text: "fresh"}})
	if got := f.StepStatusOf(1); got != StepNone {
		t.Errorf("status after reset = %s, want none", got)
	}
	if err := f.resolveStep(1, StepTried); err != nil {
		t.Errorf("tried rejected after reset: %v", err)
	}
}

func TestRatingIsOneShotUntilRearmed(t *testing.T) {
	t.Parallel()
	f := &Feedback{}
	f.armRating()

	if !f.takeRating() {
		t.Fatal("first rating claim failed")
	}
	if f.takeRating() {
		t.Error("rating claimed twice in one presentation")
	}

	f.armRating()
	if !f.takeRating() {
		t.Error("rating claim failed after re-arm")
	}
}
