package chat

import (
	"fmt"
	"strings"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/protocol"
)

// fillerPatterns are intro/outro sentences stripped from solution text so
// per-step feedback only covers actionable steps.
var fillerPatterns = []string{
	"here's how to resolve",
	"here is how to resolve",
	"here are some solutions",
	"here's how to fix",
	"try the following",
	"follow these steps",
	"if this doesn't resolve your issue",
	"if this doesn't work",
	"if the issue persists",
	"if none of the above",
	"i can create a support ticket",
	"i can create a ticket",
	"let me create a support ticket",
	"create a support ticket for you",
	"you can create a ticket",
	"contact support for further",
	"please let me know if",
	"hope this helps",
	"i hope this resolves",
	"let me know if you need",
}

func isBulletLine(line string) bool {
	if strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
		return true
	}
	for d := '1'; d <= '9'; d++ {
		if strings.HasPrefix(line, string(d)+".") {
			return true
		}
	}
	return false
}

// splitSolution breaks solution text into discrete steps: bullet or numbered
// lines start a new step, blank lines separate steps, continuation lines join
// the current one. Filler sentences are dropped unless that would leave
// nothing.
func splitSolution(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var steps []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			steps = append(steps, strings.Join(current, " "))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		if isBulletLine(line) {
			flush()
			clean := strings.TrimLeft(line, "•-*0123456789. ")
			if clean != "" {
				current = append(current, clean)
			}
			continue
		}
		current = append(current, line)
	}
	flush()

	if len(steps) == 0 {
		steps = []string{text}
	}

	var filtered []string
	for _, step := range steps {
		lower := strings.ToLower(strings.TrimSpace(step))
		if len(lower) < 5 {
			continue
		}
		filler := false
		for _, pattern := range fillerPatterns {
			if strings.Contains(lower, pattern) {
				filler = true
				break
			}
		}
		if !filler {
			filtered = append(filtered, step)
		}
	}
	if len(filtered) > 0 {
		steps = filtered
	}
	return steps
}

// formatSteps renders steps as a numbered markdown list.
func formatSteps(steps []string) string {
	var b strings.Builder
	for i, step := range steps {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "**%d.** %s", i+1, step)
	}
	return b.String()
}

// solutionSteps converts steps to their wire shape, 1-based.
func solutionSteps(steps []string) []protocol.SolutionStep {
	out := make([]protocol.SolutionStep, len(steps))
	for i, step := range steps {
		out[i] = protocol.SolutionStep{Index: i + 1, Text: step}
	}
	return out
}

// starRatingButtons is the 1-5 star affordance plus a skip.
func starRatingButtons() []protocol.Button {
	buttons := make([]protocol.Button, 0, 6)
	for i := 1; i <= 5; i++ {
		buttons = append(buttons, protocol.Button{
			ID:     fmt.Sprintf("star_%d", i),
			Label:  strings.Repeat("⭐", i),
			Action: protocol.ActionSubmitRating,
			Value:  fmt.Sprintf("%d", i),
		})
	}
	buttons = append(buttons, protocol.Button{
		ID: "skip", Label: "⏭️ Skip", Action: protocol.ActionSkipRating, Value: "skip",
	})
	return buttons
}
