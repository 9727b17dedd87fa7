package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	genai "google.golang.org/genai"
)

const geminiPrompt = `You are an IT support assistant. The user describes a
problem in free text. Reply with JSON only:
{"issue": "<one-line restatement of the problem>",
 "solution": "<numbered self-help steps, one per line>",
 "category": "<broad category such as Network, Hardware, Software>"}
If the description is not an IT problem, set "solution" to an empty string.`

// Gemini resolves free text through the Gemini API in JSON mode. A fallback
// resolver handles model errors and empty answers.
type Gemini struct {
	cli      *genai.Client
	model    string
	fallback Resolver
}

// NewGemini creates a model-backed resolver. The genai client reads
// GEMINI_API_KEY from the environment.
func NewGemini(ctx context.Context, model string, fallback Resolver) (*Gemini, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Gemini{cli: cli, model: model, fallback: fallback}, nil
}

type geminiAnswer struct {
	Issue    string `json:"issue"`
	Solution string `json:"solution"`
	Category string `json:"category"`
}

// Resolve asks the model for a suggestion, falling back to the keyword
// resolver when the model errors out or returns nothing usable.
func (g *Gemini) Resolve(ctx context.Context, query string) (*Solution, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: geminiPrompt + "\n\n[USER DESCRIPTION]\n" + query}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return g.fallbackResolve(ctx, query, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return g.fallbackResolve(ctx, query, fmt.Errorf("empty model response"))
	}

	var answer geminiAnswer
	text := resp.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(text), &answer); err != nil {
		return g.fallbackResolve(ctx, query, fmt.Errorf("parse model response: %w", err))
	}
	if strings.TrimSpace(answer.Solution) == "" {
		return g.fallbackResolve(ctx, query, ErrNoMatch)
	}

	return &Solution{
		Issue:    answer.Issue,
		Text:     answer.Solution,
		Category: answer.Category,
	}, nil
}

func (g *Gemini) fallbackResolve(ctx context.Context, query string, cause error) (*Solution, error) {
	if g.fallback == nil {
		return nil, cause
	}
	slog.Warn("gemini resolver failed, using fallback", "error", cause)
	return g.fallback.Resolve(ctx, query)
}
