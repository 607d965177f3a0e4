// Package grading implements the rubric-driven AI grading pipeline: one
// model call per (answer file, criterion), validation of the reply, and
// weighted aggregation into per-student results.
package grading

import (
	"context"
	"fmt"
)

// Generator is the remote model capability the grader consumes. The real
// implementation lives in the genai subpackage; tests substitute fakes.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateWithFile(ctx context.Context, prompt, mimeType string, data []byte) (string, error)
}

// Status discriminates genuine model feedback from the deterministic
// substitute used when grading fails, so consumers branch on a tag instead
// of sniffing feedback text.
type Status string

const (
	StatusOK       Status = "ok"
	StatusFallback Status = "fallback"
)

// AnswerFile is one uploaded student answer, image or PDF.
type AnswerFile struct {
	Name string
	MIME string
	Data []byte
}

// CriterionResult is the validated outcome of grading one criterion of one
// answer file. Score is always present and within [0, MaxScore].
type CriterionResult struct {
	Name     string `json:"name"`
	Score    int    `json:"score"`
	MaxScore int    `json:"maxScore"`
	Feedback string `json:"feedback"`
	Status   Status `json:"status"`
}

type Option func(*Grader)

// WithRetries allows n extra model attempts per criterion before the
// fallback kicks in. Default is zero: each attempt is one-shot.
func WithRetries(n int) Option {
	return func(g *Grader) {
		if n > 0 {
			g.retries = n
		}
	}
}

type Grader struct {
	gen     Generator
	retries int
}

func New(gen Generator, opts ...Option) *Grader {
	g := &Grader{gen: gen}
	for _, o := range opts {
		o(g)
	}
	return g
}

// GradeCriterion asks the model to score one criterion of one answer file.
// It never returns an error: transport failures, protocol violations and
// validation failures all degrade to a fallback result flagged for manual
// review, so one bad criterion can't abort a batch.
func (g *Grader) GradeCriterion(ctx context.Context, file AnswerFile, criterion string, maxScore int, subject string) CriterionResult {
	prompt := criterionPrompt(subject, criterion, maxScore)
	var lastErr error
	for attempt := 0; attempt <= g.retries; attempt++ {
		raw, err := g.gen.GenerateWithFile(ctx, prompt, file.MIME, file.Data)
		if err != nil {
			lastErr = err
			continue
		}
		score, feedback, err := ParseResponse(raw, maxScore)
		if err != nil {
			lastErr = err
			continue
		}
		return CriterionResult{Name: criterion, Score: score, MaxScore: maxScore, Feedback: feedback, Status: StatusOK}
	}
	return fallbackResult(criterion, maxScore, lastErr)
}

// fallbackResult substitutes 70% of the maximum, rounded down. The feedback
// wording is load-bearing: the client shows it verbatim as the manual-review
// notice.
func fallbackResult(criterion string, maxScore int, cause error) CriterionResult {
	return CriterionResult{
		Name:     criterion,
		Score:    maxScore * 7 / 10,
		MaxScore: maxScore,
		Feedback: fmt.Sprintf("Unable to perform AI grading: %v. Please review manually.", cause),
		Status:   StatusFallback,
	}
}
