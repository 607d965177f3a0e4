package grading

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/fairgrade/internal/rubric"
)

// StudentResult aggregates one file's per-criterion results into a weighted
// overall score with a qualitative banding line.
type StudentResult struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Score    int               `json:"score"`
	Feedback string            `json:"feedback"`
	Criteria []CriterionResult `json:"criteria"`
}

// BandNoCriteria is the overall feedback for a run whose rubric parsed to
// zero criteria. The score is defined as 0 rather than dividing by zero.
const BandNoCriteria = "No grading criteria provided."

// Band maps an aggregate score to its qualitative label.
func Band(score int) string {
	switch {
	case score >= 80:
		return "Excellent work overall!"
	case score >= 60:
		return "Good work with room for improvement."
	case score >= 40:
		return "Needs significant improvement."
	default:
		return "Requires extensive revision."
	}
}

// ProcessStudentAnswers grades every uploaded file against every criterion
// of the rubric and returns one result per file, in input order. Files are
// processed sequentially; the criteria of one file are graded concurrently
// and joined back by index, so criterion order always matches the rubric.
func (g *Grader) ProcessStudentAnswers(ctx context.Context, files []AnswerFile, rubricText, subject string) []StudentResult {
	criteria := rubric.Parse(rubricText)
	results := make([]StudentResult, 0, len(files))
	for _, f := range files {
		results = append(results, g.gradeFile(ctx, f, criteria, subject))
	}
	return results
}

func (g *Grader) gradeFile(ctx context.Context, f AnswerFile, criteria []rubric.Criterion, subject string) StudentResult {
	rows := make([]CriterionResult, len(criteria))
	var wg sync.WaitGroup
	for i, c := range criteria {
		wg.Add(1)
		go func(i int, c rubric.Criterion) {
			defer wg.Done()
			rows[i] = g.GradeCriterion(ctx, f, c.Name, c.Weight, subject)
		}(i, c)
	}
	wg.Wait()

	sum, max := 0, 0
	for _, r := range rows {
		sum += r.Score
		max += r.MaxScore
	}

	// The denominator is the weight sum, not 100, so rubrics whose weights
	// don't add up to 100 still aggregate consistently.
	score := 0
	feedback := BandNoCriteria
	if max > 0 {
		score = int(math.Round(float64(sum) / float64(max) * 100))
		feedback = Band(score)
	}

	return StudentResult{
		ID:       newResultID(),
		Name:     strings.TrimSuffix(f.Name, filepath.Ext(f.Name)),
		Score:    score,
		Feedback: feedback,
		Criteria: rows,
	}
}

func newResultID() string {
	return fmt.Sprintf("student-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
