package rubric

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Criterion is one named grading dimension. Weight is an integer percentage
// and doubles as the maximum raw score the grader may award for the
// criterion, so a single number serves as both share and ceiling.
type Criterion struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

// Rubric is a saved, user-owned rubric. Text holds the wire form that
// Parse understands; it is also what gets embedded into grading prompts.
type Rubric struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Subject   string `json:"subject"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"`
}

var lineRe = regexp.MustCompile(`^(.*?)\s*\((\d+)%\)\s*$`)

// Parse turns rubric text, one criterion per line in the form
// "<description> (<N>%)", into an ordered criteria list. Lines that don't
// match are dropped without error so free-form headers and comments may
// appear between criteria. Empty input yields an empty list.
func Parse(text string) []Criterion {
	var out []Criterion
	for _, line := range strings.Split(text, "\n") {
		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		w, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		out = append(out, Criterion{Name: name, Weight: w})
	}
	return out
}

// Format renders criteria back to the one-line-per-criterion wire form.
// Format and Parse round-trip.
func Format(criteria []Criterion) string {
	lines := make([]string, len(criteria))
	for i, c := range criteria {
		lines[i] = fmt.Sprintf("%s (%d%%)", c.Name, c.Weight)
	}
	return strings.Join(lines, "\n")
}

// TotalWeight sums criterion weights. Grading self-normalizes on this sum,
// so an off-100 total is legal here; only rubric editing insists on 100.
func TotalWeight(criteria []Criterion) int {
	total := 0
	for _, c := range criteria {
		total += c.Weight
	}
	return total
}
