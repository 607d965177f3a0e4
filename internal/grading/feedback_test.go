package grading

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const sampleReply = `SCORE: 22

STRENGTHS:
• Clear thesis statement
- Good use of sources
1. Logical paragraph order

WEAKNESSES:
• Weak conclusion

ANALYSIS:
The essay argues its case well. The closing paragraph undercuts it.

SUGGESTIONS:
• Rewrite the conclusion
- Cite the second source directly`

func TestParseResponseScore(t *testing.T) {
	score, feedback, err := ParseResponse(sampleReply, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 22 {
		t.Fatalf("score = %d, want 22", score)
	}
	if !strings.HasPrefix(feedback, "SCORE: 22") {
		t.Fatalf("feedback should open with the score line:\n%s", feedback)
	}
}

func TestParseResponseScoreCaseInsensitive(t *testing.T) {
	score, _, err := ParseResponse("score: 7\nstrengths:\n• ok", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 7 {
		t.Fatalf("score = %d, want 7", score)
	}
}

func TestParseResponseMissingScore(t *testing.T) {
	_, _, err := ParseResponse("STRENGTHS:\n• something", 30)
	if !errors.Is(err, ErrNoScore) {
		t.Fatalf("expected ErrNoScore, got %v", err)
	}
}

func TestParseResponseScoreAboveMax(t *testing.T) {
	_, _, err := ParseResponse("SCORE: 31", 30)
	if !errors.Is(err, ErrInvalidScore) {
		t.Fatalf("expected ErrInvalidScore, got %v", err)
	}
}

func TestParseResponseScoreAtBounds(t *testing.T) {
	for _, raw := range []string{"SCORE: 0", "SCORE: 30"} {
		if _, _, err := ParseResponse(raw, 30); err != nil {
			t.Fatalf("ParseResponse(%q): unexpected error %v", raw, err)
		}
	}
}

func TestBulletNormalization(t *testing.T) {
	got := normalizeBullets([]string{"• foo", "- bar", "1. baz"})
	want := []string{"• foo", "• bar", "• baz"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBulletNormalizationInline(t *testing.T) {
	got := normalizeBullets([]string{"• foo • bar"})
	want := []string{"• foo", "• bar"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFormatFeedbackStructure(t *testing.T) {
	_, feedback, err := ParseResponse(sampleReply, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	blocks := strings.Split(feedback, "\n\n")
	if len(blocks) != 5 {
		t.Fatalf("expected 5 sections separated by blank lines, got %d:\n%s", len(blocks), feedback)
	}
	for i, header := range []string{"SCORE:", "STRENGTHS:", "WEAKNESSES:", "ANALYSIS:", "SUGGESTIONS:"} {
		if !strings.HasPrefix(blocks[i], header) {
			t.Fatalf("block %d should start with %q:\n%s", i, header, blocks[i])
		}
	}
	// Mixed markers collapse to one canonical bullet per line.
	strengths := strings.Split(blocks[1], "\n")[1:]
	for _, line := range strengths {
		if !strings.HasPrefix(line, "• ") {
			t.Fatalf("strength item not canonical: %q", line)
		}
	}
	if len(strengths) != 3 {
		t.Fatalf("expected 3 strength items, got %d", len(strengths))
	}
	// ANALYSIS stays prose.
	if strings.Contains(blocks[3], "•") {
		t.Fatalf("analysis section must not be bulletized:\n%s", blocks[3])
	}
}

func TestExtractSuggestionsRoundTrip(t *testing.T) {
	_, feedback, err := ParseResponse(sampleReply, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := ExtractSuggestions(feedback)
	want := []string{"Rewrite the conclusion", "Cite the second source directly"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExtractSuggestionsFromFallback(t *testing.T) {
	fb := fallbackResult("Thesis", 30, errors.New("boom"))
	if got := ExtractSuggestions(fb.Feedback); got != nil {
		t.Fatalf("fallback feedback should yield no suggestions, got %v", got)
	}
}
