package grading

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The grader's reply is split into five labeled sections. Header tokens and
// the "• " bullet form are shared with the display layer, which re-parses
// feedback text on the same markers; changing either breaks suggestion
// extraction silently.

type sectionKind int

const (
	kindScore sectionKind = iota
	kindStrengths
	kindWeaknesses
	kindAnalysis
	kindSuggestions
)

var headerTokens = []struct {
	token string
	kind  sectionKind
}{
	{"SCORE", kindScore},
	{"STRENGTHS", kindStrengths},
	{"WEAKNESSES", kindWeaknesses},
	{"ANALYSIS", kindAnalysis},
	{"SUGGESTIONS", kindSuggestions},
}

var (
	ErrNoScore      = errors.New("response did not contain a score")
	ErrInvalidScore = errors.New("response score out of range")
)

var (
	scoreRe  = regexp.MustCompile(`(?i)SCORE:\s*(\d+)`)
	bulletRe = regexp.MustCompile(`^(?:•|-|\d+\.)\s*`)
)

// ParseResponse validates the raw model reply against maxScore and returns
// the extracted score together with normalized feedback text. A missing or
// out-of-range score is a validation error; the caller decides what to
// substitute.
func ParseResponse(raw string, maxScore int) (int, string, error) {
	m := scoreRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, "", ErrNoScore
	}
	score, err := strconv.Atoi(m[1])
	if err != nil || score < 0 || score > maxScore {
		return 0, "", fmt.Errorf("%w: %s (max %d)", ErrInvalidScore, m[1], maxScore)
	}
	return score, formatFeedback(raw), nil
}

type section struct {
	kind  sectionKind
	token string
	lines []string
}

// splitSections is a line scanner with two states: seeking the first header,
// and collecting lines into the current section. A line starting with one of
// the five header tokens (any case) opens a new section; text after the
// colon on the header line belongs to that section. Sections keep the order
// they appear in.
func splitSections(raw string) []section {
	var sections []section
	var cur *section
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if kind, token, rest, ok := matchHeader(trimmed); ok {
			sections = append(sections, section{kind: kind, token: token})
			cur = &sections[len(sections)-1]
			if rest != "" {
				cur.lines = append(cur.lines, rest)
			}
			continue
		}
		if cur == nil || trimmed == "" {
			continue
		}
		cur.lines = append(cur.lines, trimmed)
	}
	return sections
}

func matchHeader(line string) (sectionKind, string, string, bool) {
	upper := strings.ToUpper(line)
	for _, h := range headerTokens {
		if strings.HasPrefix(upper, h.token+":") {
			return h.kind, h.token, strings.TrimSpace(line[len(h.token)+1:]), true
		}
	}
	return 0, "", "", false
}

// normalizeBullets collapses marker variants (•, -, "N.") into one canonical
// "• " item per line, splitting items that share a line and dropping empties.
func normalizeBullets(lines []string) []string {
	var out []string
	for _, line := range lines {
		for _, piece := range strings.Split(line, "•") {
			item := strings.TrimSpace(bulletRe.ReplaceAllString(strings.TrimSpace(piece), ""))
			if item == "" {
				continue
			}
			out = append(out, "• "+item)
		}
	}
	return out
}

// formatFeedback rebuilds the reply with each header on its own line, one
// bullet per line, and a blank line between sections. SCORE renders inline;
// ANALYSIS stays prose.
func formatFeedback(raw string) string {
	sections := splitSections(raw)
	blocks := make([]string, 0, len(sections))
	for _, s := range sections {
		switch s.kind {
		case kindScore:
			blocks = append(blocks, s.token+": "+strings.Join(s.lines, " "))
		case kindAnalysis:
			if len(s.lines) == 0 {
				blocks = append(blocks, s.token+":")
				continue
			}
			blocks = append(blocks, s.token+":\n"+strings.Join(s.lines, " "))
		default:
			items := normalizeBullets(s.lines)
			if len(items) == 0 {
				blocks = append(blocks, s.token+":")
				continue
			}
			blocks = append(blocks, s.token+":\n"+strings.Join(items, "\n"))
		}
	}
	return strings.Join(blocks, "\n\n")
}

// ExtractSuggestions re-parses formatted feedback and returns the items of
// its SUGGESTIONS section, bullet markers stripped. Fallback feedback has no
// sections, so it yields nothing.
func ExtractSuggestions(feedback string) []string {
	for _, s := range splitSections(feedback) {
		if s.kind != kindSuggestions {
			continue
		}
		items := make([]string, 0, len(s.lines))
		for _, line := range s.lines {
			if item := strings.TrimSpace(strings.TrimPrefix(line, "•")); item != "" {
				items = append(items, item)
			}
		}
		return items
	}
	return nil
}
