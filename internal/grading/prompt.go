package grading

import "fmt"

// criterionPrompt builds the grading instruction for one criterion. The five
// labeled sections and the bullet marker are a contract with ParseResponse
// and with the client that re-parses feedback for display; the wording stays
// byte-compatible with what the backend was tuned on.
func criterionPrompt(subject, criterion string, maxScore int) string {
	return fmt.Sprintf(`You are an expert %s grader. Evaluate this essay based on: %s

Format your response EXACTLY as follows (do not add any extra text or explanations):

SCORE: [number between 0 and %d]

STRENGTHS:
• [key point]
• [key point]

WEAKNESSES:
• [key point]
• [key point]

ANALYSIS:
[2-3 sentences max]

SUGGESTIONS:
• [1-2 key improvements]
• [1-2 key improvements]`, subject, criterion, maxScore)
}
