package score

import (
	"fmt"
	"strings"
)

const scoringSystemPrompt = `You are a pronunciation coach for language learners. ` +
	`Compare the expected sentence with what speech recognition heard and assess ` +
	`how well the learner pronounced each word. Respond with a single JSON object ` +
	`and nothing else, using this shape:
{
  "overallScore": <0-100>,
  "wordScores": [{"word": "<expected word>", "score": <0-100>, "correct": <bool>, "suggestion": "<only when incorrect>"}],
  "feedback": "<1-3 encouraging sentences>",
  "strengths": ["<strength>"],
  "improvements": ["<improvement>"]
}
wordScores must contain one entry per word of the expected sentence, in order.`

func buildScoringPrompt(pair Pair) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Language: %s\n", pair.Language.DisplayName())
	fmt.Fprintf(&b, "Expected: %s\n", pair.ExpectedText)
	fmt.Fprintf(&b, "Heard: %s\n", pair.TranscribedText)
	return b.String()
}

// cleanJSON strips markdown fences and any prose around the first JSON
// object. Models wrap structured output in ```json fences often enough that
// parsing raw text directly is not reliable.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}
