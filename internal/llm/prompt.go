package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/theglowcode/ai-nyr-analysis/internal/taxonomy"
)

const systemPromptTemplate = `You are a social media text analyst.

Task:
1) I need to analyse what are the top resolutions that people make. You will receive unfiltered raw Reddit messages that contain the keyword "new year resolution".
2) Classify ONE social media message into EXACTLY ONE topic bucket from the locked list.
3) Assign a NEW sentiment label for the message (ignore any existing vendor sentiment).

Locked topic buckets (choose exactly one string, match spelling/case exactly):
%s

Locked sentiment labels (choose exactly one string, match spelling/case exactly):
%s

Return ONLY valid JSON with this schema:
{
  "topic": string,                  // must be one of the locked topic buckets exactly
  "subtopic": string|null,          // optional refinement (free text)
  "confidence": number,             // topic confidence 0 to 1
  "rationale": string,              // <= 20 words
  "newSentiment": string,           // must be one of the locked sentiment labels exactly
  "newSentimentConfidence": number  // 0 to 1
}

Rules:
- If the message is mostly noise, sarcasm, too vague, or you cannot decide: use "%s" and sentiment "%s" with low confidence. This includes messages that do not have clear indication of a new year resolution. Do not infer.
- Do not invent new labels outside the locked lists.
- Pick the dominant intent if multiple goals appear.


IMPORTANT: Respond with ONLY valid JSON. No markdown. No explanation.`

// SystemPrompt renders the classification instructions for a taxonomy.
// The locked topic and sentiment lists are embedded verbatim so the
// model can only echo allowed labels back.
func SystemPrompt(tax *taxonomy.Set) string {
	return fmt.Sprintf(systemPromptTemplate,
		jsonList(tax.TopicNames()),
		jsonList(tax.Sentiments()),
		taxonomy.FallbackTopic,
		taxonomy.FallbackSentiment,
	)
}

func jsonList(items []string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			parts[i] = fmt.Sprintf("%q", item)
			continue
		}
		parts[i] = string(b)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
