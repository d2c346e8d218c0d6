package app

import (
	"fmt"
	"strings"

	"github.com/randomtoy/arcana-web/internal/domain"
)

// systemPrompt is the fixed instruction sent with every generation request.
// The reading is displayed verbatim, so the model is told to answer in plain
// prose rather than any structured format.
const systemPrompt = `You are a tarot reader providing neutral, reflective readings.

Rules:
- Be maximally neutral and balanced.
- Never provide medical, legal, or financial advice.
- Never predict specific outcomes or disasters.
- Never command actions or diagnose conditions.
- Offer balanced possibilities and reflective questions.
- Address the querent's question through the cards, in the order given.
- Respond in plain prose only: no markdown, no lists, no code fences, no preamble.`

// buildPrompt assembles the user prompt from the trimmed question and the
// non-empty card names in their original order. Cards the catalog knows are
// annotated with their keywords and short meaning.
func buildPrompt(question string, cards []domain.CardDetail) string {
	var b strings.Builder
	b.WriteString("Cards drawn:\n")

	for i, card := range cards {
		fmt.Fprintf(&b, "  Position %d: %s\n", i+1, card.Name)
		if card.Known {
			fmt.Fprintf(&b, "    Keywords: %s\n", strings.Join(card.Keywords, ", "))
			fmt.Fprintf(&b, "    Meaning: %s\n", card.Short)
		}
	}

	fmt.Fprintf(&b, "\nThe querent asks: %q\n", strings.TrimSpace(question))
	b.WriteString("\nProvide one cohesive reading that speaks to the question through these cards.")
	return b.String()
}
