package domain

import "strings"

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Card is a single entry in the embedded card catalog.
type Card struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Short    string   `json:"short"`
}

// CardDetail is a card name as the querent gave it, enriched with catalog
// data when the name matched a known card.
type CardDetail struct {
	Name     string
	Keywords []string
	Short    string
	Known    bool
}

// reversedSuffix marks a drawn card as reversed. It is part of the display
// name and stripped again for catalog matching.
const reversedSuffix = " (reversed)"

// NormalizeCardName maps user-typed card names onto catalog keys: lowercase,
// collapsed whitespace, no reversed marker. "the Fool ", "The Fool (reversed)"
// and "fool" all normalize to a form the catalog can match.
func NormalizeCardName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimSuffix(n, strings.ToLower(reversedSuffix))
	n = strings.Join(strings.Fields(n), " ")
	return strings.TrimPrefix(n, "the ")
}

// IsReversed reports whether a card name carries the reversed marker.
func IsReversed(name string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(name)), strings.ToLower(reversedSuffix))
}

// ReversedName renders a card name with the reversed marker attached.
func ReversedName(name string) string {
	return name + reversedSuffix
}
