package domain

// Draw picks n unique cards from the catalog using the provided RNG and
// returns their display names in draw order. Orientation is 50/50
// upright/reversed; reversed cards carry the reversed marker in the name.
func Draw(cards []Card, n int, rng RNG) ([]string, error) {
	if n < MinCardCount || n > MaxCardCount {
		return nil, ErrInvalidCardCount
	}
	if n > len(cards) {
		return nil, ErrDrawExceedsDeck
	}

	// Fisher-Yates: only the first n elements are consumed.
	indices := make([]int, len(cards))
	for i := range indices {
		indices[i] = i
	}
	for i := len(indices) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		indices[i], indices[j] = indices[j], indices[i]
	}

	names := make([]string, n)
	for i := range n {
		name := cards[indices[i]].Name
		if rng.Intn(2) == 1 {
			name = ReversedName(name)
		}
		names[i] = name
	}

	return names, nil
}
