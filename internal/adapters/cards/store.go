package cards

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/randomtoy/arcana-web/internal/domain"
)

//go:embed data/*.json
var catalogFS embed.FS

const catalogFile = "data/major_arcana.json"

// EmbeddedCatalog serves the bundled card list and resolves free-text names
// against it. Lookup ignores case, surrounding space, a leading "The", and a
// "(reversed)" suffix.
type EmbeddedCatalog struct {
	once  sync.Once
	cards []domain.Card
	index map[string]int
	err   error
}

func NewEmbeddedCatalog() *EmbeddedCatalog {
	return &EmbeddedCatalog{}
}

func (c *EmbeddedCatalog) init() {
	raw, err := catalogFS.ReadFile(catalogFile)
	if err != nil {
		c.err = fmt.Errorf("read embedded catalog: %w", err)
		return
	}
	if err := json.Unmarshal(raw, &c.cards); err != nil {
		c.err = fmt.Errorf("parse embedded catalog: %w", err)
		return
	}
	c.index = make(map[string]int, len(c.cards))
	for i, card := range c.cards {
		c.index[domain.NormalizeCardName(card.Name)] = i
	}
}

func (c *EmbeddedCatalog) Cards(_ context.Context) ([]domain.Card, error) {
	c.once.Do(c.init)
	if c.err != nil {
		return nil, c.err
	}
	out := make([]domain.Card, len(c.cards))
	copy(out, c.cards)
	return out, nil
}

func (c *EmbeddedCatalog) Find(_ context.Context, name string) (domain.Card, bool, error) {
	c.once.Do(c.init)
	if c.err != nil {
		return domain.Card{}, false, c.err
	}
	i, ok := c.index[domain.NormalizeCardName(name)]
	if !ok {
		return domain.Card{}, false, nil
	}
	return c.cards[i], true, nil
}
