package ports

import (
	"context"

	"github.com/randomtoy/arcana-web/internal/domain"
)

// CardCatalog provides access to the known tarot cards. Card names typed by
// the querent remain free text; the catalog only enriches the ones it knows.
type CardCatalog interface {
	// Cards returns every card in the catalog, in deck order.
	Cards(ctx context.Context) ([]domain.Card, error)
	// Find looks up a card by user-typed name (normalized match).
	Find(ctx context.Context, name string) (domain.Card, bool, error)
}
