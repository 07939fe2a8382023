package menu

import (
	"time"

	"menulens/internal/schema"
)

// StoredMenu is a persisted menu plus its assigned identity and
// creation timestamp. Immutable once created — this system has no
// update or delete.
type StoredMenu struct {
	ID        int               `json:"id"`
	Vendor    *string           `json:"vendor"`
	Currency  *string           `json:"currency"`
	Items     []schema.MenuItem `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
}

// Summary is the list view of a stored menu (no items)
type Summary struct {
	ID        int       `json:"id"`
	Vendor    *string   `json:"vendor"`
	Currency  *string   `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}
