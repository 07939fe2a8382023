package menu

import (
	"context"
	"errors"

	"menulens/internal/schema"
)

// ErrNotFound distinguishes a missing id from a store failure
var ErrNotFound = errors.New("menu not found")

// Repository defines all database operations for stored menus
type Repository interface {

	// Idempotently create the menus table. Safe to call on every
	// request — a no-op once the table exists.
	EnsureSchema(ctx context.Context) error

	// Insert a validated menu and return its assigned id
	Insert(ctx context.Context, m *schema.Menu) (int, error)

	// Most-recently-created menus, newest first, without items
	List(ctx context.Context, limit int) ([]Summary, error)

	// Full record including items, or ErrNotFound
	Get(ctx context.Context, id int) (*StoredMenu, error)
}
