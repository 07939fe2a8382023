package menu

import (
	"context"
	"sync"
	"time"

	"menulens/internal/schema"
)

// InMemoryRepository backs tests; same contract as Postgres
type InMemoryRepository struct {
	mu     sync.Mutex
	menus  []StoredMenu
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) EnsureSchema(ctx context.Context) error {
	return nil
}

func (r *InMemoryRepository) Insert(
	ctx context.Context,
	m *schema.Menu,
) (int, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := StoredMenu{
		ID:        r.nextID,
		Vendor:    nullable(m.Vendor),
		Currency:  nullable(m.Currency),
		Items:     append([]schema.MenuItem(nil), m.Items...),
		CreatedAt: time.Now(),
	}

	r.nextID++
	r.menus = append(r.menus, stored)

	return stored.ID, nil
}

func (r *InMemoryRepository) List(
	ctx context.Context,
	limit int,
) ([]Summary, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	summaries := make([]Summary, 0)

	// insertion order is creation order, so walk backwards
	for i := len(r.menus) - 1; i >= 0 && len(summaries) < limit; i-- {
		m := r.menus[i]
		summaries = append(summaries, Summary{
			ID:        m.ID,
			Vendor:    m.Vendor,
			Currency:  m.Currency,
			CreatedAt: m.CreatedAt,
		})
	}

	return summaries, nil
}

func (r *InMemoryRepository) Get(
	ctx context.Context,
	id int,
) (*StoredMenu, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.menus {
		if m.ID == id {
			stored := m
			return &stored, nil
		}
	}

	return nil, ErrNotFound
}
