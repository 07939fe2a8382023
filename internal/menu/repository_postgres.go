package menu

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"menulens/internal/schema"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// ENSURE SCHEMA (IDEMPOTENT)
// --------------------------------------------------
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS menus (
			id SERIAL PRIMARY KEY,
			vendor TEXT NULL,
			currency TEXT NULL,
			items JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

// --------------------------------------------------
// INSERT MENU
// --------------------------------------------------
func (r *PostgresRepository) Insert(
	ctx context.Context,
	m *schema.Menu,
) (int, error) {

	itemsJSON, err := json.Marshal(m.Items)
	if err != nil {
		return 0, err
	}

	var id int
	err = r.db.QueryRow(ctx, `
		INSERT INTO menus (vendor, currency, items)
		VALUES ($1, $2, $3::jsonb)
		RETURNING id
	`, nullable(m.Vendor), nullable(m.Currency), string(itemsJSON)).Scan(&id)

	return id, err
}

// --------------------------------------------------
// LIST MENUS (NEWEST FIRST, NO ITEMS)
// --------------------------------------------------
func (r *PostgresRepository) List(
	ctx context.Context,
	limit int,
) ([]Summary, error) {

	rows, err := r.db.Query(ctx, `
		SELECT id, vendor, currency, created_at
		FROM menus
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]Summary, 0)

	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Vendor, &s.Currency, &s.CreatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// --------------------------------------------------
// GET SINGLE MENU
// --------------------------------------------------
func (r *PostgresRepository) Get(
	ctx context.Context,
	id int,
) (*StoredMenu, error) {

	var (
		stored    StoredMenu
		itemsJSON []byte
	)

	err := r.db.QueryRow(ctx, `
		SELECT id, vendor, currency, items, created_at
		FROM menus
		WHERE id = $1
		LIMIT 1
	`, id).Scan(
		&stored.ID,
		&stored.Vendor,
		&stored.Currency,
		&itemsJSON,
		&stored.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &stored.Items); err != nil {
		return nil, err
	}

	return &stored, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
