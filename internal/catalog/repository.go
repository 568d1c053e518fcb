package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"comandero/internal/domain"
)

var ErrNotFound = errors.New("product not found")

type RepositoryInterface interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error)
	Insert(ctx context.Context, p domain.Product) error
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository { return &Repository{db: db} }

const productColumns = `id, name, price, category, color, emoji`

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	var category *string
	err := row.Scan(&p.ID, &p.Name, &p.Price, &category, &p.Color, &p.Emoji)
	if err != nil {
		return domain.Product{}, err
	}
	if category != nil {
		c := domain.Category(*category)
		p.Category = &c
	}
	return p, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, ErrNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *Repository) Insert(ctx context.Context, p domain.Product) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, name, price, category, color, emoji, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
	`, p.ID, p.Name, p.Price, categoryArg(p), p.Color, p.Emoji)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, p domain.Product) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products SET name = $2, price = $3, category = $4, color = $5, emoji = $6
		WHERE id = $1
	`, p.ID, p.Name, p.Price, categoryArg(p), p.Color, p.Emoji)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func categoryArg(p domain.Product) any {
	if p.Category == nil {
		return nil
	}
	return string(*p.Category)
}
