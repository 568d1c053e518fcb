package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"comandero/internal/domain"
)

var ErrNotFound = errors.New("order not found")

// Patch is a partial order update. Nil fields are left untouched.
type Patch struct {
	Items         *domain.Items
	DrinksReadyAt *time.Time
	FoodReadyAt   *time.Time
	PaidAt        *time.Time
	CancelledAt   *time.Time
}

type RepositoryInterface interface {
	ActiveOrders(ctx context.Context) ([]domain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error)
	Create(ctx context.Context, o domain.Order) (domain.Order, error)
	UpdateItems(ctx context.Context, id uuid.UUID, items domain.Items) (old, updated domain.Order, err error)
	Update(ctx context.Context, id uuid.UUID, p Patch) (old, updated domain.Order, err error)
	ApplyEvent(ctx context.Context, id uuid.UUID, kind domain.EventKind) (old, updated domain.Order, changed bool, err error)
	Delete(ctx context.Context, id uuid.UUID) (domain.Order, error)
}

// Repository persists orders in Postgres. Line items live in a JSONB
// column as product snapshots, so later catalog edits never rewrite what
// a table actually ordered.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository { return &Repository{db: db} }

const orderColumns = `id, table_number, created_by, items, drinks_ready_at, food_ready_at, paid_at, cancelled_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.TableNumber, &o.CreatedBy, &o.Items,
		&o.DrinksReadyAt, &o.FoodReadyAt, &o.PaidAt, &o.CancelledAt,
		&o.CreatedAt,
	)
	return o, err
}

// ActiveOrders returns every order with neither terminal timestamp set,
// oldest first, so the longest-waiting table is served first.
func (r *Repository) ActiveOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE paid_at IS NULL AND cancelled_at IS NULL
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query active orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, ErrNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// Create inserts the order, stamping created_at server-side.
func (r *Repository) Create(ctx context.Context, o domain.Order) (domain.Order, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO orders (id, table_number, created_by, items, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING created_at
	`, o.ID, o.TableNumber, o.CreatedBy, o.Items).Scan(&o.CreatedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

// UpdateItems replaces the whole item list under a row lock. Whole-list
// replacement is deliberate: concurrent edits are last-writer-wins.
func (r *Repository) UpdateItems(ctx context.Context, id uuid.UUID, items domain.Items) (domain.Order, domain.Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Order{}, domain.Order{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	old, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.Order{}, ErrNotFound
	}
	if err != nil {
		return domain.Order{}, domain.Order{}, fmt.Errorf("lock order: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET items = $2 WHERE id = $1`, id, items); err != nil {
		return domain.Order{}, domain.Order{}, fmt.Errorf("update items: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, domain.Order{}, fmt.Errorf("commit: %w", err)
	}

	updated := old
	updated.Items = items
	return old, updated, nil
}

var eventColumn = map[domain.EventKind]string{
	domain.EventDrinksReady: "drinks_ready_at",
	domain.EventFoodReady:   "food_ready_at",
	domain.EventPaid:        "paid_at",
	domain.EventCancelled:   "cancelled_at",
}

// ApplyEvent runs a lifecycle transition under a row lock: read the
// current row, let the state machine decide, and write only the single
// stamped column. changed=false with a nil error is the idempotent no-op.
func (r *Repository) ApplyEvent(ctx context.Context, id uuid.UUID, kind domain.EventKind) (domain.Order, domain.Order, bool, error) {
	column, ok := eventColumn[kind]
	if !ok {
		return domain.Order{}, domain.Order{}, false, fmt.Errorf("unknown event kind %q", kind)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Order{}, domain.Order{}, false, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	old, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.Order{}, false, ErrNotFound
	}
	if err != nil {
		return domain.Order{}, domain.Order{}, false, fmt.Errorf("lock order: %w", err)
	}

	updated := old
	changed, err := domain.Apply(&updated, kind, time.Now().UTC())
	if err != nil {
		return old, old, false, err
	}
	if !changed {
		return old, old, false, tx.Commit(ctx)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE orders SET `+column+` = $2 WHERE id = $1`,
		id, timestampFor(updated, kind),
	); err != nil {
		return domain.Order{}, domain.Order{}, false, fmt.Errorf("stamp %s: %w", column, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, domain.Order{}, false, fmt.Errorf("commit: %w", err)
	}
	return old, updated, true, nil
}

func timestampFor(o domain.Order, kind domain.EventKind) *time.Time {
	switch kind {
	case domain.EventDrinksReady:
		return o.DrinksReadyAt
	case domain.EventFoodReady:
		return o.FoodReadyAt
	case domain.EventPaid:
		return o.PaidAt
	default:
		return o.CancelledAt
	}
}

// Delete hard-removes an order. Administrative correction only; the
// normal lifecycle closes orders through the cancelled timestamp.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	old, err := scanOrder(r.db.QueryRow(ctx, `
		DELETE FROM orders WHERE id = $1
		RETURNING `+orderColumns+`
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, ErrNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("delete order: %w", err)
	}
	return old, nil
}

// Update applies a partial patch under a row lock, returning the row
// before and after. Administrative correction path; normal lifecycle
// transitions go through ApplyEvent instead.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p Patch) (domain.Order, domain.Order, error) {
	sets := make([]string, 0, 5)
	args := []any{id}
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if p.Items != nil {
		add("items", *p.Items)
	}
	if p.DrinksReadyAt != nil {
		add("drinks_ready_at", *p.DrinksReadyAt)
	}
	if p.FoodReadyAt != nil {
		add("food_ready_at", *p.FoodReadyAt)
	}
	if p.PaidAt != nil {
		add("paid_at", *p.PaidAt)
	}
	if p.CancelledAt != nil {
		add("cancelled_at", *p.CancelledAt)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Order{}, domain.Order{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	old, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.Order{}, ErrNotFound
	}
	if err != nil {
		return domain.Order{}, domain.Order{}, fmt.Errorf("lock order: %w", err)
	}
	if len(sets) == 0 {
		return old, old, tx.Commit(ctx)
	}

	updated, err := scanOrder(tx.QueryRow(ctx, `
		UPDATE orders SET `+strings.Join(sets, ", ")+`
		WHERE id = $1
		RETURNING `+orderColumns, args...))
	if err != nil {
		return domain.Order{}, domain.Order{}, fmt.Errorf("update order: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, domain.Order{}, fmt.Errorf("commit: %w", err)
	}
	return old, updated, nil
}
