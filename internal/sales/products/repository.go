package products

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/protorq/protorq/internal/platform/httpx"
)

var ErrNotFound = httpx.Errorf(httpx.ErrNotFound, "Product not found")

type Repository interface {
	Create(ctx context.Context, product *Product) error
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db dbtx
}

func NewRepository(db dbtx) Repository {
	return &repository{db: db}
}

const productColumns = "id, product_name, product_description, price::text, category, created_at, updated_at"

var updatable = map[string]string{
	"product_name":        "product_name",
	"product_description": "product_description",
	"price":               "price",
	"category":            "category",
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("products: new id: %w", err)
	}
	err = r.db.QueryRow(ctx, `
		INSERT INTO products (id, product_name, product_description, price, category)
		VALUES ($1, $2, $3, $4::numeric, $5)
		RETURNING created_at, updated_at`,
		id, p.ProductName, p.ProductDescription, p.Price.String(), string(p.Category),
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("products: insert: %w", err)
	}
	p.ID = id.String()
	return nil
}

func (r *repository) Get(ctx context.Context, id string) (*Product, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	p, err := scanProduct(r.db.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("products: get %s: %w", id, err)
	}
	return p, nil
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.Query(ctx, "SELECT "+productColumns+" FROM products ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("products: list: %w", err)
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("products: scan: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]any) error {
	key, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	query := "UPDATE products SET updated_at = NOW()"
	args := []any{key}
	argPos := 2

	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		column, ok := updatable[k]
		if !ok {
			continue
		}
		v := updates[k]
		if d, isDecimal := v.(decimal.Decimal); isDecimal {
			query += fmt.Sprintf(", %s = $%d::numeric", column, argPos)
			v = d.String()
		} else {
			query += fmt.Sprintf(", %s = $%d", column, argPos)
		}
		args = append(args, v)
		argPos++
	}
	query += " WHERE id = $1"

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("products: update %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	key, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	tag, err := r.db.Exec(ctx, "DELETE FROM products WHERE id = $1", key)
	if err != nil {
		return fmt.Errorf("products: delete %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var (
		p        Product
		id       uuid.UUID
		price    string
		category string
	)
	if err := row.Scan(&id, &p.ProductName, &p.ProductDescription, &price, &category, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("decode price: %w", err)
	}
	p.ID = id.String()
	p.Price = amount
	p.Category = Category(category)
	return &p, nil
}
