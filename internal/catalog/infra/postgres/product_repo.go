package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/storefront-labs/shopcart/internal/catalog/app"
	"github.com/storefront-labs/shopcart/internal/catalog/domain"
)

type ProductRepo struct {
	db *pgxpool.Pool
}

func NewProductRepo(db *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, price::text, stock_quantity, active, version
		FROM products
		WHERE id = $1
	`, id)

	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("query product: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, price::text, stock_quantity, active, version
		FROM products
		WHERE active
	`)
	if err != nil {
		return nil, fmt.Errorf("query active products: %w", err)
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

func (r *ProductRepo) Save(ctx context.Context, p *domain.Product) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = $2, price = $3, stock_quantity = $4, active = $5,
		    version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $6
	`, p.ID, p.Name, p.Price.String(), p.StockQuantity, p.Active, p.Version)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return app.ErrConflict
	}

	p.Version++
	return nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p     domain.Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &price, &p.StockQuantity, &p.Active, &p.Version); err != nil {
		return domain.Product{}, err
	}

	var err error
	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("parse price: %w", err)
	}
	return p, nil
}
