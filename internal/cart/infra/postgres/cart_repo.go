package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/storefront-labs/shopcart/internal/cart/app"
	"github.com/storefront-labs/shopcart/internal/cart/domain"
)

type CartRepo struct {
	db *pgxpool.Pool
}

func NewCartRepo(db *pgxpool.Pool) *CartRepo {
	return &CartRepo{db: db}
}

func (r *CartRepo) FindByUser(ctx context.Context, userID string) (domain.Cart, error) {
	var version int64
	err := r.db.QueryRow(ctx,
		`SELECT version FROM carts WHERE user_id = $1`, userID,
	).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Cart{}, app.ErrCartNotFound
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("query cart: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT product_id, quantity, unit_price::text
		FROM cart_lines
		WHERE user_id = $1
		ORDER BY position
	`, userID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	cart := domain.Cart{UserID: userID, Version: version}
	for rows.Next() {
		var (
			line  domain.Line
			price string
		)
		if err := rows.Scan(&line.ProductID, &line.Quantity, &price); err != nil {
			return domain.Cart{}, fmt.Errorf("scan cart line: %w", err)
		}
		line.UnitPrice, err = decimal.NewFromString(price)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("parse unit price: %w", err)
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("iterate cart lines: %w", err)
	}

	return cart, nil
}

// Save compares the cart's version against the stored one and swaps
// the whole cart atomically. Version 0 means the cart was never
// persisted; an existing row then counts as a conflict too.
func (r *CartRepo) Save(ctx context.Context, cart *domain.Cart) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save cart: %w", err)
	}
	defer tx.Rollback(ctx)

	if cart.Version == 0 {
		tag, err := tx.Exec(ctx, `
			INSERT INTO carts (user_id, version)
			VALUES ($1, 1)
			ON CONFLICT (user_id) DO NOTHING
		`, cart.UserID)
		if err != nil {
			return fmt.Errorf("insert cart: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return app.ErrConflict
		}
	} else {
		tag, err := tx.Exec(ctx, `
			UPDATE carts
			SET version = version + 1, updated_at = NOW()
			WHERE user_id = $1 AND version = $2
		`, cart.UserID, cart.Version)
		if err != nil {
			return fmt.Errorf("update cart version: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return app.ErrConflict
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE user_id = $1`, cart.UserID); err != nil {
		return fmt.Errorf("clear cart lines: %w", err)
	}
	for i, line := range cart.Lines {
		_, err := tx.Exec(ctx, `
			INSERT INTO cart_lines (user_id, position, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)
		`, cart.UserID, i, line.ProductID, line.Quantity, line.UnitPrice.String())
		if err != nil {
			return fmt.Errorf("insert cart line: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save cart: %w", err)
	}

	cart.Version++
	return nil
}
