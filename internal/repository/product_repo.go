package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/studiofoundry/storefront-service/internal/models"
)

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// ListProducts returns the catalog ordered by category, the order the shop
// page renders its sections in.
func (r *ProductRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	const query = `
		SELECT id, title, description, price, category, icon, created_at
		FROM products
		ORDER BY category ASC, title ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Category, &p.Icon, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return products, nil
}
