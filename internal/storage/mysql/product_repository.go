package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

type productRow struct {
	ID        string  `db:"id"`
	CompanyID string  `db:"company_id"`
	Name      string  `db:"name"`
	Price     float64 `db:"price"`
	Active    bool    `db:"active"`
}

func (r productRow) toDomain() domain.Product {
	return domain.Product{
		ID:        r.ID,
		CompanyID: r.CompanyID,
		Name:      r.Name,
		Price:     r.Price,
		Active:    r.Active,
	}
}

type productRepository struct {
	db *sqlx.DB
}

// NewProductRepository создаёт MySQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Find(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var where whereBuilder
	if filter.ActiveOnly {
		where.add("active = 1")
	}
	if filter.ID != "" {
		where.add("id = ?", filter.ID)
	}
	if filter.CompanyID != "" {
		where.add("company_id = ?", filter.CompanyID)
	}
	if filter.NameContains != "" {
		where.add("LOCATE(?, name) > 0", filter.NameContains)
	}
	if len(filter.Names) > 0 {
		where.add("name IN (?)", filter.Names)
	}

	query, args, err := where.build(
		"SELECT id, company_id, name, price, active FROM ord_product",
		"created_at, id", filter.Skip, filter.Take,
	)
	if err != nil {
		return nil, fmt.Errorf("build product query: %w", err)
	}

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	result := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

// Save вставляет продукт или обновляет существующий с тем же id.
// ON DUPLICATE KEY здесь не подходит: он сработал бы и на уникальном
// индексе (company_id, name) и перезаписал бы чужую строку.
func (r *productRepository) Save(ctx context.Context, product domain.Product) (saved domain.Product, err error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Product{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var existing string
	err = tx.GetContext(ctx, &existing, `SELECT id FROM ord_product WHERE id = ? FOR UPDATE`, product.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, `
			INSERT INTO ord_product (id, company_id, name, price, active)
			VALUES (?, ?, ?, ?, 1)
		`, product.ID, product.CompanyID, product.Name, product.Price)
		if err != nil {
			return domain.Product{}, translateError("insert product", err)
		}
	case err != nil:
		return domain.Product{}, fmt.Errorf("lock product: %w", err)
	default:
		_, err = tx.ExecContext(ctx, `
			UPDATE ord_product SET company_id = ?, name = ?, price = ?
			WHERE id = ?
		`, product.CompanyID, product.Name, product.Price, product.ID)
		if err != nil {
			return domain.Product{}, translateError("update product", err)
		}
	}

	var row productRow
	if err = tx.GetContext(ctx, &row, `
		SELECT id, company_id, name, price, active FROM ord_product WHERE id = ?
	`, product.ID); err != nil {
		return domain.Product{}, fmt.Errorf("reload product: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return domain.Product{}, fmt.Errorf("commit save product: %w", err)
	}
	return row.toDomain(), nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM ord_product WHERE id = ?`, id); err != nil {
		return translateError("delete product", err)
	}
	return nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
