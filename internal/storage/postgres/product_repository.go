package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Find(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var where whereBuilder
	if filter.ActiveOnly {
		where.addRaw("active = TRUE")
	}
	if filter.ID != "" {
		where.add("id::text = $%d", filter.ID)
	}
	if filter.CompanyID != "" {
		where.add("company_id::text = $%d", filter.CompanyID)
	}
	if filter.NameContains != "" {
		// strpos вместо LIKE: токен ищется буквально, без спецсимволов шаблона.
		where.add("strpos(name, $%d) > 0", filter.NameContains)
	}
	if len(filter.Names) > 0 {
		where.add("name = ANY($%d)", filter.Names)
	}
	clause, args := where.build("created_at, id", filter.Skip, filter.Take)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, company_id, name, price, active
		FROM ord_product`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Price, &p.Active); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return result, nil
}

// Save вставляет продукт или обновляет существующий с тем же id.
// Новая строка всегда активна.
func (r *productRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	// Признак active пишется только при вставке, обновление его не трогает.
	var saved domain.Product
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO ord_product (id, company_id, name, price, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, TRUE, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			company_id = EXCLUDED.company_id,
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			updated_at = NOW()
		RETURNING id, company_id, name, price, active
	`,
		product.ID, product.CompanyID, product.Name, product.Price,
	).Scan(&saved.ID, &saved.CompanyID, &saved.Name, &saved.Price, &saved.Active)
	if err != nil {
		return domain.Product{}, translateError("save product", err)
	}

	return saved, nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM ord_product WHERE id::text = $1`, id); err != nil {
		return translateError("delete product", err)
	}
	return nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
