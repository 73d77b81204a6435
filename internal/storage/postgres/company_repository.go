package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

type companyRepository struct {
	db *sql.DB
}

// NewCompanyRepository создаёт PostgreSQL-реализацию CompanyRepository.
func NewCompanyRepository(store *Store) domain.CompanyRepository {
	return &companyRepository{db: store.DB()}
}

func (r *companyRepository) Find(ctx context.Context, filter domain.CompanyFilter) ([]domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var where whereBuilder
	if filter.ActiveOnly {
		where.addRaw("active = TRUE")
	}
	if filter.ID != "" {
		where.add("id::text = $%d", filter.ID)
	}
	if filter.NameContains != "" {
		where.add("strpos(name, $%d) > 0", filter.NameContains)
	}
	if len(filter.Names) > 0 {
		where.add("name = ANY($%d)", filter.Names)
	}
	clause, args := where.build("created_at, id", filter.Skip, filter.Take)

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, active FROM ord_company`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Company, 0)
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Active); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}

	return result, nil
}

func (r *companyRepository) Save(ctx context.Context, company domain.Company) (domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if company.ID == "" {
		company.ID = uuid.NewString()
	}

	var saved domain.Company
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO ord_company (id, name, active, created_at, updated_at)
		VALUES ($1, $2, TRUE, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			updated_at = NOW()
		RETURNING id, name, active
	`, company.ID, company.Name).Scan(&saved.ID, &saved.Name, &saved.Active)
	if err != nil {
		return domain.Company{}, translateError("save company", err)
	}

	return saved, nil
}

func (r *companyRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM ord_company WHERE id::text = $1`, id); err != nil {
		return translateError("delete company", err)
	}
	return nil
}

var _ domain.CompanyRepository = (*companyRepository)(nil)
