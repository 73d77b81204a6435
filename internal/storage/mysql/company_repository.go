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

type companyRow struct {
	ID     string `db:"id"`
	Name   string `db:"name"`
	Active bool   `db:"active"`
}

func (r companyRow) toDomain() domain.Company {
	return domain.Company{ID: r.ID, Name: r.Name, Active: r.Active}
}

type companyRepository struct {
	db *sqlx.DB
}

// NewCompanyRepository создаёт MySQL-реализацию CompanyRepository.
func NewCompanyRepository(store *Store) domain.CompanyRepository {
	return &companyRepository{db: store.DB()}
}

func (r *companyRepository) Find(ctx context.Context, filter domain.CompanyFilter) ([]domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var where whereBuilder
	if filter.ActiveOnly {
		where.add("active = 1")
	}
	if filter.ID != "" {
		where.add("id = ?", filter.ID)
	}
	if filter.NameContains != "" {
		where.add("LOCATE(?, name) > 0", filter.NameContains)
	}
	if len(filter.Names) > 0 {
		where.add("name IN (?)", filter.Names)
	}

	query, args, err := where.build("SELECT id, name, active FROM ord_company", "created_at, id", filter.Skip, filter.Take)
	if err != nil {
		return nil, fmt.Errorf("build company query: %w", err)
	}

	var rows []companyRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}

	result := make([]domain.Company, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

func (r *companyRepository) Save(ctx context.Context, company domain.Company) (saved domain.Company, err error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if company.ID == "" {
		company.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Company{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var existing string
	err = tx.GetContext(ctx, &existing, `SELECT id FROM ord_company WHERE id = ? FOR UPDATE`, company.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO ord_company (id, name, active) VALUES (?, ?, 1)
		`, company.ID, company.Name); err != nil {
			return domain.Company{}, translateError("insert company", err)
		}
	case err != nil:
		return domain.Company{}, fmt.Errorf("lock company: %w", err)
	default:
		if _, err = tx.ExecContext(ctx, `
			UPDATE ord_company SET name = ? WHERE id = ?
		`, company.Name, company.ID); err != nil {
			return domain.Company{}, translateError("update company", err)
		}
	}

	var row companyRow
	if err = tx.GetContext(ctx, &row, `SELECT id, name, active FROM ord_company WHERE id = ?`, company.ID); err != nil {
		return domain.Company{}, fmt.Errorf("reload company: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return domain.Company{}, fmt.Errorf("commit save company: %w", err)
	}
	return row.toDomain(), nil
}

func (r *companyRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM ord_company WHERE id = ?`, id); err != nil {
		return translateError("delete company", err)
	}
	return nil
}

var _ domain.CompanyRepository = (*companyRepository)(nil)
