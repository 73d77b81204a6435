package catalog

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

// CompanyLookup находит активную компанию по идентификатору.
type CompanyLookup struct {
	companies domain.CompanyRepository
}

// NewCompanyLookup создаёт CompanyLookup поверх репозитория компаний.
func NewCompanyLookup(companies domain.CompanyRepository) *CompanyLookup {
	return &CompanyLookup{companies: companies}
}

// Resolve возвращает активную компанию с данным id или NotFound.
func (l *CompanyLookup) Resolve(ctx context.Context, companyID string) (domain.Company, error) {
	// Пустой id в фильтре означает "без ограничения", поэтому отсекаем его заранее.
	if companyID == "" {
		return domain.Company{}, domain.NotFound("company not found, id=%s", companyID)
	}
	list, err := l.companies.Find(ctx, domain.CompanyFilter{
		ID:         companyID,
		ActiveOnly: true,
		Take:       1,
	})
	if err != nil {
		return domain.Company{}, domain.Internal(fmt.Errorf("resolve company %s: %w", companyID, err))
	}
	if len(list) == 0 {
		return domain.Company{}, domain.NotFound("company not found, id=%s", companyID)
	}
	return list[0], nil
}
