package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

// companyRepositoryInMemory - in-memory реализация CompanyRepository.
type companyRepositoryInMemory struct {
	mu    sync.RWMutex
	order []string
	items map[string]domain.Company
	refs  *References
}

// NewCompanyRepository возвращает in-memory репозиторий компаний.
func NewCompanyRepository(refs *References) domain.CompanyRepository {
	if refs == nil {
		refs = NewReferences()
	}
	return &companyRepositoryInMemory{
		items: make(map[string]domain.Company),
		refs:  refs,
	}
}

func (r *companyRepositoryInMemory) Find(ctx context.Context, filter domain.CompanyFilter) ([]domain.Company, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Company, 0)
	for _, id := range r.order {
		company := r.items[id]
		if filter.Match(company) {
			matched = append(matched, company)
		}
	}

	return domain.Page(matched, filter.Skip, filter.Take), nil
}

// Save вставляет или перезаписывает компанию; имя компании уникально глобально.
func (r *companyRepositoryInMemory) Save(ctx context.Context, company domain.Company) (domain.Company, error) {
	if err := ctx.Err(); err != nil {
		return domain.Company{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.items[company.ID]
	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	company.Active = !exists || stored.Active

	for id, other := range r.items {
		if id != company.ID && other.Name == company.Name {
			return domain.Company{}, domain.ErrUniqueViolation
		}
	}

	if !exists {
		r.order = append(r.order, company.ID)
	}
	r.items[company.ID] = company
	return company, nil
}

func (r *companyRepositoryInMemory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return nil
	}
	if r.refs.companyInUse(id) {
		return domain.ErrForeignKeyViolation
	}

	delete(r.items, id)
	for i, current := range r.order {
		if current == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

var _ domain.CompanyRepository = (*companyRepositoryInMemory)(nil)
