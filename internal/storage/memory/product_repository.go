package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

// productRepositoryInMemory - in-memory реализация ProductRepository.
// Порядок выдачи совпадает с порядком вставки, как "естественный" порядок таблицы.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	order []string
	items map[string]domain.Product
	refs  *References
}

// NewProductRepository возвращает in-memory репозиторий продуктов.
// refs используется для проверки ссылочной целостности при удалении; может быть nil.
func NewProductRepository(refs *References) domain.ProductRepository {
	if refs == nil {
		refs = NewReferences()
	}
	return &productRepositoryInMemory{
		items: make(map[string]domain.Product),
		refs:  refs,
	}
}

func (r *productRepositoryInMemory) Find(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Product, 0)
	for _, id := range r.order {
		product := r.items[id]
		if filter.Match(product) {
			matched = append(matched, product)
		}
	}

	return domain.Page(matched, filter.Skip, filter.Take), nil
}

// Save вставляет или перезаписывает продукт, соблюдая уникальность (company_id, name).
func (r *productRepositoryInMemory) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.items[product.ID]
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	// Новая запись активна по умолчанию, как DEFAULT true в схеме;
	// у существующей признак active не меняется.
	product.Active = !exists || stored.Active

	for id, other := range r.items {
		if id != product.ID && other.CompanyID == product.CompanyID && other.Name == product.Name {
			return domain.Product{}, domain.ErrUniqueViolation
		}
	}

	if !exists {
		r.order = append(r.order, product.ID)
	}
	r.items[product.ID] = product
	r.refs.setProductOwner(product.ID, product.CompanyID)
	return product, nil
}

func (r *productRepositoryInMemory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return nil
	}
	if r.refs.productInUse(id) {
		return domain.ErrForeignKeyViolation
	}

	delete(r.items, id)
	for i, current := range r.order {
		if current == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.refs.dropProduct(id)
	return nil
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
