package catalog

import (
	"context"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

// ProductSearchEngine переводит параметры поиска в фильтр хранилища.
//
// Приоритет: Search, затем SearchList, затем "все продукты компании".
// Токен Search в формате UUID ищется по id без учёта компании.
// Пустой результат ошибкой не считается.
type ProductSearchEngine struct {
	products     domain.ProductRepository
	defaultLimit int
}

// NewProductSearchEngine создаёт движок поиска продуктов.
func NewProductSearchEngine(products domain.ProductRepository, defaultLimit int) *ProductSearchEngine {
	return &ProductSearchEngine{products: products, defaultLimit: defaultLimit}
}

// Find выполняет поиск активных продуктов.
func (e *ProductSearchEngine) Find(ctx context.Context, pagination domain.Pagination, input domain.SearchInput, companyID string) ([]domain.Product, error) {
	return e.products.Find(ctx, e.Filter(pagination, input, companyID))
}

// Filter строит фильтр без обращения к хранилищу.
func (e *ProductSearchEngine) Filter(pagination domain.Pagination, input domain.SearchInput, companyID string) domain.ProductFilter {
	page := pagination.Normalize(e.defaultLimit)
	filter := domain.ProductFilter{
		ActiveOnly: true,
		Skip:       page.Skip(),
		Take:       page.Take(),
	}

	switch {
	case input.HasSearch() && domain.LooksLikeID(input.Search):
		filter.ID = input.Search
	case input.HasSearch():
		filter.CompanyID = companyID
		filter.NameContains = input.Search
	case input.HasSearchList():
		filter.CompanyID = companyID
		filter.Names = normalizeNames(input.SearchList)
	default:
		filter.CompanyID = companyID
	}
	return filter
}

// CompanySearchEngine - тот же разбор параметров для компаний, без привязки к владельцу.
type CompanySearchEngine struct {
	companies    domain.CompanyRepository
	defaultLimit int
}

// NewCompanySearchEngine создаёт движок поиска компаний.
func NewCompanySearchEngine(companies domain.CompanyRepository, defaultLimit int) *CompanySearchEngine {
	return &CompanySearchEngine{companies: companies, defaultLimit: defaultLimit}
}

// Find выполняет поиск активных компаний.
func (e *CompanySearchEngine) Find(ctx context.Context, pagination domain.Pagination, input domain.SearchInput) ([]domain.Company, error) {
	return e.companies.Find(ctx, e.Filter(pagination, input))
}

// Filter строит фильтр без обращения к хранилищу.
func (e *CompanySearchEngine) Filter(pagination domain.Pagination, input domain.SearchInput) domain.CompanyFilter {
	page := pagination.Normalize(e.defaultLimit)
	filter := domain.CompanyFilter{
		ActiveOnly: true,
		Skip:       page.Skip(),
		Take:       page.Take(),
	}

	switch {
	case input.HasSearch() && domain.LooksLikeID(input.Search):
		filter.ID = input.Search
	case input.HasSearch():
		filter.NameContains = input.Search
	case input.HasSearchList():
		filter.Names = normalizeNames(input.SearchList)
	}
	return filter
}

// Имена хранятся в верхнем регистре, поэтому точное сравнение идёт по нормализованным значениям.
func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, domain.NormalizeName(name))
	}
	return out
}
