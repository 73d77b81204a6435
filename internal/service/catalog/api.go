package catalog

import (
	"context"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

// ProductAPI - операции над продуктами, доступные транспортам.
type ProductAPI interface {
	UpdateProduct(ctx context.Context, dto domain.ProductDTO) (domain.ProductDTO, error)
	FindProducts(ctx context.Context, companyID string, pagination domain.Pagination, input domain.SearchInput) ([]domain.ProductDTO, error)
	FindOneProductByValue(ctx context.Context, companyID, value string) ([]domain.ProductDTO, error)
	RemoveProduct(ctx context.Context, id string) (string, error)
}

// CompanyAPI - операции над компаниями, доступные транспортам.
type CompanyAPI interface {
	UpdateCompany(ctx context.Context, dto domain.CompanyDTO) (domain.CompanyDTO, error)
	FindCompanies(ctx context.Context, pagination domain.Pagination, input domain.SearchInput) ([]domain.CompanyDTO, error)
	FindOneCompanyByValue(ctx context.Context, value string) ([]domain.CompanyDTO, error)
	RemoveCompany(ctx context.Context, id string) (string, error)
}

var (
	_ ProductAPI = (*ProductService)(nil)
	_ CompanyAPI = (*CompanyService)(nil)
)
