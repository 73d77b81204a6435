package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
	"github.com/vladislavdragonenkov/siproad-orders/internal/metrics"
	"github.com/vladislavdragonenkov/siproad-orders/internal/service/catalog"
	"github.com/vladislavdragonenkov/siproad-orders/internal/storage/memory"
)

const (
	companyC1 = "0f8fad5b-d9cb-469f-a165-70867728950e"
	companyC2 = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	unknownID = "9b2b9d3a-8f11-4c2d-9c2e-2f4e1a6b7d10"
)

type fixture struct {
	refs      *memory.References
	companies domain.CompanyRepository
	products  domain.ProductRepository
	outbox    *memory.OutboxRepository
	metrics   *metrics.CatalogMetrics
	productS  *catalog.ProductService
	companyS  *catalog.CompanyService
}

func newFixture(t *testing.T, opts ...catalog.Option) *fixture {
	t.Helper()

	refs := memory.NewReferences()
	f := &fixture{
		refs:      refs,
		companies: memory.NewCompanyRepository(refs),
		products:  memory.NewProductRepository(refs),
		outbox:    memory.NewOutboxRepository(),
		metrics:   metrics.NewCatalogMetricsWithRegisterer(prometheus.NewRegistry()),
	}

	logger := log.New()
	logger.SetLevel(log.PanicLevel)

	base := []catalog.Option{
		catalog.WithLogger(log.NewEntry(logger)),
		catalog.WithOutbox(f.outbox),
		catalog.WithMetrics(f.metrics),
	}
	base = append(base, opts...)

	f.productS = catalog.NewProductService(f.products, f.companies, base...)
	f.companyS = catalog.NewCompanyService(f.companies, base...)
	return f
}

func (f *fixture) seedCompany(t *testing.T, id, name string) domain.Company {
	t.Helper()
	c, err := f.companies.Save(context.Background(), domain.Company{ID: id, Name: name, Active: true})
	require.NoError(t, err)
	return c
}

func (f *fixture) productsOf(t *testing.T, companyID string) []domain.Product {
	t.Helper()
	list, err := f.products.Find(context.Background(), domain.ProductFilter{CompanyID: companyID})
	require.NoError(t, err)
	return list
}

// failingProducts возвращает ошибку хранилища на любой вызов.
type failingProducts struct {
	err error
}

func (r failingProducts) Find(context.Context, domain.ProductFilter) ([]domain.Product, error) {
	return nil, r.err
}

func (r failingProducts) Save(context.Context, domain.Product) (domain.Product, error) {
	return domain.Product{}, r.err
}

func (r failingProducts) Delete(context.Context, string) error {
	return r.err
}

// recordingProducts запоминает последний фильтр.
type recordingProducts struct {
	domain.ProductRepository
	last domain.ProductFilter
}

func (r *recordingProducts) Find(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	r.last = filter
	return r.ProductRepository.Find(ctx, filter)
}

var errStoreDown = errors.New("connection refused")
