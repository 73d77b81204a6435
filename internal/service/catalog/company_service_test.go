package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
	"github.com/vladislavdragonenkov/siproad-orders/internal/service/catalog"
	"github.com/vladislavdragonenkov/siproad-orders/internal/storage/memory"
)

func TestUpdateCompany_CreateAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto := domain.CompanyDTO{Name: "Acme"}
	got, err := f.companyS.UpdateCompany(ctx, dto)
	require.NoError(t, err)
	require.Equal(t, dto, got)

	list, err := f.companyS.FindCompanies(ctx, domain.Pagination{}, domain.SearchInput{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "ACME", list[0].Name)

	_, err = f.companyS.UpdateCompany(ctx, domain.CompanyDTO{ID: list[0].ID, Name: "Acme Corp"})
	require.NoError(t, err)

	renamed, err := f.companyS.FindOneCompanyByValue(ctx, list[0].ID)
	require.NoError(t, err)
	require.Equal(t, []domain.CompanyDTO{{ID: list[0].ID, Name: "ACME CORP"}}, renamed)
}

func TestUpdateCompany_DuplicateNameAlreadyExists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.companyS.CreateCompany(ctx, domain.CompanyDTO{Name: "Acme"})
	require.NoError(t, err)

	_, err = f.companyS.UpdateCompany(ctx, domain.CompanyDTO{Name: "ACME"})
	require.True(t, domain.IsKind(err, domain.KindAlreadyExists))
	require.Equal(t, "company already exists, name=ACME", err.Error())
}

func TestUpdateCompany_UnknownIDFallsThroughToCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto := domain.CompanyDTO{ID: companyC1, Name: "Acme"}
	_, err := f.companyS.UpdateCompany(ctx, dto)
	require.NoError(t, err)
	_, err = f.companyS.UpdateCompany(ctx, dto)
	require.NoError(t, err)

	list, err := f.companyS.FindCompanies(ctx, domain.Pagination{}, domain.SearchInput{})
	require.NoError(t, err)
	require.Equal(t, []domain.CompanyDTO{{ID: companyC1, Name: "ACME"}}, list)
}

func TestUpdateCompany_FallbackKeepsInactiveRowInactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCompany(t, companyC1, "ACME")
	require.True(t, memory.Deactivate(f.companies, companyC1))

	_, err := f.companyS.UpdateCompany(ctx, domain.CompanyDTO{ID: companyC1, Name: "Acme Two"})
	require.NoError(t, err)

	stored, err := f.companies.Find(ctx, domain.CompanyFilter{ID: companyC1})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, "ACME TWO", stored[0].Name)
	require.False(t, stored[0].Active)
}

func TestUpdateCompany_InvalidDTO(t *testing.T) {
	f := newFixture(t)

	_, err := f.companyS.UpdateCompany(context.Background(), domain.CompanyDTO{ID: "x", Name: ""})
	require.True(t, domain.IsKind(err, domain.KindInvalidArgument))
	assert.Contains(t, err.Error(), "id must be a uuid")
	assert.Contains(t, err.Error(), "name is required")
}

func TestFindCompanies_SearchModes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Acme", "Globex", "Acme Labs"} {
		_, err := f.companyS.CreateCompany(ctx, domain.CompanyDTO{Name: name})
		require.NoError(t, err)
	}

	byToken, err := f.companyS.FindCompanies(ctx, domain.Pagination{}, domain.NewSearchInput("ACME"))
	require.NoError(t, err)
	require.Len(t, byToken, 2)

	byList, err := f.companyS.FindCompanies(ctx, domain.Pagination{}, domain.NewSearchListInput("globex"))
	require.NoError(t, err)
	require.Len(t, byList, 1)

	page, err := f.companyS.FindCompanies(ctx, domain.Pagination{Page: 2, Limit: 2}, domain.SearchInput{})
	require.NoError(t, err)
	require.Len(t, page, 1)

	_, err = f.companyS.FindCompanies(ctx, domain.Pagination{Page: 3, Limit: 2}, domain.SearchInput{})
	require.True(t, domain.IsKind(err, domain.KindNotFound))
	require.Equal(t, "companies not found", err.Error())

	_, err = f.companyS.FindOneCompanyByValue(ctx, "INITECH")
	require.True(t, domain.IsKind(err, domain.KindNotFound))
	require.Equal(t, "company not found, value=INITECH", err.Error())
}

func TestRemoveCompany(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCompany(t, companyC1, "ACME")
	f.seedCompany(t, companyC2, "GLOBEX")

	_, err := f.productS.CreateProduct(ctx, domain.ProductDTO{CompanyID: companyC1, Name: "Widget"})
	require.NoError(t, err)

	_, err = f.companyS.RemoveCompany(ctx, companyC1)
	require.True(t, domain.IsKind(err, domain.KindIsBeingUsed))
	require.Equal(t, "company is being used", err.Error())

	res, err := f.companyS.RemoveCompany(ctx, companyC2)
	require.NoError(t, err)
	require.Equal(t, catalog.Deleted, res)

	_, err = f.companyS.RemoveCompany(ctx, companyC2)
	require.True(t, domain.IsKind(err, domain.KindNotFound))

	_, err = f.companyS.RemoveCompany(ctx, "bad-id")
	require.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestCompanyService_EnqueuesChangeEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.companyS.UpdateCompany(ctx, domain.CompanyDTO{ID: companyC1, Name: "Acme"})
	require.NoError(t, err)
	_, err = f.companyS.RemoveCompany(ctx, companyC1)
	require.NoError(t, err)

	pending := f.outbox.AllPending()
	require.Len(t, pending, 2)
	require.Equal(t, domain.EventCompanyUpserted, pending[0].EventType)
	require.Equal(t, domain.AggregateCompany, pending[0].AggregateType)
	require.Equal(t, domain.EventCompanyDeleted, pending[1].EventType)
	require.JSONEq(t, `{"id":"`+companyC1+`"}`, string(pending[1].Payload))
}

func TestCompanyService_StoreErrorsAreInternal(t *testing.T) {
	svc := catalog.NewCompanyService(failingCompanies{err: errStoreDown})

	_, err := svc.FindCompanies(context.Background(), domain.Pagination{}, domain.SearchInput{})
	require.Equal(t, domain.KindInternal, domain.KindOf(err))
	require.ErrorIs(t, err, errStoreDown)
}
