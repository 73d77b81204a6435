package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

func seedCompanyForIntegrationTest(t *testing.T, repo domain.CompanyRepository, name string) domain.Company {
	t.Helper()
	c, err := repo.Save(context.Background(), domain.Company{Name: name})
	if err != nil {
		t.Fatalf("save company %s: %v", name, err)
	}
	return c
}

func TestCompanyRepository_PostgresFlow(t *testing.T) {
	store := migratedPostgres(t)
	repo := NewCompanyRepository(store)
	ctx := context.Background()

	acme := seedCompanyForIntegrationTest(t, repo, "ACME")
	if !acme.Active || acme.ID == "" {
		t.Fatalf("expected active company with id, got %+v", acme)
	}
	seedCompanyForIntegrationTest(t, repo, "GLOBEX")

	if _, err := repo.Save(ctx, domain.Company{Name: "ACME"}); !errors.Is(err, domain.ErrUniqueViolation) {
		t.Fatalf("expected unique violation, got %v", err)
	}

	found, err := repo.Find(ctx, domain.CompanyFilter{NameContains: "OBE", ActiveOnly: true})
	if err != nil {
		t.Fatalf("find by substring: %v", err)
	}
	if len(found) != 1 || found[0].Name != "GLOBEX" {
		t.Fatalf("unexpected substring result: %+v", found)
	}

	found, err = repo.Find(ctx, domain.CompanyFilter{ID: acme.ID})
	if err != nil || len(found) != 1 {
		t.Fatalf("find by id: %v %+v", err, found)
	}

	if err := repo.Delete(ctx, acme.ID); err != nil {
		t.Fatalf("delete company: %v", err)
	}
	found, err = repo.Find(ctx, domain.CompanyFilter{})
	if err != nil || len(found) != 1 {
		t.Fatalf("expected one company after delete: %v %+v", err, found)
	}
}

func TestProductRepository_PostgresFlow(t *testing.T) {
	store := migratedPostgres(t)
	companies := NewCompanyRepository(store)
	repo := NewProductRepository(store)
	ctx := context.Background()

	acme := seedCompanyForIntegrationTest(t, companies, "ACME")
	globex := seedCompanyForIntegrationTest(t, companies, "GLOBEX")

	fixedID := uuid.NewString()
	widget, err := repo.Save(ctx, domain.Product{ID: fixedID, CompanyID: acme.ID, Name: "WIDGET", Price: 9.99})
	if err != nil {
		t.Fatalf("save widget: %v", err)
	}
	if widget.ID != fixedID || !widget.Active {
		t.Fatalf("unexpected saved product: %+v", widget)
	}

	if _, err := repo.Save(ctx, domain.Product{CompanyID: globex.ID, Name: "WIDGET"}); err != nil {
		t.Fatalf("same name in other company must be allowed: %v", err)
	}
	if _, err := repo.Save(ctx, domain.Product{CompanyID: acme.ID, Name: "WIDGET"}); !errors.Is(err, domain.ErrUniqueViolation) {
		t.Fatalf("expected unique violation, got %v", err)
	}
	if _, err := repo.Save(ctx, domain.Product{CompanyID: uuid.NewString(), Name: "ORPHAN"}); !errors.Is(err, domain.ErrForeignKeyViolation) {
		t.Fatalf("expected foreign key violation for unknown company, got %v", err)
	}

	widget.Price = 12.5
	widget.Name = "WIDGET PRO"
	updated, err := repo.Save(ctx, widget)
	if err != nil {
		t.Fatalf("update widget: %v", err)
	}
	if updated.ID != fixedID || updated.Price != 12.5 || updated.Name != "WIDGET PRO" {
		t.Fatalf("unexpected updated product: %+v", updated)
	}

	byID, err := repo.Find(ctx, domain.ProductFilter{ID: fixedID, ActiveOnly: true})
	if err != nil || len(byID) != 1 {
		t.Fatalf("find by id: %v %+v", err, byID)
	}

	byNames, err := repo.Find(ctx, domain.ProductFilter{CompanyID: acme.ID, Names: []string{"WIDGET PRO", "MISSING"}, ActiveOnly: true})
	if err != nil || len(byNames) != 1 {
		t.Fatalf("find by names: %v %+v", err, byNames)
	}

	bySubstring, err := repo.Find(ctx, domain.ProductFilter{NameContains: "GET%", ActiveOnly: true})
	if err != nil {
		t.Fatalf("find by substring: %v", err)
	}
	if len(bySubstring) != 0 {
		t.Fatalf("wildcards must be matched literally, got %+v", bySubstring)
	}
}

func TestRepositories_PostgresUpsertKeepsInactiveRow(t *testing.T) {
	store := migratedPostgres(t)
	companies := NewCompanyRepository(store)
	repo := NewProductRepository(store)
	ctx := context.Background()

	acme := seedCompanyForIntegrationTest(t, companies, "ACME")
	widget, err := repo.Save(ctx, domain.Product{CompanyID: acme.ID, Name: "WIDGET", Price: 1})
	if err != nil {
		t.Fatalf("save widget: %v", err)
	}
	if _, err := store.DB().ExecContext(ctx, `UPDATE ord_product SET active = FALSE WHERE id = $1`, widget.ID); err != nil {
		t.Fatalf("deactivate widget: %v", err)
	}
	if _, err := store.DB().ExecContext(ctx, `UPDATE ord_company SET active = FALSE WHERE id = $1`, acme.ID); err != nil {
		t.Fatalf("deactivate company: %v", err)
	}

	upserted, err := repo.Save(ctx, domain.Product{ID: widget.ID, CompanyID: acme.ID, Name: "WIDGET V2", Price: 2, Active: true})
	if err != nil {
		t.Fatalf("upsert widget: %v", err)
	}
	if upserted.Active || upserted.Name != "WIDGET V2" {
		t.Fatalf("upsert must keep inactive product inactive, got %+v", upserted)
	}

	company, err := companies.Save(ctx, domain.Company{ID: acme.ID, Name: "ACME", Active: true})
	if err != nil {
		t.Fatalf("upsert company: %v", err)
	}
	if company.Active {
		t.Fatalf("upsert must keep inactive company inactive, got %+v", company)
	}
}

func TestProductRepository_PostgresPagination(t *testing.T) {
	store := migratedPostgres(t)
	acme := seedCompanyForIntegrationTest(t, NewCompanyRepository(store), "ACME")
	repo := NewProductRepository(store)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		if _, err := repo.Save(ctx, domain.Product{CompanyID: acme.ID, Name: fmt.Sprintf("ITEM-%02d", i)}); err != nil {
			t.Fatalf("save item %d: %v", i, err)
		}
	}

	first, err := repo.Find(ctx, domain.ProductFilter{CompanyID: acme.ID, Skip: 0, Take: 10})
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	second, err := repo.Find(ctx, domain.ProductFilter{CompanyID: acme.ID, Skip: 10, Take: 10})
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(first) != 10 || len(second) != 5 {
		t.Fatalf("unexpected page sizes: %d, %d", len(first), len(second))
	}

	seen := make(map[string]bool)
	for _, p := range append(first, second...) {
		if seen[p.ID] {
			t.Fatalf("product %s returned on both pages", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestProductRepository_PostgresDeleteGuards(t *testing.T) {
	store := migratedPostgres(t)
	companies := NewCompanyRepository(store)
	repo := NewProductRepository(store)
	ctx := context.Background()

	acme := seedCompanyForIntegrationTest(t, companies, "ACME")
	used, err := repo.Save(ctx, domain.Product{CompanyID: acme.ID, Name: "USED"})
	if err != nil {
		t.Fatalf("save used: %v", err)
	}
	free, err := repo.Save(ctx, domain.Product{CompanyID: acme.ID, Name: "FREE"})
	if err != nil {
		t.Fatalf("save free: %v", err)
	}
	attachOrderLine(t, store, used.ID)

	if err := repo.Delete(ctx, used.ID); !errors.Is(err, domain.ErrForeignKeyViolation) {
		t.Fatalf("expected foreign key violation, got %v", err)
	}
	if err := companies.Delete(ctx, acme.ID); !errors.Is(err, domain.ErrForeignKeyViolation) {
		t.Fatalf("expected foreign key violation for company with products, got %v", err)
	}
	if err := repo.Delete(ctx, free.ID); err != nil {
		t.Fatalf("delete free product: %v", err)
	}
}
