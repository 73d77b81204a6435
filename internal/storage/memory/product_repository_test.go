package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
	"github.com/vladislavdragonenkov/siproad-orders/internal/storage/memory"
)

const (
	companyA = "6f1c8a52-3c1e-4d38-9d8e-0a9d3f1b2c01"
	companyB = "6f1c8a52-3c1e-4d38-9d8e-0a9d3f1b2c02"
)

func TestProductRepository_SaveGeneratesIDAndActivates(t *testing.T) {
	repo := memory.NewProductRepository(nil)
	ctx := context.Background()

	saved, err := repo.Save(ctx, domain.Product{Name: "WIDGET", Price: 9.99, CompanyID: companyA})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !domain.LooksLikeID(saved.ID) {
		t.Fatalf("expected generated uuid, got %q", saved.ID)
	}
	if !saved.Active {
		t.Fatal("new product must be active")
	}

	found, err := repo.Find(ctx, domain.ProductFilter{ID: saved.ID, ActiveOnly: true})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(found) != 1 || found[0].Name != "WIDGET" {
		t.Fatalf("unexpected find result: %+v", found)
	}
}

func TestProductRepository_UniqueNamePerCompany(t *testing.T) {
	repo := memory.NewProductRepository(nil)
	ctx := context.Background()

	if _, err := repo.Save(ctx, domain.Product{Name: "WIDGET", CompanyID: companyA}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := repo.Save(ctx, domain.Product{Name: "WIDGET", CompanyID: companyB}); err != nil {
		t.Fatalf("same name in another company must be allowed: %v", err)
	}
	if _, err := repo.Save(ctx, domain.Product{Name: "WIDGET", CompanyID: companyA}); !errors.Is(err, domain.ErrUniqueViolation) {
		t.Fatalf("expected ErrUniqueViolation, got %v", err)
	}
}

func TestProductRepository_FindFiltersAndPages(t *testing.T) {
	repo := memory.NewProductRepository(nil)
	ctx := context.Background()

	for _, name := range []string{"ALPHA", "BETA", "ALPINE", "GAMMA"} {
		if _, err := repo.Save(ctx, domain.Product{Name: name, CompanyID: companyA}); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}
	if _, err := repo.Save(ctx, domain.Product{Name: "ALPHA", CompanyID: companyB}); err != nil {
		t.Fatalf("save foreign: %v", err)
	}

	tests := []struct {
		name   string
		filter domain.ProductFilter
		want   []string
	}{
		{
			name:   "contains within company",
			filter: domain.ProductFilter{CompanyID: companyA, NameContains: "ALP", ActiveOnly: true},
			want:   []string{"ALPHA", "ALPINE"},
		},
		{
			name:   "contains is case sensitive",
			filter: domain.ProductFilter{CompanyID: companyA, NameContains: "alp", ActiveOnly: true},
			want:   nil,
		},
		{
			name:   "names within company",
			filter: domain.ProductFilter{CompanyID: companyA, Names: []string{"BETA", "GAMMA"}, ActiveOnly: true},
			want:   []string{"BETA", "GAMMA"},
		},
		{
			name:   "second page",
			filter: domain.ProductFilter{CompanyID: companyA, ActiveOnly: true, Skip: 2, Take: 2},
			want:   []string{"ALPINE", "GAMMA"},
		},
		{
			name:   "skip past end",
			filter: domain.ProductFilter{CompanyID: companyA, ActiveOnly: true, Skip: 10, Take: 2},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Find(ctx, tt.filter)
			if err != nil {
				t.Fatalf("find failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d products, got %d (%+v)", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i].Name != tt.want[i] {
					t.Fatalf("position %d: expected %s, got %s", i, tt.want[i], got[i].Name)
				}
			}
		})
	}
}

func TestProductRepository_InactiveHidden(t *testing.T) {
	repo := memory.NewProductRepository(nil)
	ctx := context.Background()

	saved, err := repo.Save(ctx, domain.Product{Name: "OLD", CompanyID: companyA})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !memory.Deactivate(repo, saved.ID) {
		t.Fatalf("deactivate failed for %s", saved.ID)
	}

	found, err := repo.Find(ctx, domain.ProductFilter{ID: saved.ID, ActiveOnly: true})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("inactive product must be hidden, got %+v", found)
	}
}

func TestProductRepository_SaveKeepsActiveFlag(t *testing.T) {
	repo := memory.NewProductRepository(nil)
	ctx := context.Background()

	saved, err := repo.Save(ctx, domain.Product{Name: "OLD", CompanyID: companyA})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	saved.Active = false
	updated, err := repo.Save(ctx, saved)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.Active {
		t.Fatalf("save must not deactivate an active row, got %+v", updated)
	}

	if !memory.Deactivate(repo, saved.ID) {
		t.Fatalf("deactivate failed for %s", saved.ID)
	}
	updated, err = repo.Save(ctx, domain.Product{ID: saved.ID, Name: "NEW", CompanyID: companyA, Active: true})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if updated.Active || updated.Name != "NEW" {
		t.Fatalf("upsert must keep inactive row inactive, got %+v", updated)
	}

	found, err := repo.Find(ctx, domain.ProductFilter{ID: saved.ID, ActiveOnly: true})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("inactive product must stay hidden, got %+v", found)
	}
}

func TestDeactivateUnknownRow(t *testing.T) {
	if memory.Deactivate(memory.NewProductRepository(nil), "missing") {
		t.Fatal("unknown product must not be deactivated")
	}
	if memory.Deactivate(nil, "missing") {
		t.Fatal("nil repository must not be deactivated")
	}
}

func TestProductRepository_DeleteReferenced(t *testing.T) {
	refs := memory.NewReferences()
	repo := memory.NewProductRepository(refs)
	ctx := context.Background()

	saved, err := repo.Save(ctx, domain.Product{Name: "USED", CompanyID: companyA})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	refs.AttachOrderLine(saved.ID)

	if err := repo.Delete(ctx, saved.ID); !errors.Is(err, domain.ErrForeignKeyViolation) {
		t.Fatalf("expected ErrForeignKeyViolation, got %v", err)
	}

	refs.DetachOrderLine(saved.ID)
	if err := repo.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	found, err := repo.Find(ctx, domain.ProductFilter{ID: saved.ID})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(found) != 0 {
		t.Fatal("deleted product must be gone")
	}
}
