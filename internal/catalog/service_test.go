package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/camachodev/courtfile/pkg/flatfile"
)

const (
	ownerEmail    = "x@y.com"
	intruderEmail = "z@y.com"
)

func TestCreateAndGet(test *testing.T) {
	test.Parallel()
	service := newTestService(test)

	created, err := service.Create(context.Background(), ownerEmail, CreateInput{
		Name:        "Raqueta Pro",
		Description: "Grafito, 300g",
		Price:       129.99,
		Category:    "deportes",
		Stock:       5,
	})
	if err != nil {
		test.Fatalf("create: %v", err)
	}
	if len(created.ID) != 8 {
		test.Fatalf("expected 8-char id, got %q", created.ID)
	}

	fetched, err := service.Get(context.Background(), created.ID, ownerEmail)
	if err != nil {
		test.Fatalf("get: %v", err)
	}
	if fetched.Price != 129.99 || fetched.Stock != 5 || fetched.Name != "Raqueta Pro" {
		test.Fatalf("round trip lost data: %+v", fetched)
	}
}

func TestCreateValidation(test *testing.T) {
	test.Parallel()
	service := newTestService(test)

	_, err := service.Create(context.Background(), ownerEmail, CreateInput{Name: "", Price: 10, Stock: 1})
	if !errors.Is(err, ErrInvalidProduct) {
		test.Fatalf("expected ErrInvalidProduct for empty name, got %v", err)
	}
	_, err = service.Create(context.Background(), ownerEmail, CreateInput{Name: "x", Price: 0, Stock: 1})
	if !errors.Is(err, ErrInvalidProduct) {
		test.Fatalf("expected ErrInvalidProduct for zero price, got %v", err)
	}
	_, err = service.Create(context.Background(), ownerEmail, CreateInput{Name: "x", Price: 10, Stock: -1})
	if !errors.Is(err, ErrInvalidProduct) {
		test.Fatalf("expected ErrInvalidProduct for negative stock, got %v", err)
	}
}

func TestListForOwnerIsScoped(test *testing.T) {
	test.Parallel()
	service := newTestService(test)
	mustCreate(test, service, ownerEmail, "Raqueta")
	mustCreate(test, service, ownerEmail, "Pelotas")
	mustCreate(test, service, intruderEmail, "Red")

	mine, err := service.ListForOwner(context.Background(), ownerEmail)
	if err != nil {
		test.Fatalf("list: %v", err)
	}
	if len(mine) != 2 {
		test.Fatalf("expected 2 products, got %d", len(mine))
	}
	for _, product := range mine {
		if product.OwnerEmail != ownerEmail {
			test.Fatalf("foreign product in listing: %+v", product)
		}
	}
}

func TestUpdateAppliesPartialPatch(test *testing.T) {
	test.Parallel()
	service := newTestService(test)
	created := mustCreate(test, service, ownerEmail, "Raqueta")

	newPrice := 99.5
	newStock := 2
	updated, err := service.Update(context.Background(), created.ID, ownerEmail, Patch{Price: &newPrice, Stock: &newStock})
	if err != nil {
		test.Fatalf("update: %v", err)
	}
	if updated.Price != newPrice || updated.Stock != newStock {
		test.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Name != created.Name || updated.Description != created.Description {
		test.Fatalf("untouched fields changed: %+v", updated)
	}

	fetched, err := service.Get(context.Background(), created.ID, ownerEmail)
	if err != nil {
		test.Fatalf("get: %v", err)
	}
	if fetched.Price != newPrice {
		test.Fatalf("update not persisted: %+v", fetched)
	}
}

func TestUpdateRejectsBadPatchValues(test *testing.T) {
	test.Parallel()
	service := newTestService(test)
	created := mustCreate(test, service, ownerEmail, "Raqueta")

	badPrice := -1.0
	_, err := service.Update(context.Background(), created.ID, ownerEmail, Patch{Price: &badPrice})
	if !errors.Is(err, ErrInvalidProduct) {
		test.Fatalf("expected ErrInvalidProduct, got %v", err)
	}
}

func TestTenantIsolation(test *testing.T) {
	test.Parallel()
	service := newTestService(test)
	created := mustCreate(test, service, ownerEmail, "Raqueta")

	if _, err := service.Get(context.Background(), created.ID, intruderEmail); !errors.Is(err, ErrProductNotFound) {
		test.Fatalf("cross-tenant get must be not-found, got %v", err)
	}

	newName := "Hijacked"
	if _, err := service.Update(context.Background(), created.ID, intruderEmail, Patch{Name: &newName}); !errors.Is(err, ErrProductNotFound) {
		test.Fatalf("cross-tenant update must be not-found, got %v", err)
	}
	if err := service.Delete(context.Background(), created.ID, intruderEmail); !errors.Is(err, ErrProductNotFound) {
		test.Fatalf("cross-tenant delete must be not-found, got %v", err)
	}

	fetched, err := service.Get(context.Background(), created.ID, ownerEmail)
	if err != nil {
		test.Fatalf("owner get after attack: %v", err)
	}
	if fetched.Name != created.Name {
		test.Fatalf("row mutated by cross-tenant attempt: %+v", fetched)
	}
}

func TestDeleteDropsRow(test *testing.T) {
	test.Parallel()
	service := newTestService(test)
	keep := mustCreate(test, service, ownerEmail, "Raqueta")
	drop := mustCreate(test, service, ownerEmail, "Pelotas")

	if err := service.Delete(context.Background(), drop.ID, ownerEmail); err != nil {
		test.Fatalf("delete: %v", err)
	}
	if err := service.Delete(context.Background(), drop.ID, ownerEmail); !errors.Is(err, ErrProductNotFound) {
		test.Fatalf("second delete must be not-found, got %v", err)
	}

	remaining, err := service.ListForOwner(context.Background(), ownerEmail)
	if err != nil {
		test.Fatalf("list: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != keep.ID {
		test.Fatalf("unexpected survivors: %+v", remaining)
	}
}

func newTestService(test *testing.T) *Service {
	test.Helper()
	store, err := flatfile.NewStore(flatfile.Config{
		Path:   filepath.Join(test.TempDir(), "products.csv"),
		Schema: ProductSchema,
	})
	if err != nil {
		test.Fatalf("products store: %v", err)
	}
	service, err := NewService(store, func() time.Time {
		return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	})
	if err != nil {
		test.Fatalf("new service: %v", err)
	}
	return service
}

func mustCreate(test *testing.T, service *Service, email string, name string) Product {
	test.Helper()
	product, err := service.Create(context.Background(), email, CreateInput{
		Name:        name,
		Description: "desc",
		Price:       50,
		Category:    "deportes",
		Stock:       3,
	})
	if err != nil {
		test.Fatalf("create %s: %v", name, err)
	}
	return product
}
