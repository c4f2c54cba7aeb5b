package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/camachodev/courtfile/pkg/flatfile"
)

// Service owns the products store.
type Service struct {
	products *flatfile.Store
	nowFn    func() time.Time
}

// NewService wires a Service.
func NewService(products *flatfile.Store, now func() time.Time) (*Service, error) {
	if products == nil {
		return nil, fmt.Errorf("%w: store dependency is nil", ErrInvalidServiceConfig)
	}
	if now == nil {
		return nil, fmt.Errorf("%w: clock dependency is nil", ErrInvalidServiceConfig)
	}
	return &Service{products: products, nowFn: now}, nil
}

// CreateInput is the caller-supplied part of a new product.
type CreateInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Stock       int
}

// Create appends a new product owned by ownerEmail.
func (service *Service) Create(ctx context.Context, ownerEmail string, input CreateInput) (Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Product{}, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if input.Price <= 0 {
		return Product{}, fmt.Errorf("%w: price must be positive", ErrInvalidProduct)
	}
	if input.Stock < 0 {
		return Product{}, fmt.Errorf("%w: stock cannot be negative", ErrInvalidProduct)
	}
	product := Product{
		// Short ids, the format already present in existing product files.
		ID:          uuid.NewString()[:8],
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Stock:       input.Stock,
		OwnerEmail:  ownerEmail,
		CreatedAt:   service.nowFn().Format(time.RFC3339),
	}
	if err := service.products.Append(productToRow(product)); err != nil {
		return Product{}, err
	}
	return product, nil
}

// ListForOwner returns every product owned by ownerEmail.
func (service *Service) ListForOwner(ctx context.Context, ownerEmail string) ([]Product, error) {
	rows, err := service.products.Scan(func(row flatfile.Row) bool {
		return row["email"] == ownerEmail
	})
	if err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(rows))
	for _, row := range rows {
		product, decodeErr := productFromRow(row)
		if decodeErr != nil {
			return nil, decodeErr
		}
		products = append(products, product)
	}
	return products, nil
}

// Get returns the product matching both id and owner. A mismatch on either
// is a plain not-found; ownership never leaks across tenants.
func (service *Service) Get(ctx context.Context, productID string, ownerEmail string) (Product, error) {
	row, found, err := service.products.FindOne(ownedBy(productID, ownerEmail))
	if err != nil {
		return Product{}, err
	}
	if !found {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return productFromRow(row)
}

// Update applies a partial patch to the row matching id and owner.
func (service *Service) Update(ctx context.Context, productID string, ownerEmail string, patch Patch) (Product, error) {
	if patch.Price != nil && *patch.Price <= 0 {
		return Product{}, fmt.Errorf("%w: price must be positive", ErrInvalidProduct)
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return Product{}, fmt.Errorf("%w: stock cannot be negative", ErrInvalidProduct)
	}
	matches := ownedBy(productID, ownerEmail)
	var updated Product
	changed, err := service.products.RewriteAll(func(row flatfile.Row) (flatfile.Row, bool, error) {
		if !matches(row) {
			return row, true, nil
		}
		product, decodeErr := productFromRow(row)
		if decodeErr != nil {
			return nil, false, decodeErr
		}
		if patch.Name != nil {
			product.Name = *patch.Name
		}
		if patch.Description != nil {
			product.Description = *patch.Description
		}
		if patch.Price != nil {
			product.Price = *patch.Price
		}
		if patch.Category != nil {
			product.Category = *patch.Category
		}
		if patch.Stock != nil {
			product.Stock = *patch.Stock
		}
		updated = product
		return productToRow(product), true, nil
	})
	if err != nil {
		return Product{}, err
	}
	if changed == 0 && updated.ID == "" {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return updated, nil
}

// Delete drops the row matching id and owner from the rewritten file.
func (service *Service) Delete(ctx context.Context, productID string, ownerEmail string) error {
	matches := ownedBy(productID, ownerEmail)
	changed, err := service.products.RewriteAll(func(row flatfile.Row) (flatfile.Row, bool, error) {
		if matches(row) {
			return nil, false, nil
		}
		return row, true, nil
	})
	if err != nil {
		return err
	}
	if changed == 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return nil
}

func ownedBy(productID string, ownerEmail string) func(flatfile.Row) bool {
	return func(row flatfile.Row) bool {
		return row["id"] == productID && row["email"] == ownerEmail
	}
}
