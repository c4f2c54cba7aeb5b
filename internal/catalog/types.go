package catalog

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/camachodev/courtfile/pkg/flatfile"
)

// ProductSchema is the persisted row layout of the products store.
var ProductSchema = flatfile.MustSchema("products", "id", "name", "description", "price", "category", "stock", "email", "created_at")

// Domain-level error values returned by the catalog service.
var (
	ErrInvalidProduct       = errors.New("invalid product")
	ErrProductNotFound      = errors.New("product not found")
	ErrInvalidServiceConfig = errors.New("invalid catalog service config")
)

// Product is one seller's catalog entry. OwnerEmail scopes every lookup and
// mutation; rows owned by other sellers are invisible to the caller.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	OwnerEmail  string  `json:"email"`
	CreatedAt   string  `json:"created_at"`
}

// Patch carries a partial update; nil fields keep the stored value.
type Patch struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock"`
}

func productToRow(product Product) flatfile.Row {
	return flatfile.Row{
		"id":          product.ID,
		"name":        product.Name,
		"description": product.Description,
		"price":       strconv.FormatFloat(product.Price, 'f', -1, 64),
		"category":    product.Category,
		"stock":       strconv.Itoa(product.Stock),
		"email":       product.OwnerEmail,
		"created_at":  product.CreatedAt,
	}
}

func productFromRow(row flatfile.Row) (Product, error) {
	price, err := strconv.ParseFloat(row["price"], 64)
	if err != nil {
		return Product{}, fmt.Errorf("product %s: bad price %q: %w", row["id"], row["price"], err)
	}
	stock, err := strconv.Atoi(row["stock"])
	if err != nil {
		return Product{}, fmt.Errorf("product %s: bad stock %q: %w", row["id"], row["stock"], err)
	}
	return Product{
		ID:          row["id"],
		Name:        row["name"],
		Description: row["description"],
		Price:       price,
		Category:    row["category"],
		Stock:       stock,
		OwnerEmail:  row["email"],
		CreatedAt:   row["created_at"],
	}, nil
}
