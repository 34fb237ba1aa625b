package service

import (
	"context"
	"fmt"

	"github.com/abgdnv/glowcart/internal/catalog"
	perrors "github.com/abgdnv/glowcart/internal/errors"
)

// CatalogService defines the methods for managing the product catalog.
type CatalogService interface {
	// Add inserts a new product. Returns ErrProductExists if the code is taken.
	Add(ctx context.Context, product ProductDto) (*ProductDto, error)

	// Find retrieves a product by code.
	// Returns ErrProductNotFound if no product has the given code.
	Find(ctx context.Context, code int) (*ProductDto, error)

	// Update replaces every field of an existing product except its code.
	Update(ctx context.Context, product ProductDto) (*ProductDto, error)

	// UpdateQuantity sets the stock level of an existing product.
	UpdateQuantity(ctx context.Context, code, quantity int) (*ProductDto, error)

	// Remove deletes a product by code.
	Remove(ctx context.Context, code int) error

	// All returns every product in ascending code order.
	All(ctx context.Context) []ProductDto

	// Filtered returns the products matching all four classification values, in ascending code order.
	Filtered(ctx context.Context, filter FilterDto) []ProductDto
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	Code        int     `json:"code" validate:"gte=0,lte=10000"`
	Name        string  `json:"name" validate:"required,max=100,nocomma"`
	Category    string  `json:"category" validate:"required,oneof=Skincare Haircare Makeup"`
	SubCategory string  `json:"subCategory" validate:"required,nocomma"`
	SkinType    string  `json:"skinType" validate:"required,oneof=Oily Dry Combination Sensitive All"`
	Range       string  `json:"range" validate:"required,oneof=Low Medium High"`
	Price       float64 `json:"price" validate:"gte=0,lte=10000"`
	Quantity    int     `json:"quantity" validate:"gte=0,lte=1000"`
}

// QuantityDto carries a new stock level.
type QuantityDto struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=1000"`
}

// FilterDto selects products by their full classification.
type FilterDto struct {
	Category    string `validate:"required"`
	SubCategory string `validate:"required"`
	SkinType    string `validate:"required"`
	Range       string `validate:"required"`
}

// Add inserts a product and rewrites the product file.
func (s *Shop) Add(ctx context.Context, product ProductDto) (*ProductDto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.catalog.Find(product.Code); exists {
		return nil, fmt.Errorf("failed to add product %d: %w", product.Code, perrors.ErrProductExists)
	}
	p := fromDto(product)
	s.catalog.Insert(p)
	_ = s.saveProducts()
	s.logger.InfoContext(ctx, "Product added", "code", p.Code, "name", p.Name)
	return toDto(p), nil
}

// Find retrieves a product by code.
func (s *Shop) Find(_ context.Context, code int) (*ProductDto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.catalog.Find(code)
	if !ok {
		return nil, fmt.Errorf("failed to fetch product %d: %w", code, perrors.ErrProductNotFound)
	}
	return toDto(p), nil
}

// Update replaces the fields of an existing product and rewrites the product file.
func (s *Shop) Update(ctx context.Context, product ProductDto) (*ProductDto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated catalog.Product
	ok := s.catalog.Update(product.Code, func(p *catalog.Product) {
		*p = fromDto(product)
		updated = *p
	})
	if !ok {
		return nil, fmt.Errorf("failed to update product %d: %w", product.Code, perrors.ErrProductNotFound)
	}
	_ = s.saveProducts()
	s.logger.InfoContext(ctx, "Product updated", "code", updated.Code)
	return toDto(updated), nil
}

// UpdateQuantity sets the stock level of a product and rewrites the product file.
func (s *Shop) UpdateQuantity(ctx context.Context, code, quantity int) (*ProductDto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated catalog.Product
	ok := s.catalog.Update(code, func(p *catalog.Product) {
		p.Quantity = quantity
		updated = *p
	})
	if !ok {
		return nil, fmt.Errorf("failed to update quantity of product %d: %w", code, perrors.ErrProductNotFound)
	}
	_ = s.saveProducts()
	s.logger.InfoContext(ctx, "Product quantity updated", "code", code, "quantity", quantity)
	return toDto(updated), nil
}

// Remove deletes a product and rewrites the product file.
func (s *Shop) Remove(ctx context.Context, code int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.catalog.Remove(code) {
		return fmt.Errorf("failed to delete product %d: %w", code, perrors.ErrProductNotFound)
	}
	_ = s.saveProducts()
	s.logger.InfoContext(ctx, "Product deleted", "code", code)
	return nil
}

// All returns every product in ascending code order.
func (s *Shop) All(_ context.Context) []ProductDto {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toDtos(s.catalog.All())
}

// Filtered returns the products whose classification matches filter exactly.
func (s *Shop) Filtered(_ context.Context, filter FilterDto) []ProductDto {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toDtos(s.catalog.Filtered(filter.Category, filter.SubCategory, filter.SkinType, filter.Range))
}

func fromDto(d ProductDto) catalog.Product {
	return catalog.Product{
		Code:        d.Code,
		Name:        d.Name,
		Category:    d.Category,
		SubCategory: d.SubCategory,
		SkinType:    d.SkinType,
		Range:       d.Range,
		Price:       d.Price,
		Quantity:    d.Quantity,
	}
}

// toDto converts a catalog.Product to a ProductDto.
func toDto(p catalog.Product) *ProductDto {
	return &ProductDto{
		Code:        p.Code,
		Name:        p.Name,
		Category:    p.Category,
		SubCategory: p.SubCategory,
		SkinType:    p.SkinType,
		Range:       p.Range,
		Price:       p.Price,
		Quantity:    p.Quantity,
	}
}

func toDtos(products []catalog.Product) []ProductDto {
	out := make([]ProductDto, len(products))
	for i, p := range products {
		out[i] = *toDto(p)
	}
	return out
}
