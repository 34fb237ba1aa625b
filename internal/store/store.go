// Package store provides the flat-file persistence of the catalog, the user registry and the order log.
package store

import (
	"github.com/abgdnv/glowcart/internal/catalog"
	"github.com/abgdnv/glowcart/internal/orders"
	"github.com/abgdnv/glowcart/internal/users"
)

// Persister is the write side of the persistence gateway.
// It abstracts the backing files so services can be tested without disk access.
type Persister interface {
	// SaveUser appends a newly registered user to the user file.
	// Existing content is never rewritten.
	SaveUser(u users.User) error

	// SaveProducts replaces the product file with the given products, in order.
	SaveProducts(products []catalog.Product) error

	// SaveOrder appends a completed order block to the order file.
	SaveOrder(o orders.Order) error
}

// Snapshot holds the in-memory state rebuilt from disk at startup.
type Snapshot struct {
	Catalog *catalog.Index
	Users   *users.Registry
	Orders  *orders.Log

	// Skipped counts the lines that failed to decode.
	Skipped int
	// Problems lists every decode or read failure met while loading.
	Problems []error
}
