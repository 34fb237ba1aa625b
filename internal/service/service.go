// Package service provides the retail use cases on top of the catalog index,
// the user registry and the order log.
package service

import (
	"log/slog"
	"sync"

	"github.com/abgdnv/glowcart/internal/cart"
	"github.com/abgdnv/glowcart/internal/catalog"
	"github.com/abgdnv/glowcart/internal/orders"
	"github.com/abgdnv/glowcart/internal/store"
	"github.com/abgdnv/glowcart/internal/users"
)

// Shop owns the in-memory state of the store and serialises every operation
// on it. The catalog index, registry and order log are not safe for
// concurrent use, so each exported method holds mu for its whole duration,
// file writes included.
type Shop struct {
	mu sync.Mutex

	catalog  *catalog.Index
	users    *users.Registry
	orders   *orders.Log
	sessions map[string]*session

	persister  store.Persister
	staffCodes []string
	logger     *slog.Logger

	// Writes that failed and are retried before the next write of the same kind.
	productsDirty bool
	pendingUsers  []users.User
	pendingOrders []orders.Order
}

type session struct {
	user users.User
	cart *cart.Cart
}

// NewShop creates a Shop over the state loaded from disk.
func NewShop(snap *store.Snapshot, persister store.Persister, staffCodes []string, logger *slog.Logger) *Shop {
	return &Shop{
		catalog:    snap.Catalog,
		users:      snap.Users,
		orders:     snap.Orders,
		sessions:   make(map[string]*session),
		persister:  persister,
		staffCodes: staffCodes,
		logger:     logger.With("component", "service"),
	}
}

// PendingWrites reports how many changes have not reached the data files yet.
func (s *Shop) PendingWrites() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.pendingUsers) + len(s.pendingOrders)
	if s.productsDirty {
		n++
	}
	return n
}

// Flush retries every write that previously failed. It returns the first error met.
func (s *Shop) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flushUsers(); err != nil {
		return err
	}
	if err := s.flushOrders(); err != nil {
		return err
	}
	if s.productsDirty {
		return s.saveProducts()
	}
	return nil
}

// saveProducts rewrites the product file. On failure the in-memory catalog
// stays authoritative and the rewrite is retried on the next mutation.
func (s *Shop) saveProducts() error {
	if err := s.persister.SaveProducts(s.catalog.All()); err != nil {
		s.productsDirty = true
		s.logger.Error("Catalog changes are not durable yet", "error", err)
		return err
	}
	s.productsDirty = false
	return nil
}

func (s *Shop) saveUser(u users.User) {
	s.pendingUsers = append(s.pendingUsers, u)
	_ = s.flushUsers()
}

func (s *Shop) flushUsers() error {
	for len(s.pendingUsers) > 0 {
		if err := s.persister.SaveUser(s.pendingUsers[0]); err != nil {
			s.logger.Error("User registration is not durable yet", "pending", len(s.pendingUsers), "error", err)
			return err
		}
		s.pendingUsers = s.pendingUsers[1:]
	}
	return nil
}

func (s *Shop) saveOrder(o orders.Order) {
	s.pendingOrders = append(s.pendingOrders, o)
	_ = s.flushOrders()
}

func (s *Shop) flushOrders() error {
	for len(s.pendingOrders) > 0 {
		if err := s.persister.SaveOrder(s.pendingOrders[0]); err != nil {
			s.logger.Error("Order is not durable yet", "pending", len(s.pendingOrders), "error", err)
			return err
		}
		s.pendingOrders = s.pendingOrders[1:]
	}
	return nil
}

var (
	_ CatalogService  = (*Shop)(nil)
	_ AccountService  = (*Shop)(nil)
	_ CheckoutService = (*Shop)(nil)
)
