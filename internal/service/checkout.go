package service

import (
	"context"
	"fmt"

	perrors "github.com/abgdnv/glowcart/internal/errors"
	"github.com/abgdnv/glowcart/internal/orders"
)

// CheckoutService defines the cart, checkout and order history operations.
type CheckoutService interface {
	// AddToCart puts a snapshot of a product with the selected quantity on the session's cart.
	AddToCart(ctx context.Context, token string, item CartItemDto) (*CartDto, error)

	// Cart returns the session's cart, most recent entry first.
	Cart(ctx context.Context, token string) (*CartDto, error)

	// Checkout turns the session's cart into an order, records it and empties the cart.
	Checkout(ctx context.Context, token string, details CheckoutDto) (*OrderDto, error)

	// History returns every recorded order, oldest first, without consuming the log.
	History(ctx context.Context) []OrderDto
}

// CartItemDto selects a product and quantity for the cart.
type CartItemDto struct {
	Code     int `json:"code" validate:"gte=0"`
	Quantity int `json:"quantity" validate:"gte=1"`
}

// CartDto describes a cart.
type CartDto struct {
	Items []ProductDto `json:"items"`
	Total float64      `json:"total"`
}

// CheckoutDto holds the customer details of an order.
type CheckoutDto struct {
	CustomerName string `json:"customerName" validate:"required,max=100,nocomma"`
	Address      string `json:"address" validate:"required,max=200,nocomma"`
	Contact      string `json:"contact" validate:"required,max=50,nocomma"`
	Email        string `json:"email" validate:"required,email,nocomma"`
}

// OrderDto describes a recorded order.
type OrderDto struct {
	CustomerName string       `json:"customerName"`
	Address      string       `json:"address"`
	Contact      string       `json:"contact"`
	Email        string       `json:"email"`
	Products     []ProductDto `json:"products"`
	Total        float64      `json:"total"`
}

// AddToCart snapshots the product with the requested quantity. The quantity
// must not exceed the current stock; stock itself is left unchanged.
func (s *Shop) AddToCart(ctx context.Context, token string, item CartItemDto) (*CartDto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, perrors.ErrSessionNotFound
	}
	p, ok := s.catalog.Find(item.Code)
	if !ok {
		return nil, fmt.Errorf("failed to add product %d to cart: %w", item.Code, perrors.ErrProductNotFound)
	}
	if item.Quantity < 1 || item.Quantity > p.Quantity {
		return nil, fmt.Errorf("failed to add %d of product %d (stock %d): %w", item.Quantity, p.Code, p.Quantity, perrors.ErrInsufficientStock)
	}
	p.Quantity = item.Quantity
	sess.cart.Push(p)
	s.logger.DebugContext(ctx, "Product added to cart", "username", sess.user.Username, "code", p.Code, "quantity", p.Quantity)
	return &CartDto{Items: toDtos(sess.cart.Items()), Total: sess.cart.Total()}, nil
}

// Cart returns the session's cart.
func (s *Shop) Cart(_ context.Context, token string) (*CartDto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, perrors.ErrSessionNotFound
	}
	return &CartDto{Items: toDtos(sess.cart.Items()), Total: sess.cart.Total()}, nil
}

// Checkout records the session's cart as an order, appends it to the order
// file and clears the cart.
func (s *Shop) Checkout(ctx context.Context, token string, details CheckoutDto) (*OrderDto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, perrors.ErrSessionNotFound
	}
	if sess.cart.Len() == 0 {
		return nil, perrors.ErrEmptyCart
	}

	o := orders.Order{
		CustomerName: details.CustomerName,
		Address:      details.Address,
		Contact:      details.Contact,
		Email:        details.Email,
		Products:     sess.cart.Items(),
	}
	s.orders.Enqueue(o)
	s.saveOrder(o)
	sess.cart.Clear()

	s.logger.InfoContext(ctx, "Order placed", "username", sess.user.Username, "items", len(o.Products), "total", o.Total())
	return toOrderDto(o), nil
}

// History returns a copy of the order log, oldest first.
func (s *Shop) History(_ context.Context) []OrderDto {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.orders.History()
	out := make([]OrderDto, len(history))
	for i, o := range history {
		out[i] = *toOrderDto(o)
	}
	return out
}

func toOrderDto(o orders.Order) *OrderDto {
	return &OrderDto{
		CustomerName: o.CustomerName,
		Address:      o.Address,
		Contact:      o.Contact,
		Email:        o.Email,
		Products:     toDtos(o.Products),
		Total:        o.Total(),
	}
}
