// Package errors provides custom error types for retail catalog operations.
package errors

import "errors"

// Persistence errors.
var ErrMalformedRecord = errors.New("malformed record")
var ErrIOUnavailable = errors.New("backing file unavailable")

// Lookup errors.
var ErrProductNotFound = errors.New("product not found")
var ErrSessionNotFound = errors.New("session not found")

var ErrProductExists = errors.New("product code already exists")
var ErrWeakPassword = errors.New("password must be at least 8 characters long")
var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrForbidden = errors.New("staff access required")
var ErrEmptyCart = errors.New("cart is empty")
var ErrInsufficientStock = errors.New("requested quantity exceeds stock")
