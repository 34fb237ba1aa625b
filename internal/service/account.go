package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/abgdnv/glowcart/internal/cart"
	perrors "github.com/abgdnv/glowcart/internal/errors"
	"github.com/abgdnv/glowcart/internal/users"
	"github.com/google/uuid"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

// AccountService defines registration, login and session lookup.
type AccountService interface {
	// Register stores a new user. A non-empty staff code that is not recognised
	// registers the user as a customer.
	Register(ctx context.Context, req RegisterDto) (*UserDto, error)

	// Login checks the credentials and opens a session with an empty cart.
	Login(ctx context.Context, req LoginDto) (*SessionDto, error)

	// Logout closes a session. Unknown tokens are ignored.
	Logout(ctx context.Context, token string)

	// Session resolves a session token to its user.
	Session(ctx context.Context, token string) (*UserDto, error)
}

// RegisterDto is the registration request.
type RegisterDto struct {
	Username  string `json:"username" validate:"required,max=64,nocomma"`
	Password  string `json:"password" validate:"required,min=8,max=64,nocomma"`
	StaffCode string `json:"staffCode,omitempty"`
}

// LoginDto is the login request.
type LoginDto struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserDto describes a user without the password.
type UserDto struct {
	Username string `json:"username"`
	IsStaff  bool   `json:"isStaff"`
}

// SessionDto is returned by a successful login.
type SessionDto struct {
	Token string  `json:"token"`
	User  UserDto `json:"user"`
}

// Register stores a new user and appends it to the user file.
// Registering an existing username shadows the older account.
func (s *Shop) Register(ctx context.Context, req RegisterDto) (*UserDto, error) {
	if len(req.Password) < MinPasswordLength {
		return nil, fmt.Errorf("failed to register %q: %w", req.Username, perrors.ErrWeakPassword)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	isStaff := false
	if req.StaffCode != "" {
		isStaff = slices.Contains(s.staffCodes, req.StaffCode)
		if !isStaff {
			s.logger.WarnContext(ctx, "Invalid staff code, registering as customer", "username", req.Username)
		}
	}

	u := users.User{Username: req.Username, Password: req.Password, IsStaff: isStaff}
	if _, exists := s.users.Find(u.Username); exists {
		s.logger.InfoContext(ctx, "Username re-registered, older account is shadowed", "username", u.Username)
	}
	s.users.Add(u)
	s.saveUser(u)
	s.logger.InfoContext(ctx, "User registered", "username", u.Username, "staff", u.IsStaff)
	return &UserDto{Username: u.Username, IsStaff: u.IsStaff}, nil
}

// Login authenticates the user and opens a new session.
func (s *Shop) Login(ctx context.Context, req LoginDto) (*SessionDto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users.Authenticate(req.Username, req.Password)
	if !ok {
		s.logger.WarnContext(ctx, "Login failed", "username", req.Username)
		return nil, perrors.ErrInvalidCredentials
	}
	token := uuid.NewString()
	s.sessions[token] = &session{user: u, cart: cart.New()}
	s.logger.InfoContext(ctx, "User logged in", "username", u.Username)
	return &SessionDto{Token: token, User: UserDto{Username: u.Username, IsStaff: u.IsStaff}}, nil
}

// Logout drops the session and its cart.
func (s *Shop) Logout(ctx context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[token]; ok {
		delete(s.sessions, token)
		s.logger.InfoContext(ctx, "User logged out", "username", sess.user.Username)
	}
}

// Session returns the user behind token.
func (s *Shop) Session(_ context.Context, token string) (*UserDto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, perrors.ErrSessionNotFound
	}
	return &UserDto{Username: sess.user.Username, IsStaff: sess.user.IsStaff}, nil
}
