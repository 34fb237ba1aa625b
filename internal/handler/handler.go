// Package handler provides the HTTP handlers of the retail API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	perrors "github.com/abgdnv/glowcart/internal/errors"
	"github.com/abgdnv/glowcart/internal/platform/contextkeys"
	"github.com/abgdnv/glowcart/internal/service"
	"github.com/go-playground/validator/v10"
)

// SessionHeader carries the token returned by login.
const SessionHeader = "X-Session-Token"

// Services groups the use cases the API depends on.
type Services struct {
	Catalog  service.CatalogService
	Accounts service.AccountService
	Checkout service.CheckoutService
}

// HealthReporter exposes how many writes are waiting to reach disk.
type HealthReporter interface {
	PendingWrites() int
}

// API holds the HTTP handlers of the retail API.
type API struct {
	catalog  service.CatalogService
	accounts service.AccountService
	checkout service.CheckoutService
	health   HealthReporter
	validate *validator.Validate
	logger   *slog.Logger
}

// NewAPI creates a new API over the given services.
func NewAPI(services Services, health HealthReporter, logger *slog.Logger) *API {
	return &API{
		catalog:  services.Catalog,
		accounts: services.Accounts,
		checkout: services.Checkout,
		health:   health,
		validate: NewValidator(),
		logger:   logger.With("component", "api"),
	}
}

// HealthCheck reports "ok", or "degraded" while some changes are not yet durable.
func (a *API) HealthCheck(w http.ResponseWriter, r *http.Request) {
	pending := 0
	if a.health != nil {
		pending = a.health.PendingWrites()
	}
	status := "ok"
	if pending > 0 {
		status = "degraded"
	}
	respondJSON(w, loggerWithReqID(r, a), http.StatusOK, map[string]any{"status": status, "pendingWrites": pending})
}

// decodeValid decodes the JSON body into dst and validates it. On failure it
// writes the error response and returns false.
func (a *API) decodeValid(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		respondError(w, logger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return a.valid(w, r, logger, dst)
}

func (a *API) valid(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any) bool {
	if err := a.validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			logger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			respondJSON(w, logger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return false
		}
		logger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		respondError(w, logger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// respondServiceError maps a service error to its HTTP status.
func respondServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, perrors.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, perrors.ErrProductExists):
		status = http.StatusConflict
	case errors.Is(err, perrors.ErrWeakPassword), errors.Is(err, perrors.ErrEmptyCart),
		errors.Is(err, perrors.ErrInsufficientStock):
		status = http.StatusBadRequest
	case errors.Is(err, perrors.ErrInvalidCredentials), errors.Is(err, perrors.ErrSessionNotFound):
		status = http.StatusUnauthorized
	case errors.Is(err, perrors.ErrForbidden):
		status = http.StatusForbidden
	}
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), message, "error", err)
		respondError(w, logger, status, message)
		return
	}
	logger.WarnContext(r.Context(), message, "error", err)
	respondError(w, logger, status, err.Error())
}

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	// Handle nil payload
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func respondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	respondJSON(w, logger, status, map[string]string{"error": message})
}

// loggerWithReqID creates a logger with the request ID from the context.
func loggerWithReqID(r *http.Request, a *API) *slog.Logger {
	reqID, found := contextkeys.GetRequestID(r.Context())
	if !found {
		reqID = "unknown"
	}
	return a.logger.With("request_id", reqID)
}
