package handler

import (
	"net/http"

	"github.com/abgdnv/glowcart/internal/platform/contextkeys"
	"github.com/abgdnv/glowcart/internal/service"
	"github.com/abgdnv/glowcart/internal/skin"
)

// Cart returns the caller's cart.
func (a *API) Cart(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(r, a)
	u, _ := contextkeys.GetUser(r.Context())
	c, err := a.checkout.Cart(r.Context(), u.Token)
	if err != nil {
		respondServiceError(w, r, mLogger, err, "Failed to retrieve cart")
		return
	}
	respondJSON(w, mLogger, http.StatusOK, c)
}

// AddToCart puts a product on the caller's cart.
func (a *API) AddToCart(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(r, a)
	var dto service.CartItemDto
	if !a.decodeValid(w, r, mLogger, &dto) {
		return
	}
	u, _ := contextkeys.GetUser(r.Context())
	c, err := a.checkout.AddToCart(r.Context(), u.Token, dto)
	if err != nil {
		respondServiceError(w, r, mLogger, err, "Failed to add product to cart")
		return
	}
	respondJSON(w, mLogger, http.StatusOK, c)
}

// Checkout places an order for the caller's cart.
func (a *API) Checkout(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(r, a)
	var dto service.CheckoutDto
	if !a.decodeValid(w, r, mLogger, &dto) {
		return
	}
	u, _ := contextkeys.GetUser(r.Context())
	order, err := a.checkout.Checkout(r.Context(), u.Token, dto)
	if err != nil {
		respondServiceError(w, r, mLogger, err, "Failed to place order")
		return
	}
	mLogger.InfoContext(r.Context(), "Order placed successfully", "username", u.Username, "total", order.Total)
	respondJSON(w, mLogger, http.StatusCreated, order)
}

// Orders lists the order history, oldest first.
func (a *API) Orders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, loggerWithReqID(r, a), http.StatusOK, a.checkout.History(r.Context()))
}

type skinQuizRequest struct {
	Answers []bool `json:"answers" validate:"len=12"`
}

type skinQuizResponse struct {
	SkinType string `json:"skinType,omitempty"`
	Mixed    bool   `json:"mixed"`
	Message  string `json:"message"`
}

// Questions returns the skin type questionnaire.
func (a *API) Questions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, loggerWithReqID(r, a), http.StatusOK, skin.Questions)
}

// IdentifySkinType scores the questionnaire answers.
func (a *API) IdentifySkinType(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(r, a)
	var req skinQuizRequest
	if !a.decodeValid(w, r, mLogger, &req) {
		return
	}
	var answers [skin.QuestionCount]bool
	copy(answers[:], req.Answers)

	t, ok := skin.Identify(answers)
	if !ok {
		respondJSON(w, mLogger, http.StatusOK, skinQuizResponse{
			Mixed:   true,
			Message: "You have a mix of skin types. Please consult a dermatologist for a more accurate assessment.",
		})
		return
	}
	respondJSON(w, mLogger, http.StatusOK, skinQuizResponse{
		SkinType: string(t),
		Message:  "You have " + string(t) + " Skin.",
	})
}
