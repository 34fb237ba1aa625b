package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perrors "github.com/abgdnv/glowcart/internal/errors"
	"github.com/abgdnv/glowcart/internal/platform/contextkeys"
	"github.com/abgdnv/glowcart/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockShop is a mock implementation of the catalog, account and checkout services
type mockShop struct {
	product  service.ProductDto
	products []service.ProductDto
	user     service.UserDto
	session  service.SessionDto
	cart     service.CartDto
	order    service.OrderDto
	orders   []service.OrderDto
	pending  int
	error    error

	filter    *service.FilterDto
	loggedOut string
}

func (m *mockShop) Add(_ context.Context, p service.ProductDto) (*service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return &p, nil
}

func (m *mockShop) Find(_ context.Context, _ int) (*service.ProductDto, error) {
	return &m.product, m.error
}

func (m *mockShop) Update(_ context.Context, p service.ProductDto) (*service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return &p, nil
}

func (m *mockShop) UpdateQuantity(_ context.Context, _, quantity int) (*service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	p := m.product
	p.Quantity = quantity
	return &p, nil
}

func (m *mockShop) Remove(_ context.Context, _ int) error {
	return m.error
}

func (m *mockShop) All(_ context.Context) []service.ProductDto {
	return m.products
}

func (m *mockShop) Filtered(_ context.Context, f service.FilterDto) []service.ProductDto {
	m.filter = &f
	return m.products
}

func (m *mockShop) Register(_ context.Context, _ service.RegisterDto) (*service.UserDto, error) {
	return &m.user, m.error
}

func (m *mockShop) Login(_ context.Context, _ service.LoginDto) (*service.SessionDto, error) {
	return &m.session, m.error
}

func (m *mockShop) Logout(_ context.Context, token string) {
	m.loggedOut = token
}

func (m *mockShop) Session(_ context.Context, _ string) (*service.UserDto, error) {
	return &m.user, m.error
}

func (m *mockShop) AddToCart(_ context.Context, _ string, _ service.CartItemDto) (*service.CartDto, error) {
	return &m.cart, m.error
}

func (m *mockShop) Cart(_ context.Context, _ string) (*service.CartDto, error) {
	return &m.cart, m.error
}

func (m *mockShop) Checkout(_ context.Context, _ string, _ service.CheckoutDto) (*service.OrderDto, error) {
	return &m.order, m.error
}

func (m *mockShop) History(_ context.Context) []service.OrderDto {
	return m.orders
}

func (m *mockShop) PendingWrites() int {
	return m.pending
}

func newTestAPI(m *mockShop) *API {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAPI(Services{Catalog: m, Accounts: m, Checkout: m}, m, logger)
}

var serum = service.ProductDto{
	Code: 7, Name: "Serum", Category: "Skincare", SubCategory: "Serums",
	SkinType: "Oily", Range: "Medium", Price: 19.5, Quantity: 3,
}

const serumJSON = `{"code":7,"name":"Serum","category":"Skincare","subCategory":"Serums","skinType":"Oily","range":"Medium","price":19.5,"quantity":3}`

func withUser(req *http.Request, u contextkeys.User) *http.Request {
	return req.WithContext(contextkeys.WithUser(req.Context(), u))
}

func Test_API_FindByCode(t *testing.T) {
	testCases := []struct {
		name         string
		mock         mockShop
		code         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product found",
			mock:         mockShop{product: serum},
			code:         "7",
			expectedCode: http.StatusOK,
			expectedBody: serumJSON,
		},
		{
			name:         "Error - product not found",
			mock:         mockShop{error: perrors.ErrProductNotFound},
			code:         "999",
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"product not found"}`,
		},
		{
			name:         "Error - invalid code",
			mock:         mockShop{},
			code:         "abc",
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Invalid product code: abc"}`,
		},
		{
			name:         "Error - service error",
			mock:         mockShop{error: errors.New("disk on fire")},
			code:         "2",
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Failed to retrieve product with code 2"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestAPI(&tc.mock)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+tc.code, nil)
			req.SetPathValue("code", tc.code)
			rr := httptest.NewRecorder()

			// when
			api.FindByCode(rr, req)

			// then
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_API_FindAll(t *testing.T) {
	testCases := []struct {
		name           string
		query          string
		products       []service.ProductDto
		expectedCode   int
		expectedBody   string
		expectedFilter *service.FilterDto
	}{
		{
			name:         "Success - full catalog",
			products:     []service.ProductDto{serum},
			expectedCode: http.StatusOK,
			expectedBody: "[" + serumJSON + "]",
		},
		{
			name:         "Success - empty catalog",
			products:     []service.ProductDto{},
			expectedCode: http.StatusOK,
			expectedBody: `[]`,
		},
		{
			name:         "Success - filtered",
			query:        "?category=Skincare&subCategory=Serums&skinType=Oily&range=Medium",
			products:     []service.ProductDto{serum},
			expectedCode: http.StatusOK,
			expectedBody: "[" + serumJSON + "]",
			expectedFilter: &service.FilterDto{
				Category: "Skincare", SubCategory: "Serums", SkinType: "Oily", Range: "Medium",
			},
		},
		{
			name:         "Error - partial filter",
			query:        "?category=Skincare",
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"SubCategory":"failed on rule: required","SkinType":"failed on rule: required","Range":"failed on rule: required"}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mock := &mockShop{products: tc.products}
			api := newTestAPI(mock)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products"+tc.query, nil)
			rr := httptest.NewRecorder()

			// when
			api.FindAll(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			assert.Equal(t, tc.expectedFilter, mock.filter)
		})
	}
}

func Test_API_Create(t *testing.T) {
	testCases := []struct {
		name         string
		mock         mockShop
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product created",
			body:         serumJSON,
			expectedCode: http.StatusCreated,
			expectedBody: serumJSON,
		},
		{
			name:         "Error - code taken",
			mock:         mockShop{error: perrors.ErrProductExists},
			body:         serumJSON,
			expectedCode: http.StatusConflict,
			expectedBody: `{"error":"product code already exists"}`,
		},
		{
			name:         "Error - invalid JSON",
			body:         `{"code":`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Invalid request body"}`,
		},
		{
			name:         "Error - comma in name",
			body:         strings.Replace(serumJSON, `"Serum"`, `"Serum, 30ml"`, 1),
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"Name":"failed on rule: nocomma"}}`,
		},
		{
			name:         "Error - sub-category outside category",
			body:         strings.Replace(serumJSON, `"Serums"`, `"Shampoo"`, 1),
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"SubCategory":"failed on rule: subcategory"}}`,
		},
		{
			name:         "Error - unknown range",
			body:         strings.Replace(serumJSON, `"Medium"`, `"Luxury"`, 1),
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"Range":"failed on rule: oneof"}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestAPI(&tc.mock)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()

			// when
			api.Create(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_API_Update_UsesPathCode(t *testing.T) {
	// given
	api := newTestAPI(&mockShop{})
	body := strings.Replace(serumJSON, `"code":7`, `"code":1`, 1)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/7", strings.NewReader(body))
	req.SetPathValue("code", "7")
	rr := httptest.NewRecorder()

	// when
	api.Update(rr, req)

	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, serumJSON, rr.Body.String())
}

func Test_API_UpdateQuantity(t *testing.T) {
	testCases := []struct {
		name         string
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - stock updated",
			body:         `{"quantity":40}`,
			expectedCode: http.StatusOK,
			expectedBody: strings.Replace(serumJSON, `"quantity":3`, `"quantity":40`, 1),
		},
		{
			name:         "Success - upper stock limit",
			body:         `{"quantity":1000}`,
			expectedCode: http.StatusOK,
			expectedBody: strings.Replace(serumJSON, `"quantity":3`, `"quantity":1000`, 1),
		},
		{
			name:         "Error - above the product stock limit",
			body:         `{"quantity":1001}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"Quantity":"failed on rule: lte"}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestAPI(&mockShop{product: serum})
			req := httptest.NewRequest(http.MethodPut, "/api/v1/products/7/quantity", strings.NewReader(tc.body))
			req.SetPathValue("code", "7")
			rr := httptest.NewRecorder()

			// when
			api.UpdateQuantity(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_API_DeleteByCode(t *testing.T) {
	testCases := []struct {
		name         string
		mock         mockShop
		expectedCode int
	}{
		{name: "Success - product deleted", expectedCode: http.StatusNoContent},
		{name: "Error - product not found", mock: mockShop{error: perrors.ErrProductNotFound}, expectedCode: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestAPI(&tc.mock)
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/7", nil)
			req.SetPathValue("code", "7")
			rr := httptest.NewRecorder()

			// when
			api.DeleteByCode(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
		})
	}
}

func Test_API_Register(t *testing.T) {
	testCases := []struct {
		name         string
		mock         mockShop
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - staff registered",
			mock:         mockShop{user: service.UserDto{Username: "amara", IsStaff: true}},
			body:         `{"username":"amara","password":"longenough","staffCode":"mahvil"}`,
			expectedCode: http.StatusCreated,
			expectedBody: `{"username":"amara","isStaff":true}`,
		},
		{
			name:         "Error - short password",
			body:         `{"username":"amara","password":"short"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"Password":"failed on rule: min"}}`,
		},
		{
			name:         "Error - comma in username",
			body:         `{"username":"a,b","password":"longenough"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"Username":"failed on rule: nocomma"}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestAPI(&tc.mock)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()

			// when
			api.Register(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_API_Login(t *testing.T) {
	testCases := []struct {
		name         string
		mock         mockShop
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - session opened",
			mock: mockShop{session: service.SessionDto{
				Token: "tok", User: service.UserDto{Username: "amara"},
			}},
			expectedCode: http.StatusCreated,
			expectedBody: `{"token":"tok","user":{"username":"amara","isStaff":false}}`,
		},
		{
			name:         "Error - wrong password",
			mock:         mockShop{error: perrors.ErrInvalidCredentials},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"error":"invalid username or password"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestAPI(&tc.mock)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions",
				strings.NewReader(`{"username":"amara","password":"longenough"}`))
			rr := httptest.NewRecorder()

			// when
			api.Login(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_API_Logout(t *testing.T) {
	// given
	mock := &mockShop{}
	api := newTestAPI(mock)
	req := withUser(httptest.NewRequest(http.MethodDelete, "/api/v1/sessions", nil), contextkeys.User{Token: "tok"})
	rr := httptest.NewRecorder()

	// when
	api.Logout(rr, req)

	// then
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "tok", mock.loggedOut)
}

func Test_API_RequireSession(t *testing.T) {
	testCases := []struct {
		name         string
		mock         mockShop
		token        string
		expectedCode int
		expectedUser contextkeys.User
	}{
		{
			name:         "Success - session found",
			mock:         mockShop{user: service.UserDto{Username: "amara", IsStaff: true}},
			token:        "tok",
			expectedCode: http.StatusOK,
			expectedUser: contextkeys.User{Token: "tok", Username: "amara", IsStaff: true},
		},
		{
			name:         "Error - missing token",
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "Error - unknown token",
			mock:         mockShop{error: perrors.ErrSessionNotFound},
			token:        "stale",
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestAPI(&tc.mock)
			var seen contextkeys.User
			h := api.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = contextkeys.GetUser(r.Context())
				w.WriteHeader(http.StatusOK)
			}))
			req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
			if tc.token != "" {
				req.Header.Set(SessionHeader, tc.token)
			}
			rr := httptest.NewRecorder()

			// when
			h.ServeHTTP(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.Equal(t, tc.expectedUser, seen)
		})
	}
}

func Test_API_RequireStaff(t *testing.T) {
	testCases := []struct {
		name         string
		user         *contextkeys.User
		expectedCode int
	}{
		{name: "Success - staff", user: &contextkeys.User{Username: "amara", IsStaff: true}, expectedCode: http.StatusOK},
		{name: "Error - customer", user: &contextkeys.User{Username: "bo"}, expectedCode: http.StatusForbidden},
		{name: "Error - no session", expectedCode: http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestAPI(&mockShop{})
			h := api.RequireStaff(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			req := httptest.NewRequest(http.MethodPost, "/api/v1/products", nil)
			if tc.user != nil {
				req = withUser(req, *tc.user)
			}
			rr := httptest.NewRecorder()

			// when
			h.ServeHTTP(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
		})
	}
}

func Test_API_AddToCart(t *testing.T) {
	testCases := []struct {
		name         string
		mock         mockShop
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - item added",
			mock:         mockShop{cart: service.CartDto{Items: []service.ProductDto{serum}, Total: 58.5}},
			body:         `{"code":7,"quantity":3}`,
			expectedCode: http.StatusOK,
			expectedBody: `{"items":[` + serumJSON + `],"total":58.5}`,
		},
		{
			name:         "Error - not enough stock",
			mock:         mockShop{error: perrors.ErrInsufficientStock},
			body:         `{"code":7,"quantity":300}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"requested quantity exceeds stock"}`,
		},
		{
			name:         "Error - zero quantity",
			body:         `{"code":7,"quantity":0}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"Quantity":"failed on rule: gte"}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestAPI(&tc.mock)
			req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(tc.body)),
				contextkeys.User{Token: "tok", Username: "bo"})
			rr := httptest.NewRecorder()

			// when
			api.AddToCart(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_API_Checkout(t *testing.T) {
	details := `{"customerName":"Bo","address":"1 Main St","contact":"555","email":"bo@example.com"}`
	testCases := []struct {
		name         string
		mock         mockShop
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - order placed",
			mock: mockShop{order: service.OrderDto{
				CustomerName: "Bo", Address: "1 Main St", Contact: "555", Email: "bo@example.com",
				Products: []service.ProductDto{serum}, Total: 58.5,
			}},
			body:         details,
			expectedCode: http.StatusCreated,
			expectedBody: `{"customerName":"Bo","address":"1 Main St","contact":"555","email":"bo@example.com","products":[` + serumJSON + `],"total":58.5}`,
		},
		{
			name:         "Error - empty cart",
			mock:         mockShop{error: perrors.ErrEmptyCart},
			body:         details,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"cart is empty"}`,
		},
		{
			name:         "Error - invalid email",
			body:         strings.Replace(details, "bo@example.com", "not-an-email", 1),
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"Email":"failed on rule: email"}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestAPI(&tc.mock)
			req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(tc.body)),
				contextkeys.User{Token: "tok", Username: "bo"})
			rr := httptest.NewRecorder()

			// when
			api.Checkout(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_API_IdentifySkinType(t *testing.T) {
	testCases := []struct {
		name         string
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - dry wins",
			body:         `{"answers":[true,false,false,true,true,true,false,false,false,false,true,false]}`,
			expectedCode: http.StatusOK,
			expectedBody: `{"skinType":"Dry","mixed":false,"message":"You have Dry Skin."}`,
		},
		{
			name:         "Success - tie is mixed",
			body:         `{"answers":[true,true,false,true,true,false,false,false,false,false,false,false]}`,
			expectedCode: http.StatusOK,
			expectedBody: `{"mixed":true,"message":"You have a mix of skin types. Please consult a dermatologist for a more accurate assessment."}`,
		},
		{
			name:         "Error - too few answers",
			body:         `{"answers":[true,false]}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"Answers":"failed on rule: len"}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestAPI(&mockShop{})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/skin-type", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()

			// when
			api.IdentifySkinType(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_API_HealthCheck(t *testing.T) {
	testCases := []struct {
		name         string
		pending      int
		expectedBody string
	}{
		{name: "ok", pending: 0, expectedBody: `{"status":"ok","pendingWrites":0}`},
		{name: "degraded", pending: 2, expectedBody: `{"status":"degraded","pendingWrites":2}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestAPI(&mockShop{pending: tc.pending})
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rr := httptest.NewRecorder()

			// when
			api.HealthCheck(rr, req)

			// then
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_API_Classifications(t *testing.T) {
	// given
	api := newTestAPI(&mockShop{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/classifications", nil)
	rr := httptest.NewRecorder()

	// when
	api.Classifications(rr, req)

	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	var body classificationsDto
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Categories, 3)
	assert.Equal(t, "Skincare", body.Categories[0].Name)
	assert.Contains(t, body.Categories[0].SubCategories, "Serums")
	assert.Len(t, body.Categories[2].SubCategories, 30)
	assert.Equal(t, []string{"Oily", "Dry", "Combination", "Sensitive", "All"}, body.SkinTypes)
	assert.Equal(t, []string{"Low", "Medium", "High"}, body.Ranges)
}
