package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/marketplace/internal/app/handlers"
	"github.com/linemk/marketplace/internal/domain/models"
	"github.com/linemk/marketplace/internal/service"
	"github.com/linemk/marketplace/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// withURLParam injects a chi URL parameter into the request context so a
// handler can be tested without a full router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type fakeOrderService struct {
	order     *models.Order
	orders    []*models.Order
	err       error
	gotFilter storage.OrderFilter
	gotPage   int
	gotLimit  int
}

var _ service.OrderService = (*fakeOrderService)(nil)

func (f *fakeOrderService) CreateOrder(ctx context.Context, buyerEmail string, items []service.OrderItemInput) (*models.Order, error) {
	return f.order, f.err
}

func (f *fakeOrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return f.order, f.err
}

func (f *fakeOrderService) ListOrders(ctx context.Context, filter storage.OrderFilter, page, limit int) ([]*models.Order, error) {
	f.gotFilter = filter
	f.gotPage = page
	f.gotLimit = limit
	return f.orders, f.err
}

func (f *fakeOrderService) CancelOrder(ctx context.Context, id string) (*models.Order, error) {
	return f.order, f.err
}

type fakePaymentService struct {
	url        string
	err        error
	webhookErr error
}

var _ service.PaymentService = (*fakePaymentService)(nil)

func (f *fakePaymentService) CreatePaymentLink(ctx context.Context, orderID string) (string, error) {
	return f.url, f.err
}

func (f *fakePaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	return f.webhookErr
}

type fakeSellerService struct {
	seller  *models.Seller
	sellers []*models.Seller
	err     error
}

var _ service.SellerService = (*fakeSellerService)(nil)

func (f *fakeSellerService) CreateSeller(ctx context.Context, name string) (*models.Seller, error) {
	return f.seller, f.err
}

func (f *fakeSellerService) ListSellers(ctx context.Context) ([]*models.Seller, error) {
	return f.sellers, f.err
}

func (f *fakeSellerService) UpdateSeller(ctx context.Context, id, name string) (*models.Seller, error) {
	return f.seller, f.err
}

func (f *fakeSellerService) DeleteSeller(ctx context.Context, id string) error {
	return f.err
}

type fakeProductService struct {
	product  *models.Product
	products []*models.Product
	err      error
}

var _ service.ProductService = (*fakeProductService)(nil)

func (f *fakeProductService) CreateProduct(ctx context.Context, input service.CreateProductInput) (*models.Product, error) {
	return f.product, f.err
}

func (f *fakeProductService) ListProducts(ctx context.Context, filter storage.ProductFilter) ([]*models.Product, error) {
	return f.products, f.err
}

func (f *fakeProductService) UpdateProduct(ctx context.Context, id string, update storage.ProductUpdate) (*models.Product, error) {
	return f.product, f.err
}

func TestCreateOrderHandler_Success(t *testing.T) {
	svc := &fakeOrderService{order: &models.Order{
		ID:          "order-1",
		BuyerEmail:  "buyer@example.com",
		Status:      models.OrderStatusPending,
		TotalAmount: decimal.RequireFromString("250.00"),
	}}
	handler := handlers.CreateOrderHandler(newTestLogger(), svc)

	body := `{"buyer_email":"buyer@example.com","items":[{"product_id":"prod-1","quantity":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var order models.Order
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&order))
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestCreateOrderHandler_InvalidJSON(t *testing.T) {
	handler := handlers.CreateOrderHandler(newTestLogger(), &fakeOrderService{})

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateOrderHandler_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"items":[{"product_id":"prod-1","quantity":1}]}`},
		{"bad email", `{"buyer_email":"not-an-email","items":[{"product_id":"prod-1","quantity":1}]}`},
		{"empty items", `{"buyer_email":"buyer@example.com","items":[]}`},
		{"zero quantity", `{"buyer_email":"buyer@example.com","items":[{"product_id":"prod-1","quantity":0}]}`},
	}

	handler := handlers.CreateOrderHandler(newTestLogger(), &fakeOrderService{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestCreateOrderHandler_InsufficientStock(t *testing.T) {
	svc := &fakeOrderService{err: service.NewValidationError("not enough stock for product prod-1")}
	handler := handlers.CreateOrderHandler(newTestLogger(), svc)

	body := `{"buyer_email":"buyer@example.com","items":[{"product_id":"prod-1","quantity":100}]}`
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp handlers.ErrorResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "not enough stock")
}

func TestGetOrderHandler_NotFound(t *testing.T) {
	svc := &fakeOrderService{err: service.NewNotFoundError("order not found")}
	handler := handlers.GetOrderHandler(newTestLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/orders/missing", nil)
	req = withURLParam(req, "id", "missing")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCancelOrderHandler_Conflict(t *testing.T) {
	svc := &fakeOrderService{err: service.NewConflictError("cannot cancel order in status PAID")}
	handler := handlers.CancelOrderHandler(newTestLogger(), svc)

	req := httptest.NewRequest(http.MethodPatch, "/orders/order-1/cancel", nil)
	req = withURLParam(req, "id", "order-1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListOrdersHandler_QueryParams(t *testing.T) {
	svc := &fakeOrderService{}
	handler := handlers.ListOrdersHandler(newTestLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/orders?page=2&limit=5&buyerEmail=buyer@example.com&status=PAID", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, svc.gotPage)
	assert.Equal(t, 5, svc.gotLimit)
	assert.Equal(t, "buyer@example.com", svc.gotFilter.BuyerEmail)
	assert.Equal(t, models.OrderStatusPaid, svc.gotFilter.Status)

	// A nil result still renders as an empty JSON array.
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestListOrdersHandler_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"bad page", "/orders?page=zero"},
		{"negative page", "/orders?page=-1"},
		{"bad limit", "/orders?limit=x"},
		{"bad status", "/orders?status=SHIPPED"},
	}

	handler := handlers.ListOrdersHandler(newTestLogger(), &fakeOrderService{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestCreatePaymentLinkHandler_Success(t *testing.T) {
	svc := &fakePaymentService{url: "https://checkout.stripe.com/pay/cs_test_123"}
	handler := handlers.CreatePaymentLinkHandler(newTestLogger(), svc, "id")

	req := httptest.NewRequest(http.MethodPost, "/orders/order-1/pay", nil)
	req = withURLParam(req, "id", "order-1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.PaymentLinkResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_123", resp.URL)
}

func TestCreatePaymentLinkHandler_NotConfigured(t *testing.T) {
	svc := &fakePaymentService{err: service.NewConfigurationError("stripe is not configured")}
	handler := handlers.CreatePaymentLinkHandler(newTestLogger(), svc, "orderId")

	req := httptest.NewRequest(http.MethodPost, "/payments/order-1/create-link", nil)
	req = withURLParam(req, "orderId", "order-1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStripeWebhookHandler_Success(t *testing.T) {
	handler := handlers.StripeWebhookHandler(newTestLogger(), &fakePaymentService{})

	req := httptest.NewRequest(http.MethodPost, "/payments/webhooks/stripe", bytes.NewBufferString(`{"type":"checkout.session.completed"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"received":true}`, rr.Body.String())
}

func TestStripeWebhookHandler_InvalidSignature(t *testing.T) {
	svc := &fakePaymentService{webhookErr: service.NewValidationError("invalid stripe signature")}
	handler := handlers.StripeWebhookHandler(newTestLogger(), svc)

	req := httptest.NewRequest(http.MethodPost, "/payments/webhooks/stripe", bytes.NewBufferString(`{}`))
	req.Header.Set("Stripe-Signature", "bad")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateSellerHandler_Success(t *testing.T) {
	svc := &fakeSellerService{seller: &models.Seller{ID: "seller-1", Name: "Acme"}}
	handler := handlers.CreateSellerHandler(newTestLogger(), svc)

	req := httptest.NewRequest(http.MethodPost, "/sellers", bytes.NewBufferString(`{"name":"Acme"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var seller models.Seller
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&seller))
	assert.Equal(t, "Acme", seller.Name)
}

func TestCreateSellerHandler_MissingName(t *testing.T) {
	handler := handlers.CreateSellerHandler(newTestLogger(), &fakeSellerService{})

	req := httptest.NewRequest(http.MethodPost, "/sellers", bytes.NewBufferString(`{}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeleteSellerHandler_NotFound(t *testing.T) {
	svc := &fakeSellerService{err: service.NewNotFoundError("seller not found")}
	handler := handlers.DeleteSellerHandler(newTestLogger(), svc)

	req := httptest.NewRequest(http.MethodDelete, "/sellers/missing", nil)
	req = withURLParam(req, "id", "missing")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateProductHandler_Success(t *testing.T) {
	svc := &fakeProductService{product: &models.Product{
		ID:       "prod-1",
		SellerID: "seller-1",
		Title:    "Widget",
		Price:    decimal.RequireFromString("100.00"),
		Stock:    10,
		IsActive: true,
	}}
	handler := handlers.CreateProductHandler(newTestLogger(), svc)

	body := `{"seller_id":"seller-1","title":"Widget","price":"100.00","stock":10}`
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var product models.Product
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&product))
	assert.Equal(t, "prod-1", product.ID)
	assert.True(t, product.IsActive)
}

func TestCreateProductHandler_NegativePrice(t *testing.T) {
	handler := handlers.CreateProductHandler(newTestLogger(), &fakeProductService{})

	body := `{"seller_id":"seller-1","title":"Widget","price":"-1.00","stock":10}`
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateProductHandler_UnknownSeller(t *testing.T) {
	svc := &fakeProductService{err: service.NewNotFoundError("seller not found")}
	handler := handlers.CreateProductHandler(newTestLogger(), svc)

	body := `{"seller_id":"ghost","title":"Widget","price":"100.00","stock":10}`
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListProductsHandler_InvalidIsActive(t *testing.T) {
	handler := handlers.ListProductsHandler(newTestLogger(), &fakeProductService{})

	req := httptest.NewRequest(http.MethodGet, "/products?isActive=maybe", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateProductHandler_NegativeStock(t *testing.T) {
	handler := handlers.UpdateProductHandler(newTestLogger(), &fakeProductService{})

	req := httptest.NewRequest(http.MethodPatch, "/products/prod-1", bytes.NewBufferString(`{"stock":-5}`))
	req = withURLParam(req, "id", "prod-1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
