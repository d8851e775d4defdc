package products

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protorq/protorq/internal/platform/httpx"
)

type mockRepository struct {
	products map[string]*Product
	order    []string
	seq      int
}

func newMockRepository() *mockRepository {
	return &mockRepository{products: map[string]*Product{}}
}

func (m *mockRepository) Create(_ context.Context, p *Product) error {
	m.seq++
	p.ID = fmt.Sprintf("p-%d", m.seq)
	cp := *p
	m.products[p.ID] = &cp
	m.order = append([]string{p.ID}, m.order...)
	return nil
}

func (m *mockRepository) Get(_ context.Context, id string) (*Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepository) List(context.Context) ([]Product, error) {
	out := []Product{}
	for _, id := range m.order {
		if p, ok := m.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockRepository) Update(_ context.Context, id string, updates map[string]any) error {
	p, ok := m.products[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range updates {
		switch k {
		case "product_name":
			p.ProductName = v.(string)
		case "product_description":
			p.ProductDescription = v.(string)
		case "price":
			p.Price = v.(decimal.Decimal)
		case "category":
			p.Category = Category(v.(string))
		}
	}
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func newTestService() (*Service, *mockRepository) {
	repo := newMockRepository()
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreateProduct(t *testing.T) {
	svc, repo := newTestService()

	p, err := svc.Create(context.Background(), CreateProductRequest{
		ProductName:        " Jaw Coupling ",
		ProductDescription: " L-type ",
		Price:              price("1499.50"),
		Category:           "Couplings",
	})

	require.NoError(t, err)
	assert.Equal(t, "Jaw Coupling", p.ProductName)
	assert.Equal(t, "L-type", p.ProductDescription)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("1499.5")))
	assert.Len(t, repo.products, 1)
}

func TestCreateProductValidation(t *testing.T) {
	svc, repo := newTestService()
	cases := []struct {
		req CreateProductRequest
		msg string
	}{
		{CreateProductRequest{ProductDescription: "d", Price: price("1"), Category: "Couplings"}, msgRequired},
		{CreateProductRequest{ProductName: "n", ProductDescription: "d", Category: "Couplings"}, msgRequired},
		{CreateProductRequest{ProductName: "n", ProductDescription: "d", Price: price("-1"), Category: "Couplings"}, msgPrice},
		{CreateProductRequest{ProductName: "n", ProductDescription: "d", Price: price("1"), Category: "Valves"}, msgCategory},
	}
	for _, tc := range cases {
		_, err := svc.Create(context.Background(), tc.req)
		require.ErrorIs(t, err, httpx.ErrValidation)
		assert.Equal(t, tc.msg, httpx.Describe(err))
	}
	assert.Empty(t, repo.products)
}

func TestCreateProductAllowsZeroPrice(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Create(context.Background(), CreateProductRequest{
		ProductName: "Sample", ProductDescription: "free", Price: price("0"), Category: "Gear pump",
	})
	require.NoError(t, err)
}

func TestUpdateProductPartial(t *testing.T) {
	svc, _ := newTestService()
	p, err := svc.Create(context.Background(), CreateProductRequest{
		ProductName: "Limiter", ProductDescription: "TL", Price: price("10"), Category: "Torque Limiters",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), p.ID, UpdateProductRequest{Price: price("12.25")})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("12.25")))
	assert.Equal(t, "Limiter", updated.ProductName)
	assert.Equal(t, CategoryTorqueLimiters, updated.Category)

	_, err = svc.Update(context.Background(), p.ID, UpdateProductRequest{Category: new(string)})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Update(context.Background(), "missing", UpdateProductRequest{})
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestProductHandlers(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	router := chi.NewRouter()
	h.MountRoutes(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/products",
		strings.NewReader(`{"productName":"Pump","productDescription":"GP-1","price":250,"category":"Gear pump"}`)))
	require.Equal(t, http.StatusCreated, rr.Code)
	var created ProductResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "Product created successfully", created.Message)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var list []Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/products/"+created.Product.ID, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/"+created.Product.ID, nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	var body httpx.MessageBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Product not found", body.Message)
}
