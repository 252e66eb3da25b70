package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/monoshelf/monoshelf-backend/api/middleware"
	productsvc "github.com/monoshelf/monoshelf-backend/internal/products"
	pkgerrors "github.com/monoshelf/monoshelf-backend/pkg/errors"
	"github.com/monoshelf/monoshelf-backend/pkg/pagination"
)

type fakeProductService struct {
	listFn   func(ctx context.Context, userID uuid.UUID, params pagination.Params) (productsvc.ProductsPageDTO, error)
	getFn    func(ctx context.Context, userID, productID uuid.UUID) (*productsvc.ProductDetailDTO, error)
	createFn func(ctx context.Context, userID uuid.UUID, input productsvc.ProductInput) (*productsvc.ProductDTO, error)
	updateFn func(ctx context.Context, userID, productID uuid.UUID, input productsvc.ProductInput) (*productsvc.ProductDTO, error)
	deleteFn func(ctx context.Context, userID, productID uuid.UUID) error
}

func (f *fakeProductService) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (productsvc.ProductsPageDTO, error) {
	if f.listFn != nil {
		return f.listFn(ctx, userID, params)
	}
	return productsvc.ProductsPageDTO{Products: []productsvc.ProductDTO{}}, nil
}

func (f *fakeProductService) Get(ctx context.Context, userID, productID uuid.UUID) (*productsvc.ProductDetailDTO, error) {
	if f.getFn != nil {
		return f.getFn(ctx, userID, productID)
	}
	return &productsvc.ProductDetailDTO{}, nil
}

func (f *fakeProductService) Create(ctx context.Context, userID uuid.UUID, input productsvc.ProductInput) (*productsvc.ProductDTO, error) {
	if f.createFn != nil {
		return f.createFn(ctx, userID, input)
	}
	return &productsvc.ProductDTO{}, nil
}

func (f *fakeProductService) Update(ctx context.Context, userID, productID uuid.UUID, input productsvc.ProductInput) (*productsvc.ProductDTO, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, userID, productID, input)
	}
	return &productsvc.ProductDTO{}, nil
}

func (f *fakeProductService) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, userID, productID)
	}
	return nil
}

func authedRequest(method, target, body string, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func withProductParam(req *http.Request, productID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("productId", productID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestProductCreateReturns201(t *testing.T) {
	userID := uuid.New()
	var gotName string
	svc := &fakeProductService{
		createFn: func(ctx context.Context, uid uuid.UUID, input productsvc.ProductInput) (*productsvc.ProductDTO, error) {
			if uid != userID {
				t.Fatalf("expected user %s got %s", userID, uid)
			}
			if input.Name.Value != nil {
				gotName = *input.Name.Value
			}
			return &productsvc.ProductDTO{ID: uuid.New(), Name: "Cordless Drill"}, nil
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/products", `{"name":"Cordless Drill"}`, userID)
	resp := httptest.NewRecorder()
	ProductCreate(svc, nil)(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", resp.Code, resp.Body.String())
	}
	if gotName != "Cordless Drill" {
		t.Fatalf("expected name forwarded, got %q", gotName)
	}
}

func TestProductCreateRejectsUnknownFields(t *testing.T) {
	svc := &fakeProductService{}
	req := authedRequest(http.MethodPost, "/api/v1/products", `{"name":"Drill","bogus":true}`, uuid.New())
	resp := httptest.NewRecorder()
	ProductCreate(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProductCreateRequiresUserContext(t *testing.T) {
	svc := &fakeProductService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{"name":"Drill"}`))
	resp := httptest.NewRecorder()
	ProductCreate(svc, nil)(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestProductGetMapsServiceErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", pkgerrors.New(pkgerrors.CodeNotFound, "product not found"), http.StatusNotFound},
		{"forbidden", pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another user"), http.StatusForbidden},
		{"dependency", pkgerrors.New(pkgerrors.CodeDependency, "database unavailable"), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeProductService{
				getFn: func(ctx context.Context, userID, productID uuid.UUID) (*productsvc.ProductDetailDTO, error) {
					return nil, tc.err
				},
			}
			req := withProductParam(authedRequest(http.MethodGet, "/api/v1/products/x", "", uuid.New()), uuid.NewString())
			resp := httptest.NewRecorder()
			ProductGet(svc, nil)(resp, req)
			if resp.Code != tc.want {
				t.Fatalf("expected %d got %d", tc.want, resp.Code)
			}
		})
	}
}

func TestProductGetRejectsMalformedID(t *testing.T) {
	svc := &fakeProductService{}
	req := withProductParam(authedRequest(http.MethodGet, "/api/v1/products/nope", "", uuid.New()), "nope")
	resp := httptest.NewRecorder()
	ProductGet(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProductsListForwardsPagination(t *testing.T) {
	var got pagination.Params
	svc := &fakeProductService{
		listFn: func(ctx context.Context, userID uuid.UUID, params pagination.Params) (productsvc.ProductsPageDTO, error) {
			got = params
			return productsvc.ProductsPageDTO{Products: []productsvc.ProductDTO{}}, nil
		},
	}
	req := authedRequest(http.MethodGet, "/api/v1/products?limit=25&cursor=abc", "", uuid.New())
	resp := httptest.NewRecorder()
	ProductsList(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got.Limit != 25 || got.Cursor != "abc" {
		t.Fatalf("unexpected params: %+v", got)
	}
}

func TestProductsListDefaultsToFullCollection(t *testing.T) {
	var got pagination.Params
	svc := &fakeProductService{
		listFn: func(ctx context.Context, userID uuid.UUID, params pagination.Params) (productsvc.ProductsPageDTO, error) {
			got = params
			return productsvc.ProductsPageDTO{Products: []productsvc.ProductDTO{}}, nil
		},
	}
	req := authedRequest(http.MethodGet, "/api/v1/products", "", uuid.New())
	resp := httptest.NewRecorder()
	ProductsList(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !got.Unbounded() {
		t.Fatalf("expected unbounded params, got limit %d", got.Limit)
	}
}

func TestProductsListRejectsBadLimit(t *testing.T) {
	svc := &fakeProductService{}
	req := authedRequest(http.MethodGet, "/api/v1/products?limit=zero", "", uuid.New())
	resp := httptest.NewRecorder()
	ProductsList(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProductDeleteRespondsWithAck(t *testing.T) {
	deleted := false
	svc := &fakeProductService{
		deleteFn: func(ctx context.Context, userID, productID uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	req := withProductParam(authedRequest(http.MethodDelete, "/api/v1/products/x", "", uuid.New()), uuid.NewString())
	resp := httptest.NewRecorder()
	ProductDelete(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !deleted {
		t.Fatal("expected delete to reach the service")
	}
	var payload struct {
		Data map[string]bool `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Data["deleted"] {
		t.Fatalf("unexpected payload: %s", resp.Body.String())
	}
}
