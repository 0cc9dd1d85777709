package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopmile/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductHandler_GetAll(t *testing.T) {
	testProducts := []model.Product{
		{ID: "P001", Name: "Product 1", Price: 1000, Category: "Cat1", CreatedAt: time.Now()},
		{ID: "P002", Name: "Product 2", Price: 2000, Category: "Cat2", CreatedAt: time.Now()},
	}

	tests := []struct {
		name           string
		url            string
		mockReturn     []model.Product
		mockError      error
		expectedStatus int
		expectedCount  int
	}{
		{
			name:           "Success with defaults",
			url:            "/api/products",
			mockReturn:     testProducts,
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name:           "Empty result is an empty array",
			url:            "/api/products",
			expectedStatus: http.StatusOK,
			expectedCount:  0,
		},
		{
			name:           "Service error",
			url:            "/api/products",
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			h := NewProductHandler(mockService, zerolog.Nop())

			mockService.On("GetAll", mock.Anything, 20, 0).Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()

			h.GetAll(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusOK {
				var resp struct {
					Success bool            `json:"success"`
					Data    []model.Product `json:"data"`
				}
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.True(t, resp.Success)
				assert.Len(t, resp.Data, tt.expectedCount)
			}
		})
	}
}

func TestProductHandler_GetByID(t *testing.T) {
	testProduct := &model.Product{ID: "P001", Name: "Product 1", Price: 1000, Category: "Cat1", CreatedAt: time.Now()}

	tests := []struct {
		name           string
		path           string
		productID      string
		mockReturn     *model.Product
		mockError      error
		expectedStatus int
	}{
		{
			name:           "Success",
			path:           "/api/products/P001",
			productID:      "P001",
			mockReturn:     testProduct,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Product not found",
			path:           "/api/products/P999",
			productID:      "P999",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Service error",
			path:           "/api/products/P001",
			productID:      "P001",
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			h := NewProductHandler(mockService, zerolog.Nop())

			mockService.On("GetByID", mock.Anything, tt.productID).Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()

			h.GetByID(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestProductHandler_MethodNotAllowed(t *testing.T) {
	h := NewProductHandler(new(MockProductService), zerolog.Nop())

	req := httptest.NewRequest(http.MethodDelete, "/api/products", nil)
	rec := httptest.NewRecorder()

	h.GetAll(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
