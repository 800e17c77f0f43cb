// Package autoflex is a typed Go client for the AutoFlex inventory API,
// covering the same surface as the dashboard's HTTP client.
package autoflex

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/autoflex/inventory/internal/domain/models"
)

// Client exposes the inventory API operations.
type Client interface {
	GetMaterials(ctx context.Context) ([]models.RawMaterial, error)
	CreateMaterial(ctx context.Context, name string, stockQuantity float64) (*models.RawMaterial, error)
	UpdateMaterial(ctx context.Context, id int64, name string, stockQuantity float64) (*models.RawMaterial, error)
	DeleteMaterial(ctx context.Context, id int64) error
	GetProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, name string, price float64, compositions []models.Composition) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	DeleteProductByName(ctx context.Context, name string) error
	GetProductionSuggestions(ctx context.Context) ([]models.ProductionSuggestion, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// Verify interface compliance.
var _ Client = (*APIClient)(nil)

// NewClient builds an API client for the given base URL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/") + "/api").
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{httpClient: restyClient}
}

// APIError carries the failure payload returned by the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("autoflex api error: code=%d, message=%s", e.StatusCode, e.Message)
}

// errorBody mirrors the service's {"error": "..."} failure shape.
type errorBody struct {
	Error string `json:"error"`
}

type materialPayload struct {
	Name          string  `json:"name"`
	StockQuantity float64 `json:"stockQuantity"`
}

type productPayload struct {
	Name         string               `json:"name"`
	Price        float64              `json:"price"`
	Compositions []models.Composition `json:"compositions"`
}

// GetMaterials lists all raw materials.
func (c *APIClient) GetMaterials(ctx context.Context) ([]models.RawMaterial, error) {
	var result []models.RawMaterial
	apiErr := new(errorBody)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(apiErr).
		Get("/materials")
	if err != nil {
		return nil, fmt.Errorf("get materials: %w", err)
	}
	if err := checkStatus(resp, apiErr); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateMaterial stores a new raw material.
func (c *APIClient) CreateMaterial(ctx context.Context, name string, stockQuantity float64) (*models.RawMaterial, error) {
	result := new(models.RawMaterial)
	apiErr := new(errorBody)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(materialPayload{Name: name, StockQuantity: stockQuantity}).
		SetResult(result).
		SetError(apiErr).
		Post("/materials")
	if err != nil {
		return nil, fmt.Errorf("create material: %w", err)
	}
	if err := checkStatus(resp, apiErr); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateMaterial replaces a material's name and stock quantity.
func (c *APIClient) UpdateMaterial(ctx context.Context, id int64, name string, stockQuantity float64) (*models.RawMaterial, error) {
	result := new(models.RawMaterial)
	apiErr := new(errorBody)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(materialPayload{Name: name, StockQuantity: stockQuantity}).
		SetResult(result).
		SetError(apiErr).
		Put(fmt.Sprintf("/materials/%d", id))
	if err != nil {
		return nil, fmt.Errorf("update material: %w", err)
	}
	if err := checkStatus(resp, apiErr); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteMaterial removes an unreferenced material.
func (c *APIClient) DeleteMaterial(ctx context.Context, id int64) error {
	apiErr := new(errorBody)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetError(apiErr).
		Delete(fmt.Sprintf("/materials/%d", id))
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	return checkStatus(resp, apiErr)
}

// GetProducts lists all products with resolved compositions.
func (c *APIClient) GetProducts(ctx context.Context) ([]models.Product, error) {
	var result []models.Product
	apiErr := new(errorBody)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(apiErr).
		Get("/products")
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	if err := checkStatus(resp, apiErr); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateProduct stores a new product with its recipe.
func (c *APIClient) CreateProduct(ctx context.Context, name string, price float64, compositions []models.Composition) (*models.Product, error) {
	result := new(models.Product)
	apiErr := new(errorBody)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(productPayload{Name: name, Price: price, Compositions: compositions}).
		SetResult(result).
		SetError(apiErr).
		Post("/products")
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	if err := checkStatus(resp, apiErr); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteProduct removes a product by id.
func (c *APIClient) DeleteProduct(ctx context.Context, id int64) error {
	return c.deleteProduct(ctx, fmt.Sprintf("%d", id))
}

// DeleteProductByName removes a product by display name, matching the
// dashboard's deletion call.
func (c *APIClient) DeleteProductByName(ctx context.Context, name string) error {
	return c.deleteProduct(ctx, url.PathEscape(name))
}

func (c *APIClient) deleteProduct(ctx context.Context, identifier string) error {
	apiErr := new(errorBody)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetError(apiErr).
		Delete("/products/" + identifier)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return checkStatus(resp, apiErr)
}

// GetProductionSuggestions fetches the current feasibility report.
func (c *APIClient) GetProductionSuggestions(ctx context.Context) ([]models.ProductionSuggestion, error) {
	var result []models.ProductionSuggestion
	apiErr := new(errorBody)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(apiErr).
		Get("/products/suggested-production")
	if err != nil {
		return nil, fmt.Errorf("get production suggestions: %w", err)
	}
	if err := checkStatus(resp, apiErr); err != nil {
		return nil, err
	}
	return result, nil
}

func checkStatus(resp *resty.Response, apiErr *errorBody) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}
	message := ""
	if apiErr != nil {
		message = apiErr.Error
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: message}
}
