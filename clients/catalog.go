package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"storefront-client/models"
)

func productQueryValues(q models.ProductQuery) url.Values {
	v := url.Values{}
	if q.CategoryID != nil {
		v.Set("category_id", strconv.FormatInt(*q.CategoryID, 10))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.IsOrganic != nil {
		v.Set("is_organic", strconv.FormatBool(*q.IsOrganic))
	}
	if q.Skip > 0 {
		v.Set("skip", strconv.Itoa(q.Skip))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// ListProducts returns the public catalog; token is optional
func (c *APIClient) ListProducts(ctx context.Context, token string, q models.ProductQuery) ([]models.Product, error) {
	var out []models.Product
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/products/",
		token:  token,
		query:  productQueryValues(q),
	}, &out)
	return out, err
}

// GetProduct fetches one product; token is optional
func (c *APIClient) GetProduct(ctx context.Context, token string, id int64) (*models.Product, error) {
	var out models.Product
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/products/%d", id),
		token:  token,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MyProducts lists the calling farmer's products
func (c *APIClient) MyProducts(ctx context.Context, token string) ([]models.Product, error) {
	var out []models.Product
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/products/farmer/my-products",
		token:  token,
	}, &out)
	return out, err
}

func (c *APIClient) CreateProduct(ctx context.Context, token string, req models.ProductCreateRequest) (*models.Product, error) {
	if err := validateProductCreate(c, req); err != nil {
		return nil, err
	}
	var out models.Product
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/products/",
		token:  token,
		body:   req,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) UpdateProduct(ctx context.Context, token string, id int64, req models.ProductUpdateRequest) (*models.Product, error) {
	if err := validateProductUpdate(req); err != nil {
		return nil, err
	}
	var out models.Product
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   fmt.Sprintf("/products/%d", id),
		token:  token,
		body:   req,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) DeleteProduct(ctx context.Context, token string, id int64) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/products/%d", id),
		token:  token,
	}, nil)
}

// ListCategories needs no authentication
func (c *APIClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/categories/",
	}, &out)
	return out, err
}
