package clients

import (
	"context"
	"fmt"
	"net/http"

	"storefront-client/models"
)

func (c *APIClient) ListOrders(ctx context.Context, token string) ([]models.Order, error) {
	var out []models.Order
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/orders/",
		token:  token,
	}, &out)
	return out, err
}

func (c *APIClient) GetOrder(ctx context.Context, token string, id int64) (*models.Order, error) {
	var out models.Order
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/orders/%d", id),
		token:  token,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrder submits a customer order
func (c *APIClient) CreateOrder(ctx context.Context, token string, req models.OrderCreateRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, validationError("Order must contain at least one item")
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, validationError("Order quantities must be at least 1")
		}
	}
	if req.DeliveryAddress == "" {
		return nil, validationError("delivery_address is required")
	}

	var out models.Order
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/orders/",
		token:  token,
		body:   req,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrderStatus is used by farmers to move an order along
func (c *APIClient) UpdateOrderStatus(ctx context.Context, token string, id int64, req models.OrderStatusUpdate) (*models.Order, error) {
	if !req.Status.Valid() {
		return nil, validationError(fmt.Sprintf("unknown order status %q", req.Status))
	}
	var out models.Order
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   fmt.Sprintf("/orders/%d", id),
		token:  token,
		body:   req,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
