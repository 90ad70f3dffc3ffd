package services

import (
	"context"

	"storefront-client/clients"
	"storefront-client/database"
	"storefront-client/models"
)

// AuthAPI is the part of the backend client the session manager needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context, token string) (*models.User, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	UpdateProfile(ctx context.Context, token string, req models.ProfileUpdate) (*models.User, error)
}

// CatalogAPI covers products and categories.
type CatalogAPI interface {
	ListProducts(ctx context.Context, token string, q models.ProductQuery) ([]models.Product, error)
	GetProduct(ctx context.Context, token string, id int64) (*models.Product, error)
	MyProducts(ctx context.Context, token string) ([]models.Product, error)
	CreateProduct(ctx context.Context, token string, req models.ProductCreateRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, token string, id int64, req models.ProductUpdateRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, token string, id int64) error
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// OrderAPI covers order submission and tracking.
type OrderAPI interface {
	ListOrders(ctx context.Context, token string) ([]models.Order, error)
	GetOrder(ctx context.Context, token string, id int64) (*models.Order, error)
	CreateOrder(ctx context.Context, token string, req models.OrderCreateRequest) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, token string, id int64, req models.OrderStatusUpdate) (*models.Order, error)
}

// CartSnapshots persists carts per user.
type CartSnapshots interface {
	GetCart(ctx context.Context, userID int64) (*database.CartSnapshot, error)
	SaveCart(ctx context.Context, userID int64, items []models.CartItem) error
	DeleteCart(ctx context.Context, userID int64) error
}

// SessionListener is notified when a session starts or ends.
type SessionListener interface {
	SessionStarted(ctx context.Context, user *models.User)
	SessionEnded(ctx context.Context, user *models.User)
}

var (
	_ AuthAPI       = (*clients.APIClient)(nil)
	_ CatalogAPI    = (*clients.APIClient)(nil)
	_ OrderAPI      = (*clients.APIClient)(nil)
	_ CartSnapshots = (*database.CartRepository)(nil)
)
