package services

import (
	"context"
	"errors"

	"storefront-client/logger"
	"storefront-client/models"

	"go.uber.org/zap"
)

const (
	msgLoadProducts   = "Failed to load products"
	msgLoadCategories = "Failed to load categories"
	msgSaveProduct    = "Failed to save product"
	msgDeleteProduct  = "Failed to delete product"
	msgLoadOrders     = "Failed to load orders"
	msgUpdateOrder    = "Failed to update order status"
)

// CatalogService serves product browsing for everyone and product management
// for farmers. Public reads send the session token when there is one.
type CatalogService struct {
	api     CatalogAPI
	session *SessionService
	logger  *zap.Logger
}

func NewCatalogService(api CatalogAPI, session *SessionService, logger *zap.Logger) *CatalogService {
	return &CatalogService{api: api, session: session, logger: logger}
}

func (s *CatalogService) ListProducts(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	var products []models.Product
	err := s.read(ctx, func(token string) error {
		var err error
		products, err = s.api.ListProducts(ctx, token, q)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, "ListProducts", err, msgLoadProducts)
	}
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product *models.Product
	err := s.read(ctx, func(token string) error {
		var err error
		product, err = s.api.GetProduct(ctx, token, id)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, "GetProduct", err, msgLoadProducts)
	}
	return product, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.api.ListCategories(ctx)
	if err != nil {
		logger.For(ctx, s.logger).Warn("ListCategories failed", zap.Error(err))
		return nil, requestFailure(err, msgLoadCategories)
	}
	return categories, nil
}

func (s *CatalogService) MyProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.asFarmer(ctx, func(token string) error {
		var err error
		products, err = s.api.MyProducts(ctx, token)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, "MyProducts", err, msgLoadProducts)
	}
	return products, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req models.ProductCreateRequest) (*models.Product, error) {
	var product *models.Product
	err := s.asFarmer(ctx, func(token string) error {
		var err error
		product, err = s.api.CreateProduct(ctx, token, req)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, "CreateProduct", err, msgSaveProduct)
	}
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, req models.ProductUpdateRequest) (*models.Product, error) {
	var product *models.Product
	err := s.asFarmer(ctx, func(token string) error {
		var err error
		product, err = s.api.UpdateProduct(ctx, token, id, req)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, "UpdateProduct", err, msgSaveProduct)
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	err := s.asFarmer(ctx, func(token string) error {
		return s.api.DeleteProduct(ctx, token, id)
	})
	if err != nil {
		return s.fail(ctx, "DeleteProduct", err, msgDeleteProduct)
	}
	return nil
}

// read runs a public call anonymously, or through Authorized while a session
// is open so that a rejected token ends it.
func (s *CatalogService) read(ctx context.Context, fn func(token string) error) error {
	if s.session.Token() == "" {
		return fn("")
	}
	err := s.session.Authorized(ctx, fn)
	if errors.Is(err, ErrNotAuthenticated) {
		// logged out between the check and the call
		return fn("")
	}
	return err
}

func (s *CatalogService) asFarmer(ctx context.Context, fn func(token string) error) error {
	return requireRole(ctx, s.session, models.RoleFarmer, fn)
}

func (s *CatalogService) fail(ctx context.Context, op string, err error, fallback string) error {
	if isSessionError(err) {
		return err
	}
	logger.For(ctx, s.logger).Warn(op+" failed", zap.Error(err))
	return requestFailure(err, fallback)
}

// OrderService lists orders for either role and lets farmers move them along.
type OrderService struct {
	api     OrderAPI
	session *SessionService
	logger  *zap.Logger
}

func NewOrderService(api OrderAPI, session *SessionService, logger *zap.Logger) *OrderService {
	return &OrderService{api: api, session: session, logger: logger}
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.session.Authorized(ctx, func(token string) error {
		var err error
		orders, err = s.api.ListOrders(ctx, token)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, "ListOrders", err, msgLoadOrders)
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var order *models.Order
	err := s.session.Authorized(ctx, func(token string) error {
		var err error
		order, err = s.api.GetOrder(ctx, token, id)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, "GetOrder", err, msgLoadOrders)
	}
	return order, nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, id int64, req models.OrderStatusUpdate) (*models.Order, error) {
	var order *models.Order
	err := requireRole(ctx, s.session, models.RoleFarmer, func(token string) error {
		var err error
		order, err = s.api.UpdateOrderStatus(ctx, token, id, req)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, "UpdateOrderStatus", err, msgUpdateOrder)
	}
	return order, nil
}

func (s *OrderService) fail(ctx context.Context, op string, err error, fallback string) error {
	if isSessionError(err) {
		return err
	}
	logger.For(ctx, s.logger).Warn(op+" failed", zap.Error(err))
	return requestFailure(err, fallback)
}

func requireRole(ctx context.Context, session *SessionService, role models.Role, fn func(token string) error) error {
	if !session.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if !session.hasRole(role) {
		return ErrForbiddenRole
	}
	return session.Authorized(ctx, fn)
}

func isSessionError(err error) bool {
	return errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrForbiddenRole)
}
