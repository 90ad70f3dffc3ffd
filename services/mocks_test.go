package services

import (
	"context"
	"testing"

	"storefront-client/database"
	"storefront-client/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Mocks for Dependencies ---

type MockAuthAPI struct{ mock.Mock }

func (m *MockAuthAPI) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthAPI) Me(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthAPI) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthAPI) UpdateProfile(ctx context.Context, token string, req models.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockOrderAPI struct{ mock.Mock }

func (m *MockOrderAPI) ListOrders(ctx context.Context, token string) ([]models.Order, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderAPI) GetOrder(ctx context.Context, token string, id int64) (*models.Order, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderAPI) CreateOrder(ctx context.Context, token string, req models.OrderCreateRequest) (*models.Order, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderAPI) UpdateOrderStatus(ctx context.Context, token string, id int64, req models.OrderStatusUpdate) (*models.Order, error) {
	args := m.Called(ctx, token, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type MockCatalogAPI struct{ mock.Mock }

func (m *MockCatalogAPI) ListProducts(ctx context.Context, token string, q models.ProductQuery) ([]models.Product, error) {
	args := m.Called(ctx, token, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockCatalogAPI) GetProduct(ctx context.Context, token string, id int64) (*models.Product, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalogAPI) MyProducts(ctx context.Context, token string) ([]models.Product, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockCatalogAPI) CreateProduct(ctx context.Context, token string, req models.ProductCreateRequest) (*models.Product, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalogAPI) UpdateProduct(ctx context.Context, token string, id int64, req models.ProductUpdateRequest) (*models.Product, error) {
	args := m.Called(ctx, token, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalogAPI) DeleteProduct(ctx context.Context, token string, id int64) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *MockCatalogAPI) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

// faultyStore is a MemoryStore whose operations can be made to fail.
type faultyStore struct {
	*database.MemoryStore
	getErr error
	setErr error
	delErr error
}

func newFaultyStore() *faultyStore {
	return &faultyStore{MemoryStore: database.NewMemoryStore()}
}

func (s *faultyStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *faultyStore) Set(ctx context.Context, key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func (s *faultyStore) Delete(ctx context.Context, key string) error {
	if s.delErr != nil {
		return s.delErr
	}
	return s.MemoryStore.Delete(ctx, key)
}

// --- Fixtures ---

func testUser(id int64, role models.Role) *models.User {
	return &models.User{
		ID:        id,
		Email:     "a@b.com",
		FirstName: "Ada",
		LastName:  "Baker",
		Role:      role,
	}
}

// loggedIn returns a session that has completed a login as a user with role.
func loggedIn(t *testing.T, role models.Role, store database.KeyValueStore) (*SessionService, *MockAuthAPI) {
	t.Helper()
	api := new(MockAuthAPI)
	api.On("Login", mock.Anything, "a@b.com", "secret1").Return("T", nil)
	api.On("Me", mock.Anything, "T").Return(testUser(1, role), nil)

	session := NewSessionService(api, store, zap.NewNop())
	require.NoError(t, session.Login(context.Background(), "a@b.com", "secret1"))
	return session, api
}
