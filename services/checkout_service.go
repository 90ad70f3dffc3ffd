package services

import (
	"context"
	"errors"
	"strings"

	"storefront-client/logger"
	"storefront-client/models"

	"go.uber.org/zap"
)

// CheckoutRequest carries what the customer enters on the checkout screen.
type CheckoutRequest struct {
	DeliveryAddress string  `json:"delivery_address"`
	Notes           *string `json:"notes"`
}

// CheckoutService submits the cart as an order. The cart is only cleared
// once the backend has accepted the order.
type CheckoutService struct {
	session *SessionService
	cart    *CartService
	orders  OrderAPI
	sync    *CartSync
	logger  *zap.Logger
}

func NewCheckoutService(session *SessionService, cart *CartService, orders OrderAPI, sync *CartSync, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		session: session,
		cart:    cart,
		orders:  orders,
		sync:    sync,
		logger:  logger,
	}
}

func (s *CheckoutService) PlaceOrder(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	log := logger.For(ctx, s.logger)

	if !s.session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if !s.session.IsCustomer() {
		return nil, ErrForbiddenRole
	}

	items := s.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	address := strings.TrimSpace(req.DeliveryAddress)
	if address == "" {
		return nil, ErrMissingAddress
	}

	lines := make([]models.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	var notes *string
	if req.Notes != nil && strings.TrimSpace(*req.Notes) != "" {
		n := strings.TrimSpace(*req.Notes)
		notes = &n
	}

	var order *models.Order
	err := s.session.Authorized(ctx, func(token string) error {
		var err error
		order, err = s.orders.CreateOrder(ctx, token, models.OrderCreateRequest{
			Items:           lines,
			DeliveryAddress: address,
			Notes:           notes,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrNotAuthenticated) {
			return nil, err
		}
		log.Warn("Order submission failed, cart kept", zap.Int("lines", len(lines)), zap.Error(err))
		return nil, requestFailure(err, msgOrderFailed)
	}

	s.cart.ClearCart()
	if s.sync != nil {
		s.sync.Save(ctx)
	}

	if order != nil {
		log.Info("Order placed", zap.Int64("order_id", order.ID), zap.String("total", order.TotalAmount.StringFixed(2)))
	}
	return order, nil
}
