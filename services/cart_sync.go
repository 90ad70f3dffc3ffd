package services

import (
	"context"
	"sync"

	"storefront-client/logger"
	"storefront-client/models"

	"go.uber.org/zap"
)

// CartSync ties the cart to the user it was built by. The cart survives a
// session ending so that the same user can pick it up again after logging
// back in; another user starts from their own saved cart or an empty one.
// With a nil snapshot store carts live in memory only.
type CartSync struct {
	cart    *CartService
	repo    CartSnapshots
	session *SessionService
	logger  *zap.Logger

	mu    sync.Mutex
	owner int64
}

func NewCartSync(cart *CartService, repo CartSnapshots, session *SessionService, logger *zap.Logger) *CartSync {
	return &CartSync{
		cart:    cart,
		repo:    repo,
		session: session,
		logger:  logger,
	}
}

// Persistent reports whether carts survive restarts.
func (s *CartSync) Persistent() bool {
	return s.repo != nil
}

// SessionStarted keeps the cart when its owner logs back in and otherwise
// loads the user's saved cart, if any.
func (s *CartSync) SessionStarted(ctx context.Context, user *models.User) {
	if user == nil {
		return
	}

	s.mu.Lock()
	sameOwner := s.owner == user.ID
	s.owner = user.ID
	s.mu.Unlock()

	if sameOwner && s.cart.ItemCount() > 0 {
		s.Save(ctx)
		return
	}

	s.cart.ClearCart()
	if s.repo == nil {
		return
	}

	snapshot, err := s.repo.GetCart(ctx, user.ID)
	if err != nil {
		logger.For(ctx, s.logger).Warn("Failed to load saved cart", zap.Int64("user_id", user.ID), zap.Error(err))
		return
	}
	if snapshot == nil {
		return
	}
	s.cart.Restore(snapshot.Items)
	logger.For(ctx, s.logger).Debug("Cart restored",
		zap.Int64("user_id", user.ID),
		zap.Int("item_count", s.cart.ItemCount()),
	)
}

// SessionEnded leaves the cart alone; cart routes are closed to anonymous
// callers and the next SessionStarted decides whether it is kept.
func (s *CartSync) SessionEnded(ctx context.Context, user *models.User) {
	if user != nil {
		logger.For(ctx, s.logger).Debug("Session ended, cart parked",
			zap.Int64("user_id", user.ID),
			zap.Int("item_count", s.cart.ItemCount()),
		)
	}
}

// Save writes the current cart for the logged-in user. An empty cart removes
// the snapshot. Failures are logged only.
func (s *CartSync) Save(ctx context.Context) {
	if s.repo == nil {
		return
	}
	user := s.session.User()
	if user == nil {
		return
	}

	items := s.cart.Items()
	var err error
	if len(items) == 0 {
		err = s.repo.DeleteCart(ctx, user.ID)
	} else {
		err = s.repo.SaveCart(ctx, user.ID, items)
	}
	if err != nil {
		logger.For(ctx, s.logger).Warn("Failed to save cart", zap.Int64("user_id", user.ID), zap.Error(err))
	}
}
