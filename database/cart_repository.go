package database

import (
	"context"
	"encoding/json"
	"time"

	"storefront-client/models"
)

// CartSnapshot is the persisted form of a user's cart
type CartSnapshot struct {
	UserID    int64             `json:"user_id"`
	Items     []models.CartItem `json:"items"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// CartRepository saves cart snapshots in the key-value store, one key per user
type CartRepository struct {
	store KeyValueStore
	now   func() time.Time
}

func NewCartRepository(store KeyValueStore) *CartRepository {
	return &CartRepository{
		store: store,
		now:   time.Now,
	}
}

// GetCart returns nil without error when the user has no saved cart
func (r *CartRepository) GetCart(ctx context.Context, userID int64) (*CartSnapshot, error) {
	data, found, err := r.store.Get(ctx, CartKey(userID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var cart CartSnapshot
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepository) SaveCart(ctx context.Context, userID int64, items []models.CartItem) error {
	cart := CartSnapshot{
		UserID:    userID,
		Items:     items,
		UpdatedAt: r.now(),
	}

	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	return r.store.Set(ctx, CartKey(userID), string(data))
}

func (r *CartRepository) DeleteCart(ctx context.Context, userID int64) error {
	return r.store.Delete(ctx, CartKey(userID))
}
