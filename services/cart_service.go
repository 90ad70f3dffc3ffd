package services

import (
	"sync"

	"storefront-client/models"

	"github.com/shopspring/decimal"
)

// Pricing holds the configured checkout charges.
type Pricing struct {
	TaxRate     decimal.Decimal
	DeliveryFee decimal.Decimal
}

// CartService is the in-memory cart of the active customer session.
// Every total is derived from the items on each read.
type CartService struct {
	pricing Pricing

	mu    sync.RWMutex
	items []models.CartItem
}

func NewCartService(pricing Pricing) *CartService {
	return &CartService{pricing: pricing}
}

// AddToCart adds quantity units of product, merging with an existing line for
// the same product. The price is fixed at the moment of the first add.
func (s *CartService) AddToCart(product models.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if product.ID == 0 || product.PricePerUnit.IsNegative() {
		return ErrInvalidProduct
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(product.ID); i >= 0 {
		s.items[i].Quantity += quantity
		return nil
	}

	s.items = append(s.items, models.CartItem{
		ProductID:    product.ID,
		Name:         product.Name,
		Description:  product.Description,
		PricePerUnit: product.PricePerUnit,
		UnitType:     product.UnitType,
		IsOrganic:    product.IsOrganic,
		ImageURI:     product.PrimaryImage(),
		Quantity:     quantity,
	})
	return nil
}

func (s *CartService) RemoveFromCart(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(productID); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
}

func (s *CartService) IncrementQuantity(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(productID); i >= 0 {
		s.items[i].Quantity++
	}
}

// DecrementQuantity removes the line instead of letting it reach zero.
func (s *CartService) DecrementQuantity(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	if s.items[i].Quantity <= 1 {
		s.items = append(s.items[:i], s.items[i+1:]...)
		return
	}
	s.items[i].Quantity--
}

func (s *CartService) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// ItemQuantity returns 0 for products not in the cart.
func (s *CartService) ItemQuantity(productID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(productID); i >= 0 {
		return s.items[i].Quantity
	}
	return 0
}

// Restore replaces the cart with saved items. Lines with a quantity below 1
// or an invalid product are dropped and repeated products are merged.
func (s *CartService) Restore(items []models.CartItem) {
	restored := make([]models.CartItem, 0, len(items))
	index := make(map[int64]int, len(items))
	for _, item := range items {
		if item.Quantity < 1 || item.ProductID == 0 || item.PricePerUnit.IsNegative() {
			continue
		}
		if i, ok := index[item.ProductID]; ok {
			restored[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(restored)
		restored = append(restored, item)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = restored
}

// Items returns a copy of the cart lines in insertion order.
func (s *CartService) Items() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyItems()
}

func (s *CartService) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return itemCount(s.items)
}

func (s *CartService) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return subtotal(s.items)
}

func (s *CartService) Tax() decimal.Decimal {
	return s.Subtotal().Mul(s.pricing.TaxRate)
}

// DeliveryFee is flat and applies to every cart, empty ones included.
func (s *CartService) DeliveryFee() decimal.Decimal {
	return s.pricing.DeliveryFee
}

func (s *CartService) Total() decimal.Decimal {
	sub := s.Subtotal()
	return sub.Add(sub.Mul(s.pricing.TaxRate)).Add(s.pricing.DeliveryFee)
}

// Summary computes every derived value from a single view of the items.
func (s *CartService) Summary() models.CartSummary {
	s.mu.RLock()
	items := s.copyItems()
	s.mu.RUnlock()

	sub := subtotal(items)
	tax := sub.Mul(s.pricing.TaxRate)
	total := sub.Add(tax).Add(s.pricing.DeliveryFee)

	return models.CartSummary{
		Items:       items,
		ItemCount:   itemCount(items),
		Subtotal:    sub,
		Tax:         tax,
		DeliveryFee: s.pricing.DeliveryFee,
		Total:       total,
		Display: models.CartDisplay{
			Subtotal:    sub.StringFixed(2),
			Tax:         tax.StringFixed(2),
			DeliveryFee: s.pricing.DeliveryFee.StringFixed(2),
			Total:       total.StringFixed(2),
		},
	}
}

func (s *CartService) indexOf(productID int64) int {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *CartService) copyItems() []models.CartItem {
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func itemCount(items []models.CartItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

func subtotal(items []models.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}
