package controllers

import (
	"context"
	"net/http"

	"storefront-client/models"
	"storefront-client/services"

	"github.com/gin-gonic/gin"
)

// ProductLookup resolves a product id to the live catalog record
type ProductLookup interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

type CartController struct {
	cart     *services.CartService
	sync     *services.CartSync
	products ProductLookup
	checkout *services.CheckoutService
}

func NewCartController(cart *services.CartService, sync *services.CartSync, products ProductLookup, checkout *services.CheckoutService) *CartController {
	return &CartController{
		cart:     cart,
		sync:     sync,
		products: products,
		checkout: checkout,
	}
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
	Quantity  int   `json:"quantity"`
}

// GetCart returns the cart with its totals
func (cc *CartController) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, cc.cart.Summary())
}

// AddItem snapshots the product as it is now and adds it to the cart
func (cc *CartController) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid payload", err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		fail(c, services.ErrInvalidQuantity)
		return
	}

	product, err := cc.products.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		fail(c, err)
		return
	}
	if err := cc.cart.AddToCart(*product, req.Quantity); err != nil {
		fail(c, err)
		return
	}

	cc.saved(c)
}

// IncrementItem handles POST /cart/items/:product_id/increment
func (cc *CartController) IncrementItem(c *gin.Context) {
	productID, ok := idParam(c, "product_id")
	if !ok {
		return
	}
	cc.cart.IncrementQuantity(productID)
	cc.saved(c)
}

// DecrementItem removes the line once its quantity would reach zero
func (cc *CartController) DecrementItem(c *gin.Context) {
	productID, ok := idParam(c, "product_id")
	if !ok {
		return
	}
	cc.cart.DecrementQuantity(productID)
	cc.saved(c)
}

// RemoveItem removes a specific item from the cart
func (cc *CartController) RemoveItem(c *gin.Context) {
	productID, ok := idParam(c, "product_id")
	if !ok {
		return
	}
	cc.cart.RemoveFromCart(productID)
	cc.saved(c)
}

// ClearCart removes all items from the cart
func (cc *CartController) ClearCart(c *gin.Context) {
	cc.cart.ClearCart()
	cc.saved(c)
}

// Checkout submits the cart as an order; the cart is kept if that fails
func (cc *CartController) Checkout(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid payload", err)
		return
	}

	order, err := cc.checkout.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

func (cc *CartController) saved(c *gin.Context) {
	cc.sync.Save(c.Request.Context())
	c.JSON(http.StatusOK, cc.cart.Summary())
}
