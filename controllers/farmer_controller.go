package controllers

import (
	"net/http"

	"storefront-client/models"
	"storefront-client/services"

	"github.com/gin-gonic/gin"
)

// FarmerController serves the farmer dashboard: own products and incoming orders
type FarmerController struct {
	catalog *services.CatalogService
	orders  *services.OrderService
}

func NewFarmerController(catalog *services.CatalogService, orders *services.OrderService) *FarmerController {
	return &FarmerController{catalog: catalog, orders: orders}
}

func (fc *FarmerController) MyProducts(c *gin.Context) {
	products, err := fc.catalog.MyProducts(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (fc *FarmerController) CreateProduct(c *gin.Context) {
	var req models.ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	product, err := fc.catalog.CreateProduct(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (fc *FarmerController) UpdateProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	product, err := fc.catalog.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (fc *FarmerController) DeleteProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := fc.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// UpdateOrderStatus handles PUT /farmer/orders/:id/status
func (fc *FarmerController) UpdateOrderStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.OrderStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}
	if !req.Status.Valid() {
		badRequest(c, "Unknown order status", nil)
		return
	}

	order, err := fc.orders.UpdateOrderStatus(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
