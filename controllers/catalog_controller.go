package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"storefront-client/models"
	"storefront-client/services"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	catalog *services.CatalogService
	orders  *services.OrderService
}

func NewCatalogController(catalog *services.CatalogService, orders *services.OrderService) *CatalogController {
	return &CatalogController{catalog: catalog, orders: orders}
}

// ListProducts handles GET /catalog/products?category_id=&search=&is_organic=&skip=&limit=
func (cc *CatalogController) ListProducts(c *gin.Context) {
	q, err := productQuery(c)
	if err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}

	products, err := cc.catalog.ListProducts(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func productQuery(c *gin.Context) (models.ProductQuery, error) {
	q := models.ProductQuery{Search: strings.TrimSpace(c.Query("search"))}

	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return q, err
		}
		q.CategoryID = &id
	}
	if v := c.Query("is_organic"); v != "" {
		organic, err := strconv.ParseBool(v)
		if err != nil {
			return q, err
		}
		q.IsOrganic = &organic
	}
	if v := c.Query("skip"); v != "" {
		skip, err := strconv.Atoi(v)
		if err != nil {
			return q, err
		}
		q.Skip = skip
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return q, err
		}
		q.Limit = limit
	}
	return q, nil
}

// GetProduct handles GET /catalog/products/:id
func (cc *CatalogController) GetProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	product, err := cc.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListCategories handles GET /catalog/categories
func (cc *CatalogController) ListCategories(c *gin.Context) {
	categories, err := cc.catalog.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// ListOrders handles GET /orders for customers and farmers alike
func (cc *CatalogController) ListOrders(c *gin.Context) {
	orders, err := cc.orders.ListOrders(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrder handles GET /orders/:id
func (cc *CatalogController) GetOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := cc.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
