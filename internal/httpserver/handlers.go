package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fashionpos/internal/domain"
	customerrepo "fashionpos/internal/repository/customer"
	salerepo "fashionpos/internal/repository/sale"
	variantrepo "fashionpos/internal/repository/variant"
)

func listVariantsHandler(repo variantrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := strings.TrimSpace(c.Query("search"))
		variants, err := repo.List(c.Request.Context(), search)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list variants"})
			return
		}
		if variants == nil {
			variants = []domain.Variant{}
		}
		c.JSON(http.StatusOK, gin.H{"variants": variants})
	}
}

func listCustomersHandler(repo customerrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		customers, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list customers"})
			return
		}
		if customers == nil {
			customers = []domain.Customer{}
		}
		c.JSON(http.StatusOK, gin.H{"customers": customers})
	}
}

type createCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func createCustomerHandler(repo customerrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createCustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		created, err := repo.Create(c.Request.Context(), domain.Customer{
			Name:    strings.TrimSpace(req.Name),
			Phone:   strings.TrimSpace(req.Phone),
			Address: strings.TrimSpace(req.Address),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create customer"})
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func createSaleHandler(repo salerepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.SaleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sale payload"})
			return
		}
		if err := validateSale(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		tx, err := repo.Create(c.Request.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrStockInsufficient):
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			case errors.Is(err, domain.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create sale"})
			}
			return
		}
		c.JSON(http.StatusCreated, tx)
	}
}

func getSaleHandler(repo salerepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tx, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "sale not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sale"})
			return
		}
		c.JSON(http.StatusOK, tx)
	}
}

func validateSale(req domain.SaleRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return errors.New("customerName is required")
	}
	if len(req.Items) == 0 {
		return errors.New("items must not be empty")
	}
	if req.DiscountPercent < 0 || req.DiscountPercent > 100 {
		return errors.New("discount must be between 0 and 100")
	}
	for _, item := range req.Items {
		if item.VariantID == "" {
			return errors.New("items[].variantId is required")
		}
		if item.Quantity <= 0 {
			return errors.New("items[].quantity must be positive")
		}
		if item.Price <= 0 {
			return errors.New("items[].price must be positive")
		}
	}
	return nil
}
