package controllers

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/inbox/app/services"
	"github.com/shashiranjanraj/inbox/pkg/ctx"
	"github.com/shashiranjanraj/inbox/pkg/validate"
)

type ProductController struct {
	service *services.CatalogService
}

func NewProductController(service *services.CatalogService) *ProductController {
	return &ProductController{service: service}
}

// Create adds a reservable item to a group.
// POST /api/groups/{id}/products
func (pc *ProductController) Create(c *ctx.Context) {
	claims := identity(c)
	if claims == nil {
		return
	}

	var input struct {
		Name          string `json:"name"           validate:"required,min=2,max=255"`
		Description   string `json:"description"    validate:"nullable,max=2000"`
		Category      string `json:"category"       validate:"nullable,max=100"`
		TotalQuantity int    `json:"total_quantity" validate:"required,integer,gte=1"`
	}
	if !c.BindJSON(&input) {
		return
	}

	product, err := pc.service.AddProduct(
		c.ParamUint("id"), claims.UserID,
		input.Name, input.Description, input.Category, input.TotalQuantity,
	)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(product)
}

// List returns the group's products with availability. The optional as_of
// query parameter (YYYY-MM-DD) defaults to today.
// GET /api/groups/{id}/products?as_of=2026-09-01
func (pc *ProductController) List(c *ctx.Context) {
	claims := identity(c)
	if claims == nil {
		return
	}

	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := validate.ParseDate(raw)
		if err != nil {
			c.Error(http.StatusBadRequest, "as_of must be a date (YYYY-MM-DD)")
			return
		}
		asOf = parsed
	}

	listing, err := pc.service.ListAvailability(c.ParamUint("id"), claims.UserID, asOf)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(listing)
}
