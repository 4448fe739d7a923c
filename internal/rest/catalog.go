package rest

import (
	"context"
	"net/http"

	"procureMatch/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type (
	CatalogHandler struct {
		validate       *validator.Validate
		catalogService CatalogService
	}

	CatalogService interface {
		GetAllItems(ctx context.Context, limit int) ([]domain.CatalogProduct, error)
		GetItemByID(ctx context.Context, itemID string) (*domain.CatalogProduct, error)
		BulkUpsert(ctx context.Context, products []domain.CatalogProduct) (int, error)
	}

	CatalogItemRequest struct {
		ItemID      string            `json:"item_id" validate:"required"`
		Name        string            `json:"name" validate:"required"`
		Brand       string            `json:"brand"`
		Category    string            `json:"category"`
		Description string            `json:"description"`
		Price       float64           `json:"price" validate:"gte=0"`
		Attributes  map[string]string `json:"attributes"`
	}

	BulkUpsertRequest struct {
		Items []CatalogItemRequest `json:"items" validate:"required,min=1,dive"`
	}
)

func NewCatalogHandler(svc CatalogService) *CatalogHandler {
	return &CatalogHandler{
		validate:       validator.New(),
		catalogService: svc,
	}
}

// GET /api/v1/catalog?limit=100
func (h *CatalogHandler) GetAllItems(c echo.Context) error {
	limit := 0
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	items, err := h.catalogService.GetAllItems(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(items))
}

// GET /api/v1/catalog/:item_id
func (h *CatalogHandler) GetItemByID(c echo.Context) error {
	itemID := c.Param("item_id")
	if itemID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "item_id is required"})
	}

	item, err := h.catalogService.GetItemByID(c.Request().Context(), itemID)
	if err != nil {
		return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(item))
}

// POST /api/v1/catalog/bulk
func (h *CatalogHandler) BulkUpsert(c echo.Context) error {
	var req BulkUpsertRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	products := make([]domain.CatalogProduct, 0, len(req.Items))
	for _, item := range req.Items {
		attrs := datatypes.JSONMap{}
		for k, v := range item.Attributes {
			attrs[k] = v
		}
		products = append(products, domain.CatalogProduct{
			ItemID:      item.ItemID,
			Name:        item.Name,
			Brand:       item.Brand,
			Category:    item.Category,
			Description: item.Description,
			Price:       item.Price,
			Attributes:  attrs,
		})
	}

	count, err := h.catalogService.BulkUpsert(c.Request().Context(), products)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(map[string]int{"upserted": count}))
}
