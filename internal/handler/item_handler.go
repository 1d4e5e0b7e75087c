package handler

import (
	"net/http"

	"catalogbooking/internal/apperror"
	"catalogbooking/internal/service"
	"catalogbooking/pkg/pagination"
	"catalogbooking/pkg/response"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	catalogService service.CatalogService
	pricingService service.PricingService
	bookingService service.BookingService
}

func NewItemHandler(catalogService service.CatalogService, pricingService service.PricingService, bookingService service.BookingService) *ItemHandler {
	return &ItemHandler{
		catalogService: catalogService,
		pricingService: pricingService,
		bookingService: bookingService,
	}
}

func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api/items")
	{
		items.GET("", h.ListItems)
		items.POST("", h.CreateItem)
		items.GET("/:id", h.GetItem)
		items.PUT("/:id", h.UpdateItem)
		items.DELETE("/:id", h.DeactivateItem)
		items.GET("/:id/price", h.CalculatePrice)
		items.GET("/:id/available-slots", h.GetAvailableSlots)
	}
}

// ListItems returns paginated items
// @Summary      List items
// @Tags         items
// @Produce      json
// @Param        page            query     int     false  "Page number (default: 1)"
// @Param        limit           query     int     false  "Items per page (default: 20)"
// @Param        search          query     string  false  "Search by name"
// @Param        category_id     query     string  false  "Filter by category"
// @Param        subcategory_id  query     string  false  "Filter by subcategory"
// @Param        pricing_kind    query     string  false  "static, tiered, complimentary, discounted or dynamic"
// @Param        active          query     bool    false  "Filter by active flag"
// @Success      200  {object}  response.Response{data=[]service.ItemResponse}
// @Router       /api/items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	params := pagination.Parse(c)
	active, err := optionalBool(c, "active")
	if err != nil {
		respondError(c, err)
		return
	}

	items, total, err := h.catalogService.ListItems(c.Request.Context(), service.ItemListFilter{
		CategoryID:    c.Query("category_id"),
		SubcategoryID: c.Query("subcategory_id"),
		PricingKind:   c.Query("pricing_kind"),
		Search:        c.Query("search"),
		Active:        active,
	}, params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, items, params.Page, params.Limit, total))
}

// CreateItem creates an item with its addons
// @Summary      Create item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateItemRequest  true  "Item payload"
// @Success      201  {object}  response.Response{data=service.ItemResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.catalogService.CreateItem(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// GetItem returns an item with its active addons and effective tax
// @Summary      Get item
// @Tags         items
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=service.ItemResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	item, err := h.catalogService.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// UpdateItem applies a partial update to an item
// @Summary      Update item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Item ID"
// @Param        payload  body  service.UpdateItemRequest  true  "Fields to change"
// @Success      200  {object}  response.Response{data=service.ItemResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/items/{id} [put]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.catalogService.UpdateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeactivateItem marks an item inactive
// @Summary      Deactivate item
// @Tags         items
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=service.ItemResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) DeactivateItem(c *gin.Context) {
	item, err := h.catalogService.DeactivateItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// CalculatePrice prices an item for the given parameters
// @Summary      Calculate price
// @Tags         items
// @Produce      json
// @Param        id        path      string  true   "Item ID"
// @Param        units     query     number  false  "Units (tiered)"
// @Param        duration  query     number  false  "Duration in hours (tiered, used when units is absent)"
// @Param        time      query     string  false  "Requested time HH:MM (dynamic)"
// @Param        addons    query     string  false  "Comma separated addon IDs"
// @Success      200  {object}  response.Response{data=service.PriceBreakdownResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/items/{id}/price [get]
func (h *ItemHandler) CalculatePrice(c *gin.Context) {
	params, err := priceParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	breakdown, err := h.pricingService.CalculatePrice(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, breakdown))
}

// GetAvailableSlots lists the windows and booked ranges of an item on a date
// @Summary      Get available slots
// @Tags         items
// @Produce      json
// @Param        id    path      string  true  "Item ID"
// @Param        date  query     string  true  "Date (YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=service.AvailableSlotsResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/items/{id}/available-slots [get]
func (h *ItemHandler) GetAvailableSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		respondError(c, apperror.New(apperror.KindInvalidInput, "date is required"))
		return
	}

	slots, err := h.bookingService.GetAvailableSlots(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, slots))
}
