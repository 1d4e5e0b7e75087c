package handler

import (
	"net/http"

	"catalogbooking/internal/service"
	"catalogbooking/pkg/pagination"
	"catalogbooking/pkg/response"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	catalogService service.CatalogService
}

func NewCategoryHandler(catalogService service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalogService: catalogService}
}

func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/api/categories")
	{
		categories.GET("", h.ListCategories)
		categories.POST("", h.CreateCategory)
		categories.GET("/:id", h.GetCategory)
		categories.PUT("/:id", h.UpdateCategory)
		categories.DELETE("/:id", h.DeactivateCategory)
		categories.POST("/:id/subcategories", h.CreateSubcategory)
	}
}

// ListCategories returns paginated categories
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        page    query     int     false  "Page number (default: 1)"
// @Param        limit   query     int     false  "Items per page (default: 20)"
// @Param        search  query     string  false  "Search by name"
// @Param        active  query     bool    false  "Filter by active flag"
// @Success      200     {object}  response.Response{data=[]service.CategoryResponse}
// @Router       /api/categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	params := pagination.Parse(c)
	active, err := optionalBool(c, "active")
	if err != nil {
		respondError(c, err)
		return
	}

	categories, total, err := h.catalogService.ListCategories(c.Request.Context(), service.CategoryListFilter{
		Search: c.Query("search"),
		Active: active,
	}, params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, categories, params.Page, params.Limit, total))
}

// CreateCategory creates a category
// @Summary      Create category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateCategoryRequest  true  "Category payload"
// @Success      201  {object}  response.Response{data=service.CategoryResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req service.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, category))
}

// GetCategory returns a category with its active subcategories
// @Summary      Get category
// @Tags         categories
// @Produce      json
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  response.Response{data=service.CategoryResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.catalogService.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, category))
}

// UpdateCategory applies a partial update to a category
// @Summary      Update category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id       path  string                         true  "Category ID"
// @Param        payload  body  service.UpdateCategoryRequest  true  "Fields to change"
// @Success      200  {object}  response.Response{data=service.CategoryResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req service.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := h.catalogService.UpdateCategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, category))
}

// DeactivateCategory marks a category inactive
// @Summary      Deactivate category
// @Tags         categories
// @Produce      json
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  response.Response{data=service.CategoryResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) DeactivateCategory(c *gin.Context) {
	category, err := h.catalogService.DeactivateCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, category))
}

// CreateSubcategory creates a subcategory under a category
// @Summary      Create subcategory
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id       path  string                            true  "Category ID"
// @Param        payload  body  service.CreateSubcategoryRequest  true  "Subcategory payload"
// @Success      201  {object}  response.Response{data=service.SubcategoryResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/categories/{id}/subcategories [post]
func (h *CategoryHandler) CreateSubcategory(c *gin.Context) {
	var req service.CreateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	subcategory, err := h.catalogService.CreateSubcategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, subcategory))
}
