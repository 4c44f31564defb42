package api

import (
	"net/http"

	"fitclub/planner/internal/catalog"
	"fitclub/planner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListExercises godoc
// @Summary List the exercise catalog
// @Description Optional query and category narrow the list; order is preserved.
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param query query string false "Case-insensitive name substring"
// @Param category query string false "Exact category, or all"
// @Success 200 {array} domain.CatalogExercise
// @Router /exercises/list [get]
func (h *CatalogHandler) ListExercises(c *gin.Context) {
	items, err := h.catalogService.ListExercises(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list exercises failed")
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises.")
		return
	}
	c.JSON(http.StatusOK, filtered(c, items))
}

// ListFoods godoc
// @Summary List the food catalog
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param query query string false "Case-insensitive name substring"
// @Param category query string false "Exact category, or all"
// @Success 200 {array} domain.FoodEntry
// @Router /foods/list [get]
func (h *CatalogHandler) ListFoods(c *gin.Context) {
	items, err := h.catalogService.ListFoods(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list foods failed")
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve foods.")
		return
	}
	c.JSON(http.StatusOK, filtered(c, items))
}

func filtered[T catalog.Item](c *gin.Context, items []T) []T {
	query := c.Query("query")
	category := c.DefaultQuery("category", catalog.All)
	if query == "" && category == catalog.All {
		return items
	}
	out := make([]T, 0, len(items))
	for it := range catalog.Filter(items, query, category) {
		out = append(out, it)
	}
	return out
}
