package api

import (
	"errors"
	"net/http"
	"strconv"

	resdto "github.com/danielreinosojaya/ultima-ceramic-sub001/internal/handler/dto/response"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/errs"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	availabilityQueries queries.AvailabilityQueries
}

func NewAvailabilityHandler(availabilityQueries queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityQueries: availabilityQueries}
}

// @Summary List available slots
// @Description List slots over the booking horizon enriched with live capacity counts
// @Tags availability
// @Produce json
// @Param product_id query string true "Product ID"
// @Param from query string false "Window start date (YYYY-MM-DD)"
// @Param days query int false "Window length in days"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /availability/slots [get]
func (h *AvailabilityHandler) ListSlots(c *gin.Context) {
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID format",
		})
		return
	}

	days := 0
	if daysStr := c.Query("days"); daysStr != "" {
		if days, err = strconv.Atoi(daysStr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid days parameter",
			})
			return
		}
	}

	result, err := h.availabilityQueries.ListAvailableSlots(c.Request.Context(), productID, c.Query("from"), days)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		case errors.Is(err, errs.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid availability query",
			})
		case errors.Is(err, errs.ErrTransientStore):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Temporarily unable to load availability",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityResult(result))
}
