package api

import (
	"errors"
	"net/http"

	resdto "github.com/danielreinosojaya/ultima-ceramic-sub001/internal/handler/dto/response"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/errs"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	scheduleQueries queries.ScheduleQueries
}

func NewScheduleHandler(scheduleQueries queries.ScheduleQueries) *ScheduleHandler {
	return &ScheduleHandler{scheduleQueries: scheduleQueries}
}

// @Summary List recurring rules
// @Description List the weekly schedule templates
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.RecurringRuleResponse
// @Router /schedule/rules [get]
func (h *ScheduleHandler) ListRules(c *gin.Context) {
	views, err := h.scheduleQueries.ListRules(c.Request.Context())
	if err != nil {
		h.respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRuleViews(views))
}

// @Summary List schedule overrides
// @Description List per-date schedule exceptions
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.OverrideResponse
// @Router /schedule/overrides [get]
func (h *ScheduleHandler) ListOverrides(c *gin.Context) {
	views, err := h.scheduleQueries.ListOverrides(c.Request.Context())
	if err != nil {
		h.respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOverrideViews(views))
}

func (h *ScheduleHandler) respondScheduleError(c *gin.Context, err error) {
	if errors.Is(err, errs.ErrTransientStore) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Temporarily unable to load schedule",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
	})
}
