package api

import (
	"errors"
	"net/http"

	reqdto "github.com/danielreinosojaya/ultima-ceramic-sub001/internal/handler/dto/request"
	resdto "github.com/danielreinosojaya/ultima-ceramic-sub001/internal/handler/dto/response"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/errs"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/commands"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GiftcardHandler struct {
	giftcardCommands commands.GiftcardCommands
	giftcardQueries  queries.GiftcardQueries
}

func NewGiftcardHandler(giftcardCommands commands.GiftcardCommands, giftcardQueries queries.GiftcardQueries) *GiftcardHandler {
	return &GiftcardHandler{
		giftcardCommands: giftcardCommands,
		giftcardQueries:  giftcardQueries,
	}
}

// @Summary Create gift card hold
// @Description Claim part of a card's spendable balance ahead of checkout
// @Tags giftcards
// @Accept json
// @Produce json
// @Param request body reqdto.CreateHoldRequest true "Hold request"
// @Success 201 {object} resdto.HoldResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /giftcards/holds [post]
func (h *GiftcardHandler) CreateHold(c *gin.Context) {
	var req reqdto.CreateHoldRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.giftcardCommands.CreateHold(c.Request.Context(), req.ToParams())
	if err != nil {
		h.respondGiftcardError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromHoldResult(result))
}

// @Summary Get gift card
// @Description Look up a card's balance and spendable amount by code
// @Tags giftcards
// @Produce json
// @Security BearerAuth
// @Param code path string true "Gift card code"
// @Success 200 {object} resdto.GiftcardResponse
// @Failure 404 {object} map[string]string
// @Router /giftcards/{code} [get]
func (h *GiftcardHandler) GetGiftcard(c *gin.Context) {
	view, err := h.giftcardQueries.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.respondGiftcardError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromGiftcardView(view))
}

// @Summary Release gift card hold
// @Description Release a hold and return its amount to the spendable balance
// @Tags giftcards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Hold ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /giftcards/holds/{id} [delete]
func (h *GiftcardHandler) ReleaseHold(c *gin.Context) {
	holdID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid hold ID format",
		})
		return
	}

	if err := h.giftcardCommands.ReleaseHold(c.Request.Context(), holdID); err != nil {
		h.respondGiftcardError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *GiftcardHandler) respondGiftcardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrGiftcardNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Gift card not found",
		})
	case errors.Is(err, errs.ErrInsufficientBalance):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Amount exceeds spendable balance",
		})
	case errors.Is(err, errs.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid gift card request",
		})
	case errors.Is(err, errs.ErrTransientStore):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Temporarily unable to process gift card request",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
