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

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Validate slot selection
// @Description Check a candidate pick set against window policy and live availability
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.ValidateSelectionRequest true "Selection to validate"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/validate-selection [post]
func (h *BookingHandler) ValidateSelection(c *gin.Context) {
	var req reqdto.ValidateSelectionRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.bookingCommands.ValidateSelection(c.Request.Context(), req.ToParams()); err != nil {
		h.respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// @Summary Submit booking
// @Description Pre-reserve the selected slots; capacity is re-checked under per-slot locks
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.SubmitBookingRequest true "Booking request"
// @Success 201 {object} resdto.SubmitBookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) SubmitBooking(c *gin.Context) {
	var req reqdto.SubmitBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.bookingCommands.SubmitBooking(c.Request.Context(), req.ToParams())
	if err != nil {
		h.respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromSubmitResult(result))
}

// @Summary Get booking
// @Description Get booking by ID
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	h.respondBookingView(c, view)
}

// @Summary Get booking by code
// @Description Resume a saved booking via its client-held code
// @Tags bookings
// @Produce json
// @Param code path string true "Booking code"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/by-code/{code} [get]
func (h *BookingHandler) GetBookingByCode(c *gin.Context) {
	view, err := h.bookingQueries.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	h.respondBookingView(c, view)
}

// @Summary Confirm payment
// @Description Record payments and flip the booking to paid; consumes the attached gift-card hold
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.ConfirmPaymentRequest true "Payments"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /bookings/{id}/payments [post]
func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	var req reqdto.ConfirmPaymentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.bookingCommands.ConfirmPayment(c.Request.Context(), id, req.ToInputs()); err != nil {
		h.respondBookingError(c, err)
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	h.respondBookingView(c, view)
}

// @Summary Cancel booking
// @Description Cancel a booking with a mandatory reason; releases any unconsumed gift-card hold
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest true "Cancellation reason"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id} [delete]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	var req reqdto.CancelBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "A cancellation reason is required",
		})
		return
	}

	if err := h.bookingCommands.CancelBooking(c.Request.Context(), id, req.Reason); err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Delete payment detail
// @Description Remove a payment record with a mandatory audited reason
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param paymentId path string true "Payment ID"
// @Param request body reqdto.DeletePaymentRequest true "Deletion reason"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/payments/{paymentId} [delete]
func (h *BookingHandler) DeletePaymentDetail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}
	paymentID, err := uuid.Parse(c.Param("paymentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid payment ID format",
		})
		return
	}

	var req reqdto.DeletePaymentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "A deletion reason is required",
		})
		return
	}

	if err := h.bookingCommands.DeletePaymentDetail(c.Request.Context(), id, paymentID, req.Reason); err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) respondBookingView(c *gin.Context, view *queries.BookingView) {
	resp, err := resdto.FromBookingView(view)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
	case errors.Is(err, errs.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking not found",
		})
	case errors.Is(err, errs.ErrGiftcardNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Gift card not found",
		})
	case errors.Is(err, errs.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Payment detail not found",
		})
	case errors.Is(err, errs.ErrModeNotAllowed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Booking mode not supported by this product",
		})
	case errors.Is(err, errs.ErrOutsideWindow):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Selected slots fall outside the allowed window",
		})
	case errors.Is(err, errs.ErrPolicyViolation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Selected slots start within the no-refund window; explicit acceptance required",
		})
	case errors.Is(err, errs.ErrReasonRequired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "A reason is required",
		})
	case errors.Is(err, errs.ErrInsufficientBalance):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Gift card balance insufficient",
		})
	case errors.Is(err, errs.ErrSlotUnavailable):
		c.JSON(http.StatusConflict, gin.H{
			"error": "One or more selected slots are not available",
		})
	case errors.Is(err, errs.ErrCapacityConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Slot capacity was taken by a concurrent booking",
		})
	case errors.Is(err, errs.ErrHoldExpired):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Gift card hold has expired",
		})
	case errors.Is(err, errs.ErrHoldAlreadyConsumed):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Gift card hold belongs to another booking",
		})
	case errors.Is(err, errs.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Booking state does not allow this operation",
		})
	case errors.Is(err, errs.ErrBookingExpired):
		c.JSON(http.StatusGone, gin.H{
			"error": "Booking pre-reservation has expired",
		})
	case errors.Is(err, errs.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking request",
		})
	case errors.Is(err, errs.ErrTransientStore):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Temporarily unable to process booking, please retry",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
