package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/handler/api"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/handler/middleware"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	availabilityHandler *api.AvailabilityHandler,
	bookingHandler *api.BookingHandler,
	giftcardHandler *api.GiftcardHandler,
	scheduleHandler *api.ScheduleHandler,
	staffAuth *middleware.StaffAuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, availabilityHandler, bookingHandler, giftcardHandler, scheduleHandler, staffAuth)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	availabilityHandler *api.AvailabilityHandler,
	bookingHandler *api.BookingHandler,
	giftcardHandler *api.GiftcardHandler,
	scheduleHandler *api.ScheduleHandler,
	staffAuth *middleware.StaffAuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		availability := apiGroup.Group("/availability")
		{
			addRoutes(availability, []route{
				{Method: http.MethodGet, Path: "/slots", Handler: availabilityHandler.ListSlots},
			})
		}

		bookings := apiGroup.Group("/bookings")
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "/validate-selection", Handler: bookingHandler.ValidateSelection},
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.SubmitBooking},
				{Method: http.MethodGet, Path: "/by-code/:code", Handler: bookingHandler.GetBookingByCode},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetBooking},
			})

			staffOnly := bookings.Group("")
			staffOnly.Use(staffAuth.RequireStaff())
			addRoutes(staffOnly, []route{
				{Method: http.MethodPost, Path: "/:id/payments", Handler: bookingHandler.ConfirmPayment},
				{Method: http.MethodDelete, Path: "/:id", Handler: bookingHandler.CancelBooking},
				{Method: http.MethodDelete, Path: "/:id/payments/:paymentId", Handler: bookingHandler.DeletePaymentDetail},
			})
		}

		giftcards := apiGroup.Group("/giftcards")
		{
			addRoutes(giftcards, []route{
				{Method: http.MethodPost, Path: "/holds", Handler: giftcardHandler.CreateHold},
			})

			staffOnly := giftcards.Group("")
			staffOnly.Use(staffAuth.RequireStaff())
			addRoutes(staffOnly, []route{
				{Method: http.MethodGet, Path: "/:code", Handler: giftcardHandler.GetGiftcard},
				{Method: http.MethodDelete, Path: "/holds/:id", Handler: giftcardHandler.ReleaseHold},
			})
		}

		schedule := apiGroup.Group("/schedule")
		schedule.Use(staffAuth.RequireStaff())
		{
			addRoutes(schedule, []route{
				{Method: http.MethodGet, Path: "/rules", Handler: scheduleHandler.ListRules},
				{Method: http.MethodGet, Path: "/overrides", Handler: scheduleHandler.ListOverrides},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(group *gin.RouterGroup, routes []route) {
	for _, r := range routes {
		handlers := append(r.Mw, r.Handler)
		group.Handle(r.Method, r.Path, handlers...)
	}
}
