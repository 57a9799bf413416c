package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adriaway/booking/internal/catalog"
	"github.com/adriaway/booking/internal/config"
	"github.com/adriaway/booking/internal/domain"
	redisx "github.com/adriaway/booking/internal/redis"
	"github.com/adriaway/booking/internal/repository"
	redisrepo "github.com/adriaway/booking/internal/repository/redis"
	"github.com/adriaway/booking/internal/service"
	"github.com/adriaway/booking/internal/service/admin"
	"github.com/adriaway/booking/internal/service/booking"
	"github.com/adriaway/booking/internal/wizard"
)

func NewRouter(
	svcs *service.Services,
	sessions *wizard.Manager,
	idem *redisrepo.IdempotencyStore,
	cfg *config.Config,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.GET("/widget/config", handleWidgetConfig(cfg))
	r.GET("/routes", handleListRoutes(cfg))
	r.GET("/slots", handleListSlots(svcs))
	r.GET("/price", handlePriceQuote())
	r.POST("/bookings", handleCreateBooking(svcs, idem, cfg))

	// Widget dialog sessions
	ws := r.Group("/widget/sessions")
	{
		ws.POST("", handleOpenSession(sessions, cfg))
		ws.GET("/:id", handleGetSession(sessions))
		ws.POST("/:id/events", handleSessionEvent(sessions))
		ws.POST("/:id/submit", handleSessionSubmit(sessions, svcs))
		ws.DELETE("/:id", handleCloseSession(sessions))
	}

	// Admin API
	adm := r.Group("/admin", BearerAuth(cfg.Admin.APIToken))
	{
		adm.GET("/bookings", handleListBookings(svcs))
		adm.PATCH("/bookings/:id/status", handleUpdateBookingStatus(svcs))
		adm.POST("/bookings/:id/resend", handleResendEmails(svcs))
	}

	return r
}

func handleWidgetConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeJSONWithCache(c, http.StatusOK, WidgetConfigResponse{
			ButtonText: cfg.Widget.ButtonText,
			Language:   string(cfg.Widget.Language),
		}, "public, max-age=300")
	}
}

func handleListRoutes(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := cfg.Widget.Language
		if l := domain.Language(c.Query("lang")); l.Valid() {
			lang = l
		}

		routes := catalog.Routes()
		if tt := c.Query("tour_type"); tt != "" {
			t := domain.TourType(tt)
			if !t.Valid() {
				badRequest(c, "invalid tour_type")
				return
			}
			routes = catalog.RoutesFor(t)
		}

		resp := make([]RouteResponse, 0, len(routes))
		for _, r := range routes {
			resp = append(resp, routeDTO(r, lang))
		}
		// Catalog is static; still short-lived so config deploys show up.
		writeJSONWithCache(c, http.StatusOK, resp, "public, max-age=300")
	}
}

func handleListSlots(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		date, err := parseDay(c.Query("date"))
		if err != nil {
			badRequest(c, "invalid date (YYYY-MM-DD)")
			return
		}
		routeID := c.Query("route_id")
		if _, ok := catalog.RouteByID(routeID); !ok {
			badRequest(c, "unknown route_id")
			return
		}
		tourType := domain.TourType(c.Query("tour_type"))
		if !tourType.Valid() {
			badRequest(c, "invalid tour_type")
			return
		}

		slots, err := svcs.Query.FilteredSlots(c.Request.Context(), date, routeID, tourType)
		if err != nil {
			respondErr(c, err)
			return
		}

		resp := make([]SlotResponse, 0, len(slots))
		for _, s := range slots {
			resp = append(resp, slotDTO(s))
		}
		writeJSONWithCache(c, http.StatusOK, resp, "public, max-age=15")
	}
}

func handlePriceQuote() gin.HandlerFunc {
	return func(c *gin.Context) {
		route, ok := catalog.RouteByID(c.Query("route_id"))
		if !ok {
			badRequest(c, "unknown route_id")
			return
		}
		tourType := domain.TourType(c.Query("tour_type"))
		if !tourType.Valid() {
			badRequest(c, "invalid tour_type")
			return
		}
		passengers := parseIntDefault(c.Query("passengers"), 1)
		if passengers < 1 || passengers > route.Capacity {
			badRequest(c, "invalid passengers")
			return
		}

		writeJSONWithCache(c, http.StatusOK, PriceQuote{
			Total:    catalog.Price(route, tourType, passengers),
			Currency: "EUR",
		}, "public, max-age=300")
	}
}

func handleCreateBooking(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	cfg *config.Config,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		date, err := parseDay(req.Date)
		if err != nil {
			badRequest(c, "invalid date (YYYY-MM-DD)")
			return
		}

		lang := cfg.Widget.Language
		if l := domain.Language(req.Language); l.Valid() {
			lang = l
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisx.KeyIdemBooking(idemKey)

			if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
				return
			}

			locked, err := idem.AcquireLock(c.Request.Context(), idemStorageKey, 60*time.Second)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
				return
			}
		}

		draft := domain.BookingDraft{
			TourType:           domain.TourType(req.TourType),
			RouteID:            req.RouteID,
			SelectedDate:       date,
			TimeSlotID:         req.SlotID,
			CustomerName:       req.Name,
			CustomerEmail:      req.Email,
			CustomerPhone:      req.Phone,
			NumberOfPassengers: req.Passengers,
			Language:           lang,
		}

		created, err := svcs.Booking.Submit(c.Request.Context(), draft, "ip:"+c.ClientIP())
		if err != nil && !errors.Is(err, booking.ErrNotificationFailed) {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		resp := bookingDTO(created, err == nil)

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

func handleOpenSession(sessions *wizard.Manager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := cfg.Widget.Language
		if l := domain.Language(c.Query("lang")); l.Valid() {
			lang = l
		}
		s := sessions.Open(lang)
		c.JSON(http.StatusCreated, sessionDTO(s.Snapshot()))
	}
}

func handleGetSession(sessions *wizard.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := sessionByID(c, sessions)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, sessionDTO(s.Snapshot()))
	}
}

func handleSessionEvent(sessions *wizard.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := sessionByID(c, sessions)
		if !ok {
			return
		}

		var req EventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		event := wizard.Event{
			Kind:       wizard.EventKind(req.Kind),
			TourType:   domain.TourType(req.TourType),
			RouteID:    req.RouteID,
			SlotID:     req.SlotID,
			Name:       req.Name,
			Email:      req.Email,
			Phone:      req.Phone,
			Passengers: req.Passengers,
		}
		if req.Date != "" {
			date, err := parseDay(req.Date)
			if err != nil {
				badRequest(c, "invalid date (YYYY-MM-DD)")
				return
			}
			event.Date = date
		}

		snap, err := s.Apply(event)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionDTO(snap))
	}
}

func handleSessionSubmit(sessions *wizard.Manager, svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := sessionByID(c, sessions)
		if !ok {
			return
		}

		draft, err := s.SubmitDraft()
		if err != nil {
			respondErr(c, err)
			return
		}

		created, err := svcs.Booking.Submit(c.Request.Context(), draft, "ip:"+c.ClientIP())
		if err != nil && !errors.Is(err, booking.ErrNotificationFailed) {
			respondErr(c, err)
			return
		}

		snap, completeErr := s.Complete()
		if completeErr != nil {
			respondErr(c, completeErr)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"booking": bookingDTO(created, err == nil),
			"session": sessionDTO(snap),
		})
	}
}

func handleCloseSession(sessions *wizard.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			badRequest(c, "invalid session id")
			return
		}
		sessions.Close(id)
		c.Status(http.StatusNoContent)
	}
}

func handleListBookings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var status *domain.BookingStatus
		if s := c.Query("status"); s != "" {
			st := domain.BookingStatus(s)
			status = &st
		}

		bookings, err := svcs.Admin.ListBookings(c.Request.Context(), status)
		if err != nil {
			respondErr(c, err)
			return
		}

		resp := make([]BookingResponse, 0, len(bookings))
		for _, b := range bookings {
			resp = append(resp, bookingDTO(b, true))
		}
		c.JSON(http.StatusOK, resp)
	}
}

func handleUpdateBookingStatus(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			badRequest(c, "invalid booking id")
			return
		}

		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		updated, err := svcs.Admin.UpdateStatus(c.Request.Context(), id, domain.BookingStatus(req.Status))
		if err != nil && !errors.Is(err, admin.ErrNotificationFailed) {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, bookingDTO(updated, err == nil))
	}
}

func handleResendEmails(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			badRequest(c, "invalid booking id")
			return
		}

		if err := svcs.Admin.ResendEmails(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"resent": true})
	}
}

// --- Helpers ---

func sessionByID(c *gin.Context, sessions *wizard.Manager) (*wizard.Session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid session id")
		return nil, false
	}
	s, ok := sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
		return nil, false
	}
	return s, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// booking service
	case errors.Is(err, booking.ErrDraftIncomplete):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "booking draft incomplete"})
	case errors.Is(err, booking.ErrPassengerCount):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid passenger count"})
	case errors.Is(err, booking.ErrSlotNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "time slot not found"})
	case errors.Is(err, booking.ErrRateLimited):
		c.Header("Retry-After", "60")
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited"})
	// admin service
	case errors.Is(err, admin.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "booking not found"})
	case errors.Is(err, admin.ErrBadStatus):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid status"})
	// wizard
	case errors.Is(err, wizard.ErrBadTransition),
		errors.Is(err, wizard.ErrUnknownEvent),
		errors.Is(err, wizard.ErrBadPayload):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	// repository
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, repository.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "conflict"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
