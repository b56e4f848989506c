package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	ucBooking "github.com/BruksfildServices01/salon-scheduler/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	availability *ucBooking.GetAvailability
	create       *ucBooking.CreateBooking
	listByDate   *ucBooking.ListBookingsByDate
	log          *zap.Logger
}

func NewBookingHandler(
	availability *ucBooking.GetAvailability,
	create *ucBooking.CreateBooking,
	listByDate *ucBooking.ListBookingsByDate,
	log *zap.Logger,
) *BookingHandler {
	return &BookingHandler{
		availability: availability,
		create:       create,
		listByDate:   listByDate,
		log:          log.Named("bookings"),
	}
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "Invalid booking payload.")
		return
	}

	in, err := ucBooking.InputFromRequest(req)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "Invalid date or time.")
		return
	}

	b, err := h.create.Execute(c.Request.Context(), in)
	if err != nil {
		code, _ := httperr.CodeOf(err)
		switch code {
		case httperr.CodeInvalidRequest:
			httperr.BadRequest(c, code, "Service, date, time and client name are required.")
		case httperr.CodeOutsideWorkingHours:
			httperr.BadRequest(c, code, "The salon is closed at that time.")
		case httperr.CodeNotASlot:
			httperr.BadRequest(c, code, "Bookings start on the service's slot times. Check available times first.")
		case httperr.CodePersistenceConflict:
			httperr.Conflict(c, code, "That time is already booked.")
		default:
			h.log.Error("create booking failed", zap.Error(err))
			httperr.Internal(c, "failed_to_create_booking", "Could not create the booking.")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.FromBooking(b))
}

// ======================================================
// AVAILABLE TIMES
// ======================================================

// AvailableTimes always answers 200. Faults are reported in the body so
// the chat flow can render them.
func (h *BookingHandler) AvailableTimes(c *gin.Context) {
	empty := dto.AvailableTimesDTO{Available: []string{}}

	from, err := domain.ParseDate(c.Param("date"))
	if err != nil {
		empty.Error = "invalid date, expected YYYY-MM-DD"
		httpresp.OK(c, empty)
		return
	}

	service := strings.TrimSpace(c.Query("service"))

	got, err := h.availability.Execute(c.Request.Context(), service, from)
	if err != nil {
		h.log.Error("availability failed", zap.String("service", service), zap.Error(err))
		empty.Error = err.Error()
		httpresp.OK(c, empty)
		return
	}

	if !got.Found() {
		httpresp.OK(c, empty)
		return
	}

	date := domain.FormatDate(got.Date)
	httpresp.OK(c, dto.AvailableTimesDTO{
		Date:      &date,
		Available: got.TimeStrings(),
	})
}

// ======================================================
// ADMIN
// ======================================================

func (h *BookingHandler) ListByDate(c *gin.Context) {
	raw := c.Query("date")
	if raw == "" {
		raw = domain.FormatDate(time.Now().UTC())
	}

	date, err := domain.ParseDate(raw)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "Invalid date, expected YYYY-MM-DD.")
		return
	}

	bookings, err := h.listByDate.Execute(c.Request.Context(), date)
	if err != nil {
		h.log.Error("list bookings failed", zap.Error(err))
		httperr.Internal(c, "failed_to_list_bookings", "Could not list bookings.")
		return
	}

	out := make([]dto.BookingDTO, 0, len(bookings))
	for i := range bookings {
		out = append(out, dto.FromBooking(&bookings[i]))
	}

	httpresp.List(c, out)
}
