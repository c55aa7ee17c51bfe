package booking

import (
	"errors"
	"net/http"
	"strconv"

	"fieldbook/internal/domain"
	"fieldbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings", h.ListMyBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.POST("/bookings/complete/:id", h.CompleteBooking)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.UserID = c.GetInt64("user_id")

	b, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Schedule slot not found")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Slot already started or invalid")
		case errors.Is(err, ErrNotAvailable):
			response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "Slot is not available")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create booking")
		}
		return
	}

	response.Success(c, http.StatusOK, toBookingResponse(b))
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not your booking")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load booking")
		}
		return
	}

	response.Success(c, http.StatusOK, toBookingResponse(b))
}

func (h *Handler) ListMyBookings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.service.ListMyBookings(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list bookings")
		return
	}

	out := make([]BookingResponse, 0, len(items))
	for i := range items {
		out = append(out, *toBookingResponse(&items[i]))
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) CompleteBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	b, err := h.service.CompleteBooking(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrIneligibleState):
			response.Error(c, http.StatusBadRequest, "INELIGIBLE_STATE", "Only confirmed bookings can be completed")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to complete booking")
		}
		return
	}

	response.Success(c, http.StatusOK, toBookingResponse(b))
}

func toBookingResponse(b *domain.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:            b.ID,
		OrderCode:     b.OrderCode,
		ScheduleID:    b.ScheduleID,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		TotalPrice:    b.TotalPrice,
		DepositAmount: b.DepositAmount,
		CreatedAt:     b.CreatedAt,
	}
	if b.Schedule != nil {
		resp.StartTime = &b.Schedule.StartTime
		resp.EndTime = &b.Schedule.EndTime
	}
	return resp
}
