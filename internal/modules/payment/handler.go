package payment

import (
	"errors"
	"net/http"

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
	rg.POST("/payment/confirm/:orderCode", h.Confirm)
	rg.POST("/bookings/payos-callback", h.PayosCallback)
}

func (h *Handler) Confirm(c *gin.Context) {
	orderCode := c.Param("orderCode")
	status := c.Query("status")
	checksum := c.Query("checksum")

	err := h.service.Confirm(c.Request.Context(), orderCode, status, checksum)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSignature):
			response.Error(c, http.StatusBadRequest, "INVALID_SIGNATURE", "Checksum verification failed")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusBadRequest, "NOT_FOUND", "Unknown order reference")
		case errors.Is(err, ErrAlreadyConfirmed):
			response.Error(c, http.StatusBadRequest, "ALREADY_CONFIRMED", "Payment was already confirmed")
		case errors.Is(err, ErrIneligibleState):
			response.Error(c, http.StatusBadRequest, "INELIGIBLE_STATE", "Order is not awaiting payment")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to confirm payment")
		}
		return
	}

	response.Success(c, http.StatusOK, ConfirmResponse{OrderCode: orderCode, Status: "confirmed"})
}

func (h *Handler) PayosCallback(c *gin.Context) {
	var req PayosCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid callback body")
		return
	}

	err := h.service.ConfirmCallback(c.Request.Context(), req.BookingID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusBadRequest, "NOT_FOUND", "Unknown booking")
		case errors.Is(err, ErrAlreadyConfirmed):
			response.Error(c, http.StatusBadRequest, "ALREADY_CONFIRMED", "Payment was already confirmed")
		case errors.Is(err, ErrIneligibleState):
			response.Error(c, http.StatusBadRequest, "INELIGIBLE_STATE", "Booking is not awaiting payment")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process callback")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "payment confirmed"})
}
