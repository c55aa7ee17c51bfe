package cancellation

import (
	"errors"
	"net/http"
	"strconv"

	"fieldbook/internal/domain"
	"fieldbook/internal/middleware"
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
	rg.POST("/booking-cancellation-re", h.CreateRequest)
	rg.DELETE("/booking-cancellation-re/:id", h.DeleteRequest)

	staff := rg.Group("/")
	staff.Use(middleware.RequireRole(string(domain.RoleStaff), string(domain.RoleFieldOwner)))
	{
		staff.PUT("/booking-cancellation-re/confirm/:id", h.ConfirmCancellation)
		staff.PUT("/booking-cancellation-re/reject/:id", h.RejectRequest)
	}
}

func (h *Handler) CreateRequest(c *gin.Context) {
	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "bookingId and reason are required")
		return
	}

	req, err := h.service.RequestCancellation(c.Request.Context(), body.BookingID, c.GetInt64("user_id"), body.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not your booking")
		case errors.Is(err, ErrIneligibleState):
			response.Error(c, http.StatusBadRequest, "INELIGIBLE_STATE", err.Error())
		case errors.Is(err, ErrDuplicateRequest):
			response.Error(c, http.StatusBadRequest, "DUPLICATE_REQUEST", "An unresolved request already exists for this booking")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create cancellation request")
		}
		return
	}

	response.Success(c, http.StatusOK, RequestResponse{
		ID:          req.ID,
		BookingID:   req.BookingID,
		Status:      string(req.Status),
		Reason:      req.Reason,
		RequestedAt: req.RequestedAt,
	})
}

func (h *Handler) ConfirmCancellation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid request ID")
		return
	}

	result, err := h.service.ConfirmCancellation(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Request or booking not found")
		case errors.Is(err, ErrIneligibleState):
			response.Error(c, http.StatusBadRequest, "INELIGIBLE_STATE", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to confirm cancellation")
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *Handler) RejectRequest(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid request ID")
		return
	}

	if err := h.service.RejectRequest(c.Request.Context(), id, c.GetInt64("user_id")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Request not found")
		case errors.Is(err, ErrIneligibleState):
			response.Error(c, http.StatusBadRequest, "INELIGIBLE_STATE", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to reject request")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "request rejected"})
}

func (h *Handler) DeleteRequest(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid request ID")
		return
	}

	if err := h.service.DeleteRequest(c.Request.Context(), id, c.GetInt64("user_id")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Request not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not your request")
		case errors.Is(err, ErrInvalidOperation):
			response.Error(c, http.StatusBadRequest, "INVALID_OPERATION", "Resolved requests cannot be deleted")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete request")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "request deleted"})
}
