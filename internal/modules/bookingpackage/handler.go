package bookingpackage

import (
	"errors"
	"net/http"
	"strconv"

	"fieldbook/internal/domain"
	"fieldbook/internal/middleware"
	"fieldbook/internal/pkg/response"
	"fieldbook/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/booking-package", h.CreatePackage)
	rg.GET("/booking-package/:id", h.GetPackage)
	rg.POST("/booking-package/cancel-session/:sessionId", h.CancelSession)

	staff := rg.Group("/")
	staff.Use(middleware.RequireRole(string(domain.RoleStaff), string(domain.RoleFieldOwner)))
	{
		staff.POST("/booking-package/complete/:packageId", h.CompletePackage)
	}
}

func (h *Handler) CreatePackage(c *gin.Context) {
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "field_id and at least one session are required")
		return
	}
	if details := validator.Validate(&req); details != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid package request", details)
		return
	}
	req.UserID = c.GetInt64("user_id")

	pkg, err := h.service.CreatePackage(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Field not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create package")
		}
		return
	}

	response.Success(c, http.StatusOK, pkg)
}

func (h *Handler) GetPackage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid package ID")
		return
	}

	pkg, err := h.service.GetPackage(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Package not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load package")
		return
	}

	response.Success(c, http.StatusOK, pkg)
}

func (h *Handler) CancelSession(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("sessionId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid session ID")
		return
	}

	result, err := h.service.CancelSession(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Session not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not your package")
		case errors.Is(err, ErrIneligibleState):
			response.Error(c, http.StatusBadRequest, "INELIGIBLE_STATE", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to cancel session")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":  "session cancelled",
		"refundQr": result.RefundQR,
		"result":   result,
	})
}

func (h *Handler) CompletePackage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("packageId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid package ID")
		return
	}

	if err := h.service.CompletePackage(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Package not found")
		case errors.Is(err, ErrIneligibleState):
			// Not completable reads the same as absent to the caller.
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Package is not completable")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to complete package")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "package completed"})
}
