package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"turfbook/internal/pkg/response"
	"turfbook/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings", h.ListBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.PUT("/bookings/:id", h.EditBooking)
	rg.DELETE("/bookings/:id", h.DeleteBooking)

	rg.PATCH("/bookings/:id/approve", h.Approve)
	rg.PATCH("/bookings/:id/reject", h.Reject)
	rg.PATCH("/bookings/:id/cancel", h.Cancel)

	rg.GET("/customers/:phone/bookings", h.GetCustomerBookings)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		writeBookingError(c, err, "Failed to create booking")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) ListBookings(c *gin.Context) {
	list, err := h.service.ListBookings(c.Request.Context(), c.Query("date"), c.Query("status"))
	if err != nil {
		writeBookingError(c, err, "Failed to list bookings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		writeBookingError(c, err, "Failed to load booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) EditBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req EditBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	b, err := h.service.EditBooking(c.Request.Context(), id, req)
	if err != nil {
		writeBookingError(c, err, "Failed to edit booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) DeleteBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteBooking(c.Request.Context(), id); err != nil {
		writeBookingError(c, err, "Failed to delete booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) Approve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req StatusChangeRequest
	_ = c.ShouldBindJSON(&req)

	b, err := h.service.Approve(c.Request.Context(), id, req.Notes)
	if err != nil {
		writeBookingError(c, err, "Failed to approve booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) Reject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req StatusChangeRequest
	_ = c.ShouldBindJSON(&req)

	b, err := h.service.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		writeBookingError(c, err, "Failed to reject booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req StatusChangeRequest
	_ = c.ShouldBindJSON(&req)

	b, err := h.service.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		writeBookingError(c, err, "Failed to cancel booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) GetCustomerBookings(c *gin.Context) {
	list, err := h.service.ListByCustomerPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		writeBookingError(c, err, "Failed to load customer bookings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return 0, false
	}
	return id, true
}

// writeBookingError maps engine errors onto the response envelope.
func writeBookingError(c *gin.Context, err error, fallback string) {
	var conflict *repository.SlotConflictError
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.As(err, &conflict):
		response.ErrorWithDetails(c, http.StatusConflict, "SLOT_CONFLICT",
			"Some of the selected hours are already booked", gin.H{"hours": conflict.Hours})
	case errors.Is(err, repository.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, repository.ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Booking state does not allow this operation")
	case errors.Is(err, repository.ErrCompletedImmutable):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Completed bookings cannot be modified")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
