package booking

import (
	"errors"
	"net/http"
	"strconv"

	"roombooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateReservation)
	rg.GET("/bookings", h.GetMyReservations)
	rg.GET("/bookings/:id", h.GetReservation)
	rg.PATCH("/bookings/:id", h.UpdateReservation)
	rg.DELETE("/bookings/:id", h.CancelReservation)
	rg.GET("/users/me/quota", h.GetMyQuota)
}

func (h *Handler) CreateReservation(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.UserID = c.GetInt64("user_id")

	res, snap, err := h.service.CreateReservation(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"reservation": res,
		"fairness":    snap,
	})
}

func (h *Handler) GetMyReservations(c *gin.Context) {
	userID := c.GetInt64("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := h.service.GetMyReservations(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservations": rows})
}

func (h *Handler) GetReservation(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	res, snap, err := h.service.GetReservation(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"reservation": res,
		"fairness":    snap,
	})
}

func (h *Handler) UpdateReservation(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.UpdateReservation(c.Request.Context(), id, c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

func (h *Handler) CancelReservation(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	res, err := h.service.CancelReservation(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

func (h *Handler) GetMyQuota(c *gin.Context) {
	quota, err := h.service.ComputeUserQuota(c.Request.Context(), c.GetInt64("user_id"), c.Query("date"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, quota)
}

func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid reservation ID")
		return 0, false
	}
	return id, true
}

// writeError maps the shared error taxonomy onto HTTP. Messages carry
// the wrapped rule detail so the client can render a precise reason.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrQuotaExceeded):
		response.Error(c, http.StatusTooManyRequests, "QUOTA_EXCEEDED", err.Error())
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", err.Error())
	case errors.Is(err, ErrRoomUnavailable):
		response.Error(c, http.StatusConflict, "ROOM_UNAVAILABLE", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrTiming):
		response.Error(c, http.StatusUnprocessableEntity, "TIMING_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrTransientStore):
		response.Error(c, http.StatusServiceUnavailable, "TRY_AGAIN", "Store contention, please retry")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Request failed")
	}
}
