package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"roombooking/internal/domain"
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
	rg.GET("/hostels", h.ListHostels)
	rg.GET("/hostels/:id/rooms", h.GetHostelRooms)
	rg.GET("/rooms/:id", h.GetRoom)
}

func (h *Handler) ListHostels(c *gin.Context) {
	hostels, err := h.service.ListHostels(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list hostels")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"hostels": hostels})
}

func (h *Handler) GetHostelRooms(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid hostel ID")
		return
	}

	hostel, err := h.service.GetHostelRooms(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load hostel")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"hostel": hostel})
}

func (h *Handler) GetRoom(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return
	}

	room, err := h.service.GetRoom(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load room")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"room": room})
}
