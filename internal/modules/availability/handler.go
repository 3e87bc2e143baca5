package availability

import (
	"errors"
	"net/http"
	"strconv"

	"roombooking/internal/domain"
	"roombooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/rooms/:id/availability", h.GetAvailability)
	rg.GET("/rooms/:id/availability/ws", h.WatchAvailability)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (h *Handler) GetAvailability(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Query parameter 'date' is required (YYYY-MM-DD)")
		return
	}

	// Zero when the caller is anonymous; OptionalAuth fills it in.
	requestingUser := c.GetInt64("user_id")

	view, err := h.service.ComputeAvailability(c.Request.Context(), roomID, dateStr, requestingUser)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, domain.ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		case errors.Is(err, domain.ErrRoomUnavailable):
			response.Error(c, http.StatusConflict, "ROOM_UNAVAILABLE", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute availability")
		}
		return
	}

	response.Success(c, http.StatusOK, view)
}

// WatchAvailability upgrades to a websocket and streams the room/day
// projection: once on connect, then again after each committed change.
func (h *Handler) WatchAvailability(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return
	}

	dateStr := c.Query("date")
	requestingUser := c.GetInt64("user_id")

	view, err := h.service.ComputeAvailability(c.Request.Context(), roomID, dateStr, requestingUser)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		} else {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		}
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	h.hub.Subscribe(roomID, view.Date, conn)
	defer h.hub.Unsubscribe(roomID, view.Date, conn)

	if err := conn.WriteJSON(view); err != nil {
		return
	}

	// Drain until the client goes away; broadcasts arrive via the hub.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
