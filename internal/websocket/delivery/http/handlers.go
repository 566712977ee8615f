package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	ws "github.com/L3pereira/ndgms/internal/websocket"
)

// HandleWebSocket upgrades the HTTP connection to a WebSocket
// connection and hands it to the hub. Clients subscribe to channels by
// sending subscription commands over the established connection.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  h.cfg.ReadBufferSize,
		WriteBufferSize: h.cfg.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf(c.Request.Context(), "internal.websocket.delivery.http.handlers.HandleWebSocket.Upgrade: %v", err)
		return
	}

	subscriberID, err := h.uc.Register(c.Request.Context(), ws.ConnectionInput{Conn: conn})
	if err != nil {
		h.logger.Errorf(c.Request.Context(), "internal.websocket.delivery.http.handlers.HandleWebSocket.Register: %v", err)
		if errors.Is(err, ws.ErrMaxConnectionsReached) {
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "maximum connections reached"))
		}
		conn.Close()
		return
	}

	h.logger.Debugf(c.Request.Context(), "WebSocket connection established: %s", subscriberID)
}

// Stats returns a snapshot of hub counters.
func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.uc.Stats(c.Request.Context()))
}
