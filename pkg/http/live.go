package http

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"garagemon.xyz/govee-monitor-service/pkg/common"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveHub pushes every stored reading to connected websocket clients
// so dashboards update without polling.
type LiveHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewLiveHub() *LiveHub {
	return &LiveHub{
		clients: make(map[*websocket.Conn]bool),
	}
}

func (h *LiveHub) Handle(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	// Clients only listen; the read loop exists to notice disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *LiveHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *LiveHub) Broadcast(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		common.GetLoggerWith(common.LoggerNameRestfulServer).
			Warn("Failed to marshal live update", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
