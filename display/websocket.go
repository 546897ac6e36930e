package battito

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebsocketHandler pushes the live reading to a connected client
// every 100ms until the connection drops.
func (v *View) WebsocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if v.Stats != nil {
		v.Stats.WSClients.Inc()
		defer v.Stats.WSClients.Dec()
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		reading := v.CurrentReading()
		if err := conn.WriteJSON(reading); err != nil {
			return // Connection closed
		}
	}
}
