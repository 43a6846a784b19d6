package activity

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func RecentHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"items": hub.Recent()})
	}
}

// WSHandler replays recent searches, then streams new ones until the
// client goes away. Anything the client sends is ignored.
func WSHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer hub.Leave(ws)

		if err := hub.Join(ws); err != nil {
			return
		}

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}
}
