package server

import (
	"net/http"
	"time"

	"frontline-server/internal/engine"
	"frontline-server/internal/network"
	"frontline-server/pkg/api"
	"frontline-server/pkg/logger"
	"frontline-server/pkg/utils"

	"github.com/gorilla/websocket"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и GameService.
// ConnID выдается сервером при подключении; клиентскому Token не
// доверяем, идентичность определяет соединение.
type Client struct {
	Game   *engine.GameService
	Conn   *websocket.Conn
	ConnID string

	out *network.Outbox
}

func NewClient(game *engine.GameService, conn *websocket.Conn) *Client {
	connID := "c-" + utils.GenerateID()
	return &Client{
		Game:   game,
		Conn:   conn,
		ConnID: connID,
		out:    game.Hub.Register(connID),
	}
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		c.Game.HandleDisconnect(c.ConnID)
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection")
		}
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	logger.Log.WithField("conn_id", c.ConnID).Info("Client connected")

	for {
		var cmd api.ClientCommand
		err := c.Conn.ReadJSON(&cmd)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.WithError(err).Warn("WebSocket read error")
			}
			break
		}
		cmd.Token = c.ConnID
		c.Game.ProcessCommand(c.ConnID, cmd)
	}
}

// writePump отправляет данные клиенту + Ping.
// Мультиплексирует оба класса доставки в одно соединение.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.out.Events:
			if !c.writeMessage(message, ok) {
				return
			}

		case message, ok := <-c.out.Snapshots:
			if !c.writeMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

func (c *Client) writeMessage(message api.ServerMessage, ok bool) bool {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set write deadline")
	}
	if !ok {
		// Хаб закрыл подписку (дисконнект или вытеснение).
		if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			logger.Log.WithError(err).Debug("write close message failed")
		}
		return false
	}
	if err := c.Conn.WriteJSON(message); err != nil {
		logger.Log.WithError(err).Debug("write json message failed")
		return false
	}
	return true
}
