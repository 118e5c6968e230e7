package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Golloumette/escape-game/internal/domain"
	"github.com/Golloumette/escape-game/internal/relay"
	"github.com/Golloumette/escape-game/pkg/api"
	"github.com/Golloumette/escape-game/pkg/logger"
	"github.com/Golloumette/escape-game/pkg/utils"
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

// Client - посредник между Websocket и комнатой relay
type Client struct {
	Relay    *relay.Service
	Conn     *websocket.Conn
	Send     chan api.Envelope
	PlayerID string

	room *relay.Room
}

func NewClient(svc *relay.Service, conn *websocket.Conn) *Client {
	return &Client{
		Relay: svc,
		Conn:  conn,
		Send:  make(chan api.Envelope, 256),
	}
}

// readPump читает кадры клиента. Первый кадр обязан быть join: до него
// клиент ни в какой комнате не состоит и ничего не получает.
func (c *Client) readPump() {
	defer func() {
		if c.room != nil {
			c.room.Leave(c.PlayerID)
			c.room.Hub.Unregister(c.PlayerID)
			logger.Log.WithFields(logrus.Fields{
				"player": c.PlayerID,
				"room":   c.room.ID,
			}).Info("Client disconnected")
		}
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close websocket connection")
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

	// 1. HANDSHAKE (JOIN)
	var hello api.Envelope
	if err := c.Conn.ReadJSON(&hello); err != nil {
		logger.Log.Warn("Handshake failed")
		return
	}
	if hello.Event != api.EventJoin {
		logger.Log.WithField("event", hello.Event).Warn("First frame is not join, dropping connection")
		return
	}
	join, err := api.Decode[api.JoinPayload](hello.Payload)
	if err != nil {
		logger.Log.WithError(err).Warn("Malformed join payload")
		return
	}

	c.PlayerID = join.Player.ID
	if c.PlayerID == "" {
		c.PlayerID = utils.GenerateID()
		join.Player.ID = c.PlayerID
	}

	// 2. ВХОД В КОМНАТУ
	c.room = c.Relay.EnsureRoom(join.Room)
	updates := c.room.Hub.Register(c.PlayerID)

	// Пересылка из Hub в writePump
	go func() {
		for msg := range updates {
			c.Send <- msg
		}
		close(c.Send)
	}()

	c.room.Join(domain.Player(join.Player))
	logger.Log.WithFields(logrus.Fields{
		"player": c.PlayerID,
		"room":   c.room.ID,
	}).Info("Client joined")

	// 3. ЦИКЛ ЧТЕНИЯ КАДРОВ
	for {
		var env api.Envelope
		if err := c.Conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Errorf("WS Error: %v", err)
			}
			break
		}
		c.dispatch(env)
	}
}

// dispatch применяет один кадр к комнате. Битые кадры отбрасываются
// с предупреждением, соединение при этом живет дальше.
func (c *Client) dispatch(env api.Envelope) {
	switch env.Event {
	case api.EventPlayerMove:
		move, err := api.Decode[api.MovePayload](env.Payload)
		if err != nil {
			logger.Log.WithError(err).WithField("player", c.PlayerID).Warn("Dropped malformed player:move")
			return
		}
		c.room.Move(c.PlayerID, move.X, move.Y)

	case api.EventDoorOpen:
		open, err := api.Decode[api.DoorOpenPayload](env.Payload)
		if err != nil {
			logger.Log.WithError(err).WithField("player", c.PlayerID).Warn("Dropped malformed door:open")
			return
		}
		c.room.OpenDoor(c.PlayerID, open.X, open.Y)

	case api.EventItemPickup:
		pickup, err := api.Decode[api.ItemPickupPayload](env.Payload)
		if err != nil {
			logger.Log.WithError(err).WithField("player", c.PlayerID).Warn("Dropped malformed item:pickup")
			return
		}
		c.room.PickupItem(c.PlayerID, pickup.ID)

	case api.EventJoin:
		// Повторный join в рамках того же соединения игнорируем.
		logger.Log.WithField("player", c.PlayerID).Warn("Duplicate join ignored")

	default:
		logger.Log.WithFields(logrus.Fields{
			"player": c.PlayerID,
			"event":  env.Event,
		}).Warn("Unknown event")
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
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
