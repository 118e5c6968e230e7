package api

import (
	"encoding/json"
	"fmt"

	"github.com/Golloumette/escape-game/internal/domain"
)

// Имена событий протокола. Одно имя — одна схема payload-а; никакой
// утиной типизации на границе: каждый входящий payload распаковывается
// в свою структуру и валидируется.
const (
	EventJoin         = "join"
	EventStateInit    = "state:init"
	EventPlayerJoin   = "player:join"
	EventPlayerMove   = "player:move"
	EventPlayerUpdate = "player:update"
	EventDoorOpen     = "door:open"
	EventDoorOpened   = "door:opened"
	EventItemPickup   = "item:pickup"
	EventItemRemoved  = "item:removed"
	EventPlayerLeave  = "player:leave"
)

// Envelope — корневой объект любого сообщения в обе стороны.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Wrap собирает конверт из имени события и payload-а.
func Wrap(event string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", event, err)
	}
	return Envelope{Event: event, Payload: raw}, nil
}

// PlayerView — DTO игрока на проводе.
type PlayerView struct {
	ID    string `json:"id"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Color string `json:"color,omitempty"`
}

// DoorView — DTO двери для снапшота. Сервер шлет только то, что знает сам:
// координаты, замок и требование; загадки остаются на клиенте.
type DoorView struct {
	X      int                 `json:"x"`
	Y      int                 `json:"y"`
	Locked bool                `json:"locked"`
	Need   *domain.Requirement `json:"need,omitempty"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// JoinPayload — первое сообщение соединения. Пустая комната означает
// комнату по умолчанию.
type JoinPayload struct {
	Room   string     `json:"room"`
	Player PlayerView `json:"player"`
}

// MovePayload — новая позиция игрока (player:move).
type MovePayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DoorOpenPayload — клиент открыл дверь (door:open).
type DoorOpenPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ItemPickupPayload — клиент подобрал предмет (item:pickup).
type ItemPickupPayload struct {
	ID string `json:"id"`
}

// --- СЕРВЕР -> КЛИЕНТ ---

// StateInitPayload — полный снапшот комнаты для новичка.
type StateInitPayload struct {
	Players map[string]PlayerView `json:"players"`
	Doors   []DoorView            `json:"doors"`
	Items   []domain.Item         `json:"items"`
}

// PlayerUpdatePayload — чужой игрок передвинулся (player:update).
type PlayerUpdatePayload struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

// DoorOpenedPayload — дверь открыта кем-то в комнате (door:opened).
type DoorOpenedPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ItemRemovedPayload — предмет исчез из мира (item:removed).
type ItemRemovedPayload struct {
	ID string `json:"id"`
}

// PlayerLeavePayload — игрок покинул комнату (player:leave).
type PlayerLeavePayload struct {
	ID string `json:"id"`
}
