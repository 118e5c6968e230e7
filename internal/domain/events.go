package domain

// EventType — внутренний числовой идентификатор события движка.
type EventType uint8

const (
	EventUnknown EventType = iota
	EventDoorOpened
	EventItemRemoved
	EventItemGranted
	EventAccessUnlocked
	EventMessage
)

// Маппинг для логов Domain -> String
var eventToString = map[EventType]string{
	EventDoorOpened:     "DOOR_OPENED",
	EventItemRemoved:    "ITEM_REMOVED",
	EventItemGranted:    "ITEM_GRANTED",
	EventAccessUnlocked: "ACCESS_UNLOCKED",
	EventMessage:        "MESSAGE",
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (e EventType) String() string {
	if val, ok := eventToString[e]; ok {
		return val
	}
	return "UNKNOWN"
}

// Event — побочный эффект успешной операции движка. Движок НЕ трогает
// ни UI, ни сеть: он возвращает события, а вызывающая сторона решает,
// что перерисовать и что отправить в relay.
type Event struct {
	Type EventType

	// Координаты двери для EventDoorOpened.
	X, Y int

	// ItemID и Kind для EventItemRemoved / EventItemGranted.
	ItemID string
	Kind   ItemKind

	// Count для EventAccessUnlocked: сколько access-дверей открыто скопом.
	Count int

	// Text для EventMessage (подсказка игроку).
	Text string
}

// DoorOpenedEvent собирает событие открытия двери.
func DoorOpenedEvent(x, y int) Event {
	return Event{Type: EventDoorOpened, X: x, Y: y}
}

// ItemRemovedEvent собирает событие исчезновения предмета из мира.
func ItemRemovedEvent(id string, kind ItemKind) Event {
	return Event{Type: EventItemRemoved, ItemID: id, Kind: kind}
}

// ItemGrantedEvent собирает событие выдачи награды за загадку.
func ItemGrantedEvent(kind ItemKind) Event {
	return Event{Type: EventItemGranted, Kind: kind}
}

// AccessUnlockedEvent собирает событие массового открытия access-дверей.
func AccessUnlockedEvent(count int) Event {
	return Event{Type: EventAccessUnlocked, Count: count}
}

// MessageEvent собирает текстовое сообщение для игрока.
func MessageEvent(text string) Event {
	return Event{Type: EventMessage, Text: text}
}
