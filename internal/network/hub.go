package network

import (
	"sync"

	"github.com/Golloumette/escape-game/pkg/api"
)

const subscriberBuffer = 100

// Broadcaster рассылает конверты протокола подписчикам одной комнаты.
// Порядок доставки в пределах канала совпадает с порядком Enqueue-ов:
// relay делает их под блокировкой комнаты, поэтому все наблюдатели
// видят мутации в порядке применения.
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: PlayerID -> личный канал
	subscribers map[string]chan api.Envelope
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.Envelope),
	}
}

// Register создает личный канал для игрока. Старый канал того же ID
// закрывается: одно соединение на игрока.
func (b *Broadcaster) Register(playerID string) chan api.Envelope {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.subscribers[playerID]; ok {
		close(old)
	}

	ch := make(chan api.Envelope, subscriberBuffer)
	b.subscribers[playerID] = ch
	return ch
}

// Unregister удаляет подписчика и закрывает его канал.
func (b *Broadcaster) Unregister(playerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[playerID]; ok {
		close(ch)
		delete(b.subscribers, playerID)
	}
}

// SendTo отправляет сообщение конкретному игроку (Unicast).
// Отправка неблокирующая: переполненный канал теряет сообщение,
// но не останавливает комнату.
func (b *Broadcaster) SendTo(playerID string, msg api.Envelope) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ch, ok := b.subscribers[playerID]; ok {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Broadcast отправляет всем в комнате, включая инициатора.
func (b *Broadcaster) Broadcast(msg api.Envelope) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}

// BroadcastExcept отправляет всем, кроме одного (обычно инициатора).
func (b *Broadcaster) BroadcastExcept(exceptID string, msg api.Envelope) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		if id == exceptID {
			continue
		}
		select {
		case ch <- msg:
		default:
		}
	}
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
