package relay

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Golloumette/escape-game/internal/domain"
	"github.com/Golloumette/escape-game/internal/network"
	"github.com/Golloumette/escape-game/pkg/api"
	"github.com/Golloumette/escape-game/pkg/gamemap"
	"github.com/Golloumette/escape-game/pkg/logger"
)

// Room — состояние одной комнаты: зеркало позиций, дверей и предметов
// плюс броадкастер. Relay намеренно наивный: легальность ходов и
// открытий он не перепроверяет, он только применяет и рассылает.
//
// Все мутации и постановка рассылки в очередь происходят под mu,
// поэтому порядок broadcast-ов совпадает с порядком применения.
type Room struct {
	ID  string
	Hub *network.Broadcaster

	mu      sync.Mutex
	players map[string]*domain.Player
	doors   map[domain.Position]*api.DoorView
	items   map[string]domain.Item

	// Порядок для стабильных снапшотов.
	doorOrder []domain.Position
	itemOrder []string

	log *logrus.Entry
}

// newRoom создает комнату, засеянную стартовыми дверями и предметами карты:
// снапшот для новичка — настоящий, а не пустой.
func newRoom(id string, world *gamemap.Map) *Room {
	r := &Room{
		ID:      id,
		Hub:     network.NewBroadcaster(),
		players: make(map[string]*domain.Player),
		doors:   make(map[domain.Position]*api.DoorView),
		items:   make(map[string]domain.Item),
		log:     logger.Log.WithField("room", id),
	}
	for _, d := range world.Doors() {
		view := api.DoorView{X: d.X, Y: d.Y, Locked: d.Locked, Need: d.Need}
		r.doors[d.Pos()] = &view
		r.doorOrder = append(r.doorOrder, d.Pos())
	}
	for _, it := range world.Items() {
		r.items[it.ID] = it
		r.itemOrder = append(r.itemOrder, it.ID)
	}
	return r
}

// Join вставляет игрока, шлет ему снапшот и объявляет остальным.
// Канал игрока должен быть зарегистрирован в Hub до вызова.
func (r *Room) Join(p domain.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := p
	r.players[p.ID] = &cp

	init, err := api.Wrap(api.EventStateInit, r.snapshotLocked())
	if err != nil {
		r.log.WithError(err).Error("failed to build state:init")
		return
	}
	r.Hub.SendTo(p.ID, init)

	joined, err := api.Wrap(api.EventPlayerJoin, api.PlayerView{ID: p.ID, X: p.X, Y: p.Y, Color: p.Color})
	if err != nil {
		r.log.WithError(err).Error("failed to build player:join")
		return
	}
	r.Hub.BroadcastExcept(p.ID, joined)

	r.log.WithFields(logrus.Fields{"player": p.ID, "players": len(r.players)}).Info("Player joined")
}

// Move обновляет сохраненную позицию и рассылает player:update остальным.
// Легальность хода сервер не перепроверяет (известное упрощение).
func (r *Room) Move(playerID string, x, y int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return
	}
	p.X, p.Y = x, y

	msg, err := api.Wrap(api.EventPlayerUpdate, api.PlayerUpdatePayload{ID: playerID, X: x, Y: y})
	if err != nil {
		r.log.WithError(err).Error("failed to build player:update")
		return
	}
	r.Hub.BroadcastExcept(playerID, msg)
}

// OpenDoor помечает дверь открытой в зеркале и рассылает door:opened
// всей комнате, включая инициатора.
func (r *Room) OpenDoor(playerID string, x, y int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if door, ok := r.doors[domain.Position{X: x, Y: y}]; ok {
		door.Locked = false
	} else {
		// Двери нет в зеркале: ретранслируем как есть, клиенты сами решают.
		r.log.WithFields(logrus.Fields{"x": x, "y": y}).Warn("door:open for unknown door")
	}

	msg, err := api.Wrap(api.EventDoorOpened, api.DoorOpenedPayload{X: x, Y: y})
	if err != nil {
		r.log.WithError(err).Error("failed to build door:opened")
		return
	}
	r.Hub.Broadcast(msg)
}

// PickupItem убирает предмет из зеркала, если он еще там, и рассылает
// item:removed всей комнате. Повторный подбор идемпотентен.
func (r *Room) PickupItem(playerID, itemID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, itemID)

	msg, err := api.Wrap(api.EventItemRemoved, api.ItemRemovedPayload{ID: itemID})
	if err != nil {
		r.log.WithError(err).Error("failed to build item:removed")
		return
	}
	r.Hub.Broadcast(msg)
}

// Leave убирает игрока и объявляет player:leave остальным.
func (r *Room) Leave(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[playerID]; !ok {
		return
	}
	delete(r.players, playerID)

	msg, err := api.Wrap(api.EventPlayerLeave, api.PlayerLeavePayload{ID: playerID})
	if err != nil {
		r.log.WithError(err).Error("failed to build player:leave")
		return
	}
	r.Hub.BroadcastExcept(playerID, msg)

	r.log.WithFields(logrus.Fields{"player": playerID, "players": len(r.players)}).Info("Player left")
}

// PlayerCount возвращает число игроков в комнате.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// Snapshot возвращает текущий снапшот комнаты (для debug-эндпоинтов).
func (r *Room) Snapshot() api.StateInitPayload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// snapshotLocked собирает state:init. Вызывается под mu.
func (r *Room) snapshotLocked() api.StateInitPayload {
	snap := api.StateInitPayload{
		Players: make(map[string]api.PlayerView, len(r.players)),
		Doors:   make([]api.DoorView, 0, len(r.doorOrder)),
		Items:   make([]domain.Item, 0, len(r.itemOrder)),
	}
	for id, p := range r.players {
		snap.Players[id] = api.PlayerView{ID: id, X: p.X, Y: p.Y, Color: p.Color}
	}
	for _, pos := range r.doorOrder {
		snap.Doors = append(snap.Doors, *r.doors[pos])
	}
	for _, id := range r.itemOrder {
		if it, ok := r.items[id]; ok {
			snap.Items = append(snap.Items, it)
		}
	}
	return snap
}
