package relay

import (
	"sync"

	"github.com/Golloumette/escape-game/pkg/gamemap"
	"github.com/Golloumette/escape-game/pkg/logger"
)

// DefaultRoom — комната, в которую попадают join-ы без имени комнаты.
const DefaultRoom = "default"

// Service — реестр комнат. Комнаты создаются лениво при первом join
// и живут до конца процесса: персистентности и выселения нет намеренно.
type Service struct {
	mu    sync.Mutex
	rooms map[string]*Room
	world *gamemap.Map
}

func NewService(world *gamemap.Map) *Service {
	return &Service{
		rooms: make(map[string]*Room),
		world: world,
	}
}

// World возвращает карту, которой засеиваются комнаты.
func (s *Service) World() *gamemap.Map {
	return s.world
}

// EnsureRoom возвращает комнату, создавая её при необходимости.
// Пустое имя означает комнату по умолчанию.
func (s *Service) EnsureRoom(id string) *Room {
	if id == "" {
		id = DefaultRoom
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if room, ok := s.rooms[id]; ok {
		return room
	}

	room := newRoom(id, s.world)
	s.rooms[id] = room
	logger.Log.WithField("room", id).Info("Room created")
	return room
}

// Room возвращает существующую комнату без создания.
func (s *Service) Room(id string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	return room, ok
}

// RoomCount возвращает число живых комнат.
func (s *Service) RoomCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// RoomIDs возвращает имена живых комнат (для debug-эндпоинтов).
func (s *Service) RoomIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	return ids
}
