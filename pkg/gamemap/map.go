package gamemap

import (
	"github.com/Golloumette/escape-game/internal/domain"
)

// Map — неизменяемая модель карты: сетка клеток, двери и стартовые предметы.
// Никакого поведения кроме lookup-ов; вся мутация состояния дверей/предметов
// живет в движке и в relay, которые при старте снимают копии.
type Map struct {
	Width  int
	Height int
	Spawn  domain.Position

	grid  []string
	doors map[domain.Position]domain.Door
	items map[domain.Position][]domain.Item

	// Порядок объявления сохраняем для стабильных снапшотов.
	doorList []domain.Door
	itemList []domain.Item
}

// TileAt возвращает тип клетки. ok=false — выход за границы карты.
func (m *Map) TileAt(x, y int) (domain.TileKind, bool) {
	if y < 0 || y >= m.Height || x < 0 || x >= m.Width {
		return 0, false
	}
	return domain.TileKind(m.grid[y][x]), true
}

// DoorAt возвращает копию метаданных двери на клетке, если они есть.
func (m *Map) DoorAt(x, y int) (domain.Door, bool) {
	d, ok := m.doors[domain.Position{X: x, Y: y}]
	return d, ok
}

// ItemsAt возвращает стартовые предметы на клетке.
func (m *Map) ItemsAt(x, y int) []domain.Item {
	found := m.items[domain.Position{X: x, Y: y}]
	if len(found) == 0 {
		return nil
	}
	out := make([]domain.Item, len(found))
	copy(out, found)
	return out
}

// Doors возвращает копию списка дверей в порядке объявления.
func (m *Map) Doors() []domain.Door {
	out := make([]domain.Door, len(m.doorList))
	copy(out, m.doorList)
	return out
}

// Items возвращает копию списка стартовых предметов в порядке объявления.
func (m *Map) Items() []domain.Item {
	out := make([]domain.Item, len(m.itemList))
	copy(out, m.itemList)
	return out
}
