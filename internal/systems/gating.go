package systems

import (
	"github.com/Golloumette/escape-game/internal/domain"
	"github.com/Golloumette/escape-game/pkg/gamemap"
)

// StepKind — вердикт гейтинга по одному запрошенному шагу.
type StepKind uint8

const (
	// StepMoved — клетка проходима, игрока можно передвинуть.
	StepMoved StepKind = iota
	// StepBlockedTerrain — стена, пустота или выход за границы.
	StepBlockedTerrain
	// StepBlockedLocked — запертая дверь без подходящего предмета.
	StepBlockedLocked
	// StepNeedsConfirm — запертая дверь, требование выполнено:
	// нужно подтверждение игрока, состояние пока не меняется.
	StepNeedsConfirm
)

// StepResult — результат вычисления шага. Чистые данные, без мутаций.
type StepResult struct {
	Kind StepKind
	X, Y int
	// Need заполняется для StepBlockedLocked и StepNeedsConfirm.
	// nil у заблокированной двери означает fail-closed: двери нет в списке,
	// удовлетворить её нечем.
	Need *domain.Requirement
}

// DoorState — текущее (мутабельное) состояние дверей комнаты.
// Статическая карта знает только стартовые значения; открытые двери
// живут в зеркале сессии.
type DoorState interface {
	DoorAt(x, y int) (domain.Door, bool)
}

// Holder — чье-то хранилище предметов, достаточное для проверки требования.
type Holder interface {
	Has(playerID string, kind domain.ItemKind) bool
}

// CalculateStep решает, что произойдет при шаге с from на (from+dx, from+dy).
// Не меняет состояние мира. Величину дельты не проверяет: вызывающая
// сторона ограничивает ввод единичными шагами.
func CalculateStep(m *gamemap.Map, doors DoorState, inv Holder, playerID string, from domain.Position, dx, dy int) StepResult {
	target := from.Shift(dx, dy)
	res := StepResult{X: target.X, Y: target.Y}

	tile, ok := m.TileAt(target.X, target.Y)
	if !ok || tile == domain.TileWall || tile == domain.TileVoid {
		res.Kind = StepBlockedTerrain
		return res
	}

	if tile == domain.TileFloor {
		res.Kind = StepMoved
		return res
	}

	// Дверная клетка. Двери без записи считаем запертыми намертво (fail-closed).
	door, ok := doors.DoorAt(target.X, target.Y)
	if !ok {
		res.Kind = StepBlockedLocked
		return res
	}

	if !door.Locked {
		res.Kind = StepMoved
		return res
	}

	res.Need = door.Need
	if door.Need == nil || inv.Has(playerID, door.Need.ItemFor()) {
		res.Kind = StepNeedsConfirm
		return res
	}

	res.Kind = StepBlockedLocked
	return res
}
