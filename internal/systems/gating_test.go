package systems

import (
	"testing"

	"github.com/Golloumette/escape-game/internal/domain"
	"github.com/Golloumette/escape-game/pkg/gamemap"
)

// doorTable — табличное состояние дверей для тестов гейтинга.
type doorTable map[domain.Position]domain.Door

func (t doorTable) DoorAt(x, y int) (domain.Door, bool) {
	d, ok := t[domain.Position{X: x, Y: y}]
	return d, ok
}

// Тестовая карта 6x5:
//
//	######
//	#..D.#   дверь (3,1)
//	#.#".#   стена (2,2), пустота (3,2)
//	#..D.#   дверь (3,3) — записи о ней нет (fail-closed)
//	######
func testMap(t *testing.T) *gamemap.Map {
	t.Helper()
	m, err := gamemap.Load(gamemap.Source{
		Width:  6,
		Height: 5,
		Grid: []string{
			`######`,
			`#..D.#`,
			`#.#".#`,
			`#..D.#`,
			`######`,
		},
		Spawn: domain.Position{X: 1, Y: 1},
	}, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return m
}

func TestCalculateStep_Terrain(t *testing.T) {
	m := testMap(t)
	inv := NewInventory()
	doors := doorTable{}

	cases := []struct {
		name   string
		from   domain.Position
		dx, dy int
	}{
		{"wall", domain.Position{X: 1, Y: 1}, 0, -1},
		{"inner wall", domain.Position{X: 2, Y: 1}, 0, 1},
		{"void", domain.Position{X: 3, Y: 1}, 0, 1},
		{"out of bounds", domain.Position{X: 1, Y: 1}, -2, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := CalculateStep(m, doors, inv, "p1", c.from, c.dx, c.dy)
			if res.Kind != StepBlockedTerrain {
				t.Errorf("Expected StepBlockedTerrain, got %v", res.Kind)
			}
		})
	}

	// Инвентарь не влияет на рельеф.
	inv.Add("p1", domain.ItemAccessCard)
	res := CalculateStep(m, doors, inv, "p1", domain.Position{X: 1, Y: 1}, 0, -1)
	if res.Kind != StepBlockedTerrain {
		t.Error("Inventory must not affect terrain blocking")
	}
}

func TestCalculateStep_Floor(t *testing.T) {
	m := testMap(t)
	res := CalculateStep(m, doorTable{}, NewInventory(), "p1", domain.Position{X: 1, Y: 1}, 1, 0)
	if res.Kind != StepMoved {
		t.Errorf("Expected StepMoved, got %v", res.Kind)
	}
	if res.X != 2 || res.Y != 1 {
		t.Errorf("Expected target (2,1), got (%d,%d)", res.X, res.Y)
	}
}

func TestCalculateStep_FailClosedDoor(t *testing.T) {
	m := testMap(t)
	inv := NewInventory()
	// Полный инвентарь не спасает: двери (3,3) нет в списке.
	for _, k := range []domain.ItemKind{domain.ItemKeyRed, domain.ItemKeyBlue, domain.ItemKeyGreen, domain.ItemAccessCard} {
		inv.Add("p1", k)
	}

	res := CalculateStep(m, doorTable{}, inv, "p1", domain.Position{X: 2, Y: 3}, 1, 0)
	if res.Kind != StepBlockedLocked {
		t.Errorf("Expected StepBlockedLocked, got %v", res.Kind)
	}
	if res.Need != nil {
		t.Errorf("Fail-closed door must report no requirement, got %v", *res.Need)
	}
}

func TestCalculateStep_LockedDoor(t *testing.T) {
	m := testMap(t)
	red := domain.NeedRed
	doors := doorTable{
		{X: 3, Y: 1}: {X: 3, Y: 1, Locked: true, Need: &red},
	}
	inv := NewInventory()
	from := domain.Position{X: 2, Y: 1}

	// Без ключа — заблокировано с указанием требования.
	res := CalculateStep(m, doors, inv, "p1", from, 1, 0)
	if res.Kind != StepBlockedLocked {
		t.Errorf("Expected StepBlockedLocked, got %v", res.Kind)
	}
	if res.Need == nil || *res.Need != domain.NeedRed {
		t.Error("Blocked result must carry the door requirement")
	}

	// С ключом — запрос подтверждения, состояние не меняется.
	inv.Add("p1", domain.ItemKeyRed)
	res = CalculateStep(m, doors, inv, "p1", from, 1, 0)
	if res.Kind != StepNeedsConfirm {
		t.Errorf("Expected StepNeedsConfirm, got %v", res.Kind)
	}

	// Чужой инвентарь не считается.
	res = CalculateStep(m, doors, inv, "p2", from, 1, 0)
	if res.Kind != StepBlockedLocked {
		t.Error("Another player's key must not open the door")
	}
}

func TestCalculateStep_UnlockedAndNoNeedDoors(t *testing.T) {
	m := testMap(t)
	doors := doorTable{
		{X: 3, Y: 1}: {X: 3, Y: 1, Locked: false},
		{X: 3, Y: 3}: {X: 3, Y: 3, Locked: true}, // заперта, но без требования
	}
	inv := NewInventory()

	res := CalculateStep(m, doors, inv, "p1", domain.Position{X: 2, Y: 1}, 1, 0)
	if res.Kind != StepMoved {
		t.Errorf("Open door must be enterable, got %v", res.Kind)
	}

	// Запертая дверь без требования: пустое требование выполнено тривиально.
	res = CalculateStep(m, doors, inv, "p1", domain.Position{X: 2, Y: 3}, 1, 0)
	if res.Kind != StepNeedsConfirm {
		t.Errorf("Locked door without requirement must ask for confirmation, got %v", res.Kind)
	}
	if res.Need != nil {
		t.Error("Requirement must stay nil for a need-less door")
	}
}
