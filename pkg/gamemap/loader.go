package gamemap

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Golloumette/escape-game/internal/domain"
)

// Source — статическое текстовое описание карты. Это формат и встроенной
// карты здания, и внешнего JSON-файла (--map).
type Source struct {
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Grid   []string        `json:"grid"`
	Doors  []DoorSpec      `json:"doors"`
	Items  []domain.Item   `json:"items"`
	Spawn  domain.Position `json:"spawn"`
}

// DoorSpec — дверь в описании карты. В отличие от domain.Door, загадка
// здесь не задана текстом: флаг Riddle означает "взять следующую из
// аллокатора при загрузке".
type DoorSpec struct {
	X      int                 `json:"x"`
	Y      int                 `json:"y"`
	Locked bool                `json:"locked"`
	Need   *domain.Requirement `json:"need,omitempty"`
	Riddle bool                `json:"riddle,omitempty"`
	Reward *domain.ItemKind    `json:"reward,omitempty"`
}

// Load строит неизменяемую карту из описания. Описание проверяется целиком:
// кривая карта — ошибка старта сервера, а не сюрприз во время игры.
// Аллокатор обязателен только если в описании есть riddle-двери.
func Load(src Source, puzzles *PuzzleAllocator) (*Map, error) {
	if src.Width <= 0 || src.Height <= 0 {
		return nil, fmt.Errorf("map dimensions must be positive, got %dx%d", src.Width, src.Height)
	}
	if len(src.Grid) != src.Height {
		return nil, fmt.Errorf("grid has %d rows, header says %d", len(src.Grid), src.Height)
	}

	for y, row := range src.Grid {
		if len(row) != src.Width {
			return nil, fmt.Errorf("row %d is %d chars wide, header says %d", y, len(row), src.Width)
		}
		for x := 0; x < len(row); x++ {
			if _, ok := domain.ParseTile(row[x]); !ok {
				return nil, fmt.Errorf("unknown tile %q at (%d,%d)", row[x], x, y)
			}
		}
	}

	m := &Map{
		Width:  src.Width,
		Height: src.Height,
		Spawn:  src.Spawn,
		grid:   append([]string(nil), src.Grid...),
		doors:  make(map[domain.Position]domain.Door, len(src.Doors)),
		items:  make(map[domain.Position][]domain.Item, len(src.Items)),
	}

	for _, spec := range src.Doors {
		door, err := m.buildDoor(spec, puzzles)
		if err != nil {
			return nil, err
		}
		if _, dup := m.doors[door.Pos()]; dup {
			return nil, fmt.Errorf("duplicate door at (%d,%d)", door.X, door.Y)
		}
		m.doors[door.Pos()] = door
		m.doorList = append(m.doorList, door)
	}

	seenIDs := make(map[string]struct{}, len(src.Items))
	for _, it := range src.Items {
		if it.ID == "" {
			return nil, fmt.Errorf("item of kind %q has no id", it.Kind)
		}
		if _, dup := seenIDs[it.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %q", it.ID)
		}
		seenIDs[it.ID] = struct{}{}
		if !it.Kind.Valid() {
			return nil, fmt.Errorf("item %q has unknown kind %q", it.ID, it.Kind)
		}
		tile, ok := m.TileAt(it.X, it.Y)
		if !ok || tile != domain.TileFloor {
			return nil, fmt.Errorf("item %q placed off the floor at (%d,%d)", it.ID, it.X, it.Y)
		}
		pos := domain.Position{X: it.X, Y: it.Y}
		m.items[pos] = append(m.items[pos], it)
		m.itemList = append(m.itemList, it)
	}

	if tile, ok := m.TileAt(src.Spawn.X, src.Spawn.Y); !ok || tile != domain.TileFloor {
		return nil, fmt.Errorf("spawn (%d,%d) is not a floor tile", src.Spawn.X, src.Spawn.Y)
	}

	return m, nil
}

func (m *Map) buildDoor(spec DoorSpec, puzzles *PuzzleAllocator) (domain.Door, error) {
	tile, ok := m.TileAt(spec.X, spec.Y)
	if !ok || tile != domain.TileDoor {
		return domain.Door{}, fmt.Errorf("door at (%d,%d) is not on a door tile", spec.X, spec.Y)
	}
	if spec.Need != nil && !spec.Need.Valid() {
		return domain.Door{}, fmt.Errorf("door at (%d,%d) has unknown requirement %q", spec.X, spec.Y, *spec.Need)
	}
	if spec.Reward != nil && !spec.Reward.Valid() {
		return domain.Door{}, fmt.Errorf("door at (%d,%d) has unknown reward %q", spec.X, spec.Y, *spec.Reward)
	}

	door := domain.Door{
		X:      spec.X,
		Y:      spec.Y,
		Locked: spec.Locked,
		Need:   spec.Need,
		Reward: spec.Reward,
	}
	if spec.Riddle {
		if puzzles == nil {
			return domain.Door{}, fmt.Errorf("door at (%d,%d) wants a riddle but no allocator was given", spec.X, spec.Y)
		}
		door.Puzzle = puzzles.Next()
	}
	return door, nil
}

// LoadFile загружает описание карты из JSON-файла.
func LoadFile(path string, puzzles *PuzzleAllocator) (*Map, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map file: %w", err)
	}
	var src Source
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, fmt.Errorf("parse map file %s: %w", path, err)
	}
	return Load(src, puzzles)
}
