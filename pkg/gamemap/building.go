package gamemap

import "github.com/Golloumette/escape-game/internal/domain"

// Встроенная карта по умолчанию: здание из двух рядов комнат вдоль
// центрального коридора. Справа — пустота за пределами здания.
//
// Коды: '#' стена, '.' пол, 'D' дверь, '"' пустота.
var buildingGrid = []string{
	`############################""`,
	`#....#.....#....#....#.....#""`,
	`#....#.....#....#....#.....#""`,
	`#....#.....#....#....#.....#""`,
	`##D####D#####D####D#####D###""`,
	`#..........................#""`,
	`###D#####D####D#####D####D##""`,
	`#....#.....#......#....#...#""`,
	`#....#.....#......#....#...#""`,
	`#....#.....#......#....#...#""`,
	`#....#.....#......#....#...#""`,
	`############################""`,
}

func need(r domain.Requirement) *domain.Requirement { return &r }
func reward(k domain.ItemKind) *domain.ItemKind     { return &k }

// BuildingSource возвращает описание встроенного здания.
func BuildingSource() Source {
	return Source{
		Width:  30,
		Height: 12,
		Grid:   buildingGrid,
		Spawn:  domain.Position{X: 14, Y: 5},
		Doors: []DoorSpec{
			// Верхний ряд комнат.
			{X: 2, Y: 4, Locked: true, Need: need(domain.NeedRed)},
			{X: 7, Y: 4, Locked: true, Riddle: true},
			{X: 13, Y: 4, Locked: true},
			{X: 18, Y: 4, Locked: true, Need: need(domain.NeedGreen), Riddle: true, Reward: reward(domain.ItemAccessCard)},
			{X: 24, Y: 4, Locked: true, Need: need(domain.NeedAccess)},
			// Нижний ряд комнат.
			{X: 3, Y: 6, Locked: true, Need: need(domain.NeedBlue)},
			{X: 9, Y: 6, Locked: true, Riddle: true},
			{X: 14, Y: 6, Locked: false},
			{X: 20, Y: 6, Locked: true, Need: need(domain.NeedAccess)},
			{X: 25, Y: 6, Locked: true, Riddle: true, Reward: reward(domain.ItemKeyGreen)},
		},
		Items: []domain.Item{
			{ID: "k-red", Kind: domain.ItemKeyRed, Name: "Red key", X: 4, Y: 5},
			{ID: "k-blue", Kind: domain.ItemKeyBlue, Name: "Blue key", X: 13, Y: 2},
			{ID: "k-green", Kind: domain.ItemKeyGreen, Name: "Green key", X: 8, Y: 8},
			{ID: "card-1", Kind: domain.ItemAccessCard, Name: "Access card", X: 2, Y: 2},
			{ID: "vac-1", Kind: domain.ItemVaccine, Name: "Vaccine", X: 20, Y: 9},
		},
	}
}

// LoadBuilding загружает встроенное здание с загадками из банка по умолчанию.
func LoadBuilding(puzzleSeed int64) (*Map, error) {
	return Load(BuildingSource(), NewPuzzleAllocator(puzzleSeed))
}
