package domain

// Position — координаты клетки на сетке. Начало координат — левый верхний угол,
// ось Y направлена вниз.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Shift возвращает новую позицию, не меняя текущую.
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// TileKind — тип клетки статической карты.
// Значения совпадают с символами текстового описания карты.
type TileKind byte

const (
	TileWall  TileKind = '#'
	TileFloor TileKind = '.'
	TileDoor  TileKind = 'D'
	TileVoid  TileKind = '"' // пустота за пределами здания
)

// ParseTile конвертирует символ описания карты в TileKind.
func ParseTile(c byte) (TileKind, bool) {
	switch TileKind(c) {
	case TileWall, TileFloor, TileDoor, TileVoid:
		return TileKind(c), true
	}
	return 0, false
}

func (t TileKind) String() string {
	return string(rune(t))
}
