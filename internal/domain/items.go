package domain

// ItemKind — вид предмета. Тот же тип используется и для предметов на полу,
// и для содержимого инвентаря.
type ItemKind string

const (
	ItemVaccine    ItemKind = "vaccine"
	ItemAccessCard ItemKind = "access-card"
	ItemKeyRed     ItemKind = "key-red"
	ItemKeyBlue    ItemKind = "key-blue"
	ItemKeyGreen   ItemKind = "key-green"
)

// Valid проверяет, что вид предмета известен игре.
func (k ItemKind) Valid() bool {
	switch k {
	case ItemVaccine, ItemAccessCard, ItemKeyRed, ItemKeyBlue, ItemKeyGreen:
		return true
	}
	return false
}

// Item — предмет, лежащий на полу. После подбора исчезает из мира навсегда.
type Item struct {
	ID   string   `json:"id"`
	Kind ItemKind `json:"kind"`
	Name string   `json:"name"`
	X    int      `json:"x"`
	Y    int      `json:"y"`
}

// Player — один подключенный клиент в комнате.
type Player struct {
	ID    string `json:"id"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Color string `json:"color,omitempty"`
}

// Pos возвращает позицию игрока как Position.
func (p Player) Pos() Position {
	return Position{X: p.X, Y: p.Y}
}
