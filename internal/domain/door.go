package domain

// Requirement — что нужно держать в инвентаре, чтобы открыть запертую дверь:
// цветной ключ или карта доступа.
type Requirement string

const (
	NeedRed    Requirement = "red"
	NeedBlue   Requirement = "blue"
	NeedGreen  Requirement = "green"
	NeedAccess Requirement = "access"
)

// Valid проверяет, что требование известно игре.
func (r Requirement) Valid() bool {
	switch r {
	case NeedRed, NeedBlue, NeedGreen, NeedAccess:
		return true
	}
	return false
}

// ItemFor возвращает вид предмета, удовлетворяющий требование.
func (r Requirement) ItemFor() ItemKind {
	if r == NeedAccess {
		return ItemAccessCard
	}
	return ItemKind("key-" + string(r))
}

// Door — метаданные дверной клетки. Идентичность двери — её координаты:
// на одной клетке не бывает двух дверей. Поле Locked меняется движком
// (открытие) или порогом прогресса; обратно дверь никогда не запирается.
type Door struct {
	X      int          `json:"x"`
	Y      int          `json:"y"`
	Locked bool         `json:"locked"`
	Need   *Requirement `json:"need,omitempty"`
	Puzzle *PuzzleDef   `json:"puzzle,omitempty"`
	Reward *ItemKind    `json:"reward,omitempty"`
}

// Pos возвращает позицию двери.
func (d Door) Pos() Position {
	return Position{X: d.X, Y: d.Y}
}

// IsAccess сообщает, гейтится ли дверь картой доступа.
// Такие двери не учитываются в прогрессе и открываются скопом по порогу.
func (d Door) IsAccess() bool {
	return d.Need != nil && *d.Need == NeedAccess
}
