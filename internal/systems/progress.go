package systems

import "github.com/Golloumette/escape-game/internal/domain"

// Progress считает решенные не-access двери. Набор монотонно растет;
// по достижении порога движок открывает все access-двери скопом.
type Progress struct {
	solved map[domain.Position]struct{}
	target int
}

func NewProgress(target int) *Progress {
	return &Progress{
		solved: make(map[domain.Position]struct{}),
		target: target,
	}
}

// RecordSolved отмечает дверь решенной. Идемпотентна: повторная отметка
// той же двери не меняет счетчик.
func (p *Progress) RecordSolved(x, y int) {
	p.solved[domain.Position{X: x, Y: y}] = struct{}{}
}

// SolvedCount возвращает число решенных дверей.
func (p *Progress) SolvedCount() int {
	return len(p.solved)
}

// MeetsThreshold сообщает, достигнут ли порог массового открытия.
func (p *Progress) MeetsThreshold() bool {
	return len(p.solved) >= p.target
}

// Target возвращает порог.
func (p *Progress) Target() int {
	return p.target
}
