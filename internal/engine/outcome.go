package engine

import (
	"fmt"

	"github.com/Golloumette/escape-game/internal/domain"
)

// OutcomeKind — вердикт операции движка.
type OutcomeKind uint8

const (
	// OutcomeIgnored — защитный no-op: неизвестный игрок или устаревшая
	// ссылка на дверь (stale UI).
	OutcomeIgnored OutcomeKind = iota
	// OutcomeBlocked — ход отклонен, состояние не изменилось.
	OutcomeBlocked
	// OutcomeMoved — игрок передвинут, побочные эффекты в Events.
	OutcomeMoved
	// OutcomePendingConfirmation — нужна реакция игрока на "открыть дверь?".
	OutcomePendingConfirmation
	// OutcomePendingPuzzle — дверь ждет решения загадки, пока заперта.
	OutcomePendingPuzzle
)

var outcomeToString = map[OutcomeKind]string{
	OutcomeIgnored:             "IGNORED",
	OutcomeBlocked:             "BLOCKED",
	OutcomeMoved:               "MOVED",
	OutcomePendingConfirmation: "PENDING_CONFIRMATION",
	OutcomePendingPuzzle:       "PENDING_PUZZLE",
}

func (k OutcomeKind) String() string {
	if s, ok := outcomeToString[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// BlockReason — причина отказа для OutcomeBlocked.
type BlockReason string

const (
	BlockTerrain BlockReason = "terrain"
	BlockLocked  BlockReason = "locked"
)

// MoveOutcome — полный результат операции движка: вердикт плюс данные
// для презентационного слоя (куда, что спросить, что перерисовать).
type MoveOutcome struct {
	Kind   OutcomeKind
	Reason BlockReason

	// Целевая клетка операции.
	X, Y int

	// Need — требование двери (для Blocked "locked" и PendingConfirmation).
	// nil у заблокированной дверной клетки означает fail-closed.
	Need *domain.Requirement

	// Puzzle прилагается к OutcomePendingPuzzle.
	Puzzle *domain.PuzzleDef

	// Events — побочные эффекты операции в порядке применения; у
	// заблокированного хода это текстовая подсказка для игрока.
	Events []domain.Event
}

func ignored() MoveOutcome {
	return MoveOutcome{Kind: OutcomeIgnored}
}

func blocked(reason BlockReason, x, y int, need *domain.Requirement) MoveOutcome {
	return MoveOutcome{Kind: OutcomeBlocked, Reason: reason, X: x, Y: y, Need: need}
}

// lockedHint — текст подсказки для запертой двери. Попадает в Events
// заблокированного исхода, UI показывает его как есть.
func lockedHint(need *domain.Requirement) string {
	if need == nil {
		return "The door is sealed shut."
	}
	if *need == domain.NeedAccess {
		return "This door needs an access card."
	}
	return fmt.Sprintf("This door needs the %s key.", *need)
}
