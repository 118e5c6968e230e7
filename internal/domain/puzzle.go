package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// PuzzleKind — тип загадки на двери.
type PuzzleKind string

const (
	PuzzleText PuzzleKind = "text" // свободный текстовый ответ
	PuzzleMCQ  PuzzleKind = "mcq"  // выбор одного из вариантов
	PuzzleTF   PuzzleKind = "tf"   // верно / неверно
)

// PuzzleDef — описание загадки. Неизменяемо после загрузки карты,
// поэтому двери могут безопасно делить один экземпляр.
type PuzzleDef struct {
	Type     PuzzleKind `json:"type"`
	Question string     `json:"question"`
	Hint     string     `json:"hint,omitempty"`

	// Для PuzzleText: эталонный ответ.
	Answer string `json:"answer,omitempty"`

	// Для PuzzleMCQ: варианты и индекс правильного.
	Choices      []string `json:"choices,omitempty"`
	CorrectIndex int      `json:"correctIndex,omitempty"`

	// Для PuzzleTF: правильное утверждение.
	Correct bool `json:"correct,omitempty"`
}

// Answer — ответ игрока. Заполняется поле, соответствующее типу загадки.
type Answer struct {
	Text  string
	Index int
	Truth bool
}

var answerFolder = cases.Fold()

// NormalizeAnswer приводит текстовый ответ к канонической форме:
// регистронезависимо, внешние пробелы отрезаны, внутренние схлопнуты.
func NormalizeAnswer(s string) string {
	return answerFolder.String(strings.Join(strings.Fields(s), " "))
}

// Check проверяет ответ игрока. Текст сравнивается после нормализации,
// варианты — по индексу, tf — по булеву равенству.
// Неизвестный тип загадки не совпадает ни с чем.
func (p *PuzzleDef) Check(a Answer) bool {
	switch p.Type {
	case PuzzleText:
		return NormalizeAnswer(a.Text) == NormalizeAnswer(p.Answer)
	case PuzzleMCQ:
		return a.Index >= 0 && a.Index < len(p.Choices) && a.Index == p.CorrectIndex
	case PuzzleTF:
		return a.Truth == p.Correct
	}
	return false
}
