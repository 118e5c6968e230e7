package gamemap

import (
	"math/rand"

	"github.com/Golloumette/escape-game/internal/domain"
)

// Банк загадок по умолчанию. Загадки раздаются дверям при загрузке карты
// через PuzzleAllocator, а не глобальным курсором: у каждой игровой
// сессии своя перетасованная последовательность.
var defaultPuzzles = []domain.PuzzleDef{
	{
		Type:     domain.PuzzleText,
		Question: "I speak without a mouth and hear without ears. What am I?",
		Answer:   "an echo",
		Hint:     "You meet it in the mountains.",
	},
	{
		Type:     domain.PuzzleText,
		Question: "The more you take, the more you leave behind. What are they?",
		Answer:   "footsteps",
	},
	{
		Type:         domain.PuzzleMCQ,
		Question:     "Which switch powers the cold room?",
		Choices:      []string{"The red one", "The blue one", "The green one"},
		CorrectIndex: 1,
		Hint:         "Cold is usually blue.",
	},
	{
		Type:     domain.PuzzleTF,
		Question: "The vaccine must be stored above zero degrees.",
		Correct:  false,
	},
	{
		Type:     domain.PuzzleText,
		Question: "What has keys but opens no locks?",
		Answer:   "a piano",
	},
	{
		Type:         domain.PuzzleMCQ,
		Question:     "What is the door code written backwards on the whiteboard?",
		Choices:      []string{"1337", "7331", "3173"},
		CorrectIndex: 1,
	},
	{
		Type:     domain.PuzzleTF,
		Question: "The lab ventilation runs through the east wing.",
		Correct:  true,
		Hint:     "Check the floor plan by the entrance.",
	},
	{
		Type:     domain.PuzzleText,
		Question: "I am always in front of you but cannot be seen. What am I?",
		Answer:   "the future",
	},
}

// PuzzleAllocator владеет перетасованной копией банка загадок и курсором.
// Создается один раз на загрузку карты и передается лоадеру; скрытого
// состояния на уровне пакета нет.
type PuzzleAllocator struct {
	seq    []domain.PuzzleDef
	cursor int
}

// NewPuzzleAllocator тасует встроенный банк детерминированно по сиду.
func NewPuzzleAllocator(seed int64) *PuzzleAllocator {
	return NewPuzzleAllocatorFrom(defaultPuzzles, seed)
}

// NewPuzzleAllocatorFrom тасует произвольный банк. Исходный слайс не меняется.
func NewPuzzleAllocatorFrom(bank []domain.PuzzleDef, seed int64) *PuzzleAllocator {
	seq := make([]domain.PuzzleDef, len(bank))
	copy(seq, bank)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(seq), func(i, j int) {
		seq[i], seq[j] = seq[j], seq[i]
	})

	return &PuzzleAllocator{seq: seq}
}

// Next выдает следующую загадку, циклически проходя последовательность.
// Возвращается указатель на собственную копию аллокатора: PuzzleDef
// неизменяема, поэтому двери могут делить экземпляр.
func (a *PuzzleAllocator) Next() *domain.PuzzleDef {
	if len(a.seq) == 0 {
		return nil
	}
	p := &a.seq[a.cursor]
	a.cursor = (a.cursor + 1) % len(a.seq)
	return p
}

// Len возвращает размер банка.
func (a *PuzzleAllocator) Len() int {
	return len(a.seq)
}
