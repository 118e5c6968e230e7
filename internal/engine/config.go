package engine

import "time"

// DefaultTargetSolved — сколько не-access дверей нужно решить,
// чтобы access-двери открылись скопом.
const DefaultTargetSolved = 6

// Config хранит параметры игровой сессии.
type Config struct {
	// TargetSolved — порог прогресса для массового открытия access-дверей.
	TargetSolved int

	// PuzzleSeed — сид тасовки банка загадок. 0 в NewConfig заменяется
	// текущим временем.
	PuzzleSeed int64
}

// NewConfig создает конфиг по умолчанию (случайный сид загадок).
func NewConfig() Config {
	return Config{
		TargetSolved: DefaultTargetSolved,
		PuzzleSeed:   time.Now().UnixNano(),
	}
}
