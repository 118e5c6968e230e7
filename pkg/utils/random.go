package utils

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

// Палитра игроков. Цвет — чисто косметика, сервер его только пересылает.
var playerPalette = []string{
	"#e74c3c", "#3498db", "#2ecc71", "#f1c40f",
	"#9b59b6", "#e67e22", "#1abc9c", "#fd79a8",
}

// GenerateID создает простой уникальный ID (замена UUID для снижения зависимостей)
func GenerateID() string {
	b := make([]byte, 8) // 16 символов hex
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate random ID: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// RandomColor выбирает цвет игрока из палитры.
func RandomColor() string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(playerPalette))))
	if err != nil {
		return playerPalette[0]
	}
	return playerPalette[n.Int64()]
}
