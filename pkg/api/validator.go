package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Validator — интерфейс DTO с самопроверкой. Relay отбрасывает кадры,
// не прошедшие валидацию, вместо того чтобы доверять их форме.
type Validator interface {
	Validate() error
}

// Decode распаковывает payload в структуру T и прогоняет её валидацию.
func Decode[T Validator](raw json.RawMessage) (T, error) {
	var payload T
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, fmt.Errorf("invalid payload format: %w", err)
	}
	if err := payload.Validate(); err != nil {
		return payload, fmt.Errorf("validation failed: %w", err)
	}
	return payload, nil
}

// Пустой Player.ID допустим: сервер выдает такому клиенту свой.
func (p JoinPayload) Validate() error {
	if p.Player.X < 0 || p.Player.Y < 0 {
		return errors.New("player position cannot be negative")
	}
	return nil
}

func (p MovePayload) Validate() error {
	if p.X < 0 || p.Y < 0 {
		return errors.New("position cannot be negative")
	}
	return nil
}

func (p DoorOpenPayload) Validate() error {
	if p.X < 0 || p.Y < 0 {
		return errors.New("door coordinates cannot be negative")
	}
	return nil
}

func (p PlayerUpdatePayload) Validate() error {
	return nil
}

func (p ItemPickupPayload) Validate() error {
	if p.ID == "" {
		return errors.New("item id is required")
	}
	return nil
}
